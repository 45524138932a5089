// Package protocol implements the Content-Length framed JSON wire codec used
// to speak the Debug Adapter Protocol over a byte stream.
package protocol

import "fmt"

// MalformedHeaderError is returned when a frame's header block cannot be
// parsed: a header line without a colon, or a frame with no Content-Length
// header at all.
type MalformedHeaderError struct {
	Line string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header: %q", e.Line)
}

// ParseError wraps a failure to decode a framed body as a DAP message. The
// frame itself was well-formed; only its JSON content was not. Callers may
// continue reading the next frame.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
