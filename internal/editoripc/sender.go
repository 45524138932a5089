package editoripc

import "github.com/pesticide-dap/pesticide/internal/session"

// Sender delivers editor-specific scripts that implement a jump, a jump
// clear, or a breakpoint marker refresh. Each method is fire-and-forget:
// the endpoint does not wait for acknowledgement. KakouneSender below is
// the one concrete implementation, targeting Kakoune's own pipe-to-session
// mechanism.
type Sender interface {
	SendJump(path string, line, column int) error
	SendClearJump(path string) error
	SendBreakpoints(breakpoints map[string][]session.Breakpoint) error
}

// SetSender installs the outbound script sender used by Jump, ClearJump,
// and UpdateBreakpoints.
func (e *Endpoint) SetSender(s Sender) {
	e.sender = s
}

// Jump marks source_path:line as the current step location. If a
// different file was previously marked, its marker is cleared first.
func (e *Endpoint) Jump(path string, line, column int) error {
	if e.sender == nil {
		return nil
	}
	if e.currentJumpPath != "" && e.currentJumpPath != path {
		if err := e.sender.SendClearJump(e.currentJumpPath); err != nil {
			e.logger.Warn("editor IPC clear jump failed", "error", err)
		}
	}
	e.currentJumpPath = path
	return e.sender.SendJump(path, line, column)
}

// ClearJump clears the current step marker, if any.
func (e *Endpoint) ClearJump() error {
	if e.sender == nil || e.currentJumpPath == "" {
		return nil
	}
	path := e.currentJumpPath
	e.currentJumpPath = ""
	return e.sender.SendClearJump(path)
}

// UpdateBreakpoints refreshes the editor's breakpoint markers regardless
// of whether the adapter accepted the underlying setBreakpoints request.
func (e *Endpoint) UpdateBreakpoints(breakpoints map[string][]session.Breakpoint) error {
	if e.sender == nil {
		return nil
	}
	return e.sender.SendBreakpoints(breakpoints)
}
