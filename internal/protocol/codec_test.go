package protocol

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	req := &dap.InitializeRequest{
		Request: dap.Request{
			ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "request"},
			Command:         "initialize",
		},
		Arguments: dap.InitializeRequestArguments{
			ClientID:        "pesticide",
			AdapterID:       "test",
			LinesStartAt1:   true,
			ColumnsStartAt1: true,
			PathFormat:      "path",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(req))

	decoded, err := NewDecoder(&buf).Decode()
	require.NoError(t, err)

	got, ok := decoded.(*dap.InitializeRequest)
	require.True(t, ok, "expected *dap.InitializeRequest, got %T", decoded)
	require.Equal(t, req.Seq, got.Seq)
	require.Equal(t, req.Command, got.Command)
	require.Equal(t, req.Arguments.ClientID, got.Arguments.ClientID)
}

func TestDecodeNonDAPFrameIsRecoverableParseError(t *testing.T) {
	valid := `{"seq":2,"type":"request","command":"next","arguments":{"threadId":1}}`
	stream := "Content-Length: 2\r\n\r\n{}" +
		fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(valid), valid)
	dec := NewDecoder(bytes.NewReader([]byte(stream)))

	_, err := dec.Decode()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	// The decoder must have advanced past the malformed frame and be ready
	// to read the next one.
	msg, err := dec.Decode()
	require.NoError(t, err)
	require.NotNil(t, msg)
}
