package transport

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/require"

	"github.com/pesticide-dap/pesticide/internal/protocol"
)

// pipeTransport wires a Transport to an in-process fake adapter: writes made
// by the transport are readable on the returned decoder, and messages
// written through the returned encoder are readable by the transport.
func pipeTransport(t *testing.T) (*Transport, *protocol.Decoder, *protocol.Encoder) {
	t.Helper()

	toAdapter, fromTransport := io.Pipe()
	toTransport, fromAdapter := io.Pipe()

	tr := Open(context.Background(), toAdapter, toTransport, nil, nil)
	t.Cleanup(func() { _ = tr.Quit() })

	return tr, protocol.NewDecoder(fromTransport), protocol.NewEncoder(fromAdapter)
}

func TestSeqStrictlyIncreasing(t *testing.T) {
	tr, _, _ := pipeTransport(t)

	a := tr.NextSeq()
	b := tr.NextSeq()
	c := tr.NextSeq()
	require.Less(t, a, b)
	require.Less(t, b, c)
}

func TestUpdateSeqAdvancesPastIncoming(t *testing.T) {
	tr, _, _ := pipeTransport(t)

	tr.UpdateSeq(10)
	next := tr.NextSeq()
	require.Greater(t, next, 10)
}

func TestUpdateSeqIgnoresLowerValues(t *testing.T) {
	tr, _, _ := pipeTransport(t)

	tr.UpdateSeq(100)
	tr.UpdateSeq(5)
	next := tr.NextSeq()
	require.Greater(t, next, 100)
}

func TestSendRequestStoresAndTakeRequestRemovesOnce(t *testing.T) {
	tr, dec, _ := pipeTransport(t)

	req := &dap.InitializeRequest{
		Request: dap.Request{Command: "initialize"},
	}
	type launchCtx struct{ Name string }
	seq, err := tr.SendRequest(req, launchCtx{Name: "test"})
	require.NoError(t, err)

	msg, err := dec.Decode()
	require.NoError(t, err)
	got := msg.(*dap.InitializeRequest)
	require.Equal(t, seq, got.Seq)
	require.Equal(t, "request", got.Type)

	args, ok := tr.TakeRequest(seq)
	require.True(t, ok)
	require.Equal(t, launchCtx{Name: "test"}, args)

	_, ok = tr.TakeRequest(seq)
	require.False(t, ok, "a second take must find nothing")
}

func TestRecvAdvancesSeqPastAdapterMessages(t *testing.T) {
	tr, _, enc := pipeTransport(t)

	ev := &dap.StoppedEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: 50, Type: "event"},
			Event:           "stopped",
		},
		Body: dap.StoppedEventBody{Reason: "breakpoint", ThreadId: 1},
	}

	done := make(chan error, 1)
	go func() { done <- enc.Encode(ev) }()

	msg, err := tr.Recv()
	require.NoError(t, err)
	require.Equal(t, 50, msg.GetSeq())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("encode goroutine did not complete")
	}

	next := tr.NextSeq()
	require.Greater(t, next, 50)
}
