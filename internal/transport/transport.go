// Package transport owns the debug adapter child process: its stdio pipes,
// the outbound sequence counter, and the request registry used to
// correlate responses with the requests that triggered them.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/google/go-dap"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pesticide-dap/pesticide/internal/protocol"
)

// AdapterSpawnFailedError reports that the adapter child process could not
// be started.
type AdapterSpawnFailedError struct {
	Command string
	Err     error
}

func (e *AdapterSpawnFailedError) Error() string {
	return fmt.Sprintf("failed to start debug adapter %q: %v", e.Command, e.Err)
}

func (e *AdapterSpawnFailedError) Unwrap() error { return e.Err }

// Transport spawns and speaks to a debug adapter child process over stdio.
// It is safe for concurrent use: the Send methods may be called from the
// controller's main loop while Recv is read on another goroutine, and
// stderr is drained on an auxiliary goroutine.
type Transport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	dec    *protocol.Decoder
	enc    *protocol.Encoder
	seq    int64
	logger *slog.Logger

	pendingMu sync.Mutex
	pending   map[int]any // requestSeq -> original request arguments

	eg     *errgroup.Group
	egCtx  context.Context
	cancel context.CancelFunc
}

// Spawn starts the adapter executable with the given argv and wires its
// stdio. Stderr lines are logged at error level on an auxiliary goroutine
// without blocking the protocol path.
func Spawn(ctx context.Context, command string, args []string, logger *slog.Logger) (*Transport, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &AdapterSpawnFailedError{Command: command, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &AdapterSpawnFailedError{Command: command, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &AdapterSpawnFailedError{Command: command, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &AdapterSpawnFailedError{Command: command, Err: err}
	}

	t := Open(ctx, stdin, stdout, stderr, logger)
	t.cmd = cmd
	return t, nil
}

// Open wires a Transport over already-open streams, without spawning a
// process: for an adapter reached over a socket or pipe it did not itself
// spawn (the DAP "attach"-style transport case), or, in tests, over
// in-memory pipes to exercise seq/registry/framing behavior without an
// adapter binary.
func Open(ctx context.Context, stdin io.WriteCloser, stdout, stderr io.Reader, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}

	egCtx, cancel := context.WithCancel(ctx)
	eg, egCtx := errgroup.WithContext(egCtx)

	t := &Transport{
		stdin:   stdin,
		dec:     protocol.NewDecoder(bufio.NewReader(stdout)),
		enc:     protocol.NewEncoder(stdin),
		logger:  logger,
		pending: make(map[int]any),
		eg:      eg,
		egCtx:   egCtx,
		cancel:  cancel,
	}

	if stderr != nil {
		eg.Go(func() error {
			t.drainStderr(stderr)
			return nil
		})
	}

	return t
}

func (t *Transport) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		t.logger.Error("debug adapter stderr", "line", scanner.Text())
	}
}

// NextSeq allocates and returns the next outbound sequence number.
func (t *Transport) NextSeq() int {
	return int(atomic.AddInt64(&t.seq, 1))
}

// UpdateSeq advances the local sequence counter past any seq the adapter
// has used, per the "update_seq" rule: the next locally generated seq must
// be greater than every seq observed so far.
func (t *Transport) UpdateSeq(incoming int) {
	for {
		cur := atomic.LoadInt64(&t.seq)
		if int64(incoming) < cur {
			return
		}
		if atomic.CompareAndSwapInt64(&t.seq, cur, int64(incoming)+1) {
			return
		}
	}
}

// SendRequest allocates a seq, stamps it onto req, stores args in the
// request registry under that seq, and writes the request frame.
func (t *Transport) SendRequest(req dap.RequestMessage, args any) (int, error) {
	seq := t.NextSeq()
	base := req.GetRequest()
	base.Seq = seq
	base.Type = "request"

	t.pendingMu.Lock()
	t.pending[seq] = args
	t.pendingMu.Unlock()

	if err := t.enc.Encode(req); err != nil {
		return seq, errors.Wrap(err, "write request frame")
	}
	return seq, nil
}

// SendResponse writes a response frame with a freshly allocated seq.
func (t *Transport) SendResponse(resp dap.ResponseMessage) error {
	base := resp.GetResponse()
	base.Seq = t.NextSeq()
	base.Type = "response"
	return errors.Wrap(t.enc.Encode(resp), "write response frame")
}

// SendEvent writes an event frame with a freshly allocated seq. Unused by
// this client role today (the client never originates events) but kept
// symmetrical with SendResponse for completeness.
func (t *Transport) SendEvent(ev dap.EventMessage) error {
	base := ev.GetEvent()
	base.Seq = t.NextSeq()
	base.Type = "event"
	return errors.Wrap(t.enc.Encode(ev), "write event frame")
}

// TakeRequest removes and returns the stored arguments for requestSeq, or
// ok=false if no such entry exists (already taken, or never stored).
func (t *Transport) TakeRequest(requestSeq int) (any, bool) {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	args, ok := t.pending[requestSeq]
	if ok {
		delete(t.pending, requestSeq)
	}
	return args, ok
}

// Recv blocks until the next inbound DAP message is framed and decoded.
func (t *Transport) Recv() (dap.Message, error) {
	msg, err := t.dec.Decode()
	if err != nil {
		return nil, err
	}
	t.UpdateSeq(msg.GetSeq())
	return msg, nil
}

// Quit terminates the adapter child. Safe to call more than once.
func (t *Transport) Quit() error {
	t.cancel()
	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	err := t.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	_ = t.eg.Wait()
	return nil
}
