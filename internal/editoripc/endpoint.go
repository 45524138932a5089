// Package editoripc is the local IPC endpoint an external editor uses to
// toggle breakpoints and receive source jumps and breakpoint-marker
// refreshes. It binds a Unix-domain stream socket under the OS runtime
// directory, accepts one newline-terminated JSON request per connection,
// and exposes outbound helpers the controller calls to drive the editor.
package editoripc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pesticide-dap/pesticide/internal/security"
)

// SocketPath returns the canonical IPC socket path for a session, under
// the OS runtime directory.
func SocketPath(runtimeDir, session string) string {
	return filepath.Join(runtimeDir, "pesticide", session)
}

// ToggleBreakpoint is the editor-driven breakpoint toggle command.
type ToggleBreakpoint struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Endpoint owns the listener and the currently-marked source path.
type Endpoint struct {
	listener   net.Listener
	socketPath string
	logger     *slog.Logger
	limiter    *security.ConnectionLimiter

	requests chan ToggleBreakpoint
	sender   Sender

	currentJumpPath string
}

// Listen binds the Unix-domain socket at <runtimeDir>/pesticide/<session>,
// creating the parent directory if needed. The socket file is removed on
// Close.
func Listen(runtimeDir, session string, logger *slog.Logger) (*Endpoint, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path := SocketPath(runtimeDir, session)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create editor IPC socket directory: %w", err)
	}
	// A stale socket file from a previous, uncleanly terminated run would
	// otherwise make the bind fail with "address already in use".
	_ = os.Remove(path)

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("bind editor IPC socket: %w", err)
	}

	e := &Endpoint{
		listener:   listener,
		socketPath: path,
		logger:     logger,
		limiter:    security.DefaultConnectionLimiter(),
		requests:   make(chan ToggleBreakpoint, 16),
	}

	go e.acceptLoop()

	return e, nil
}

// Requests yields editor-driven toggle_breakpoint commands as they arrive.
// Reserved tags (clear_jump, jump, update_flags) are accepted but produce
// no value here; they exist for editor-initiated refresh requests and are
// logged at debug level.
func (e *Endpoint) Requests() <-chan ToggleBreakpoint {
	return e.requests
}

func (e *Endpoint) acceptLoop() {
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			// Listener closed during shutdown; exit quietly.
			return
		}

		if !e.limiter.Allow() {
			e.logger.Warn("editor IPC connection rate limit exceeded, dropping connection")
			conn.Close()
			continue
		}

		go e.handleConnection(conn)
	}
}

func (e *Endpoint) handleConnection(conn net.Conn) {
	defer conn.Close()

	id := uuid.New().String()[:8]

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		e.logger.Debug("editor IPC connection closed without data", "conn", id, "error", err)
		return
	}

	var envelope struct {
		Cmd string `json:"cmd"`
	}
	if err := json.Unmarshal([]byte(line), &envelope); err != nil {
		e.logger.Warn("editor IPC malformed request, dropping connection", "conn", id, "error", err)
		return
	}

	switch envelope.Cmd {
	case "toggle_breakpoint":
		var req ToggleBreakpoint
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			e.logger.Warn("editor IPC malformed toggle_breakpoint, dropping connection", "conn", id, "error", err)
			return
		}
		e.requests <- req
	case "clear_jump", "jump", "update_flags":
		e.logger.Debug("editor IPC reserved command accepted without effect", "conn", id, "cmd", envelope.Cmd)
	default:
		e.logger.Warn("editor IPC unrecognized command, dropping connection", "conn", id, "cmd", envelope.Cmd)
	}
}

// Close stops accepting connections and removes the socket file.
func (e *Endpoint) Close() error {
	err := e.listener.Close()
	_ = os.Remove(e.socketPath)
	return err
}

// SendOneShot opens session's socket and writes payload, for the
// "--request" one-shot CLI mode: a secondary invocation sends a command to
// an already-running session without holding a persistent connection.
func SendOneShot(runtimeDir, session, payload string) error {
	path := SocketPath(runtimeDir, session)
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("connect to session %q: %w", session, err)
	}
	defer conn.Close()

	if _, err := fmt.Fprintln(conn, payload); err != nil {
		return fmt.Errorf("write request payload: %w", err)
	}
	return nil
}
