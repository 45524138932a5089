// Package controller implements the session controller: the single-task
// event loop that drives the DAP state machine, holds the authoritative
// session model, and fans events out to the UI and editor collaborators
// via an explicit action list.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/go-dap"

	"github.com/pesticide-dap/pesticide/internal/config"
	"github.com/pesticide-dap/pesticide/internal/debuggee"
	"github.com/pesticide-dap/pesticide/internal/editoripc"
	"github.com/pesticide-dap/pesticide/internal/metrics"
	"github.com/pesticide-dap/pesticide/internal/protocol"
	"github.com/pesticide-dap/pesticide/internal/session"
	"github.com/pesticide-dap/pesticide/internal/transport"
	"github.com/pesticide-dap/pesticide/internal/ui"
)

// Controller owns the session model and drives its single event loop. It
// is not safe for concurrent use beyond the goroutines it starts itself
// (stderr draining, debuggee stdout forwarding): all state transitions
// happen on the loop goroutine.
type Controller struct {
	cfg       *config.Config
	transport *transport.Transport
	model     *session.Model
	metrics   *metrics.Tracker
	logger    *slog.Logger

	ui     ui.Adapter
	editor *editoripc.Endpoint

	supervisor    *debuggee.Supervisor
	debuggeeLines chan string

	pendingChain int64
}

// New wires a controller over an already-spawned transport. The editor
// and UI adapters are optional; a nil editor disables editor IPC wiring,
// and a nil ui defaults to a headless no-op adapter.
func New(cfg *config.Config, tr *transport.Transport, editor *editoripc.Endpoint, uiAdapter ui.Adapter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if uiAdapter == nil {
		uiAdapter = ui.NewHeadless()
	}
	return &Controller{
		cfg:           cfg,
		transport:     tr,
		model:         session.NewModel(),
		metrics:       metrics.NewTracker(),
		logger:        logger,
		ui:            uiAdapter,
		editor:        editor,
		debuggeeLines: make(chan string, 64),
	}
}

// Model exposes the session model for read-only inspection (tests).
func (c *Controller) Model() *session.Model { return c.model }

// Metrics returns a snapshot of session diagnostics counters.
func (c *Controller) Metrics() metrics.Snapshot { return c.metrics.Snapshot() }

// Start sends the initial "initialize" request, beginning the handshake.
// The rest of the handshake (launch, configurationDone) proceeds from the
// response/event handlers as their triggers arrive.
func (c *Controller) Start() error {
	req := &dap.InitializeRequest{
		Request: dap.Request{Command: "initialize"},
		Arguments: dap.InitializeRequestArguments{
			ClientID:                     "pesticide",
			ClientName:                   "Pesticide",
			AdapterID:                    c.cfg.AdapterID,
			Locale:                       "en-US",
			LinesStartAt1:                true,
			ColumnsStartAt1:              true,
			PathFormat:                   "path",
			SupportsRunInTerminalRequest: true,
		},
	}
	return c.sendRequest(req, nil, false)
}

// Run is the main event loop. It multiplexes adapter inbound messages,
// debuggee stdout lines, editor IPC requests, and UI input events, and
// dispatches the action list each handler returns. Run returns when a
// Quit action is processed or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	var editorRequests <-chan editoripc.ToggleBreakpoint
	if c.editor != nil {
		editorRequests = c.editor.Requests()
	}

	adapterMsgs := make(chan dap.Message, 1)
	adapterErrs := make(chan error, 1)
	go func() {
		for {
			msg, err := c.transport.Recv()
			if err != nil {
				var parseErr *protocol.ParseError
				if errors.As(err, &parseErr) {
					c.logger.Warn("skipping undecodable adapter message", "error", err)
					continue
				}
				adapterErrs <- err
				return
			}
			adapterMsgs <- msg
		}
	}()

	for {
		var actions []Action

		select {
		case <-ctx.Done():
			c.teardown()
			return ctx.Err()

		case err := <-adapterErrs:
			c.logger.Info("adapter connection closed", "error", err)
			actions = []Action{Quit()}

		case msg := <-adapterMsgs:
			actions = c.handleInbound(msg)

		case line := <-c.debuggeeLines:
			c.model.Console.Append(line)
			actions = []Action{Redraw()}

		case ev := <-c.ui.Events():
			actions = c.handleUIEvent(ev)

		case req := <-editorRequests:
			actions = c.handleEditorToggle(req)
		}

		if c.dispatch(actions) {
			return nil
		}
	}
}

func (c *Controller) handleInbound(msg dap.Message) []Action {
	switch m := msg.(type) {
	case dap.RequestMessage:
		return c.handleReverseRequest(m)
	case dap.ResponseMessage:
		return c.handleResponseMessage(m)
	case dap.EventMessage:
		return c.handleEventMessage(m)
	default:
		c.logger.Debug("unrecognized inbound message", "type", fmt.Sprintf("%T", msg))
		return nil
	}
}

func (c *Controller) handleResponseMessage(m dap.ResponseMessage) []Action {
	resp := m.GetResponse()
	c.metrics.RecordResponse(resp.Success)

	ctx, known := c.transport.TakeRequest(resp.RequestSeq)
	if !known {
		c.logger.Debug("response with no matching request, ignoring", "seq", resp.RequestSeq, "command", resp.Command)
		return nil
	}

	if resp.Command == "threads" || resp.Command == "stackTrace" || resp.Command == "scopes" || resp.Command == "variables" {
		atomic.AddInt64(&c.pendingChain, -1)
	}

	if !resp.Success {
		c.logger.Error("adapter reported failure", "command", resp.Command, "message", resp.Message)
		return c.maybeChainRedraw(nil)
	}

	return c.maybeChainRedraw(c.handleResponse(m, ctx))
}

// maybeChainRedraw appends a Redraw action once the outstanding
// stopped-refresh chain (threads -> stackTrace -> scopes -> variables)
// has fully drained, coalescing multi-step refreshes into a single
// repaint.
func (c *Controller) maybeChainRedraw(actions []Action) []Action {
	if atomic.LoadInt64(&c.pendingChain) != 0 {
		return actions
	}
	for _, action := range actions {
		if action.Kind == ActionRequest && isChainCommand(action.Request) {
			return actions
		}
	}
	return append(actions, Redraw())
}

func (c *Controller) dispatch(actions []Action) (quit bool) {
	for _, action := range actions {
		switch action.Kind {
		case ActionRedraw:
			c.ui.Render(c.snapshot())
		case ActionJump:
			if c.editor != nil {
				if frame, ok := c.model.CurrentStackFrame(); ok {
					if err := c.editor.Jump(frame.SourcePath, frame.Line, frame.Column); err != nil {
						c.logger.Warn("editor jump failed", "error", err)
					}
				}
			}
		case ActionClearJump:
			if c.editor != nil {
				if err := c.editor.ClearJump(); err != nil {
					c.logger.Warn("editor clear jump failed", "error", err)
				}
			}
		case ActionUpdateBreakpoints:
			if c.editor != nil {
				if err := c.editor.UpdateBreakpoints(c.model.Breakpoints); err != nil {
					c.logger.Warn("editor breakpoint refresh failed", "error", err)
				}
			}
		case ActionRequest:
			if err := c.sendRequest(action.Request, action.Args, isChainCommand(action.Request)); err != nil {
				c.logger.Error("failed to send request", "error", err)
			}
		case ActionQuit:
			c.teardown()
			return true
		}
	}
	return false
}

func isChainCommand(req dap.RequestMessage) bool {
	switch req.GetRequest().Command {
	case "threads", "stackTrace", "scopes", "variables":
		return true
	default:
		return false
	}
}

func (c *Controller) sendRequest(req dap.RequestMessage, args any, chainMember bool) error {
	command := req.GetRequest().Command
	_, err := c.transport.SendRequest(req, args)
	if err != nil {
		return err
	}
	c.metrics.RecordRequest(command)
	if chainMember {
		atomic.AddInt64(&c.pendingChain, 1)
	}
	return nil
}

func (c *Controller) snapshot() ui.Snapshot {
	frame, hasFrame := c.model.CurrentStackFrame()
	threads := make([]session.Thread, 0, len(c.model.Threads))
	for _, th := range c.model.Threads {
		threads = append(threads, th)
	}
	stopped := make(map[int]session.Stopped, len(c.model.Stopped))
	for id, s := range c.model.Stopped {
		stopped[id] = s
	}
	return ui.Snapshot{
		Capabilities:  c.model.Capabilities != nil,
		Threads:       threads,
		CurrentThread: c.model.CurrentThread,
		CurrentFrame:  frame,
		HasFrame:      hasFrame,
		Scopes:        c.model.Scopes[c.model.CurrentFrame],
		Stopped:       stopped,
		Console:       c.model.Console.Lines(),
	}
}

func (c *Controller) teardown() {
	if c.supervisor != nil {
		_ = c.supervisor.Close()
	}
	if c.editor != nil {
		_ = c.editor.Close()
	}
	if err := c.transport.Quit(); err != nil {
		c.logger.Warn("error terminating adapter", "error", err)
	}
}

// marshalLaunchArgs forwards the configured opaque launch payload
// unmodified, as json.RawMessage, the way dap.LaunchRequest.Arguments
// expects it.
func marshalLaunchArgs(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}
