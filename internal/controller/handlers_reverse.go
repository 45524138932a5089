package controller

import (
	"fmt"

	"github.com/google/go-dap"

	"github.com/pesticide-dap/pesticide/internal/debuggee"
)

// handleReverseRequest answers an adapter-originated request. Unlike a
// client-originated request, the response here is written immediately and
// directly: there is no derived chain waiting on it.
func (c *Controller) handleReverseRequest(m dap.RequestMessage) []Action {
	req := m.GetRequest()

	switch r := m.(type) {
	case *dap.RunInTerminalRequest:
		c.onRunInTerminalRequest(r)
		return nil
	default:
		c.logger.Warn("unhandled reverse request, replying with failure", "command", req.Command)
		c.replyFailure(req, "unsupported reverse request: "+req.Command)
		return nil
	}
}

func (c *Controller) onRunInTerminalRequest(req *dap.RunInTerminalRequest) {
	kind := debuggee.KindIntegrated
	if req.Arguments.Kind == "external" {
		kind = debuggee.KindExternal
	}

	env := make(map[string]string, len(req.Arguments.Env))
	for k, v := range req.Arguments.Env {
		env[k] = fmt.Sprint(v)
	}

	if c.supervisor != nil {
		_ = c.supervisor.Close()
	}
	c.supervisor = &debuggee.Supervisor{}

	pid, err := c.supervisor.Spawn(debuggee.SpawnRequest{
		Kind: kind,
		Args: req.Arguments.Args,
		Cwd:  req.Arguments.Cwd,
		Env:  env,
	}, debuggee.TermCmd(c.cfg.TermCmd), func(line string) {
		c.debuggeeLines <- line
	})
	if err != nil {
		c.logger.Error("failed to run debuggee in terminal", "error", err)
		c.replyFailure(req.GetRequest(), err.Error())
		return
	}

	resp := &dap.RunInTerminalResponse{
		Response: dap.Response{
			RequestSeq: req.Seq,
			Success:    true,
			Command:    req.Command,
		},
		Body: dap.RunInTerminalResponseBody{
			ProcessId: pid,
		},
	}
	if err := c.transport.SendResponse(resp); err != nil {
		c.logger.Error("failed to send runInTerminal response", "error", err)
	}
}

func (c *Controller) replyFailure(req dap.Request, message string) {
	resp := &dap.ErrorResponse{
		Response: dap.Response{
			RequestSeq: req.Seq,
			Success:    false,
			Command:    req.Command,
			Message:    message,
		},
	}
	resp.Body.Error = &dap.ErrorMessage{Format: message}
	if err := c.transport.SendResponse(resp); err != nil {
		c.logger.Error("failed to send error response", "error", err)
	}
}
