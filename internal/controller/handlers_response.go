package controller

import (
	"fmt"

	"github.com/google/go-dap"

	"github.com/pesticide-dap/pesticide/internal/session"
)

// handleResponse dispatches a successful response to its command-specific
// handler. ctx is whatever was stored in the request registry under this
// response's RequestSeq (nil if the request was fire-and-forget).
func (c *Controller) handleResponse(m dap.ResponseMessage, ctx any) []Action {
	switch resp := m.(type) {
	case *dap.InitializeResponse:
		return c.onInitializeResponse(resp)
	case *dap.SetBreakpointsResponse:
		return c.onSetBreakpointsResponse(resp, ctx)
	case *dap.ThreadsResponse:
		return c.onThreadsResponse(resp)
	case *dap.StackTraceResponse:
		return c.onStackTraceResponse(resp, ctx)
	case *dap.ScopesResponse:
		return c.onScopesResponse(resp, ctx)
	case *dap.VariablesResponse:
		return c.onVariablesResponse(resp, ctx)
	case *dap.EvaluateResponse:
		c.model.Console.Append(fmt.Sprintf("= %s", resp.Body.Result))
		return nil
	case *dap.DisconnectResponse:
		return []Action{Quit()}
	default:
		c.logger.Debug("unhandled response", "command", resp.GetResponse().Command)
		return nil
	}
}

func (c *Controller) onInitializeResponse(resp *dap.InitializeResponse) []Action {
	capabilities := resp.Body
	c.model.Capabilities = &capabilities

	launch := &dap.LaunchRequest{
		Request:   dap.Request{Command: "launch"},
		Arguments: marshalLaunchArgs(c.cfg.LaunchArgs),
	}
	return []Action{RequestAction(launch, nil)}
}

func (c *Controller) onSetBreakpointsResponse(resp *dap.SetBreakpointsResponse, ctx any) []Action {
	sb, _ := ctx.(setBreakpointsCtx)
	c.logger.Debug("breakpoints acknowledged", "source", sb.SourcePath, "count", len(resp.Body.Breakpoints))
	return nil
}

func (c *Controller) onThreadsResponse(resp *dap.ThreadsResponse) []Action {
	threads := make([]session.Thread, 0, len(resp.Body.Threads))
	for _, th := range resp.Body.Threads {
		threads = append(threads, session.Thread{ID: th.Id, Name: th.Name})
	}
	c.model.ReplaceThreads(threads)

	if _, ok := c.model.Threads[c.model.CurrentThread]; !ok {
		return nil
	}

	req := &dap.StackTraceRequest{
		Request:   dap.Request{Command: "stackTrace"},
		Arguments: dap.StackTraceArguments{ThreadId: c.model.CurrentThread},
	}
	return []Action{RequestAction(req, stackTraceCtx{ThreadID: c.model.CurrentThread})}
}

func (c *Controller) onStackTraceResponse(resp *dap.StackTraceResponse, ctx any) []Action {
	stCtx, ok := ctx.(stackTraceCtx)
	if !ok {
		return nil
	}

	frames := make([]session.StackFrame, 0, len(resp.Body.StackFrames))
	for _, f := range resp.Body.StackFrames {
		frame := session.StackFrame{
			ID:               f.Id,
			Name:             f.Name,
			Line:             f.Line,
			Column:           f.Column,
			PresentationHint: f.PresentationHint,
		}
		if f.Source != nil {
			frame.SourcePath = f.Source.Path
			frame.SourceName = f.Source.Name
		}
		frames = append(frames, frame)
	}
	c.model.StackFrames[stCtx.ThreadID] = frames

	if len(frames) == 0 {
		c.model.CurrentFrame = 0
		return nil
	}

	c.model.CurrentFrame = frames[0].ID
	req := &dap.ScopesRequest{
		Request:   dap.Request{Command: "scopes"},
		Arguments: dap.ScopesArguments{FrameId: frames[0].ID},
	}
	return []Action{Jump(), RequestAction(req, scopesCtx{FrameID: frames[0].ID})}
}

func (c *Controller) onScopesResponse(resp *dap.ScopesResponse, ctx any) []Action {
	scCtx, ok := ctx.(scopesCtx)
	if !ok {
		return nil
	}

	scopes := make([]session.Scope, 0, len(resp.Body.Scopes))
	var actions []Action
	for _, s := range resp.Body.Scopes {
		scopes = append(scopes, session.Scope{
			Name:               s.Name,
			VariablesReference: s.VariablesReference,
			Expensive:          s.Expensive,
		})
		if s.VariablesReference > 0 {
			req := &dap.VariablesRequest{
				Request:   dap.Request{Command: "variables"},
				Arguments: dap.VariablesArguments{VariablesReference: s.VariablesReference},
			}
			actions = append(actions, RequestAction(req, variablesCtx{Ref: s.VariablesReference}))
		}
	}
	c.model.Scopes[scCtx.FrameID] = scopes
	return actions
}

func (c *Controller) onVariablesResponse(resp *dap.VariablesResponse, ctx any) []Action {
	vCtx, ok := ctx.(variablesCtx)
	if !ok {
		return nil
	}

	vars := make([]session.Variable, 0, len(resp.Body.Variables))
	for _, v := range resp.Body.Variables {
		vars = append(vars, session.Variable{
			Name:               v.Name,
			Value:              v.Value,
			VariablesReference: v.VariablesReference,
		})
	}
	c.model.Variables[vCtx.Ref] = vars
	return nil
}
