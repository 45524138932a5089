package controller

import (
	"fmt"

	"github.com/google/go-dap"
)

// handleEventMessage dispatches an adapter-originated event to its
// command-specific handler.
func (c *Controller) handleEventMessage(m dap.EventMessage) []Action {
	ev := m.GetEvent()
	c.metrics.RecordEvent(ev.Event)

	switch e := m.(type) {
	case *dap.InitializedEvent:
		return c.onInitializedEvent()
	case *dap.StoppedEvent:
		return c.onStoppedEvent(e)
	case *dap.ContinuedEvent:
		return c.onContinuedEvent(e)
	case *dap.ThreadEvent:
		return c.onThreadEvent(e)
	case *dap.OutputEvent:
		return c.onOutputEvent(e)
	case *dap.BreakpointEvent:
		c.logger.Debug("breakpoint event", "reason", e.Body.Reason, "line", e.Body.Breakpoint.Line)
		return []Action{UpdateBreakpoints(), Redraw()}
	case *dap.ModuleEvent:
		c.logger.Debug("module event", "reason", e.Body.Reason, "module", e.Body.Module.Name)
		return nil
	case *dap.CapabilitiesEvent:
		capabilities := e.Body.Capabilities
		c.model.Capabilities = &capabilities
		return []Action{Redraw()}
	case *dap.InvalidatedEvent:
		return c.requestThreadsRefresh()
	case *dap.ProcessEvent:
		c.logger.Info("debuggee process", "name", e.Body.Name, "pid", e.Body.SystemProcessId)
		return nil
	case *dap.ExitedEvent:
		c.logger.Info("debuggee exited", "exitCode", e.Body.ExitCode)
		return []Action{Redraw()}
	case *dap.TerminatedEvent:
		return []Action{Quit()}
	default:
		c.logger.Debug("unhandled event", "event", ev.Event)
		return nil
	}
}

func (c *Controller) onInitializedEvent() []Action {
	actions := make([]Action, 0, len(c.model.Breakpoints)+1)
	for path, bps := range c.model.Breakpoints {
		sourceBps := make([]dap.SourceBreakpoint, 0, len(bps))
		for _, bp := range bps {
			sourceBps = append(sourceBps, dap.SourceBreakpoint{
				Line:         bp.Line,
				Column:       bp.Column,
				Condition:    bp.Condition,
				HitCondition: bp.HitCondition,
				LogMessage:   bp.LogMessage,
			})
		}
		req := &dap.SetBreakpointsRequest{
			Request: dap.Request{Command: "setBreakpoints"},
			Arguments: dap.SetBreakpointsArguments{
				Source:      dap.Source{Path: path},
				Breakpoints: sourceBps,
			},
		}
		actions = append(actions, RequestAction(req, setBreakpointsCtx{SourcePath: path}))
	}

	done := &dap.ConfigurationDoneRequest{Request: dap.Request{Command: "configurationDone"}}
	actions = append(actions, RequestAction(done, nil))
	return actions
}

func (c *Controller) onStoppedEvent(e *dap.StoppedEvent) []Action {
	threadID := e.Body.ThreadId
	if threadID == 0 {
		// Some adapters omit threadId on a stop that affects every thread;
		// fall back to whichever thread the model already considers current
		// rather than leaving the session pointed at nothing.
		threadID = c.model.CurrentThread
	}
	c.model.MarkStopped(threadID, e.Body.Reason, e.Body.AllThreadsStopped)

	line := fmt.Sprintf("stopped: %s", e.Body.Reason)
	if e.Body.Description != "" {
		line = fmt.Sprintf("stopped: %s (%s)", e.Body.Reason, e.Body.Description)
	}
	c.model.Console.Append(line)

	return c.requestThreadsRefresh()
}

// requestThreadsRefresh issues a "threads" request, which cascades through
// stackTrace, scopes, and variables as each response arrives; see
// handlers_response.go. This is the single entry point into that chain.
func (c *Controller) requestThreadsRefresh() []Action {
	req := &dap.ThreadsRequest{Request: dap.Request{Command: "threads"}}
	return []Action{RequestAction(req, nil)}
}

func (c *Controller) onContinuedEvent(e *dap.ContinuedEvent) []Action {
	c.model.ClearContinued(e.Body.ThreadId, e.Body.AllThreadsContinued)
	return []Action{ClearJump(), Redraw()}
}

func (c *Controller) onThreadEvent(e *dap.ThreadEvent) []Action {
	switch e.Body.Reason {
	case "started":
		c.model.MarkThreadStarted(e.Body.ThreadId)
	case "exited":
		c.model.MarkThreadExited(e.Body.ThreadId)
	}
	return []Action{Redraw()}
}

func (c *Controller) onOutputEvent(e *dap.OutputEvent) []Action {
	if e.Body.Category == "telemetry" {
		return nil
	}
	category := e.Body.Category
	if category == "" {
		category = "console"
	}
	c.model.Console.Append(fmt.Sprintf("[%s] %s", category, e.Body.Output))
	return []Action{Redraw()}
}
