package controller

import (
	"github.com/google/go-dap"

	"github.com/pesticide-dap/pesticide/internal/editoripc"
	"github.com/pesticide-dap/pesticide/internal/ui"
)

func toggleFromUI(ev ui.InputEvent) editoripc.ToggleBreakpoint {
	return editoripc.ToggleBreakpoint{File: ev.SourcePath, Line: ev.Line, Column: ev.Column}
}

// handleUIEvent translates a UI input event into the corresponding
// adapter request or, for a breakpoint toggle, the same editor-driven path
// handleEditorToggle takes.
func (c *Controller) handleUIEvent(ev ui.InputEvent) []Action {
	threadID := c.model.CurrentThread

	switch ev.Kind {
	case ui.InputContinue:
		req := &dap.ContinueRequest{
			Request:   dap.Request{Command: "continue"},
			Arguments: dap.ContinueArguments{ThreadId: threadID},
		}
		return []Action{RequestAction(req, nil)}

	case ui.InputNext:
		req := &dap.NextRequest{
			Request:   dap.Request{Command: "next"},
			Arguments: dap.NextArguments{ThreadId: threadID},
		}
		return []Action{RequestAction(req, nil)}

	case ui.InputStepIn:
		req := &dap.StepInRequest{
			Request:   dap.Request{Command: "stepIn"},
			Arguments: dap.StepInArguments{ThreadId: threadID},
		}
		return []Action{RequestAction(req, nil)}

	case ui.InputStepOut:
		req := &dap.StepOutRequest{
			Request:   dap.Request{Command: "stepOut"},
			Arguments: dap.StepOutArguments{ThreadId: threadID},
		}
		return []Action{RequestAction(req, nil)}

	case ui.InputPause:
		req := &dap.PauseRequest{
			Request:   dap.Request{Command: "pause"},
			Arguments: dap.PauseArguments{ThreadId: threadID},
		}
		return []Action{RequestAction(req, nil)}

	case ui.InputToggleBreakpoint:
		return c.handleEditorToggle(toggleFromUI(ev))

	case ui.InputQuit:
		return []Action{Quit()}

	default:
		return nil
	}
}
