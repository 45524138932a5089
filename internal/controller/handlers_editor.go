package controller

import (
	"github.com/google/go-dap"

	"github.com/pesticide-dap/pesticide/internal/editoripc"
)

// handleEditorToggle applies an editor-driven breakpoint toggle to the
// model, then asks the adapter to re-verify the full breakpoint set for
// that source. The editor's own marker redraw does not wait on the round
// trip: it already knows the new local state.
func (c *Controller) handleEditorToggle(toggle editoripc.ToggleBreakpoint) []Action {
	bps := c.model.ToggleBreakpoint(toggle.File, toggle.Line, toggle.Column)

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
			Source:      dap.Source{Path: toggle.File},
			Breakpoints: sourceBps,
		},
	}

	return []Action{
		UpdateBreakpoints(),
		RequestAction(req, setBreakpointsCtx{SourcePath: toggle.File}),
	}
}
