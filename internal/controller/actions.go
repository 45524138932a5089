package controller

import "github.com/google/go-dap"

// ActionKind discriminates the side-effects a handler can ask the
// controller to dispatch. Handlers never touch the UI, the editor IPC
// endpoint, or the adapter transport directly; they return a list of
// Actions and the main loop dispatches them in order after the handler
// returns. This indirection is what keeps state transitions and their
// effects separately testable.
type ActionKind int

const (
	ActionRedraw ActionKind = iota
	ActionJump
	ActionClearJump
	ActionUpdateBreakpoints
	ActionRequest
	ActionQuit
)

// Action is a single side-effect emitted by a handler.
type Action struct {
	Kind ActionKind

	// Populated for ActionRequest.
	Request dap.RequestMessage
	Args    any // stored in the request registry, recovered by the response handler
}

func Redraw() Action            { return Action{Kind: ActionRedraw} }
func Jump() Action              { return Action{Kind: ActionJump} }
func ClearJump() Action         { return Action{Kind: ActionClearJump} }
func UpdateBreakpoints() Action { return Action{Kind: ActionUpdateBreakpoints} }
func Quit() Action              { return Action{Kind: ActionQuit} }

// RequestAction returns an ActionRequest carrying req and the context args
// to store in the request registry under its allocated seq.
func RequestAction(req dap.RequestMessage, args any) Action {
	return Action{Kind: ActionRequest, Request: req, Args: args}
}
