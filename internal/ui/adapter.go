// Package ui defines the seam between the session controller and a
// terminal user interface. Only the interface lives here; no rendering or
// input decoding is implemented — that is an external collaborator's job,
// per the driver's scope.
package ui

import "github.com/pesticide-dap/pesticide/internal/session"

// InputEventKind enumerates the UI-originated actions the controller
// understands. A real TUI translates key presses into these.
type InputEventKind int

const (
	InputContinue InputEventKind = iota
	InputNext
	InputStepIn
	InputStepOut
	InputPause
	InputToggleBreakpoint
	InputQuit
)

// InputEvent is a single UI-originated action.
type InputEvent struct {
	Kind InputEventKind

	// Populated for InputToggleBreakpoint.
	SourcePath string
	Line       int
	Column     int
}

// Snapshot is the read-only view of session state a UI renders from. It is
// a value copy so a renderer can hold onto it without racing the
// controller's next mutation.
type Snapshot struct {
	Capabilities  bool
	Threads       []session.Thread
	CurrentThread int
	CurrentFrame  session.StackFrame
	HasFrame      bool
	Scopes        []session.Scope
	Stopped       map[int]session.Stopped
	Console       []string
}

// Adapter is the two-method seam between the controller and a UI. Render
// is called after every action list that includes ActionRedraw; Events
// yields UI-originated input for the controller's main loop to consume.
type Adapter interface {
	Render(Snapshot)
	Events() <-chan InputEvent
}

// Headless is a no-op Adapter used in tests and in any invocation that
// doesn't want a rendered UI (e.g. a one-shot --request call).
type Headless struct {
	events chan InputEvent
}

// NewHeadless returns an Adapter whose Events channel never yields
// anything and whose Render is a no-op.
func NewHeadless() *Headless {
	return &Headless{events: make(chan InputEvent)}
}

func (h *Headless) Render(Snapshot) {}

func (h *Headless) Events() <-chan InputEvent { return h.events }
