// Package session holds the controller's in-memory debug session state:
// threads, stack frames, scopes, variables, breakpoints, and the stopped
// set. The controller is the only writer; apart from the console buffer,
// everything here is plain data with no locking of its own, matching the
// single-threaded event loop that owns it.
package session

import (
	"strconv"

	"github.com/google/go-dap"
)

// Thread mirrors a DAP thread.
type Thread struct {
	ID   int
	Name string
}

// StackFrame mirrors a DAP stack frame.
type StackFrame struct {
	ID               int
	Name             string
	SourcePath       string
	SourceName       string
	Line             int
	Column           int
	PresentationHint string
}

// Scope mirrors a DAP scope.
type Scope struct {
	Name               string
	VariablesReference int
	Expensive          bool
}

// Variable mirrors a DAP variable.
type Variable struct {
	Name               string
	Value              string
	VariablesReference int
}

// Breakpoint is a source breakpoint as configured through setBreakpoints.
type Breakpoint struct {
	Line         int
	Column       int
	Condition    string
	HitCondition string
	LogMessage   string
}

// Stopped records why a thread is currently stopped.
type Stopped struct {
	Reason string
}

// Model is the authoritative session state. It is created empty and
// populated as the initialize/launch handshake and subsequent events and
// responses arrive.
type Model struct {
	Capabilities  *dap.Capabilities
	Threads       map[int]Thread
	StackFrames   map[int][]StackFrame    // keyed by thread id
	Scopes        map[int][]Scope         // keyed by frame id
	Variables     map[int][]Variable      // keyed by variables reference
	Breakpoints   map[string][]Breakpoint // keyed by source path
	Stopped       map[int]Stopped
	AllStopped    bool
	CurrentThread int
	CurrentFrame  int
	Console       *ConsoleBuffer
}

// NewModel returns an empty session model.
func NewModel() *Model {
	return &Model{
		Threads:     make(map[int]Thread),
		StackFrames: make(map[int][]StackFrame),
		Scopes:      make(map[int][]Scope),
		Variables:   make(map[int][]Variable),
		Breakpoints: make(map[string][]Breakpoint),
		Stopped:     make(map[int]Stopped),
		Console:     NewConsoleBuffer(),
	}
}

// ReplaceThreads resynchronizes the thread table from a "threads" response.
func (m *Model) ReplaceThreads(threads []Thread) {
	next := make(map[int]Thread, len(threads))
	for _, th := range threads {
		next[th.ID] = th
	}
	m.Threads = next
}

// MarkThreadStarted inserts a placeholder thread, overwritten by the next
// "threads" response.
func (m *Model) MarkThreadStarted(id int) {
	if _, ok := m.Threads[id]; ok {
		return
	}
	m.Threads[id] = Thread{ID: id, Name: strconv.Itoa(id)}
}

// MarkThreadExited removes a thread and its stopped-set entry.
func (m *Model) MarkThreadExited(id int) {
	delete(m.Threads, id)
	delete(m.Stopped, id)
}

// MarkStopped records a thread as stopped for the given reason.
func (m *Model) MarkStopped(threadID int, reason string, allThreads bool) {
	m.CurrentThread = threadID
	m.Stopped[threadID] = Stopped{Reason: reason}
	if allThreads {
		m.AllStopped = true
	}
}

// ClearContinued clears the stopped-set entry for a continued thread, or
// the whole set if allThreads is set.
func (m *Model) ClearContinued(threadID int, allThreads bool) {
	if allThreads {
		m.Stopped = make(map[int]Stopped)
		m.AllStopped = false
		return
	}
	delete(m.Stopped, threadID)
}

// CurrentStackFrame returns the frame the controller considers "current":
// the frame with the stored CurrentFrame id if it exists among the current
// thread's frames, otherwise a zero StackFrame and false.
func (m *Model) CurrentStackFrame() (StackFrame, bool) {
	for _, f := range m.StackFrames[m.CurrentThread] {
		if f.ID == m.CurrentFrame {
			return f, true
		}
	}
	return StackFrame{}, false
}

// ToggleBreakpoint adds or removes a breakpoint at the given line in path,
// returning the updated list for that source.
func (m *Model) ToggleBreakpoint(path string, line, column int) []Breakpoint {
	existing := m.Breakpoints[path]
	for i, bp := range existing {
		if bp.Line == line {
			updated := append(append([]Breakpoint(nil), existing[:i]...), existing[i+1:]...)
			m.Breakpoints[path] = updated
			return updated
		}
	}
	updated := append(append([]Breakpoint(nil), existing...), Breakpoint{Line: line, Column: column})
	m.Breakpoints[path] = updated
	return updated
}
