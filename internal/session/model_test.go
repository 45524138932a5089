package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToggleBreakpointAddsThenRemoves(t *testing.T) {
	m := NewModel()

	bps := m.ToggleBreakpoint("/a.py", 7, 1)
	require.Len(t, bps, 1)
	require.Equal(t, 7, bps[0].Line)

	bps = m.ToggleBreakpoint("/a.py", 7, 1)
	require.Empty(t, bps)
}

func TestStoppedSetClearedOnContinue(t *testing.T) {
	m := NewModel()
	m.ReplaceThreads([]Thread{{ID: 1, Name: "main"}, {ID: 2, Name: "worker"}})
	m.MarkStopped(1, "breakpoint", false)
	m.MarkStopped(2, "breakpoint", false)

	m.ClearContinued(1, false)
	_, stillStopped := m.Stopped[1]
	require.False(t, stillStopped)
	_, otherStopped := m.Stopped[2]
	require.True(t, otherStopped)

	m.ClearContinued(0, true)
	require.Empty(t, m.Stopped)
	require.False(t, m.AllStopped)
}

func TestThreadStartedPlaceholderOverwritten(t *testing.T) {
	m := NewModel()
	m.MarkThreadStarted(5)
	require.Equal(t, "5", m.Threads[5].Name)

	m.ReplaceThreads([]Thread{{ID: 5, Name: "real-name"}})
	require.Equal(t, "real-name", m.Threads[5].Name)
}

func TestThreadExitedRemovesStoppedEntry(t *testing.T) {
	m := NewModel()
	m.ReplaceThreads([]Thread{{ID: 1, Name: "main"}})
	m.MarkStopped(1, "step", false)

	m.MarkThreadExited(1)
	_, exists := m.Threads[1]
	require.False(t, exists)
	_, stopped := m.Stopped[1]
	require.False(t, stopped)
}

func TestCurrentStackFrameFallsBackToNotFound(t *testing.T) {
	m := NewModel()
	m.CurrentThread = 1
	m.CurrentFrame = 42
	m.StackFrames[1] = []StackFrame{{ID: 1, Name: "frame-1"}}

	_, ok := m.CurrentStackFrame()
	require.False(t, ok)

	m.CurrentFrame = 1
	frame, ok := m.CurrentStackFrame()
	require.True(t, ok)
	require.Equal(t, "frame-1", frame.Name)
}
