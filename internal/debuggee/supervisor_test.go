package debuggee

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnIntegratedCapturesOutputLine(t *testing.T) {
	var mu sync.Mutex
	var lines []string

	s := &Supervisor{}
	pid, err := s.Spawn(SpawnRequest{
		Kind: KindIntegrated,
		Args: []string{"echo", "hello"},
	}, nil, func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	})
	require.NoError(t, err)
	require.Greater(t, pid, 0)
	t.Cleanup(func() { _ = s.Close() })

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(lines) == 1 && lines[0] == "hello"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSpawnIntegratedRequiresArgs(t *testing.T) {
	s := &Supervisor{}
	_, err := s.Spawn(SpawnRequest{Kind: KindIntegrated}, nil, nil)
	require.Error(t, err)
}

func TestSpawnUnsupportedKind(t *testing.T) {
	s := &Supervisor{}
	_, err := s.Spawn(SpawnRequest{Kind: "bogus", Args: []string{"true"}}, nil, nil)
	require.Error(t, err)
}
