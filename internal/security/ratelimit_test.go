package security

import "testing"

func TestConnectionLimiterExhaustsBurst(t *testing.T) {
	l := NewConnectionLimiter(1, 2)

	if !l.Allow() {
		t.Fatal("first connection should be allowed")
	}
	if !l.Allow() {
		t.Fatal("second connection (within burst) should be allowed")
	}
	if l.Allow() {
		t.Fatal("third connection should be rejected once burst is exhausted")
	}
}
