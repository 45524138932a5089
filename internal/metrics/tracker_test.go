package metrics

import "testing"

func TestTrackerCounters(t *testing.T) {
	tr := NewTracker()
	tr.RecordRequest("initialize")
	tr.RecordRequest("initialize")
	tr.RecordRequest("launch")
	tr.RecordResponse(true)
	tr.RecordResponse(false)
	tr.RecordEvent("stopped")

	snap := tr.Snapshot()
	if snap.RequestsByCmd["initialize"] != 2 {
		t.Fatalf("expected 2 initialize requests, got %d", snap.RequestsByCmd["initialize"])
	}
	if snap.RequestsByCmd["launch"] != 1 {
		t.Fatalf("expected 1 launch request, got %d", snap.RequestsByCmd["launch"])
	}
	if snap.ResponsesOK != 1 || snap.ResponsesError != 1 {
		t.Fatalf("unexpected response counts: %+v", snap)
	}
	if snap.EventsByType["stopped"] != 1 {
		t.Fatalf("expected 1 stopped event, got %d", snap.EventsByType["stopped"])
	}
}
