package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for range 3 {
		stop := Track("test.op")
		time.Sleep(time.Millisecond)
		stop()
	}

	snap := Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Expected one entry, got %d", len(snap))
	}
	if snap[0].Calls != 3 {
		t.Errorf("Expected 3 calls, got %d", snap[0].Calls)
	}
	if snap[0].Total < 3*time.Millisecond {
		t.Errorf("Expected at least 3ms, got %v", snap[0].Total)
	}

	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Errorf("ResetFrame should clear entries")
	}
}

func TestTopNOrdersLongestFirst(t *testing.T) {
	ResetFrame()
	func() {
		defer Track("slow")()
		time.Sleep(5 * time.Millisecond)
	}()
	func() {
		defer Track("fast")()
	}()

	top := TopN(1)
	if !strings.HasPrefix(top, "slow:") {
		t.Errorf("Expected slow first, got %q", top)
	}
	if got := TopN(10); !strings.Contains(got, "fast:") || strings.Count(got, ",") != 1 {
		t.Errorf("Expected both entries, got %q", got)
	}
	if TopN(0) != "" || TopN(-1) != "" {
		t.Errorf("Expected empty output for n <= 0")
	}
	ResetFrame()
}
