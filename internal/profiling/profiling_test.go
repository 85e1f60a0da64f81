package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	stop := Track("slow")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("fast")()

	snap := Snapshot()
	if snap["slow"] < 2*time.Millisecond {
		t.Fatalf("slow = %v, want >= 2ms", snap["slow"])
	}
	top := TopN(1)
	if !strings.HasPrefix(top, "slow:") || !strings.HasSuffix(top, "ms") {
		t.Errorf("TopN(1) = %q", top)
	}
	if got := strings.Count(TopN(10), ","); got != 1 {
		t.Errorf("TopN(10) should list both timers, got %q", TopN(10))
	}
}

func TestCountersReset(t *testing.T) {
	ResetFrame()
	Count("world.loaded", 3)
	Count("world.loaded", 2)
	if got := Counter("world.loaded"); got != 5 {
		t.Fatalf("counter = %d, want 5", got)
	}
	ResetFrame()
	if got := Counter("world.loaded"); got != 0 {
		t.Errorf("counter after reset = %d", got)
	}
	if len(Snapshot()) != 0 {
		t.Error("timers survived reset")
	}
}

func TestCountersFormat(t *testing.T) {
	ResetFrame()
	Count("world.queued", 3)
	Count("render.chunks", 12)
	Count("world.evicted", 0)
	if got, want := Counters(), "render.chunks=12 world.queued=3"; got != want {
		t.Errorf("Counters() = %q, want %q", got, want)
	}
}
