package hal

import (
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock(1000)

	if c.NowMS() != 1000 {
		t.Fatalf("NowMS() = %d, want 1000", c.NowMS())
	}

	c.SleepMS(300)
	c.SleepMS(10)
	c.Advance(5)
	c.SleepMS(-1)

	if c.NowMS() != 1315 {
		t.Errorf("NowMS() = %d, want 1315", c.NowMS())
	}

	sleeps := c.Sleeps()
	want := []int64{300, 10, -1}
	if len(sleeps) != len(want) {
		t.Fatalf("Sleeps() = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("Sleeps()[%d] = %d, want %d", i, sleeps[i], want[i])
		}
	}
}

func TestSystemClock_Monotonic(t *testing.T) {
	c := NewSystemClock()

	first := c.NowMS()
	c.SleepMS(15)
	second := c.NowMS()

	if second < first {
		t.Fatalf("NowMS() went backwards: %d then %d", first, second)
	}
	if time.Duration(second-first)*time.Millisecond < 10*time.Millisecond {
		t.Errorf("SleepMS(15) advanced clock by only %dms", second-first)
	}
}

func TestManualClock_SleepHook(t *testing.T) {
	c := NewManualClock(0)

	var calls []int64
	c.SetSleepHook(func(nowMS, sleptMS int64) {
		calls = append(calls, nowMS)
		// NowMS must be callable from inside the hook.
		if c.NowMS() != nowMS {
			t.Errorf("NowMS() inside hook = %d, want %d", c.NowMS(), nowMS)
		}
	})

	c.SleepMS(10)
	c.SleepMS(300)

	if len(calls) != 2 || calls[0] != 10 || calls[1] != 310 {
		t.Errorf("hook calls = %v, want [10 310]", calls)
	}
}
