package sender

import (
	"testing"
	"time"
)

func TestBackoff_GrowthAndCap(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 400*time.Millisecond)

	bounds := []struct {
		lo, hi time.Duration
	}{
		{80 * time.Millisecond, 120 * time.Millisecond},
		{160 * time.Millisecond, 240 * time.Millisecond},
		{320 * time.Millisecond, 480 * time.Millisecond},
		// capped from here on
		{320 * time.Millisecond, 480 * time.Millisecond},
	}

	for i, want := range bounds {
		d := b.next()
		if d < want.lo || d > want.hi {
			t.Errorf("delay %d = %v, want within [%v, %v]", i, d, want.lo, want.hi)
		}
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := newBackoff(100*time.Millisecond, time.Second)
	b.next()
	b.next()
	b.Reset()

	d := b.next()
	if d < 80*time.Millisecond || d > 120*time.Millisecond {
		t.Errorf("delay after reset = %v, want within [80ms, 120ms]", d)
	}
}
