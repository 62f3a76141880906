//go:build !tinygo

package hal

import "time"

// hostTime turns wall-clock progress between steps into 1 ms ticks.
type hostTime struct {
	ch  chan uint64
	seq uint64
	now func() time.Time

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return newHostTimeWithClock(time.Now)
}

func newHostTimeWithClock(now func() time.Time) *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step publishes the ticks elapsed since the previous step. The first call
// publishes exactly one tick.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.stepN(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.stepN(ticks)
}

// stepN advances the sequence by n but only queues the newest value when the
// channel is full; readers care about the latest time, not every tick.
func (t *hostTime) stepN(n uint64) {
	t.seq += n
	for {
		select {
		case t.ch <- t.seq:
			return
		default:
		}
		select {
		case <-t.ch:
		default:
		}
	}
}
