//go:build tinygo

package hal

import "time"

// tickerTime reports elapsed milliseconds since start. A tick that finds the
// channel full is skipped; the next one carries the newer count, so a slow
// reader never sees time run behind the wall clock.
type tickerTime struct {
	ch chan uint64
}

func newTickerTime() *tickerTime {
	t := &tickerTime{ch: make(chan uint64, 16)}
	go t.run(time.Now())
	return t
}

func (t *tickerTime) run(start time.Time) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for now := range ticker.C {
		ms := uint64(now.Sub(start) / time.Millisecond)
		select {
		case t.ch <- ms:
		default:
		}
	}
}

func (t *tickerTime) Ticks() <-chan uint64 { return t.ch }

// noKeyboard is the input device of boards without keys.
type noKeyboard struct{}

func (noKeyboard) Events() <-chan KeyEvent { return nil }
