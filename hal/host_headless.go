//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Width   int
	Height  int
}

// RunHeadless steps the app from a ticker against an offscreen framebuffer
// of fixed size. It returns nil when the tick limit is reached or the app
// asks to stop, and ctx.Err() when ctx ends first.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("hal: headless hz %d is too high", cfg.Hz)
	}

	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)
	h.logger.WriteLineString(fmt.Sprintf("headless: %dx%d at %d Hz", h.fb.width, h.fb.height, cfg.Hz))

	t := time.NewTicker(period)
	defer t.Stop()

	start := time.Now()
	var steps uint64
	defer func() {
		h.logger.WriteLineString(fmt.Sprintf("headless: %d steps in %s", steps, time.Since(start).Round(time.Millisecond)))
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}

		h.t.step()
		if step != nil {
			err := step()
			if errors.Is(err, ErrStop) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		steps++
		if cfg.Ticks > 0 && steps >= cfg.Ticks {
			return nil
		}
	}
}
