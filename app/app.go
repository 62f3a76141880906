package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"orbit/hal"
	"orbit/internal/buildinfo"
	"orbit/render"
)

// Sink receives every rendered frame before the HUD is drawn on top. pix is
// only valid for the duration of the call.
type Sink interface {
	WriteFrame(seq uint64, angle float64, width, height int, pix []byte) error
}

type Config struct {
	// Workers bounds render parallelism. Zero means one per CPU.
	Workers int

	// HUD starts with the stats overlay visible. F1 toggles it.
	HUD bool

	// FrameEvery is the minimum number of ticks (milliseconds) between
	// frames. Zero renders whenever a new tick arrived.
	FrameEvery uint64

	Sinks []Sink
}

var hudColor = color.RGBA{R: 0xF0, G: 0xF0, B: 0x80, A: 0xFF}

type app struct {
	logger hal.Logger
	fb     hal.Framebuffer
	keys   <-chan hal.KeyEvent
	ticks  <-chan uint64

	r     *render.Renderer
	sinks []Sink
	every uint64
	hud   bool
	now   func() time.Time

	seq      uint64
	drawn    bool
	drawnSeq uint64
	drawnW   int
	drawnH   int

	frames     uint64
	lastRender time.Duration
	fps        float64
	lastLog    string
}

// New builds the render loop and returns its step function. Each call
// drains pending input and ticks, then renders at most one frame.
func New(h hal.HAL, cfg Config) func() error {
	a := newApp(h, cfg)
	a.log(fmt.Sprintf("app: %s workers=%d", buildinfo.Long(), cfg.Workers))
	return a.step
}

// Run drives New from a fixed-rate loop and blocks forever (TinyGo/native
// entrypoint). A failed frame stays on screen.
func Run(h hal.HAL, cfg Config) {
	step := New(h, cfg)
	t := time.NewTicker(runInterval)
	defer t.Stop()
	for range t.C {
		if err := step(); err != nil {
			break
		}
	}
	select {}
}

const runInterval = 20 * time.Millisecond

func newApp(h hal.HAL, cfg Config) *app {
	a := &app{
		logger: h.Logger(),
		r:      render.New(cfg.Workers),
		sinks:  append([]Sink(nil), cfg.Sinks...),
		every:  max(cfg.FrameEvery, 1),
		hud:    cfg.HUD,
		now:    time.Now,
	}
	if d := h.Display(); d != nil {
		a.fb = d.Framebuffer()
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			a.keys = kbd.Events()
		}
	}
	if ht := h.Time(); ht != nil {
		a.ticks = ht.Ticks()
	}
	return a
}

func (a *app) step() (err error) {
	if err := a.pollKeys(); err != nil {
		return err
	}
	a.drainTicks()
	if a.fb == nil {
		return nil
	}

	a.fb.Lock()
	defer a.fb.Unlock()
	defer a.recoverFrame(&err)

	w, h := a.fb.Width(), a.fb.Height()
	due := !a.drawn || a.seq-a.drawnSeq >= a.every || w != a.drawnW || h != a.drawnH
	if !due {
		return nil
	}
	if a.drawn {
		a.noteInterval(a.seq - a.drawnSeq)
	}
	a.drawn = true
	a.drawnSeq = a.seq
	a.drawnW, a.drawnH = w, h
	return a.renderLocked(w, h)
}

func (a *app) pollKeys() error {
	if a.keys == nil {
		return nil
	}
	for {
		select {
		case ev, ok := <-a.keys:
			if !ok {
				a.keys = nil
				return nil
			}
			if !ev.Press {
				continue
			}
			switch {
			case ev.Code == hal.KeyEscape, ev.Rune == 'q':
				return hal.ErrStop
			case ev.Code == hal.KeyF1, ev.Rune == 'h':
				a.hud = !a.hud
				a.drawn = false
			}
		default:
			return nil
		}
	}
}

func (a *app) drainTicks() {
	if a.ticks == nil {
		return
	}
	for {
		select {
		case seq, ok := <-a.ticks:
			if !ok {
				a.ticks = nil
				return
			}
			if seq > a.seq {
				a.seq = seq
			}
		default:
			return
		}
	}
}

func (a *app) renderLocked(w, h int) error {
	buf := a.fb.Buffer()
	if buf == nil {
		return nil
	}
	if a.fb.Format() != hal.PixelFormatBGRA8888 {
		return a.frameFailed(fmt.Errorf("app: unsupported pixel format %d", a.fb.Format()))
	}
	if stride := a.fb.StrideBytes(); stride != w*render.BytesPerPixel {
		return a.frameFailed(fmt.Errorf("app: framebuffer stride %d, want %d", stride, w*render.BytesPerPixel))
	}

	angle := AngleAt(a.seq)
	start := a.now()
	if err := a.r.RenderInto(context.Background(), buf, w, h, angle); err != nil {
		return a.frameFailed(err)
	}
	elapsed := a.now().Sub(start)
	a.lastLog = ""

	a.feedSinks(angle, w, h, buf)
	a.updateStats(elapsed)
	if a.hud {
		drawTextBlock(a.fb, a.hudLines(w, h, angle), hudColor)
	}
	return a.present()
}

func (a *app) feedSinks(angle float64, w, h int, pix []byte) {
	kept := a.sinks[:0]
	for _, s := range a.sinks {
		if err := s.WriteFrame(a.seq, angle, w, h, pix); err != nil {
			a.log("app: sink dropped: " + err.Error())
			continue
		}
		kept = append(kept, s)
	}
	a.sinks = kept
}

func (a *app) present() error {
	if err := a.fb.Present(); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
		return fmt.Errorf("app: present: %w", err)
	}
	return nil
}

// frameFailed logs err once per distinct message. A zero-sized target is
// not fatal: the next resize gets a fresh frame. Anything else replaces the
// frame with an error banner and ends the loop.
func (a *app) frameFailed(err error) error {
	if msg := err.Error(); msg != a.lastLog {
		a.lastLog = msg
		a.log("app: frame: " + msg)
	}
	if errors.Is(err, render.ErrInvalidDimensions) {
		return nil
	}
	a.showBanner("render failed", err.Error())
	return err
}

func (a *app) log(s string) {
	if a.logger != nil {
		a.logger.WriteLineString(s)
	}
}
