package hal

import (
	"errors"
	"sync"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrStop is returned by an app step to end the run loop cleanly.
	ErrStop = errors.New("hal: stop requested")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatBGRA8888 is 32bpp, bytes B, G, R, A in memory order.
	PixelFormatBGRA8888 PixelFormat = iota + 1
)

// Framebuffer is a pixel buffer plus a "present" hook.
//
// Width, Height and Buffer may change after a resize; callers re-read them
// under Lock for every frame and never keep the slice across frames.
type Framebuffer interface {
	sync.Locker

	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyF1
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Time provides a base tick stream.
//
// Ticks carry a monotonically increasing sequence number; one tick is one
// millisecond on every platform.
type Time interface {
	Ticks() <-chan uint64
}

// HAL is the only contact point between the renderer loop and the platform.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Time() Time
}
