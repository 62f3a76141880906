//go:build !tinygo && !cgo

package hal

import "fmt"

// WindowConfig sets up the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// RunWindow needs the ebiten backend, which needs cgo on most platforms.
func RunWindow(_ WindowConfig, _ func(HAL) func() error) error {
	return fmt.Errorf("%w: window mode requires cgo (CGO_ENABLED=1); use -headless", ErrNotImplemented)
}

// hostKeyboard has no event source without a window.
type hostKeyboard struct{}

func newHostKeyboard() *hostKeyboard { return &hostKeyboard{} }

func (k *hostKeyboard) Events() <-chan KeyEvent { return nil }

func (k *hostKeyboard) poll() {}
