//go:build !tinygo && cgo

package hal

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig sets up the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// RunWindow opens a resizable desktop window and blocks until it closes.
// The framebuffer always matches the window's client area, so the app
// renders at the new size on the frame after a resize.
func RunWindow(cfg WindowConfig, newApp func(HAL) func() error) error {
	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(h.fb.width, h.fb.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	rgba  []byte
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, h := g.h.fb.size()
	if w <= 0 || h <= 0 {
		return
	}
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		g.rgba = make([]byte, w*h*4)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	// A resize between size() and the copy leaves the previous image up for
	// one more frame.
	if !g.h.fb.snapshotRGBA(g.rgba) {
		return
	}
	g.fbImg.WritePixels(g.rgba)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.h.fb.resize(outsideWidth, outsideHeight)
	return max(outsideWidth, 1), max(outsideHeight, 1)
}
