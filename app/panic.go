package app

import (
	"fmt"
	"image/color"
)

var (
	bannerBG = [3]uint8{0x40, 0x00, 0x00}
	bannerFG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// recoverFrame turns a panic inside a frame into an on-screen banner and an
// error, so the loop stops with the framebuffer showing why.
func (a *app) recoverFrame(err *error) {
	r := recover()
	if r == nil {
		return
	}
	msg := fmt.Sprint(r)
	a.log("app: panic: " + msg)
	a.showBanner("panic", msg)
	if *err == nil {
		*err = fmt.Errorf("app: panic: %s", msg)
	}
}

// showBanner replaces the frame with a message. The caller holds the
// framebuffer lock.
func (a *app) showBanner(title, detail string) {
	if a.fb == nil || a.fb.Buffer() == nil {
		return
	}
	a.fb.ClearRGB(bannerBG[0], bannerBG[1], bannerBG[2])
	drawTextBlock(a.fb, []string{title + ":", detail}, bannerFG)
	_ = a.present()
}
