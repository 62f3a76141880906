package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"orbit/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var textFont = &tinyfont.TomThumb

const (
	textLineHeight = 7
	textBaseline   = 5
	textMargin     = 2
)

// fbDisplay lets tinyfont draw straight into a BGRA framebuffer. The caller
// holds the framebuffer lock.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = fbDisplay{}

func (d fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	off, ok := d.offset(int(x), int(y))
	if !ok {
		return
	}
	buf := d.fb.Buffer()
	buf[off] = c.B
	buf[off+1] = c.G
	buf[off+2] = c.R
	buf[off+3] = 0xFF
}

func (d fbDisplay) Display() error { return nil }

func (d fbDisplay) offset(x, y int) (int, bool) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatBGRA8888 {
		return 0, false
	}
	if x < 0 || x >= d.fb.Width() || y < 0 || y >= d.fb.Height() {
		return 0, false
	}
	off := y*d.fb.StrideBytes() + x*4
	if off < 0 || off+3 >= len(d.fb.Buffer()) {
		return 0, false
	}
	return off, true
}

// dim halves the brightness of the w×h block at (x0, y0) so text on top of
// the scene stays readable.
func (d fbDisplay) dim(x0, y0, w, h int) {
	buf := d.fb.Buffer()
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			off, ok := d.offset(x, y)
			if !ok {
				continue
			}
			buf[off] >>= 1
			buf[off+1] >>= 1
			buf[off+2] >>= 1
		}
	}
}

// drawTextBlock writes lines top-left, wrapping at the framebuffer width,
// on a dimmed backdrop. It returns the number of rows drawn.
func drawTextBlock(fb hal.Framebuffer, lines []string, fg color.RGBA) int {
	d := fbDisplay{fb: fb}
	if fb == nil || fb.Buffer() == nil || fb.Width() <= 0 || fb.Height() <= 0 {
		return 0
	}

	_, charW := tinyfont.LineWidth(textFont, "0")
	cols := int16(1)
	if charW > 0 {
		cols = int16(max(1, (fb.Width()-2*textMargin)/int(charW)))
	}

	var rows []string
	for _, line := range lines {
		for {
			chunk, rest := takeRunes(line, cols)
			rows = append(rows, chunk)
			line = strings.TrimLeft(rest, " ")
			if line == "" {
				break
			}
		}
	}
	if maxRows := (fb.Height() - textMargin) / textLineHeight; len(rows) > maxRows {
		rows = rows[:max(maxRows, 0)]
	}

	width := 0
	for _, row := range rows {
		_, w := tinyfont.LineWidth(textFont, row)
		width = max(width, int(w))
	}
	d.dim(0, 0, width+2*textMargin, len(rows)*textLineHeight+textMargin)

	for i, row := range rows {
		y := int16(textMargin + i*textLineHeight + textBaseline)
		tinyfont.WriteLine(d, textFont, textMargin, y, row, fg)
	}
	return len(rows)
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
