//go:build tinygo && baremetal && picocalc

package hal

// The panel is 320x320; the renderer works at half that and each pixel is
// sent as a 2x2 block.
const (
	picoCalcPanel = 320
	picoCalcScale = 2
	picoCalcFB    = picoCalcPanel / picoCalcScale
)

type picoCalcHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	t      *tickerTime
}

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	logger := newUARTLogger()
	disp, err := newPicoCalcDisplay()
	if err != nil {
		logger.WriteLineString("hal: lcd init: " + err.Error())
		disp = newPicoCalcDisplayStub()
	}

	return &picoCalcHAL{
		logger: logger,
		fb:     disp,
		kbd:    noKeyboard{},
		t:      newTickerTime(),
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *picoCalcHAL) Time() Time       { return h.t }

type picoCalcFramebuffer struct {
	nopLocker
	w      int
	h      int
	stride int
	buf    []byte

	lcd *ili9488
}

func (f *picoCalcFramebuffer) Width() int          { return f.w }
func (f *picoCalcFramebuffer) Height() int         { return f.h }
func (f *picoCalcFramebuffer) Format() PixelFormat { return PixelFormatBGRA8888 }
func (f *picoCalcFramebuffer) StrideBytes() int    { return f.stride }
func (f *picoCalcFramebuffer) Buffer() []byte      { return f.buf }

func (f *picoCalcFramebuffer) ClearRGB(r, g, b uint8) {
	fillBGRA(f.buf, r, g, b)
}

func (f *picoCalcFramebuffer) Present() error {
	if f.lcd == nil {
		return ErrNotImplemented
	}
	return f.lcd.blitBGRAScaled(f.buf, f.w, f.h, picoCalcScale)
}

func newPicoCalcDisplay() (*picoCalcFramebuffer, error) {
	lcd, err := initILI9488()
	if err != nil {
		return nil, err
	}
	fb := newPicoCalcDisplayStub()
	fb.lcd = lcd
	return fb, nil
}

func newPicoCalcDisplayStub() *picoCalcFramebuffer {
	const w = picoCalcFB
	const h = picoCalcFB
	return &picoCalcFramebuffer{
		w:      w,
		h:      h,
		stride: w * 4,
		buf:    make([]byte, w*h*4),
	}
}
