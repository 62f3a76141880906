//go:build tinygo && baremetal && !picocalc

package hal

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	kbd    Keyboard
	t      *tickerTime
}

// New returns a Pico 2 (RP2350) HAL implementation without a panel. The
// framebuffer has a size but no pixel storage, so the app skips rendering
// and only logs.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	return &tinyGoHAL{
		logger: newUARTLogger(),
		fb:     &stubFramebuffer{width: 160, height: 160},
		kbd:    noKeyboard{},
		t:      newTickerTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Time() Time       { return h.t }
