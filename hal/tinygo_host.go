//go:build tinygo && !baremetal

package hal

// tinyGoHostHAL serves `tinygo run` targets such as linux or wasm: a fixed
// in-memory framebuffer, wall-clock ticks and println logging.
type tinyGoHostHAL struct {
	fb *hostFramebuffer
	t  *tickerTime
}

const (
	tinyGoHostWidth  = 320
	tinyGoHostHeight = 240
)

// New returns a TinyGo-on-host HAL implementation.
func New() HAL {
	return &tinyGoHostHAL{
		fb: newHostFramebuffer(tinyGoHostWidth, tinyGoHostHeight),
		t:  newTickerTime(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return printLogger{} }
func (h *tinyGoHostHAL) Display() Display { return h }
func (h *tinyGoHostHAL) Input() Input     { return h }
func (h *tinyGoHostHAL) Time() Time       { return h.t }

func (h *tinyGoHostHAL) Framebuffer() Framebuffer { return h.fb }
func (h *tinyGoHostHAL) Keyboard() Keyboard       { return noKeyboard{} }

type printLogger struct{}

func (printLogger) WriteLineString(s string) { println(s) }
func (printLogger) WriteLineBytes(b []byte)  { println(string(b)) }
