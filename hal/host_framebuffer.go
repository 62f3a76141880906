//go:build !baremetal

package hal

import "sync"

// hostFramebuffer is a resizable BGRA buffer. The mutex is held by the app
// for the whole render-and-present of a frame and by the window when it
// copies pixels out, so the two never overlap.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.resizeLocked(width, height)
	return f
}

func (f *hostFramebuffer) Lock()   { f.mu.Lock() }
func (f *hostFramebuffer) Unlock() { f.mu.Unlock() }

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatBGRA8888 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	fillBGRA(f.buf, r, g, b)
}

// resize drops the old buffer when the size changes. It reports whether it did.
func (f *hostFramebuffer) resize(width, height int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if width == f.width && height == f.height {
		return false
	}
	f.resizeLocked(width, height)
	return true
}

func (f *hostFramebuffer) resizeLocked(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	f.width = width
	f.height = height
	f.stride = width * 4
	f.buf = make([]byte, f.stride*height)
}

// snapshotRGBA copies the frame into dst as RGBA. It returns false when dst
// does not match the current size.
func (f *hostFramebuffer) snapshotRGBA(dst []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(dst) != len(f.buf) {
		return false
	}
	swizzleBGRAToRGBA(dst, f.buf)
	return true
}

// size reads the dimensions without holding the lock across a frame.
func (f *hostFramebuffer) size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}
