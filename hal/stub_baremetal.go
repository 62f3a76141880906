//go:build tinygo && baremetal

package hal

// stubFramebuffer has a size but no pixel memory. Apps check Buffer() for nil
// and skip the frame.
type stubFramebuffer struct {
	nopLocker
	width, height int
}

func (f *stubFramebuffer) Width() int             { return f.width }
func (f *stubFramebuffer) Height() int            { return f.height }
func (f *stubFramebuffer) Format() PixelFormat    { return PixelFormatBGRA8888 }
func (f *stubFramebuffer) StrideBytes() int       { return f.width * 4 }
func (f *stubFramebuffer) Buffer() []byte         { return nil }
func (f *stubFramebuffer) ClearRGB(_, _, _ uint8) {}
func (f *stubFramebuffer) Present() error         { return ErrNotImplemented }
