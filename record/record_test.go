package record

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"orbit/app"

	"github.com/klauspost/compress/zstd"
)

var _ app.Sink = (*Writer)(nil)

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func testFrame(w, h int, fill byte) []byte {
	pix := make([]byte, w*h*bytesPerPixel)
	for i := range pix {
		pix[i] = fill + byte(i)
	}
	return pix
}

func TestWriterRoundTrip(t *testing.T) {
	root := t.TempDir()
	w, m, err := NewWriter(root, "demo run!", fixedClock())
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	if got, want := filepath.Base(w.Directory()), "demorun-20240506T070809Z"; got != want {
		t.Fatalf("Directory() = %q, want %q", got, want)
	}
	if m.PixelFormat != "BGRA8888" || m.FramesPath != framesName || m.IndexPath != indexName {
		t.Fatalf("manifest = %+v", m)
	}

	frames := []Frame{
		{Seq: 1, Angle: 0, Width: 4, Height: 3, Pix: testFrame(4, 3, 0)},
		{Seq: 17, Angle: 0.025, Width: 4, Height: 3, Pix: testFrame(4, 3, 9)},
		{Seq: 40, Angle: 6.2, Width: 2, Height: 5, Pix: testFrame(2, 5, 100)},
	}
	for _, f := range frames {
		if err := w.WriteFrame(f.Seq, f.Angle, f.Width, f.Height, f.Pix); err != nil {
			t.Fatalf("WriteFrame(%d) = %v", f.Seq, err)
		}
	}
	if got := w.Frames(); got != 3 {
		t.Fatalf("Frames() = %d, want 3", got)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}

	r, err := Open(w.Directory())
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer r.Close()
	for _, want := range frames {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() = %v", err)
		}
		if got.Seq != want.Seq || got.Angle != want.Angle || got.Width != want.Width || got.Height != want.Height {
			t.Fatalf("Next() = seq %d angle %v %dx%d, want seq %d angle %v %dx%d",
				got.Seq, got.Angle, got.Width, got.Height, want.Seq, want.Angle, want.Width, want.Height)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Fatalf("Next() pixels differ for seq %d", want.Seq)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next() at end = %v, want io.EOF", err)
	}

	index, err := ReadIndex(w.Directory())
	if err != nil {
		t.Fatalf("ReadIndex() = %v", err)
	}
	if len(index) != len(frames) {
		t.Fatalf("ReadIndex() = %d entries, want %d", len(index), len(frames))
	}
	for i, e := range index {
		if e.Seq != frames[i].Seq || e.Width != frames[i].Width || e.Height != frames[i].Height {
			t.Fatalf("index[%d] = %+v, want frame %+v", i, e, frames[i].Seq)
		}
		if _, err := time.Parse(time.RFC3339Nano, e.CapturedAt); err != nil {
			t.Fatalf("index[%d].CapturedAt = %q: %v", i, e.CapturedAt, err)
		}
	}
}

func TestWriterErrors(t *testing.T) {
	var nilWriter *Writer
	if err := nilWriter.WriteFrame(1, 0, 1, 1, make([]byte, 4)); !errors.Is(err, ErrNilWriter) {
		t.Fatalf("nil WriteFrame() = %v, want %v", err, ErrNilWriter)
	}
	if err := nilWriter.Close(); err != nil {
		t.Fatalf("nil Close() = %v", err)
	}
	if _, _, err := NewWriter("", "x", nil); !errors.Is(err, ErrNoRoot) {
		t.Fatalf("NewWriter(\"\") = %v, want %v", err, ErrNoRoot)
	}

	w, _, err := NewWriter(t.TempDir(), "", fixedClock())
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	if err := w.WriteFrame(1, 0, 2, 2, make([]byte, 15)); err == nil {
		t.Fatalf("WriteFrame() with short buffer = nil, want error")
	}
	if err := w.WriteFrame(1, 0, 0, 2, nil); err == nil {
		t.Fatalf("WriteFrame() with zero width = nil, want error")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := w.WriteFrame(2, 0, 1, 1, make([]byte, 4)); !errors.Is(err, ErrClosed) {
		t.Fatalf("WriteFrame() after Close = %v, want %v", err, ErrClosed)
	}
	if got := filepath.Base(w.Directory()); got[:6] != "orbit-" {
		t.Fatalf("Directory() = %q, want orbit- prefix", got)
	}
}

func TestWriterRejectsFramesAfterFailure(t *testing.T) {
	w, _, err := NewWriter(t.TempDir(), "fail", fixedClock())
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	if err := w.WriteFrame(1, 0, 1, 1, make([]byte, 4)); err != nil {
		t.Fatalf("WriteFrame(1) = %v", err)
	}
	// The index is flushed per frame, so a closed file fails the next write.
	if err := w.indexFile.Close(); err != nil {
		t.Fatalf("indexFile.Close() = %v", err)
	}
	if err := w.WriteFrame(2, 0, 1, 1, make([]byte, 4)); err == nil {
		t.Fatalf("WriteFrame(2) on a closed index = nil, want error")
	}
	if err := w.WriteFrame(3, 0, 1, 1, make([]byte, 4)); !errors.Is(err, ErrBroken) {
		t.Fatalf("WriteFrame(3) = %v, want %v", err, ErrBroken)
	}
	if got := w.Frames(); got != 1 {
		t.Fatalf("Frames() = %d, want 1", got)
	}
	_ = w.Close()
}

func TestWriterRejectsUnencodableAngle(t *testing.T) {
	w, _, err := NewWriter(t.TempDir(), "nan", fixedClock())
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	if err := w.WriteFrame(1, math.NaN(), 1, 1, make([]byte, 4)); err == nil {
		t.Fatalf("WriteFrame(NaN) = nil, want error")
	}
	if err := w.WriteFrame(2, 0.5, 1, 1, make([]byte, 4)); err != nil {
		t.Fatalf("WriteFrame after a rejected frame = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	r, err := Open(w.Directory())
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer r.Close()
	if f, err := r.Next(); err != nil || f.Seq != 2 {
		t.Fatalf("Next() = seq %d, %v, want seq 2", f.Seq, err)
	}
}

// rewriteFrames replaces the frame stream of dir with raw.
func rewriteFrames(t *testing.T, dir string, raw []byte) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, framesName))
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("zstd.NewWriter() = %v", err)
	}
	if _, err := enc.Write(raw); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("enc.Close() = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("f.Close() = %v", err)
	}
}

func TestReaderTruncatedAndCorrupt(t *testing.T) {
	w, _, err := NewWriter(t.TempDir(), "cut", fixedClock())
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	dir := w.Directory()

	header := make([]byte, headerSize)
	putHeader(header, 3, 1.5, 2, 2)

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"short header", header[:10], ErrTruncated},
		{"short pixels", append(append([]byte(nil), header...), 1, 2, 3), ErrTruncated},
		{"zero size", make([]byte, headerSize), ErrCorrupt},
	}
	for _, tt := range tests {
		rewriteFrames(t, dir, tt.raw)
		r, err := Open(dir)
		if err != nil {
			t.Fatalf("%s: Open() = %v", tt.name, err)
		}
		_, err = r.Next()
		r.Close()
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: Next() = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestOpenMissingBundle(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatalf("Open() on empty dir = nil, want error")
	}
}
