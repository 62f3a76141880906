//go:build !tinygo

package hal

import "testing"

func TestHostFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 3)
	if fb.Width() != 4 || fb.Height() != 3 || fb.StrideBytes() != 16 || len(fb.Buffer()) != 48 {
		t.Fatalf("initial fb = %dx%d stride %d len %d, want 4x3 stride 16 len 48",
			fb.Width(), fb.Height(), fb.StrideBytes(), len(fb.Buffer()))
	}
	old := fb.Buffer()

	if fb.resize(4, 3) {
		t.Fatal("resize() to same size = true, want false")
	}
	if &fb.Buffer()[0] != &old[0] {
		t.Fatal("buffer reallocated for an unchanged size")
	}

	if !fb.resize(8, 2) {
		t.Fatal("resize() = false, want true")
	}
	if w, h := fb.size(); w != 8 || h != 2 {
		t.Fatalf("size() = %dx%d, want 8x2", w, h)
	}
	if len(fb.Buffer()) != 8*2*4 {
		t.Fatalf("len(Buffer()) = %d, want %d", len(fb.Buffer()), 8*2*4)
	}

	fb.resize(-1, 5)
	if fb.Width() != 0 || len(fb.Buffer()) != 0 {
		t.Fatalf("negative resize gave %dx%d len %d, want empty", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
}

func TestHostFramebufferSnapshot(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	fb.Lock()
	fb.ClearRGB(30, 40, 60)
	fb.Unlock()

	dst := make([]byte, 8)
	if !fb.snapshotRGBA(dst) {
		t.Fatal("snapshotRGBA() = false, want true")
	}
	want := []byte{30, 40, 60, 255, 30, 40, 60, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", dst, want)
		}
	}
	if fb.snapshotRGBA(make([]byte, 4)) {
		t.Fatal("snapshotRGBA() with wrong size = true, want false")
	}
}
