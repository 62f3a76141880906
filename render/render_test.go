package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
)

func mustRender(t *testing.T, r *Renderer, w, h int, angle float64) []byte {
	t.Helper()
	buf, err := r.Render(context.Background(), w, h, angle)
	if err != nil {
		t.Fatalf("Render(%d, %d, %v): %v", w, h, angle, err)
	}
	return buf
}

func TestRenderSizeAndAlpha(t *testing.T) {
	buf, err := Render(40, 30, 1.2)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(buf) != 40*30*4 {
		t.Fatalf("len = %d, want %d", len(buf), 40*30*4)
	}
	for i := 3; i < len(buf); i += 4 {
		if buf[i] != 0xFF {
			t.Fatalf("alpha at byte %d = %d, want 255", i, buf[i])
		}
	}
}

func TestRenderTopLeftIsBackground(t *testing.T) {
	buf := mustRender(t, New(1), 4, 4, 0)
	if got, want := buf[:4], []byte{60, 40, 30, 255}; !bytes.Equal(got, want) {
		t.Fatalf("pixel (0,0) = %v, want %v", got, want)
	}
}

func TestRenderInvalidDimensions(t *testing.T) {
	for _, dim := range [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -5}, {0, 0}} {
		buf, err := Render(dim[0], dim[1], 0)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Render(%d, %d) err = %v, want ErrInvalidDimensions", dim[0], dim[1], err)
		}
		if buf != nil {
			t.Fatalf("Render(%d, %d) returned %d bytes, want none", dim[0], dim[1], len(buf))
		}
	}
}

func TestRenderOverflowingDimensions(t *testing.T) {
	r := New(1)
	for _, dim := range [][2]int{{math.MaxInt, math.MaxInt}, {math.MaxInt/2 + 1, 2}, {1, math.MaxInt/4 + 1}} {
		err := r.RenderInto(context.Background(), nil, dim[0], dim[1], 0)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("RenderInto(%d, %d) err = %v, want ErrInvalidDimensions", dim[0], dim[1], err)
		}
		if _, err := r.Render(context.Background(), dim[0], dim[1], 0); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("Render(%d, %d) err = %v, want ErrInvalidDimensions", dim[0], dim[1], err)
		}
	}
}

func TestRenderIntoBufferSize(t *testing.T) {
	r := New(1)
	err := r.RenderInto(context.Background(), make([]byte, 10), 4, 4, 0)
	if !errors.Is(err, ErrBufferSize) {
		t.Fatalf("RenderInto(short) err = %v, want ErrBufferSize", err)
	}
	err = r.RenderInto(context.Background(), nil, 0, 4, 0)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("RenderInto(0x4) err = %v, want ErrInvalidDimensions", err)
	}
}

func TestRenderPeriodic(t *testing.T) {
	r := New(1)
	angles := []float64{0, 0.75, 3, -1}
	for k := 1; k < 4; k++ {
		angles = append(angles, float64(k)*math.Pi/2)
	}
	for _, angle := range angles {
		a := mustRender(t, r, 64, 48, angle)
		b := mustRender(t, r, 64, 48, angle+2*math.Pi)
		if !bytes.Equal(a, b) {
			t.Fatalf("frames at %v and %v+2π differ", angle, angle)
		}
	}
}

func TestRenderAngleMoves(t *testing.T) {
	r := New(1)
	a := mustRender(t, r, 64, 48, 0)
	b := mustRender(t, r, 64, 48, math.Pi/2)
	if bytes.Equal(a, b) {
		t.Fatal("frames a quarter orbit apart are identical")
	}
}

func TestRenderResizeIdempotent(t *testing.T) {
	r := New(0)
	const angle = 1.1

	first := mustRender(t, r, 100, 100, angle)
	wide := mustRender(t, r, 200, 150, angle)
	again := mustRender(t, r, 100, 100, angle)

	if len(wide) != 200*150*4 {
		t.Fatalf("len(wide) = %d, want %d", len(wide), 200*150*4)
	}
	if !bytes.Equal(first, again) {
		t.Fatal("100x100 frame changed after rendering at 200x150")
	}
}

func TestRenderParallelMatchesSerial(t *testing.T) {
	serial := mustRender(t, New(1), 97, 61, 2.3)
	for _, workers := range []int{2, 3, 8, 200} {
		got := mustRender(t, New(workers), 97, 61, 2.3)
		if !bytes.Equal(serial, got) {
			t.Fatalf("workers=%d frame differs from serial render", workers)
		}
	}
}

func TestRenderIntoReusesBuffer(t *testing.T) {
	r := New(2)
	dst := make([]byte, BufferLen(32, 32))
	for i := range dst {
		dst[i] = 0xAA
	}
	if err := r.RenderInto(context.Background(), dst, 32, 32, 0.4); err != nil {
		t.Fatalf("RenderInto: %v", err)
	}
	want := mustRender(t, r, 32, 32, 0.4)
	if !bytes.Equal(dst, want) {
		t.Fatal("RenderInto left stale bytes in the destination")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := New(workers).Render(ctx, 64, 64, 0)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d err = %v, want context.Canceled", workers, err)
		}
	}
}

func BenchmarkRender320x240(b *testing.B) {
	r := New(0)
	dst := make([]byte, BufferLen(320, 240))
	ctx := context.Background()
	b.SetBytes(int64(len(dst)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.RenderInto(ctx, dst, 320, 240, float64(i)*0.01); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRenderSerial320x240(b *testing.B) {
	r := New(1)
	dst := make([]byte, BufferLen(320, 240))
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		if err := r.RenderInto(ctx, dst, 320, 240, float64(i)*0.01); err != nil {
			b.Fatal(err)
		}
	}
}
