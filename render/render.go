// Package render ray traces the orbit scene into BGRA pixel buffers.
//
// Every frame is computed from scratch: there is no state shared between
// frames, resolutions or pixels, so rows are rendered in parallel bands.
package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"orbit/scene"

	"golang.org/x/sync/errgroup"
)

// BytesPerPixel is the size of one B,G,R,A pixel.
const BytesPerPixel = 4

var (
	ErrInvalidDimensions = errors.New("render: invalid dimensions")
	ErrBufferSize        = errors.New("render: destination buffer size mismatch")
)

// bandsPerWorker is the number of row bands queued per worker.
const bandsPerWorker = 4

// Renderer renders frames. The zero value uses one worker per CPU.
type Renderer struct {
	// Workers bounds the goroutines used per frame. 0 means runtime.NumCPU();
	// 1 renders on the calling goroutine.
	Workers int
}

// New returns a Renderer limited to workers goroutines.
func New(workers int) *Renderer {
	return &Renderer{Workers: workers}
}

var defaultRenderer Renderer

// Render renders one frame with the default renderer.
func Render(width, height int, angle float64) ([]byte, error) {
	return defaultRenderer.Render(context.Background(), width, height, angle)
}

// BufferLen returns the number of bytes in a width×height frame.
func BufferLen(width, height int) int {
	return width * height * BytesPerPixel
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return fmt.Errorf("%w: %dx%d overflows the buffer size", ErrInvalidDimensions, width, height)
	}
	return nil
}

// Render allocates and fills a new width×height frame for angle.
func (r *Renderer) Render(ctx context.Context, width, height int, angle float64) ([]byte, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	buf := make([]byte, BufferLen(width, height))
	if err := r.RenderInto(ctx, buf, width, height, angle); err != nil {
		return nil, err
	}
	return buf, nil
}

// RenderInto fills dst, which must hold exactly width×height pixels, with
// the frame for angle. The caller must not read dst until RenderInto returns.
// A cancelled ctx stops the render between rows and leaves dst partially
// written.
func (r *Renderer) RenderInto(ctx context.Context, dst []byte, width, height int, angle float64) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	if want := BufferLen(width, height); len(dst) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrBufferSize, len(dst), want, width, height)
	}

	sc := scene.Build(angle)
	workers := r.workers()
	if workers == 1 || height == 1 {
		return renderRows(ctx, &sc, dst, width, height, 0, height)
	}

	band := max(1, height/(workers*bandsPerWorker))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		g.Go(func() error {
			return renderRows(gctx, &sc, dst, width, height, y0, y1)
		})
	}
	return g.Wait()
}

func (r *Renderer) workers() int {
	if r == nil || r.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.Workers
}

// renderRows shades rows [y0, y1). Bands never overlap, so writes to dst
// need no locking.
func renderRows(ctx context.Context, sc *scene.Scene, dst []byte, width, height, y0, y1 int) error {
	tr := tracer{spheres: sc.Spheres[:]}
	for y := y0; y < y1; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := y * width * BytesPerPixel
		for x := 0; x < width; x++ {
			c := tr.trace(PrimaryRay(x, y, width, height), 0)
			putPixel(dst[row+x*BytesPerPixel:], c)
		}
	}
	return nil
}

// putPixel stores c as opaque B,G,R,A.
func putPixel(px []byte, c rgb) {
	c = c.clamp()
	px[0] = byte(c.b)
	px[1] = byte(c.g)
	px[2] = byte(c.r)
	px[3] = 0xFF
}
