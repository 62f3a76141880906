//go:build !tinygo

// Command rtsnap renders a single frame to a PNG file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"orbit/app"
	"orbit/render"

	"github.com/nfnt/resize"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fatalf("rtsnap: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("rtsnap", flag.ContinueOnError)
	var (
		width   = fs.Int("w", 640, "Frame width in pixels.")
		height  = fs.Int("h", 480, "Frame height in pixels.")
		ms      = fs.Uint64("ms", 0, "Animation time in milliseconds.")
		angle   = fs.Float64("angle", 0, "Orbit angle in radians (overrides -ms).")
		outPath = fs.String("o", "orbit.png", "Output PNG path.")
		thumb   = fs.Uint("thumb", 0, "Also write a thumbnail this many pixels wide (0 disables).")
		workers = fs.Int("workers", 0, "Render goroutines (0 = one per CPU).")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	theta := app.AngleAt(*ms)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "angle" {
			theta = *angle
		}
	})

	pix, err := render.New(*workers).Render(context.Background(), *width, *height, theta)
	if err != nil {
		return err
	}
	img := toRGBA(*width, *height, pix)
	if err := writePNG(*outPath, img); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s (%dx%d, angle %.4f)\n", *outPath, *width, *height, theta)

	if *thumb > 0 {
		small := resize.Resize(*thumb, 0, img, resize.Lanczos3)
		p := thumbPath(*outPath)
		if err := writePNG(p, small); err != nil {
			return err
		}
		b := small.Bounds()
		_, _ = fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", p, b.Dx(), b.Dy())
	}
	return nil
}

// toRGBA reorders a BGRA frame into an image.RGBA.
func toRGBA(width, height int, pix []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(pix) && i+3 < len(img.Pix); i += 4 {
		img.Pix[i+0] = pix[i+2]
		img.Pix[i+1] = pix[i+1]
		img.Pix[i+2] = pix[i+0]
		img.Pix[i+3] = pix[i+3]
	}
	return img
}

func thumbPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + ".thumb" + ext
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
