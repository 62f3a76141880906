//go:build !tinygo

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orbit/render"
)

func TestThumbPath(t *testing.T) {
	tests := map[string]string{
		"out.png":       "out.thumb.png",
		"dir/frame.png": "dir/frame.thumb.png",
		"noext":         "noext.thumb",
		"a.b/frame.PNG": "a.b/frame.thumb.PNG",
	}
	for in, want := range tests {
		if got := thumbPath(in); got != want {
			t.Fatalf("thumbPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToRGBA(t *testing.T) {
	img := toRGBA(1, 1, []byte{60, 40, 30, 255})
	if got := img.Pix[:4]; !bytes.Equal(got, []byte{30, 40, 60, 255}) {
		t.Fatalf("toRGBA() = %v, want [30 40 60 255]", got)
	}
}

func TestRunWritesPNGAndThumb(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "snap.png")
	var stdout bytes.Buffer
	if err := run([]string{"-w", "64", "-h", "48", "-ms", "1000", "-o", out, "-thumb", "16", "-workers", "2"}, &stdout); err != nil {
		t.Fatalf("run() = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v, want 64x48", b)
	}
	// Top-left looks at the sky.
	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 30 || g>>8 != 40 || b>>8 != 60 || a>>8 != 255 {
		t.Fatalf("pixel (0,0) = %d %d %d %d, want 30 40 60 255", r>>8, g>>8, b>>8, a>>8)
	}

	tf, err := os.Open(filepath.Join(dir, "snap.thumb.png"))
	if err != nil {
		t.Fatalf("Open(thumb) = %v", err)
	}
	defer tf.Close()
	thumb, err := png.Decode(tf)
	if err != nil {
		t.Fatalf("png.Decode(thumb) = %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Fatalf("thumb bounds = %v, want 16x12", b)
	}
	if stdout.Len() == 0 {
		t.Fatalf("run() printed nothing")
	}
}

func TestRunRejectsBadSize(t *testing.T) {
	err := run([]string{"-w", "0", "-o", filepath.Join(t.TempDir(), "x.png")}, &bytes.Buffer{})
	if !errors.Is(err, render.ErrInvalidDimensions) {
		t.Fatalf("run() = %v, want %v", err, render.ErrInvalidDimensions)
	}
}

func TestRunAngleFlag(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-angle", "-1"}, "angle -1.0000"},
		{[]string{"-ms", "1000", "-angle", "-0.5"}, "angle -0.5000"},
		{[]string{"-ms", "1000"}, "angle 1.5000"},
		{nil, "angle 0.0000"},
	}
	for i, tt := range tests {
		var stdout bytes.Buffer
		args := append([]string{"-w", "8", "-h", "6", "-o", filepath.Join(dir, fmt.Sprintf("%d.png", i))}, tt.args...)
		if err := run(args, &stdout); err != nil {
			t.Fatalf("run(%v) = %v", tt.args, err)
		}
		if !strings.Contains(stdout.String(), tt.want) {
			t.Fatalf("run(%v) printed %q, want %q", tt.args, stdout.String(), tt.want)
		}
	}
}
