// Package record writes rendered frames to a compressed on-disk bundle and
// reads them back.
//
// A bundle directory holds manifest.json, frames.bin.zst (a zstd stream of
// header-prefixed BGRA frames) and index.jsonl.sz (one snappy-framed JSON
// line per frame).
package record

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	manifestName = "manifest.json"
	framesName   = "frames.bin.zst"
	indexName    = "index.jsonl.sz"

	manifestVersion = 1
	pixelFormat     = "BGRA8888"
	headerSize      = 8 + 8 + 4 + 4
	bytesPerPixel   = 4
)

var (
	ErrNilWriter = errors.New("record: writer not initialised")
	ErrNoRoot    = errors.New("record: root directory must be provided")
	ErrClosed    = errors.New("record: writer closed")
	ErrBroken    = errors.New("record: writer failed earlier")
	ErrTruncated = errors.New("record: truncated frame")
	ErrCorrupt   = errors.New("record: corrupt frame header")
)

var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Manifest describes a bundle so tooling can locate its files.
type Manifest struct {
	Version     int    `json:"version"`
	CreatedAt   string `json:"created_at"`
	PixelFormat string `json:"pixel_format"`
	FramesPath  string `json:"frames_path"`
	IndexPath   string `json:"index_path"`
}

// IndexEntry is one line of index.jsonl.sz.
type IndexEntry struct {
	Seq        uint64  `json:"seq"`
	Angle      float64 `json:"angle"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	CapturedAt string  `json:"captured_at"`
}

// Writer streams frames into a bundle. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	dir       string
	now       func() time.Time
	frameFile *os.File
	frames    *zstd.Encoder
	indexFile *os.File
	index     *snappy.Writer
	header    [headerSize]byte
	count     uint64
	closed    bool
	failed    error
}

// NewWriter creates <root>/<name>-<UTC timestamp>/ and opens its streams.
// A nil clock means time.Now.
func NewWriter(root, name string, clock func() time.Time) (*Writer, Manifest, error) {
	if root == "" {
		return nil, Manifest{}, ErrNoRoot
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := nameCleaner.ReplaceAllString(name, "")
	if cleaned == "" {
		cleaned = "orbit"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}

	manifest := Manifest{
		Version:     manifestVersion,
		CreatedAt:   created.Format(time.RFC3339Nano),
		PixelFormat: pixelFormat,
		FramesPath:  framesName,
		IndexPath:   indexName,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}

	frameFile, err := os.Create(filepath.Join(dir, framesName))
	if err != nil {
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}
	frames, err := zstd.NewWriter(frameFile, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		frameFile.Close()
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}
	indexFile, err := os.Create(filepath.Join(dir, indexName))
	if err != nil {
		frames.Close()
		frameFile.Close()
		return nil, Manifest{}, fmt.Errorf("record: %w", err)
	}

	w := &Writer{
		dir:       dir,
		now:       clock,
		frameFile: frameFile,
		frames:    frames,
		indexFile: indexFile,
		index:     snappy.NewBufferedWriter(indexFile),
	}
	return w, manifest, nil
}

// Directory returns the bundle directory.
func (w *Writer) Directory() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() uint64 {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// WriteFrame appends one BGRA frame and its index line. pix is not retained.
func (w *Writer) WriteFrame(seq uint64, angle float64, width, height int, pix []byte) error {
	if w == nil {
		return ErrNilWriter
	}
	if width <= 0 || height <= 0 || len(pix) != width*height*bytesPerPixel {
		return fmt.Errorf("record: frame %d: %dx%d with %d bytes", seq, width, height, len(pix))
	}
	line, err := json.Marshal(IndexEntry{
		Seq:        seq,
		Angle:      angle,
		Width:      width,
		Height:     height,
		CapturedAt: w.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("record: index %d: %w", seq, err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.failed != nil {
		return fmt.Errorf("%w: %v", ErrBroken, w.failed)
	}
	if err := w.appendLocked(seq, angle, width, height, pix, line); err != nil {
		w.failed = err
		return err
	}
	w.count++
	return nil
}

// appendLocked writes one frame and its index line. A failure part way
// leaves the two streams out of step.
func (w *Writer) appendLocked(seq uint64, angle float64, width, height int, pix, line []byte) error {
	putHeader(w.header[:], seq, angle, width, height)
	if _, err := w.frames.Write(w.header[:]); err != nil {
		return fmt.Errorf("record: frame %d: %w", seq, err)
	}
	if _, err := w.frames.Write(pix); err != nil {
		return fmt.Errorf("record: frame %d: %w", seq, err)
	}
	if _, err := w.index.Write(line); err != nil {
		return fmt.Errorf("record: index %d: %w", seq, err)
	}
	if err := w.index.Flush(); err != nil {
		return fmt.Errorf("record: index %d: %w", seq, err)
	}
	return nil
}

// Close flushes both streams and releases the files. It reports the first
// failure but always tries every step.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("record: close: %w", err)
		}
	}
	keep(w.frames.Close())
	keep(w.frameFile.Close())
	keep(w.index.Close())
	keep(w.indexFile.Close())
	return firstErr
}

func putHeader(b []byte, seq uint64, angle float64, width, height int) {
	binary.LittleEndian.PutUint64(b[0:8], seq)
	binary.LittleEndian.PutUint64(b[8:16], math.Float64bits(angle))
	binary.LittleEndian.PutUint32(b[16:20], uint32(width))
	binary.LittleEndian.PutUint32(b[20:24], uint32(height))
}
