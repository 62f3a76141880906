package record

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// maxFrameBytes bounds a single frame read from disk (8K UHD BGRA).
const maxFrameBytes = 7680 * 4320 * bytesPerPixel

// Frame is one decoded frame.
type Frame struct {
	Seq    uint64
	Angle  float64
	Width  int
	Height int
	Pix    []byte
}

// Reader iterates the frames of a bundle.
type Reader struct {
	Manifest Manifest

	file   *os.File
	dec    *zstd.Decoder
	header [headerSize]byte
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return Manifest{}, fmt.Errorf("record: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("record: manifest: %w", err)
	}
	return m, nil
}

// Open opens the frame stream of the bundle in dir.
func Open(dir string) (*Reader, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if m.PixelFormat != pixelFormat {
		return nil, fmt.Errorf("record: unsupported pixel format %q", m.PixelFormat)
	}
	f, err := os.Open(filepath.Join(dir, m.FramesPath))
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("record: %w", err)
	}
	return &Reader{Manifest: m, file: f, dec: dec}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	if _, err := io.ReadFull(r.dec, r.header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrTruncated
		}
		return Frame{}, fmt.Errorf("record: %w", err)
	}

	fr := Frame{
		Seq:    binary.LittleEndian.Uint64(r.header[0:8]),
		Angle:  math.Float64frombits(binary.LittleEndian.Uint64(r.header[8:16])),
		Width:  int(binary.LittleEndian.Uint32(r.header[16:20])),
		Height: int(binary.LittleEndian.Uint32(r.header[20:24])),
	}
	n := int64(fr.Width) * int64(fr.Height) * bytesPerPixel
	if fr.Width <= 0 || fr.Height <= 0 || n > maxFrameBytes {
		return Frame{}, fmt.Errorf("%w: seq %d is %dx%d", ErrCorrupt, fr.Seq, fr.Width, fr.Height)
	}
	fr.Pix = make([]byte, n)
	if _, err := io.ReadFull(r.dec, fr.Pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrTruncated
		}
		return Frame{}, fmt.Errorf("record: %w", err)
	}
	return fr, nil
}

// Close releases the decoder and the file.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	r.dec.Close()
	return r.file.Close()
}

// ReadIndex decodes every line of the bundle's index log.
func ReadIndex(dir string) ([]IndexEntry, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, m.IndexPath))
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	defer f.Close()

	var out []IndexEntry
	sc := bufio.NewScanner(snappy.NewReader(f))
	for sc.Scan() {
		var e IndexEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("record: index line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("record: index: %w", err)
	}
	return out, nil
}
