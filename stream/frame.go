package stream

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// HeaderSize is the fixed prefix of every frame message.
const HeaderSize = 8 + 4 + 4 + 4

var (
	ErrShortMessage = errors.New("stream: message shorter than header")
	ErrFrameSize    = errors.New("stream: frame size mismatch")
)

// EncodeFrame packs a BGRA frame into one binary message: seq u64, width
// u32, height u32 and block length u32 (little-endian), then the snappy
// block.
func EncodeFrame(seq uint64, width, height int, pix []byte) []byte {
	msg := make([]byte, HeaderSize+snappy.MaxEncodedLen(len(pix)))
	block := snappy.Encode(msg[HeaderSize:], pix)
	binary.LittleEndian.PutUint64(msg[0:8], seq)
	binary.LittleEndian.PutUint32(msg[8:12], uint32(width))
	binary.LittleEndian.PutUint32(msg[12:16], uint32(height))
	binary.LittleEndian.PutUint32(msg[16:20], uint32(len(block)))
	return msg[:HeaderSize+len(block)]
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(msg []byte) (seq uint64, width, height int, pix []byte, err error) {
	if len(msg) < HeaderSize {
		return 0, 0, 0, nil, ErrShortMessage
	}
	seq = binary.LittleEndian.Uint64(msg[0:8])
	w := binary.LittleEndian.Uint32(msg[8:12])
	h := binary.LittleEndian.Uint32(msg[12:16])
	n := int64(binary.LittleEndian.Uint32(msg[16:20]))
	block := msg[HeaderSize:]
	if n != int64(len(block)) {
		return 0, 0, 0, nil, fmt.Errorf("%w: block is %d bytes, header says %d", ErrFrameSize, len(block), n)
	}

	// Sizes come off the wire; compare in int64 before allocating.
	want := int64(w) * int64(h) * 4
	decoded, err := snappy.DecodedLen(block)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("stream: %w", err)
	}
	if int64(decoded) != want {
		return 0, 0, 0, nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrFrameSize, decoded, w, h)
	}
	pix, err = snappy.Decode(nil, block)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("stream: %w", err)
	}
	return seq, int(w), int(h), pix, nil
}
