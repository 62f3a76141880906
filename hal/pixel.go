package hal

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// fillBGRA paints every pixel of buf with an opaque color.
func fillBGRA(buf []byte, r, g, b uint8) {
	for i := 0; i+3 < len(buf); i += 4 {
		buf[i] = b
		buf[i+1] = g
		buf[i+2] = r
		buf[i+3] = 0xFF
	}
}

// swizzleBGRAToRGBA copies src into dst swapping the red and blue channels.
// It copies min(len(dst), len(src)) bytes rounded down to whole pixels.
func swizzleBGRAToRGBA(dst, src []byte) {
	n := min(len(dst), len(src)) &^ 3
	for i := 0; i < n; i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// rgb565FromBGRA converts one BGRA pixel.
func rgb565FromBGRA(px []byte) uint16 {
	return rgb565(px[2], px[1], px[0])
}
