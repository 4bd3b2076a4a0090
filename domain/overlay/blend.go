package overlay

// Blend composites src onto a packed 4-channel frame buffer at (dstX, dstY),
// clipped to the frame bounds. opacity scales the source alpha in [0, 1].
// Source pixels whose effective alpha rounds to zero leave the destination
// bytes untouched; every written pixel gets an opaque destination alpha. The
// destination is mutated in place.
func Blend(dst []byte, frameW, frameH, stride int, src *Buffer, dstX, dstY int, opacity float64) {
	if src.Empty() || len(dst) == 0 || frameW <= 0 || frameH <= 0 || stride < frameW*4 {
		return
	}
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	x0, y0 := dstX, dstY
	x1, y1 := dstX+src.W, dstY+src.H
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > frameW {
		x1 = frameW
	}
	if y1 > frameH {
		y1 = frameH
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if len(dst) < (y1-1)*stride+x1*4 {
		return
	}

	for y := y0; y < y1; y++ {
		dRow := dst[y*stride:]
		sRow := src.Pix[(y-dstY)*src.W*4:]
		for x := x0; x < x1; x++ {
			si := (x - dstX) * 4
			di := x * 4
			ea := int(float64(sRow[si+3])*opacity + 0.5)
			if ea <= 0 {
				continue
			}
			inv := 255 - ea
			dRow[di] = uint8((int(sRow[si])*ea + int(dRow[di])*inv + 127) / 255)
			dRow[di+1] = uint8((int(sRow[si+1])*ea + int(dRow[di+1])*inv + 127) / 255)
			dRow[di+2] = uint8((int(sRow[si+2])*ea + int(dRow[di+2])*inv + 127) / 255)
			dRow[di+3] = 255
		}
	}
}
