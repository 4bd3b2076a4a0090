package vision

import (
	"image"
	"sync"
)

// Gray is a single-channel 8-bit luminance plane stored row-major without
// row padding.
type Gray struct {
	Pix  []uint8
	W, H int
}

// Empty reports whether the plane holds no pixels.
func (g *Gray) Empty() bool {
	return g == nil || g.W <= 0 || g.H <= 0 || len(g.Pix) == 0
}

// luma8 converts an 8-bit RGB triple to luminance.
// Integer approx: (77R + 150G + 29B) >> 8
func luma8(r, g, b uint8) uint8 {
	return uint8((77*uint32(r) + 150*uint32(g) + 29*uint32(b)) >> 8)
}

// Lightweight reusable plane pool to reduce heap churn caused by repeated
// allocation of large per-frame luminance slices. If consumers never recycle,
// the behavior degrades gracefully to plain allocation.
var grayPool sync.Pool // stores *Gray

// AcquireGray returns a plane sized w x h whose contents are undefined. Call
// RecycleGray when done to allow reuse.
func AcquireGray(w, h int) *Gray {
	if w <= 0 || h <= 0 {
		return &Gray{}
	}
	need := w * h
	var g *Gray
	if v := grayPool.Get(); v != nil {
		g = v.(*Gray)
	}
	if g == nil || cap(g.Pix) < need {
		g = &Gray{Pix: make([]uint8, need), W: w, H: h}
	} else {
		g.Pix = g.Pix[:need]
		g.W, g.H = w, h
	}
	return g
}

// RecycleGray returns a plane to the pool for potential reuse. The plane must
// no longer be accessed by the caller after invoking RecycleGray.
func RecycleGray(g *Gray) {
	if g == nil || g.Pix == nil {
		return
	}
	grayPool.Put(g)
}

// GrayFromImage converts a decoded image to a luminance plane. Alpha is
// ignored; achromatic pixels convert to their own value exactly.
func GrayFromImage(img image.Image) *Gray {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	g := AcquireGray(w, h)
	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(g.Pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
	case *image.NRGBA:
		idx := 0
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			for x := 0; x < w; x++ {
				i := x * 4
				g.Pix[idx] = luma8(row[i], row[i+1], row[i+2])
				idx++
			}
		}
	default:
		idx := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, gg, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				g.Pix[idx] = luma8(uint8(r>>8), uint8(gg>>8), uint8(bb>>8))
				idx++
			}
		}
	}
	return g
}

// GrayFromBGRA builds a luminance plane from packed 4-channel pixels in
// B,G,R,X byte order with the given row stride in bytes. Returns nil when the
// buffer is too small for the stated geometry.
func GrayFromBGRA(data []byte, w, h, stride int) *Gray {
	if w <= 0 || h <= 0 || stride < w*4 || len(data) < (h-1)*stride+w*4 {
		return nil
	}
	g := AcquireGray(w, h)
	idx := 0
	for y := 0; y < h; y++ {
		row := data[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			g.Pix[idx] = luma8(row[i+2], row[i+1], row[i])
			idx++
		}
	}
	return g
}
