package overlay

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer is a packed 4-channel pixel grid in B,G,R,A byte order, row-major
// without padding. Alpha is straight, not premultiplied.
type Buffer struct {
	Pix  []uint8
	W, H int
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.W <= 0 || b.H <= 0 || len(b.Pix) == 0
}

// FromImage converts a decoded image to a BGRA buffer. Single-channel and
// three-channel sources gain a fully opaque alpha channel; four-channel
// sources keep theirs. Other color models (CMYK and friends) are rejected
// with nil.
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	buf := &Buffer{Pix: make([]uint8, w*h*4), W: w, H: h}
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := buf.Pix[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				i := x * 4
				out[i] = row[i+2]
				out[i+1] = row[i+1]
				out[i+2] = row[i]
				out[i+3] = row[i+3]
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+w]
			out := buf.Pix[y*w*4 : (y+1)*w*4]
			for x := 0; x < w; x++ {
				v := row[x]
				i := x * 4
				out[i] = v
				out[i+1] = v
				out[i+2] = v
				out[i+3] = 255
			}
		}
	case *image.CMYK:
		return nil
	case *image.RGBA, *image.RGBA64, *image.NRGBA64, *image.Gray16, *image.YCbCr, *image.NYCbCrA, *image.Paletted:
		idx := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				buf.Pix[idx] = c.B
				buf.Pix[idx+1] = c.G
				buf.Pix[idx+2] = c.R
				buf.Pix[idx+3] = c.A
				idx += 4
			}
		}
	default:
		return nil
	}
	return buf
}

// ToImage converts the buffer back to a straight-alpha image.
func (b *Buffer) ToImage() *image.NRGBA {
	if b.Empty() {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		row := b.Pix[y*b.W*4 : (y+1)*b.W*4]
		out := img.Pix[y*img.Stride : y*img.Stride+b.W*4]
		for x := 0; x < b.W; x++ {
			i := x * 4
			out[i] = row[i+2]
			out[i+1] = row[i+1]
			out[i+2] = row[i]
			out[i+3] = row[i+3]
		}
	}
	return img
}

// Scaled returns the buffer resampled to w x h with an area-average kernel,
// or the buffer itself when the size already matches.
func (b *Buffer) Scaled(w, h int) *Buffer {
	if b.Empty() || w <= 0 || h <= 0 {
		return nil
	}
	if w == b.W && h == b.H {
		return b
	}
	return FromImage(imaging.Resize(b.ToImage(), w, h, imaging.Box))
}
