package filter

import (
	"image"
	"image/color"
)

// PixelFormat tags the byte layout of a Frame's pixel data.
type PixelFormat int

const (
	FormatUnknown PixelFormat = iota
	FormatBGRA                // packed 4 bytes per pixel: B, G, R, A
	FormatBGRX                // packed 4 bytes per pixel: B, G, R, padding
	FormatI420
	FormatNV12
	FormatYUY2
)

func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA:
		return "BGRA"
	case FormatBGRX:
		return "BGRX"
	case FormatI420:
		return "I420"
	case FormatNV12:
		return "NV12"
	case FormatYUY2:
		return "YUY2"
	default:
		return "unknown"
	}
}

// fourBytePacked reports whether the format is one of the supported packed
// 4-channel layouts.
func (f PixelFormat) fourBytePacked() bool {
	return f == FormatBGRA || f == FormatBGRX
}

// Frame is a mutable view of one video frame owned by the caller. Data holds
// Height rows of Stride bytes each. The filter writes into Data in place and
// never retains it past the call.
type Frame struct {
	Format PixelFormat
	Width  int
	Height int
	Stride int
	Data   []byte
}

// valid reports whether the stated geometry fits the backing buffer.
func (f *Frame) valid() bool {
	return f.Width > 0 && f.Height > 0 &&
		f.Stride >= f.Width*4 &&
		len(f.Data) >= (f.Height-1)*f.Stride+f.Width*4
}

// FrameFromImage copies img into a freshly allocated BGRA frame.
func FrameFromImage(img image.Image) *Frame {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	fr := &Frame{Format: FormatBGRA, Width: w, Height: h, Stride: w * 4, Data: make([]byte, w*h*4)}
	switch src := img.(type) {
	case *image.NRGBA:
		copySwapped(fr, src.Pix, src.Stride)
	case *image.RGBA:
		copySwapped(fr, src.Pix, src.Stride)
	default:
		idx := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				fr.Data[idx] = c.B
				fr.Data[idx+1] = c.G
				fr.Data[idx+2] = c.R
				fr.Data[idx+3] = c.A
				idx += 4
			}
		}
	}
	return fr
}

func copySwapped(fr *Frame, pix []uint8, stride int) {
	for y := 0; y < fr.Height; y++ {
		row := pix[y*stride : y*stride+fr.Width*4]
		out := fr.Data[y*fr.Stride : y*fr.Stride+fr.Width*4]
		for x := 0; x < fr.Width; x++ {
			i := x * 4
			out[i] = row[i+2]
			out[i+1] = row[i+1]
			out[i+2] = row[i]
			out[i+3] = row[i+3]
		}
	}
}

// ToImage copies the frame into a straight-alpha image for writers and debug
// snapshots. Only the packed 4-channel formats convert; others yield nil.
// BGRX padding bytes come out fully opaque.
func (f *Frame) ToImage() *image.NRGBA {
	if f == nil || !f.Format.fourBytePacked() || !f.valid() {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := f.Data[y*f.Stride : y*f.Stride+f.Width*4]
		out := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		for x := 0; x < f.Width; x++ {
			i := x * 4
			out[i] = row[i+2]
			out[i+1] = row[i+1]
			out[i+2] = row[i]
			if f.Format == FormatBGRX {
				out[i+3] = 255
			} else {
				out[i+3] = row[i+3]
			}
		}
	}
	return img
}
