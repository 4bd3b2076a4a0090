package filter

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameFromImageSwapsChannels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	img.SetNRGBA(1, 0, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	fr := FrameFromImage(img)
	if fr == nil || fr.Format != FormatBGRA || fr.Width != 2 || fr.Height != 1 {
		t.Fatalf("FrameFromImage = %+v", fr)
	}
	want := []byte{3, 2, 1, 4, 7, 8, 9, 255}
	if diff := cmp.Diff(want, fr.Data); diff != "" {
		t.Errorf("frame data (-want +got):\n%s", diff)
	}
}

func TestFrameFromImageRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	fr := FrameFromImage(img)
	want := []byte{30, 20, 10, 255}
	if diff := cmp.Diff(want, fr.Data); diff != "" {
		t.Errorf("frame data (-want +got):\n%s", diff)
	}
}

func TestFrameFromImageNil(t *testing.T) {
	if fr := FrameFromImage(nil); fr != nil {
		t.Errorf("nil image: got %+v", fr)
	}
	if fr := FrameFromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0))); fr != nil {
		t.Errorf("empty image: got %+v", fr)
	}
}

func TestFrameToImageRoundTrip(t *testing.T) {
	fr := &Frame{Format: FormatBGRA, Width: 2, Height: 2, Stride: 8, Data: []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 255,
	}}
	back := FrameFromImage(fr.ToImage())
	if diff := cmp.Diff(fr.Data, back.Data); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestFrameToImageBGRXForcesOpaque(t *testing.T) {
	fr := &Frame{Format: FormatBGRX, Width: 2, Height: 1, Stride: 8, Data: []byte{
		1, 2, 3, 9, 4, 5, 6, 9,
	}}
	img := fr.ToImage()
	if img == nil {
		t.Fatal("ToImage returned nil")
	}
	for x := 0; x < 2; x++ {
		if a := img.Pix[x*4+3]; a != 255 {
			t.Errorf("pixel %d alpha = %d, want 255", x, a)
		}
	}
}

func TestFrameToImageUnsupported(t *testing.T) {
	fr := &Frame{Format: FormatI420, Width: 4, Height: 4, Stride: 4, Data: make([]byte, 24)}
	if img := fr.ToImage(); img != nil {
		t.Errorf("planar format should not convert, got %+v", img.Bounds())
	}
}

func TestFrameValid(t *testing.T) {
	cases := []struct {
		name string
		fr   Frame
		want bool
	}{
		{"ok", Frame{Width: 2, Height: 2, Stride: 8, Data: make([]byte, 16)}, true},
		{"padded stride", Frame{Width: 2, Height: 2, Stride: 12, Data: make([]byte, 20)}, true},
		{"stride too small", Frame{Width: 2, Height: 2, Stride: 4, Data: make([]byte, 16)}, false},
		{"short data", Frame{Width: 2, Height: 2, Stride: 8, Data: make([]byte, 12)}, false},
		{"zero width", Frame{Width: 0, Height: 2, Stride: 8, Data: make([]byte, 16)}, false},
		{"zero height", Frame{Width: 2, Height: 0, Stride: 8, Data: make([]byte, 16)}, false},
	}
	for _, c := range cases {
		if got := c.fr.valid(); got != c.want {
			t.Errorf("%s: valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestPixelFormatString(t *testing.T) {
	names := map[PixelFormat]string{
		FormatBGRA:    "BGRA",
		FormatBGRX:    "BGRX",
		FormatI420:    "I420",
		FormatNV12:    "NV12",
		FormatYUY2:    "YUY2",
		FormatUnknown: "unknown",
	}
	for f, want := range names {
		if got := f.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", f, got, want)
		}
	}
	if FormatBGRA.fourBytePacked() != true || FormatI420.fourBytePacked() != false {
		t.Error("fourBytePacked misclassifies formats")
	}
}
