package imgload

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGrayFromGrayPNG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	vals := []uint8{0, 80, 160, 255}
	copy(src.Pix, vals)

	g := LoadGray(writePNG(t, src))
	if g == nil || g.W != 2 || g.H != 2 {
		t.Fatalf("LoadGray = %+v", g)
	}
	for i, v := range vals {
		if g.Pix[i] != v {
			t.Errorf("pix[%d] = %d, want %d", i, g.Pix[i], v)
		}
	}
}

func TestLoadGrayFromColorPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	g := LoadGray(writePNG(t, src))
	if g == nil {
		t.Fatal("LoadGray returned nil")
	}
	if g.Pix[0] != uint8(77*255>>8) || g.Pix[1] != uint8(150*255>>8) {
		t.Errorf("luma = %v, want [%d %d]", g.Pix[:2], 77*255>>8, 150*255>>8)
	}
}

func TestLoadGrayFailures(t *testing.T) {
	if g := LoadGray(""); g != nil {
		t.Errorf("empty path: got %+v", g)
	}
	if g := LoadGray(filepath.Join(t.TempDir(), "missing.png")); g != nil {
		t.Errorf("missing file: got %+v", g)
	}
	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if g := LoadGray(garbage); g != nil {
		t.Errorf("corrupt file: got %+v", g)
	}
}

func TestLoadOverlayKeepsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	src.SetNRGBA(1, 0, color.NRGBA{R: 50, G: 60, B: 70, A: 255})

	b := LoadOverlay(writePNG(t, src))
	if b == nil || b.W != 2 || b.H != 1 {
		t.Fatalf("LoadOverlay = %+v", b)
	}
	want := []uint8{30, 20, 10, 40, 70, 60, 50, 255}
	for i, v := range want {
		if b.Pix[i] != v {
			t.Errorf("pix[%d] = %d, want %d", i, b.Pix[i], v)
		}
	}
}

func TestLoadOverlayJPEGGainsOpaqueAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "img.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()

	b := LoadOverlay(path)
	if b == nil {
		t.Fatal("LoadOverlay returned nil")
	}
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 255 {
			t.Fatalf("alpha[%d] = %d, want 255", i/4, b.Pix[i])
		}
	}
}

func TestLoadOverlayFailures(t *testing.T) {
	if b := LoadOverlay(""); b != nil {
		t.Errorf("empty path: got %+v", b)
	}
	if b := LoadOverlay(filepath.Join(t.TempDir(), "missing.png")); b != nil {
		t.Errorf("missing file: got %+v", b)
	}
}
