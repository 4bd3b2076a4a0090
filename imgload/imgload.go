// Package imgload reads template and overlay images from disk. Loading is
// deliberately forgiving: any failure yields nil so a missing or broken asset
// disables the dependent feature instead of failing the pipeline.
package imgload

import (
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/soocke/shape-overlay-go/domain/overlay"
	"github.com/soocke/shape-overlay-go/domain/vision"
)

// LoadGray reads the image at path and reduces it to a luminance plane.
// An empty path, an unreadable file, or an undecodable image yields nil.
func LoadGray(path string) *vision.Gray {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil
	}
	g := vision.GrayFromImage(img)
	if g.Empty() {
		return nil
	}
	return g
}

// LoadOverlay reads the image at path as a 4-channel BGRA buffer. Sources
// without an alpha channel become fully opaque; unsupported color models
// yield nil, as does any read or decode failure.
func LoadOverlay(path string) *overlay.Buffer {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil
	}
	b := overlay.FromImage(img)
	if b.Empty() {
		return nil
	}
	return b
}
