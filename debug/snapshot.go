package debug

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

const (
	snapshotMinGap  = 2 * time.Second
	snapshotMaxEdge = 960
)

// SnapshotWriter dumps annotated detection frames to disk for offline
// inspection. Writes are rate limited so a busy stream cannot flood the
// directory, and large frames are downscaled before encoding.
type SnapshotWriter struct {
	dir    string
	logger *slog.Logger

	last     atomic.Int64 // unix nanos of the last accepted write
	sequence atomic.Uint64
}

// NewSnapshotWriter returns a writer that saves PNGs under dir. The
// directory is created on first use.
func NewSnapshotWriter(dir string, logger *slog.Logger) *SnapshotWriter {
	return &SnapshotWriter{dir: dir, logger: logger}
}

// Save writes frame with the match rectangle and score drawn on top. Calls
// arriving inside the rate-limit window are dropped.
func (w *SnapshotWriter) Save(frame image.Image, x, y, rw, rh int, score float64) {
	if w == nil || frame == nil {
		return
	}
	now := time.Now().UnixNano()
	last := w.last.Load()
	if last != 0 && time.Duration(now-last) < snapshotMinGap {
		return
	}
	if !w.last.CompareAndSwap(last, now) {
		return
	}

	scale := 1.0
	b := frame.Bounds()
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	if long > snapshotMaxEdge {
		scale = float64(snapshotMaxEdge) / float64(long)
		dw := int(float64(b.Dx()) * scale)
		dh := int(float64(b.Dy()) * scale)
		small := image.NewNRGBA(image.Rect(0, 0, dw, dh))
		xdraw.ApproxBiLinear.Scale(small, small.Bounds(), frame, b, xdraw.Src, nil)
		frame = small
	}

	dc := gg.NewContextForImage(frame)
	dc.SetRGBA(0, 1, 0, 1)
	dc.SetLineWidth(2)
	dc.DrawRectangle(float64(x)*scale, float64(y)*scale, float64(rw)*scale, float64(rh)*scale)
	dc.Stroke()
	label := fmt.Sprintf("%.3f", score)
	ly := float64(y)*scale - 4
	if ly < 10 {
		ly = float64(y+rh)*scale + 12
	}
	dc.DrawString(label, float64(x)*scale, ly)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		if w.logger != nil {
			w.logger.Warn("snapshot.mkdir", "dir", w.dir, "error", err)
		}
		return
	}
	seq := w.sequence.Add(1)
	path := filepath.Join(w.dir, fmt.Sprintf("match_%05d.png", seq))
	if err := dc.SavePNG(path); err != nil {
		if w.logger != nil {
			w.logger.Warn("snapshot.save", "path", path, "error", err)
		}
		return
	}
	if w.logger != nil {
		w.logger.Debug("snapshot.saved", "path", path, "score", score)
	}
}
