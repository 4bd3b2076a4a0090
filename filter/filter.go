package filter

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/shape-overlay-go/config"
	"github.com/soocke/shape-overlay-go/domain/overlay"
	"github.com/soocke/shape-overlay-go/domain/vision"
	"github.com/soocke/shape-overlay-go/imgload"
)

// Filter searches incoming frames for a template image and composites an
// overlay at the detected location. One instance serves one stream. Update
// may run concurrently with ProcessFrame; ProcessFrame itself is called from
// a single goroutine at a time.
type Filter struct {
	id     string
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	settings config.Settings // normalized
	template *vision.Gray
	draw     *overlay.Buffer // overlay prepared for drawing
	gen      uint64          // bumped by Update; a stale detection must not publish

	lastDetect time.Time
	lastX      int
	lastY      int
	lastScore  float64
	lastValid  bool

	closed     atomic.Bool
	formatWarn atomic.Bool

	frames      atomic.Uint64
	passthrough atomic.Uint64
	detections  atomic.Uint64
	matchCount  atomic.Uint64
	detectNanos atomic.Uint64
}

// New constructs a filter and applies settings synchronously.
func New(settings config.Settings, logger *slog.Logger) *Filter {
	f := &Filter{
		id:  uuid.NewString(),
		now: time.Now,
	}
	if logger != nil {
		f.logger = logger.With("filter_id", f.id)
	}
	f.Update(settings)
	return f
}

// ID returns the instance identifier attached to the filter's log records.
func (f *Filter) ID() string { return f.id }

// Update replaces the filter configuration. Both images are re-read from
// disk on every call, and any previous detection result is discarded. Decode
// and resize happen before the lock is taken.
func (f *Filter) Update(settings config.Settings) {
	settings.Normalize()

	tmpl := imgload.LoadGray(settings.TemplatePath)
	ov := imgload.LoadOverlay(settings.OverlayPath)
	draw := ov
	if settings.ScaleOverlay && tmpl != nil && ov != nil {
		draw = ov.Scaled(tmpl.W, tmpl.H)
	}

	f.mu.Lock()
	f.settings = settings
	f.template = tmpl
	f.draw = draw
	f.lastValid = false
	f.gen++
	f.mu.Unlock()

	if f.logger != nil {
		f.logger.Debug("filter.update",
			"template", settings.TemplatePath,
			"template_loaded", tmpl != nil,
			"overlay", settings.OverlayPath,
			"overlay_loaded", ov != nil,
			"threshold", settings.Threshold,
			"interval_ms", settings.IntervalMS,
			"opacity", settings.Opacity,
		)
	}
}

// ProcessFrame runs the per-frame path: a rate-limited template search
// followed by overlay drawing at the last valid location. The frame is
// modified in place and returned. Unsupported formats pass through untouched.
func (f *Filter) ProcessFrame(frame *Frame) *Frame {
	if frame == nil {
		return nil
	}
	if f.closed.Load() {
		return frame
	}
	f.frames.Add(1)
	if !frame.Format.fourBytePacked() || !frame.valid() {
		f.passthrough.Add(1)
		f.warnUnsupported(frame)
		return frame
	}

	f.mu.Lock()
	st := f.settings
	tmpl := f.template
	draw := f.draw
	gen := f.gen
	lastDetect := f.lastDetect
	x, y := f.lastX, f.lastY
	valid := f.lastValid
	f.mu.Unlock()

	if tmpl.Empty() || draw.Empty() {
		return frame
	}

	interval := time.Duration(st.IntervalMS) * time.Millisecond
	now := f.now()
	if interval == 0 || lastDetect.IsZero() || now.Sub(lastDetect) >= interval {
		start := time.Now()
		gray := vision.GrayFromBGRA(frame.Data, frame.Width, frame.Height, frame.Stride)
		res := vision.MatchTemplate(gray, tmpl, st.Threshold)
		vision.RecycleGray(gray)
		f.detectNanos.Add(uint64(time.Since(start).Nanoseconds()))
		f.detections.Add(1)
		if res.Found {
			f.matchCount.Add(1)
		}

		if res.Found {
			x, y = res.X, res.Y
			valid = true
		} else if st.OnlyWhenMatched {
			valid = false
		}

		f.mu.Lock()
		if f.gen == gen {
			f.lastDetect = now
			f.lastScore = res.Score
			f.lastX, f.lastY = x, y
			f.lastValid = valid
		}
		f.mu.Unlock()

		if f.logger != nil {
			f.logger.Debug("filter.detect",
				"score", res.Score,
				"found", res.Found,
				"x", res.X,
				"y", res.Y,
				"dur", time.Since(start),
			)
		}
	}

	if !valid {
		return frame
	}
	overlay.Blend(frame.Data, frame.Width, frame.Height, frame.Stride, draw, x+st.OffsetX, y+st.OffsetY, st.Opacity/100)
	return frame
}

func (f *Filter) warnUnsupported(frame *Frame) {
	if f.formatWarn.CompareAndSwap(false, true) && f.logger != nil {
		f.logger.Warn("filter.unsupported_frame",
			"format", frame.Format.String(),
			"width", frame.Width,
			"height", frame.Height,
			"stride", frame.Stride,
		)
	}
}

// Close releases the filter's image references. Closing is idempotent;
// subsequent ProcessFrame calls pass frames through unchanged.
func (f *Filter) Close() {
	if !f.closed.CompareAndSwap(false, true) {
		return
	}
	f.mu.Lock()
	f.template = nil
	f.draw = nil
	f.lastValid = false
	f.mu.Unlock()
	if f.logger != nil {
		f.logger.Debug("filter.close")
	}
}
