package filter

import "time"

// Stats summarises per-instance processing behaviour for instrumentation.
// LastX/LastY and MatchW/MatchH describe the region of the last valid
// detection; they are meaningful only while LastValid is set.
type Stats struct {
	Frames        uint64
	PassedThrough uint64
	Detections    uint64
	Matches       uint64
	AvgDetect     time.Duration
	LastScore     float64
	LastDetectAt  time.Time
	LastValid     bool
	LastX         int
	LastY         int
	MatchW        int
	MatchH        int
}

// Stats returns a snapshot of the filter's counters and detection state.
func (f *Filter) Stats() Stats {
	detections := f.detections.Load()
	total := f.detectNanos.Load()
	var avg time.Duration
	if detections > 0 && total > 0 {
		avg = time.Duration(total / detections)
	}
	f.mu.Lock()
	score := f.lastScore
	at := f.lastDetect
	valid := f.lastValid
	x, y := f.lastX, f.lastY
	var mw, mh int
	if f.template != nil {
		mw, mh = f.template.W, f.template.H
	}
	f.mu.Unlock()
	return Stats{
		Frames:        f.frames.Load(),
		PassedThrough: f.passthrough.Load(),
		Detections:    detections,
		Matches:       f.matchCount.Load(),
		AvgDetect:     avg,
		LastScore:     score,
		LastDetectAt:  at,
		LastValid:     valid,
		LastX:         x,
		LastY:         y,
		MatchW:        mw,
		MatchH:        mh,
	}
}
