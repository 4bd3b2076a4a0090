package vision

import "math"

// Result holds the outcome of a template matching operation. Score is the
// best correlation coefficient found anywhere in the frame, reported even
// when it falls below the match threshold.
type Result struct {
	X, Y  int
	Score float64
	Found bool
}

// tmplStats caches grayscale summary statistics for a template plane.
type tmplStats struct {
	sum   float64
	sumSq float64
	mean  float64
	std   float64
}

func statsOf(t *Gray) tmplStats {
	var sum, sumSq float64
	for _, v := range t.Pix {
		f := float64(v)
		sum += f
		sumSq += f * f
	}
	n := float64(len(t.Pix))
	mean := sum / n
	variance := (sumSq - sum*sum/n) / n
	std := 0.0
	if variance > 0 {
		std = math.Sqrt(variance)
	}
	return tmplStats{sum: sum, sumSq: sumSq, mean: mean, std: std}
}

// MatchTemplate computes the zero-mean normalized cross-correlation
// coefficient between tmpl and every window of frame and returns the global
// maximum. Scores lie in [-1, 1]; ties keep the first window in raster order.
// Empty inputs, a template larger than the frame, or a frame with no
// normalizable window yield a zero Result.
func MatchTemplate(frame, tmpl *Gray, threshold float64) Result {
	if frame.Empty() || tmpl.Empty() {
		return Result{}
	}
	W, H := frame.W, frame.H
	w, h := tmpl.W, tmpl.H
	if W < w || H < h {
		return Result{}
	}
	ts := statsOf(tmpl)
	if ts.std <= 1e-9 {
		return matchFlat(frame, tmpl, threshold)
	}

	pre := buildIntegrals(frame)
	defer recycleIntegrals(pre)

	n := float64(w * h)
	bestX, bestY := 0, 0
	bestScore := math.Inf(-1)
	computed := false
	for y := 0; y <= H-h; y++ {
		for x := 0; x <= W-w; x++ {
			sumF := integralSum(pre.sum, W, x, y, x+w-1, y+h-1)
			sumF2 := integralSum(pre.sumSq, W, x, y, x+w-1, y+h-1)
			meanF := sumF / n
			varF := (sumF2 - sumF*sumF/n) / n
			if varF <= 1e-9 {
				continue
			}
			stdF := math.Sqrt(varF)
			var sumFT float64
			for ty := 0; ty < h; ty++ {
				fRow := frame.Pix[(y+ty)*W+x : (y+ty)*W+x+w]
				tRow := tmpl.Pix[ty*w : ty*w+w]
				for tx := 0; tx < w; tx++ {
					sumFT += float64(fRow[tx]) * float64(tRow[tx])
				}
			}
			score := (sumFT - n*meanF*ts.mean) / (n * stdF * ts.std)
			if score > bestScore {
				bestScore, bestX, bestY = score, x, y
				computed = true
			}
		}
	}
	if !computed {
		return Result{}
	}
	return Result{X: bestX, Y: bestY, Score: bestScore, Found: bestScore >= threshold}
}

// matchFlat handles a template with no variance, which cannot be normalized.
// It scans for an exactly uniform window of the template's value; the first
// hit in raster order scores 1.
func matchFlat(frame, tmpl *Gray, threshold float64) Result {
	ref := tmpl.Pix[0]
	W, H := frame.W, frame.H
	w, h := tmpl.W, tmpl.H
	for y := 0; y <= H-h; y++ {
		for x := 0; x <= W-w; x++ {
			if frame.Pix[(y+h/2)*W+x+w/2] != ref {
				continue
			}
			ok := true
			for ty := 0; ty < h && ok; ty++ {
				row := frame.Pix[(y+ty)*W+x : (y+ty)*W+x+w]
				for tx := 0; tx < w; tx++ {
					if row[tx] != ref {
						ok = false
						break
					}
				}
			}
			if ok {
				res := Result{X: x, Y: y, Score: 1}
				res.Found = res.Score >= threshold
				return res
			}
		}
	}
	return Result{}
}
