package vision

import "sync"

// integralPlanes stores summed-area tables (integral images) of a luminance
// plane and of its square. The integrals allow O(1) window sum and variance
// queries.
type integralPlanes struct {
	sum   []float64
	sumSq []float64
	W, H  int
}

var integralPool sync.Pool // stores *integralPlanes

func acquireIntegrals(w, h int) *integralPlanes {
	need := w * h
	var p *integralPlanes
	if v := integralPool.Get(); v != nil {
		p = v.(*integralPlanes)
	}
	if p == nil || cap(p.sum) < need {
		p = &integralPlanes{
			sum:   make([]float64, need),
			sumSq: make([]float64, need),
			W:     w,
			H:     h,
		}
	} else {
		p.sum = p.sum[:need]
		p.sumSq = p.sumSq[:need]
		p.W, p.H = w, h
	}
	return p
}

func recycleIntegrals(p *integralPlanes) {
	if p == nil || p.sum == nil {
		return
	}
	integralPool.Put(p)
}

// buildIntegrals computes the summed-area tables of g and g squared.
func buildIntegrals(g *Gray) *integralPlanes {
	W, H := g.W, g.H
	p := acquireIntegrals(W, H)
	for y := 0; y < H; y++ {
		var rowSum, rowSum2 float64
		for x := 0; x < W; x++ {
			v := float64(g.Pix[y*W+x])
			off := y*W + x
			rowSum += v
			rowSum2 += v * v
			if y == 0 {
				p.sum[off] = rowSum
				p.sumSq[off] = rowSum2
			} else {
				p.sum[off] = p.sum[(y-1)*W+x] + rowSum
				p.sumSq[off] = p.sumSq[(y-1)*W+x] + rowSum2
			}
		}
	}
	return p
}

// integralSum returns the inclusive sum over rectangle [x0..x1] x [y0..y1]
// from an integral image stored in row-major order with width W.
func integralSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	if x0 > x1 || y0 > y1 {
		return 0
	}
	A := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return A(x1, y1) - A(x0-1, y1) - A(x1, y0-1) + A(x0-1, y0-1)
}
