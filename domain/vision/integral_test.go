package vision

import "testing"

func TestIntegralSum(t *testing.T) {
	g := mkGray(4, 3,
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	)
	p := buildIntegrals(g)
	defer recycleIntegrals(p)

	cases := []struct {
		x0, y0, x1, y1 int
		want           float64
	}{
		{0, 0, 3, 2, 78}, // whole plane
		{0, 0, 0, 0, 1},
		{3, 2, 3, 2, 12},
		{1, 1, 2, 2, 6 + 7 + 10 + 11},
		{0, 1, 3, 1, 5 + 6 + 7 + 8},
		{2, 0, 2, 2, 3 + 7 + 11},
		{2, 1, 1, 1, 0}, // inverted rect
	}
	for _, c := range cases {
		if got := integralSum(p.sum, p.W, c.x0, c.y0, c.x1, c.y1); got != c.want {
			t.Errorf("sum[%d,%d..%d,%d] = %v, want %v", c.x0, c.y0, c.x1, c.y1, got, c.want)
		}
	}

	if got := integralSum(p.sumSq, p.W, 0, 0, 1, 1); got != 1+4+25+36 {
		t.Errorf("sumSq[0,0..1,1] = %v, want 66", got)
	}
}
