package plot

import "math"

const (
	// DefaultColumns is the number of sample columns a Display uses unless
	// told otherwise.
	DefaultColumns = 200
	// MaxColumns bounds the work done by one sampling pass.
	MaxColumns = 4096
)

// Curve is a function of one variable that may fail at some points.
// *nimbus.Expr is a Curve.
type Curve interface {
	Eval(x float64) (float64, error)
}

// Sample is a point of a sampled curve in screen coordinates.
type Sample struct {
	X, Y float64
}

// Run is a sequence of samples to be joined by line segments.
type Run []Sample

// Path is a sampled curve. Consecutive runs are separated by gaps where the
// curve is undefined or discontinuous.
type Path []Run

// Len returns the total number of samples in the path.
func (p Path) Len() int {
	n := 0
	for _, r := range p {
		n += len(r)
	}
	return n
}

// SamplePath samples c across a w×h canvas showing v. Sample columns are
// evenly spaced from screen x 0 to w inclusive; columns is clamped to
// [2, MaxColumns]. Points where c fails break the path. When two neighboring
// samples are more than a canvas height apart on screen, the midpoint between
// them is evaluated as well, and the path breaks if the curve there fails or
// escapes the range of its neighbors, as it does across a pole.
func SamplePath(c Curve, v View, w, h float64, columns int) Path {
	if !v.Valid() || !canvas(w) || !canvas(h) {
		return nil
	}
	switch {
	case columns < 2:
		columns = 2
	case columns > MaxColumns:
		columns = MaxColumns
	}
	var (
		path Path
		run  Run
		// world coordinates of the last sample in run
		px, py float64
	)
	brk := func() {
		if len(run) > 0 {
			path = append(path, run)
			run = nil
		}
	}
	for i := 0; i < columns; i++ {
		sx := w * float64(i) / float64(columns-1)
		wx, _ := v.ScreenToWorld(w, h, sx, 0)
		wy, err := c.Eval(wx)
		if err != nil {
			brk()
			continue
		}
		_, sy := v.WorldToScreen(w, h, wx, wy)
		if !finite(sy) {
			brk()
			continue
		}
		if len(run) > 0 && math.Abs(sy-run[len(run)-1].Y) > h && pole(c, px, py, wx, wy) {
			brk()
		}
		run = append(run, Sample{X: sx, Y: sy})
		px, py = wx, wy
	}
	brk()
	return path
}

// pole reports whether the curve between (x0, y0) and (x1, y1) leaves the
// interval spanned by its endpoints at the midpoint, or fails there.
func pole(c Curve, x0, y0, x1, y1 float64) bool {
	m, err := c.Eval(x0 + (x1-x0)/2)
	if err != nil {
		return true
	}
	lo, hi := math.Min(y0, y1), math.Max(y0, y1)
	return m < lo || m > hi
}
