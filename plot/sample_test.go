package plot_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/nimbus"
	"github.com/zephyrtronium/nimbus/plot"
)

func runLens(p plot.Path) []int {
	r := make([]int, len(p))
	for i, run := range p {
		r[i] = len(run)
	}
	return r
}

func TestSamplePath(t *testing.T) {
	cases := []struct {
		name string
		src  string
		cols int
		runs []int
	}{
		{"line", "x", 200, []int{200}},
		{"parabola", "x^2", 200, []int{200}},
		{"constant", "pi", 50, []int{50}},
		{"recip", "1/x", 201, []int{100, 100}},
		{"recipodd", "1/x", 200, []int{100, 100}},
		{"sqrt", "sqrt(x)", 201, []int{101}},
		{"ln", "ln(x)", 200, []int{100}},
		{"undefined", "sqrt(-1)", 200, nil},
		{"minimum", "x", 0, []int{2}},
		{"maximum", "x", 1e6, []int{plot.MaxColumns}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := nimbus.MustParse(c.src)
			p := plot.SamplePath(e, plot.DefaultView, 600, 400, c.cols)
			got := runLens(p)
			if len(got) != len(c.runs) {
				t.Fatalf("want runs %v, got %v", c.runs, got)
			}
			for i := range got {
				if got[i] != c.runs[i] {
					t.Errorf("want runs %v, got %v", c.runs, got)
					break
				}
			}
		})
	}
}

func TestSamplePathColumns(t *testing.T) {
	e := nimbus.MustParse("x")
	p := plot.SamplePath(e, plot.DefaultView, 600, 400, 200)
	if len(p) != 1 {
		t.Fatalf("want one run, got %d", len(p))
	}
	r := p[0]
	if r[0].X != 0 || r[len(r)-1].X != 600 {
		t.Errorf("samples span %g to %g, want 0 to 600", r[0].X, r[len(r)-1].X)
	}
	for i := 1; i < len(r); i++ {
		if r[i].X <= r[i-1].X {
			t.Errorf("sample %d at %g not right of %g", i, r[i].X, r[i-1].X)
		}
		// y = x is a diagonal across the square default view.
		if !near(r[i].Y, 400-r[i].X*400/600, 1e-9) {
			t.Errorf("sample %d: (%g, %g) is off the line", i, r[i].X, r[i].Y)
		}
	}
}

func TestSamplePathTan(t *testing.T) {
	// Six poles of tan lie in [-10, 10], and no sample column lands on one.
	e := nimbus.MustParse("tan(x)")
	p := plot.SamplePath(e, plot.DefaultView, 600, 400, 200)
	if len(p) != 7 {
		t.Errorf("want 7 runs, got %d: %v", len(p), runLens(p))
	}
	if p.Len() != 200 {
		t.Errorf("want every sample kept, got %d", p.Len())
	}
}

func TestSamplePathSteep(t *testing.T) {
	// Steep but continuous curves must not be broken.
	for _, src := range []string{"100*x", "x^3", "exp(x)", "-50*x"} {
		e := nimbus.MustParse(src)
		p := plot.SamplePath(e, plot.DefaultView, 600, 400, 200)
		if len(p) != 1 {
			t.Errorf("%s: want one run, got %v", src, runLens(p))
		}
	}
}

type failing struct{}

var errFailing = errors.New("fails")

func (failing) Eval(x float64) (float64, error) {
	if x < 0 {
		return 0, errFailing
	}
	return x, nil
}

func TestSamplePathCurve(t *testing.T) {
	p := plot.SamplePath(failing{}, plot.DefaultView, 600, 400, 201)
	if got := runLens(p); len(got) != 1 || got[0] != 101 {
		t.Errorf("want one run of 101, got %v", got)
	}
}

func TestSamplePathInvalid(t *testing.T) {
	e := nimbus.MustParse("x")
	if p := plot.SamplePath(e, plot.View{}, 600, 400, 200); p != nil {
		t.Errorf("invalid view: want no path, got %v", runLens(p))
	}
	if p := plot.SamplePath(e, plot.DefaultView, 0, 400, 200); p != nil {
		t.Errorf("zero width: want no path, got %v", runLens(p))
	}
	if p := plot.SamplePath(e, plot.DefaultView, 600, -1, 200); p != nil {
		t.Errorf("negative height: want no path, got %v", runLens(p))
	}
}

func BenchmarkSamplePath(b *testing.B) {
	e := nimbus.MustParse("sin(x)^2 + cos(x)^2 - exp(-abs(x)) / sqrt(ln(e + x^2))")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		plot.SamplePath(e, plot.DefaultView, 600, 400, plot.DefaultColumns)
	}
}
