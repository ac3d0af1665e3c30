package plot_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/nimbus/plot"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestWorldScreen(t *testing.T) {
	v := plot.DefaultView
	cases := []struct {
		wx, wy float64
		sx, sy float64
	}{
		{-10, -10, 0, 400},
		{10, 10, 600, 0},
		{0, 0, 300, 200},
		{5, -5, 450, 300},
	}
	for _, c := range cases {
		sx, sy := v.WorldToScreen(600, 400, c.wx, c.wy)
		if sx != c.sx || sy != c.sy {
			t.Errorf("(%g, %g) to screen: want (%g, %g), got (%g, %g)", c.wx, c.wy, c.sx, c.sy, sx, sy)
		}
		wx, wy := v.ScreenToWorld(600, 400, c.sx, c.sy)
		if wx != c.wx || wy != c.wy {
			t.Errorf("(%g, %g) to world: want (%g, %g), got (%g, %g)", c.sx, c.sy, c.wx, c.wy, wx, wy)
		}
	}
}

func TestWorldScreenInverse(t *testing.T) {
	views := []plot.View{
		plot.DefaultView,
		{XMin: -0.001, XMax: 0.002, YMin: 1e6, YMax: 1e6 + 3},
		{XMin: 3, XMax: 17, YMin: -400, YMax: -390},
	}
	for _, v := range views {
		for _, p := range [][2]float64{{0, 0}, {600, 400}, {123.5, 77.25}, {-50, 900}} {
			wx, wy := v.ScreenToWorld(600, 400, p[0], p[1])
			sx, sy := v.WorldToScreen(600, 400, wx, wy)
			if !near(sx, p[0], 1e-6) || !near(sy, p[1], 1e-6) {
				t.Errorf("%v: (%g, %g) round trips to (%g, %g)", v, p[0], p[1], sx, sy)
			}
		}
	}
}

func TestPan(t *testing.T) {
	v := plot.DefaultView
	r, err := v.Pan(600, 600)
	if err != nil {
		t.Fatal(err)
	}
	want := plot.View{XMin: -30, XMax: -10, YMin: -10, YMax: 10}
	if r != want {
		t.Errorf("pan by canvas width: want %v, got %v", want, r)
	}
	r, err = v.Pan(-30, 600)
	if err != nil {
		t.Fatal(err)
	}
	if r.XMin != -9 || r.XMax != 11 {
		t.Errorf("pan left by 30px: want [-9, 11], got %v", r)
	}
	if r.YMin != v.YMin || r.YMax != v.YMax {
		t.Errorf("pan changed y range: %v", r)
	}
}

func TestPanRoundTrip(t *testing.T) {
	v := plot.View{XMin: -3.7, XMax: 12.1, YMin: -2, YMax: 2}
	for _, dx := range []float64{1, -1, 17.5, 600, -1234.5} {
		a, err := v.Pan(dx, 600)
		if err != nil {
			t.Fatalf("pan %g: %v", dx, err)
		}
		b, err := a.Pan(-dx, 600)
		if err != nil {
			t.Fatalf("pan back %g: %v", dx, err)
		}
		if !near(b.XMin, v.XMin, 1e-9) || !near(b.XMax, v.XMax, 1e-9) {
			t.Errorf("pan %g and back: want %v, got %v", dx, v, b)
		}
	}
}

func TestZoomKeepsCursor(t *testing.T) {
	views := []plot.View{
		plot.DefaultView,
		{XMin: 1, XMax: 2, YMin: 1, YMax: 2},
		{XMin: -1e4, XMax: 3e4, YMin: -5, YMax: 1},
	}
	for _, v := range views {
		for _, cx := range []float64{0, 137, 300, 599.5, 600} {
			for _, f := range []float64{1.1, 0.9, 2, 0.5} {
				before, _ := v.ScreenToWorld(600, 400, cx, 0)
				r, err := v.Zoom(cx, 600, f)
				if err != nil {
					t.Errorf("%v zoom %g at %g: %v", v, f, cx, err)
					continue
				}
				after, _ := r.ScreenToWorld(600, 400, cx, 0)
				if !near(before, after, 1e-9*(v.XMax-v.XMin)) {
					t.Errorf("%v zoom %g at %g: cursor moved from %g to %g", v, f, cx, before, after)
				}
				if !near(r.XMax-r.XMin, f*(v.XMax-v.XMin), 1e-9*(v.XMax-v.XMin)) {
					t.Errorf("%v zoom %g at %g: wrong width %v", v, f, cx, r)
				}
			}
		}
	}
}

func TestZoomY(t *testing.T) {
	v := plot.View{XMin: -1, XMax: 1, YMin: 2, YMax: 4}
	r, err := v.Zoom(0, 600, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if r.YMin != 1 || r.YMax != 2 {
		t.Errorf("y range should scale about zero: want [1, 2], got %v", r)
	}
}

func TestViewRejects(t *testing.T) {
	v := plot.DefaultView
	cases := []struct {
		name string
		op   func() (plot.View, error)
	}{
		{"pan zero width", func() (plot.View, error) { return v.Pan(1, 0) }},
		{"pan negative width", func() (plot.View, error) { return v.Pan(1, -600) }},
		{"pan nan", func() (plot.View, error) { return v.Pan(math.NaN(), 600) }},
		{"pan inf", func() (plot.View, error) { return v.Pan(math.Inf(1), 600) }},
		{"pan overflow", func() (plot.View, error) { return v.Pan(1e308, 1e-300) }},
		{"zoom zero", func() (plot.View, error) { return v.Zoom(300, 600, 0) }},
		{"zoom negative", func() (plot.View, error) { return v.Zoom(300, 600, -1) }},
		{"zoom inf", func() (plot.View, error) { return v.Zoom(300, 600, math.Inf(1)) }},
		{"zoom nan", func() (plot.View, error) { return v.Zoom(300, 600, math.NaN()) }},
		{"zoom nan cursor", func() (plot.View, error) { return v.Zoom(math.NaN(), 600, 2) }},
		{"zoom zero width", func() (plot.View, error) { return v.Zoom(300, 0, 2) }},
		{"zoom overflow", func() (plot.View, error) { return v.Zoom(300, 600, 1e308) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := c.op()
			if err == nil {
				t.Fatalf("no error, got %v", r)
			}
			var ve *plot.ViewError
			if !errors.As(err, &ve) {
				t.Errorf("error %#v is not *ViewError", err)
			}
			if r != v {
				t.Errorf("view changed to %v", r)
			}
		})
	}
}

func TestViewValid(t *testing.T) {
	cases := []struct {
		v    plot.View
		want bool
	}{
		{plot.DefaultView, true},
		{plot.View{XMin: 1, XMax: 1, YMin: 0, YMax: 1}, false},
		{plot.View{XMin: 0, XMax: 1, YMin: 1, YMax: 0}, false},
		{plot.View{XMin: math.Inf(-1), XMax: 1, YMin: 0, YMax: 1}, false},
		{plot.View{XMin: 0, XMax: math.NaN(), YMin: 0, YMax: 1}, false},
		{plot.View{XMin: -1e308, XMax: 1e308, YMin: 0, YMax: 1}, false},
	}
	for _, c := range cases {
		if got := c.v.Valid(); got != c.want {
			t.Errorf("%v: want valid %t, got %t", c.v, c.want, got)
		}
	}
}
