package plot_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/zephyrtronium/nimbus"
	"github.com/zephyrtronium/nimbus/plot"
)

func TestNewDisplayDefaults(t *testing.T) {
	d := plot.NewDisplay(0, -1, 0)
	if w, h := d.Size(); w != plot.DefaultWidth || h != plot.DefaultHeight {
		t.Errorf("want %dx%d canvas, got %gx%g", plot.DefaultWidth, plot.DefaultHeight, w, h)
	}
	if d.Columns() != plot.DefaultColumns {
		t.Errorf("want %d columns, got %d", plot.DefaultColumns, d.Columns())
	}
	if d.View() != plot.DefaultView {
		t.Errorf("want default view, got %v", d.View())
	}
	if d.State() != plot.Idle {
		t.Errorf("want Idle, got %v", d.State())
	}
}

func TestDisplayPan(t *testing.T) {
	d := plot.NewDisplay(600, 400, 200)
	if redraw, err := d.Drag(50); redraw || err != nil {
		t.Errorf("drag while idle: got %t, %v", redraw, err)
	}
	if d.View() != plot.DefaultView {
		t.Errorf("drag while idle moved view to %v", d.View())
	}

	d.Press(100)
	if d.State() != plot.Panning {
		t.Fatalf("press: want Panning, got %v", d.State())
	}
	redraw, err := d.Drag(130)
	if err != nil {
		t.Fatal(err)
	}
	if !redraw {
		t.Errorf("first drag should redraw")
	}
	v := d.View()
	if !near(v.XMin, -11, 1e-12) || !near(v.XMax, 9, 1e-12) {
		t.Errorf("drag right 30px: want [-11, 9], got %v", v)
	}
	// Pointer deltas accumulate from the last position, not from the press.
	if _, err := d.Drag(100); err != nil {
		t.Fatal(err)
	}
	v = d.View()
	if !near(v.XMin, -10, 1e-12) || !near(v.XMax, 10, 1e-12) {
		t.Errorf("drag back: want [-10, 10], got %v", v)
	}

	if !d.Release() {
		t.Errorf("release should redraw")
	}
	if d.State() != plot.Idle {
		t.Errorf("release: want Idle, got %v", d.State())
	}
	if redraw, _ := d.Drag(500); redraw {
		t.Errorf("drag after release should not redraw")
	}
	if !d.Release() || d.State() != plot.Idle {
		t.Errorf("release while idle should stay Idle and redraw")
	}
}

func TestDisplayDragRejected(t *testing.T) {
	d := plot.NewDisplay(600, 400, 200)
	d.Press(0)
	_, err := d.Drag(math.Inf(1))
	var ve *plot.ViewError
	if !errors.As(err, &ve) {
		t.Errorf("want *ViewError, got %v", err)
	}
	if d.View() != plot.DefaultView {
		t.Errorf("rejected drag moved view to %v", d.View())
	}
	if d.State() != plot.Panning {
		t.Errorf("rejected drag: want Panning, got %v", d.State())
	}
}

func TestDisplayWheel(t *testing.T) {
	d := plot.NewDisplay(600, 400, 200)
	if err := d.Wheel(300, 1); err != nil {
		t.Fatal(err)
	}
	v := d.View()
	if !near(v.XMin, -11, 1e-12) || !near(v.XMax, 11, 1e-12) || !near(v.YMin, -11, 1e-12) || !near(v.YMax, 11, 1e-12) {
		t.Errorf("wheel down at center: want [-11, 11]×[-11, 11], got %v", v)
	}
	d.Reset()
	if err := d.Wheel(300, -3); err != nil {
		t.Fatal(err)
	}
	v = d.View()
	if !near(v.XMin, -9, 1e-12) || !near(v.XMax, 9, 1e-12) {
		t.Errorf("wheel up at center: want [-9, 9], got %v", v)
	}
	// Zoom is allowed mid-pan.
	d.Press(0)
	if err := d.Wheel(0, 1); err != nil {
		t.Errorf("wheel while panning: %v", err)
	}
	if d.State() != plot.Panning {
		t.Errorf("wheel changed state to %v", d.State())
	}
	if err := d.Wheel(math.NaN(), 1); err == nil {
		t.Errorf("wheel at NaN should fail")
	}
	d.Reset()
	if d.View() != plot.DefaultView {
		t.Errorf("reset: got %v", d.View())
	}
}

func TestDisplaySetView(t *testing.T) {
	d := plot.NewDisplay(600, 400, 200)
	v := plot.View{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	if err := d.SetView(v); err != nil {
		t.Fatal(err)
	}
	if d.View() != v {
		t.Errorf("want %v, got %v", v, d.View())
	}
	if err := d.SetView(plot.View{}); err == nil {
		t.Errorf("empty view should be rejected")
	}
	if d.View() != v {
		t.Errorf("rejected view replaced %v with %v", v, d.View())
	}
}

func TestDisplayRender(t *testing.T) {
	d := plot.NewDisplay(600, 400, 101)
	p := d.Render(nimbus.MustParse("x"))
	if len(p) != 1 || len(p[0]) != 101 {
		t.Errorf("want one run of 101, got %v", runLens(p))
	}
}

func TestDisplayConcurrent(t *testing.T) {
	d := plot.NewDisplay(600, 400, 50)
	e := nimbus.MustParse("sin(x)")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch (i + j) % 4 {
				case 0:
					d.Press(float64(j))
				case 1:
					d.Drag(float64(j + 1))
				case 2:
					d.Wheel(300, float64(i%2))
				case 3:
					d.Render(e)
					d.Release()
				}
				if !d.View().Valid() {
					t.Errorf("invalid view %v", d.View())
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
