package plot

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultWidth and DefaultHeight give the canvas size of a Display
	// created without one.
	DefaultWidth  = 600
	DefaultHeight = 400

	// DragRedraws is the maximum rate at which Drag asks for redraws.
	DragRedraws rate.Limit = 60

	zoomOut = 1.1
	zoomIn  = 0.9
)

// State is the interaction state of a Display.
type State int8

const (
	// Idle is the state with no pointer button held.
	Idle State = iota
	// Panning is the state between Press and Release.
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Panning:
		return "Panning"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Display holds the View of a graph along with the pointer interaction that
// changes it. Its methods are safe to call concurrently; each operation
// applies to the View atomically.
type Display struct {
	mu    sync.Mutex
	view  View
	state State
	// last is the screen x of the most recent Press or Drag.
	last float64

	w, h float64
	cols int

	redraw *rate.Limiter
}

// NewDisplay creates an idle Display showing DefaultView on a w×h canvas with
// the given number of sample columns. Non-positive arguments select the
// defaults.
func NewDisplay(w, h float64, columns int) *Display {
	if !canvas(w) {
		w = DefaultWidth
	}
	if !canvas(h) {
		h = DefaultHeight
	}
	if columns <= 0 {
		columns = DefaultColumns
	}
	return &Display{
		view:   DefaultView,
		w:      w,
		h:      h,
		cols:   columns,
		redraw: rate.NewLimiter(DragRedraws, 1),
	}
}

// View returns the current View.
func (d *Display) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// SetView replaces the current View. It returns an error if v is not valid.
func (d *Display) SetView(v View) error {
	if !v.Valid() {
		return &ViewError{Op: "set", Reason: "view " + v.String()}
	}
	d.mu.Lock()
	d.view = v
	d.mu.Unlock()
	return nil
}

// State returns the current interaction state.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Size returns the canvas size.
func (d *Display) Size() (w, h float64) {
	return d.w, d.h
}

// Columns returns the number of sample columns used by Render.
func (d *Display) Columns() int {
	return d.cols
}

// Press begins a pan at screen column sx.
func (d *Display) Press(sx float64) {
	d.mu.Lock()
	d.state = Panning
	d.last = sx
	d.mu.Unlock()
}

// Drag moves the pointer to screen column sx. While panning, the View follows
// the pointer. The result reports whether the caller should redraw now;
// redraws during a drag are limited to DragRedraws per second. An error means
// the pan was rejected and the View is unchanged.
func (d *Display) Drag(sx float64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Panning {
		return false, nil
	}
	v, err := d.view.Pan(sx-d.last, d.w)
	if err != nil {
		return false, err
	}
	d.view = v
	d.last = sx
	return d.redraw.AllowN(time.Now(), 1), nil
}

// Release ends a pan. The caller should always redraw afterward so that the
// final position is shown even if the last drag was throttled.
func (d *Display) Release() bool {
	d.mu.Lock()
	d.state = Idle
	d.mu.Unlock()
	return true
}

// Wheel zooms about screen column sx: out by 10% when deltaY is positive, in
// by 10% otherwise. Wheel is permitted in either state.
func (d *Display) Wheel(sx, deltaY float64) error {
	f := zoomIn
	if deltaY > 0 {
		f = zoomOut
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.view.Zoom(sx, d.w, f)
	if err != nil {
		return err
	}
	d.view = v
	return nil
}

// Reset restores DefaultView.
func (d *Display) Reset() {
	d.mu.Lock()
	d.view = DefaultView
	d.mu.Unlock()
}

// Render samples c under the current View.
func (d *Display) Render(c Curve) Path {
	v := d.View()
	return SamplePath(c, v, d.w, d.h, d.cols)
}
