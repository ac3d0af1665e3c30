// Package plot maps expressions onto a two-dimensional canvas. It converts
// between world and screen coordinates, pans and zooms a View in response to
// pointer input, samples curves into gap-separated paths, and exports them as
// SVG.
package plot

import (
	"math"
	"strconv"
)

// View is a rectangle of world coordinates. A valid View has finite bounds
// and extents with XMin < XMax and YMin < YMax; operations that would produce an invalid
// View return an error instead.
type View struct {
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultView is the initial View of a Display.
var DefaultView = View{XMin: -10, XMax: 10, YMin: -10, YMax: 10}

// Valid returns whether the View satisfies the View invariant.
func (v View) Valid() bool {
	return finite(v.XMax-v.XMin) && finite(v.YMax-v.YMin) &&
		v.XMin < v.XMax && v.YMin < v.YMax
}

// WorldToScreen maps world coordinates to screen coordinates on a w×h canvas.
// Screen y grows downward.
func (v View) WorldToScreen(w, h, wx, wy float64) (sx, sy float64) {
	sx = (wx - v.XMin) / (v.XMax - v.XMin) * w
	sy = h - (wy-v.YMin)/(v.YMax-v.YMin)*h
	return sx, sy
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v View) ScreenToWorld(w, h, sx, sy float64) (wx, wy float64) {
	wx = v.XMin + sx/w*(v.XMax-v.XMin)
	wy = v.YMin + (h-sy)/h*(v.YMax-v.YMin)
	return wx, wy
}

// Pan shifts the View horizontally by a drag of dx pixels on a canvas w pixels
// wide. Dragging right (positive dx) moves the View toward smaller x, so the
// curve follows the pointer.
func (v View) Pan(dx, w float64) (View, error) {
	if !canvas(w) {
		return v, &ViewError{Op: "pan", Reason: "canvas width " + ftoa(w)}
	}
	if !finite(dx) {
		return v, &ViewError{Op: "pan", Reason: "delta " + ftoa(dx)}
	}
	d := dx * (v.XMax - v.XMin) / w
	r := View{XMin: v.XMin - d, XMax: v.XMax - d, YMin: v.YMin, YMax: v.YMax}
	if !r.Valid() {
		return v, &ViewError{Op: "pan", Reason: "result " + r.String()}
	}
	return r, nil
}

// Zoom scales the View by f around the world x coordinate under screen column
// cx of a canvas w pixels wide. f > 1 zooms out. The x range keeps the world
// point under the cursor fixed. The y range scales about zero rather than
// about the cursor, so zooming a View that excludes y = 0 drifts vertically.
func (v View) Zoom(cx, w, f float64) (View, error) {
	if !canvas(w) {
		return v, &ViewError{Op: "zoom", Reason: "canvas width " + ftoa(w)}
	}
	if !finite(cx) {
		return v, &ViewError{Op: "zoom", Reason: "cursor " + ftoa(cx)}
	}
	if !finite(f) || f <= 0 {
		return v, &ViewError{Op: "zoom", Reason: "factor " + ftoa(f)}
	}
	wx := v.XMin + cx/w*(v.XMax-v.XMin)
	r := View{
		XMin: wx - (wx-v.XMin)*f,
		XMax: wx + (v.XMax-wx)*f,
		YMin: v.YMin * f,
		YMax: v.YMax * f,
	}
	if !r.Valid() {
		return v, &ViewError{Op: "zoom", Reason: "result " + r.String()}
	}
	return r, nil
}

func (v View) String() string {
	return "[" + ftoa(v.XMin) + ", " + ftoa(v.XMax) + "]×[" + ftoa(v.YMin) + ", " + ftoa(v.YMax) + "]"
}

// ViewError is an error resulting from an invalid View operation.
type ViewError struct {
	// Op is the operation that failed, "pan" or "zoom".
	Op string
	// Reason describes the offending input or result.
	Reason string
}

func (err *ViewError) Error() string {
	return "plot: invalid " + err.Op + ": " + err.Reason
}

func finite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func canvas(n float64) bool {
	return finite(n) && n > 0
}

func ftoa(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
