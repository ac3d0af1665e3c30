package plot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	gridRows = 20
	gridCols = 30

	gridStroke  = "#e5e7eb"
	axisStroke  = "#888"
	curveStroke = "#003d82"
)

// D formats the path as SVG path data. Each run begins with a move command
// and continues with line commands. Coordinates have two decimal places.
func (p Path) D() string {
	var b strings.Builder
	for _, r := range p {
		for i, s := range r {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			if i == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString("L ")
			}
			b.WriteString(strconv.FormatFloat(s.X, 'f', 2, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(s.Y, 'f', 2, 64))
		}
	}
	return b.String()
}

// WriteSVG writes a standalone SVG image of path as drawn on d: a background
// grid, the axes where they are visible in the current View, and the curve.
func WriteSVG(w io.Writer, d *Display, path Path) error {
	v := d.View()
	cw, ch := d.Size()
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "<svg xmlns='http://www.w3.org/2000/svg' width='%g' height='%g' viewBox='0 0 %g %g'>\n", cw, ch, cw, ch)
	fmt.Fprintf(b, "<rect width='%g' height='%g' fill='white'/>\n", cw, ch)
	for i := 0; i < gridRows; i++ {
		y := float64(i) * ch / gridRows
		line(b, 0, y, cw, y, gridStroke, 1)
	}
	for i := 0; i < gridCols; i++ {
		x := float64(i) * cw / gridCols
		line(b, x, 0, x, ch, gridStroke, 1)
	}
	if v.YMin <= 0 && 0 <= v.YMax {
		_, y := v.WorldToScreen(cw, ch, 0, 0)
		line(b, 0, y, cw, y, axisStroke, 1)
	}
	if v.XMin <= 0 && 0 <= v.XMax {
		x, _ := v.WorldToScreen(cw, ch, 0, 0)
		line(b, x, 0, x, ch, axisStroke, 1)
	}
	if len(path) > 0 {
		fmt.Fprintf(b, "<path d='%s' fill='none' stroke='%s' stroke-width='2'/>\n", path.D(), curveStroke)
	}
	fmt.Fprintln(b, "</svg>")
	return b.Flush()
}

func line(w io.Writer, x1, y1, x2, y2 float64, stroke string, width int) {
	fmt.Fprintf(w, "<line x1='%.2f' y1='%.2f' x2='%.2f' y2='%.2f' stroke='%s' stroke-width='%d'/>\n", x1, y1, x2, y2, stroke, width)
}
