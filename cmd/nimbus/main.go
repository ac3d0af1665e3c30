package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zephyrtronium/nimbus"
	"github.com/zephyrtronium/nimbus/history"
	"github.com/zephyrtronium/nimbus/plot"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, plotname  string
		histdir, use, del       string
		x                       float64
		nl, echo, check, record bool
		list, wipe, rotate      bool
		prec                    int
		width, height           float64
		cols                    int
		view                    *plot.View
		gestures                []func(*plot.Display) error
	)
	setview := func(s string) error {
		v, err := parseView(s)
		if err != nil {
			return err
		}
		view = &v
		return nil
	}
	adddrag := func(s string) error {
		p, err := floats(s, 2)
		if err != nil {
			return fmt.Errorf(`drags must be "from,to", not %q`, s)
		}
		gestures = append(gestures, func(d *plot.Display) error {
			d.Press(p[0])
			_, err := d.Drag(p[1])
			d.Release()
			return err
		})
		return nil
	}
	addwheel := func(s string) error {
		p, err := floats(s, 2)
		if err != nil {
			return fmt.Errorf(`wheel events must be "column,delta", not %q`, s)
		}
		gestures = append(gestures, func(d *plot.Display) error { return d.Wheel(p[0], p[1]) })
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Float64Var(&x, "x", 0, "value of x")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&check, "check", false, "compare results against high-precision evaluation")
	flag.IntVar(&prec, "p", 256, "precision of -check calculations in bits")
	flag.StringVar(&plotname, "plot", "", "write a graph of the expression as SVG to this file (- for stdout)")
	flag.Float64Var(&width, "width", plot.DefaultWidth, "graph width in pixels")
	flag.Float64Var(&height, "height", plot.DefaultHeight, "graph height in pixels")
	flag.IntVar(&cols, "cols", plot.DefaultColumns, "graph sample columns")
	flag.Func("view", "graph view as xmin,xmax,ymin,ymax (default -10,10,-10,10)", setview)
	flag.Func("drag", "pan the graph by dragging from,to screen columns (any number of times)", adddrag)
	flag.Func("wheel", "zoom the graph with a wheel event column,delta (any number of times)", addwheel)
	flag.StringVar(&histdir, "history", "", "history directory (default $NIMBUS_HISTORY or the user config dir)")
	flag.BoolVar(&record, "record", false, "record results in history")
	flag.BoolVar(&list, "list", false, "list history")
	flag.BoolVar(&wipe, "clear", false, "clear history")
	flag.StringVar(&del, "delete", "", "delete the history item with this id")
	flag.BoolVar(&rotate, "rotate", false, "re-encrypt history under a new key")
	flag.StringVar(&use, "use", "", "evaluate the expression of the history item with this id")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}

	var store *history.Store
	if record || list || wipe || del != "" || rotate || use != "" {
		dir, err := historyDir(histdir)
		if err != nil {
			log.Fatal(err)
		}
		store, err = history.Open(dir)
		if err != nil {
			log.Fatal(err)
		}
	}
	admin := wipe || rotate || del != "" || list
	if wipe {
		if err := store.Clear(); err != nil {
			log.Fatal(err)
		}
	}
	if rotate {
		if err := store.Rotate(); err != nil {
			log.Fatal(err)
		}
	}
	if del != "" {
		ok, err := store.Delete(del)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			log.Fatalf("no history item %q", del)
		}
	}
	if list {
		items, err := store.Load()
		if err != nil {
			log.Fatal(err)
		}
		for _, it := range items {
			fmt.Println(it)
		}
	}

	var srcs []string
	if use != "" {
		it, ok, err := store.Get(use)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			log.Fatalf("no history item %q", use)
		}
		srcs = append(srcs, it.Expression)
	}
	f, err := infile(inname, flag.NArg() == 0 && !admin && use == "")
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			log.Fatal(err)
		}
		if nl {
			for _, line := range strings.Split(string(b), "\n") {
				if strings.TrimSpace(line) != "" {
					srcs = append(srcs, line)
				}
			}
		} else {
			srcs = append(srcs, string(b))
		}
	}
	srcs = append(srcs, flag.Args()...)

	var p []*nimbus.Expr
	var ps []string
	failed := false
	for _, src := range srcs {
		a, err := nimbus.Parse(src)
		if err != nil {
			report(src, err)
			failed = true
			continue
		}
		p = append(p, a)
		ps = append(ps, strings.TrimSpace(src))
	}

	verb += "\n"
	for i, a := range p {
		if echo {
			fmt.Printf("%v : ", a)
		}
		r, err := a.Eval(x)
		if err != nil {
			fmt.Println(err)
			failed = true
			continue
		}
		if check {
			bx := new(big.Float).SetPrec(uint(prec)).SetFloat64(x)
			br, err := a.EvalBig(bx, uint(prec))
			if err != nil {
				fmt.Printf("%g (reference: %v)\n", r, err)
			} else {
				ref, _ := br.Float64()
				fmt.Printf("%g (reference %s, error %g ulp)\n", r, br.Text('g', 20), ulps(r, ref))
			}
		} else {
			fmt.Printf(verb, r)
		}
		if record {
			it, err := history.NewItem(ps[i], r, time.Now())
			if err != nil {
				log.Fatal(err)
			}
			if err := store.Add(it); err != nil {
				log.Fatal(err)
			}
		}
	}

	if plotname != "" {
		if len(p) != 1 {
			log.Fatalf("-plot needs exactly one expression, have %d", len(p))
		}
		d := plot.NewDisplay(width, height, cols)
		if view != nil {
			if err := d.SetView(*view); err != nil {
				log.Fatal(err)
			}
		}
		for _, g := range gestures {
			if err := g(d); err != nil {
				log.Fatal(err)
			}
		}
		if err := writePlot(plotname, d, d.Render(p[0])); err != nil {
			log.Fatal(err)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}

// historyDir picks the history directory from the flag, the environment, or
// the user config directory, in that order.
func historyDir(flagged string) (string, error) {
	if flagged != "" {
		return flagged, nil
	}
	if env := os.Getenv("NIMBUS_HISTORY"); env != "" {
		return env, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding history directory: %w", err)
	}
	return filepath.Join(cfg, "nimbus"), nil
}

// report prints an input error with a caret under its column.
func report(src string, err error) {
	var ie nimbus.InputError
	line := strings.TrimRight(src, "\r\n")
	if errors.As(err, &ie) && !strings.Contains(line, "\n") {
		fmt.Fprintln(os.Stderr, line)
		fmt.Fprintln(os.Stderr, strings.Repeat(" ", ie.Pos()-1)+"^")
	}
	fmt.Fprintln(os.Stderr, err)
}

func writePlot(name string, d *plot.Display, path plot.Path) error {
	if name == "-" {
		return plot.WriteSVG(os.Stdout, d, path)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := plot.WriteSVG(f, d, path); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseView(s string) (plot.View, error) {
	p, err := floats(s, 4)
	if err != nil {
		return plot.View{}, fmt.Errorf(`view must be "xmin,xmax,ymin,ymax", not %q`, s)
	}
	v := plot.View{XMin: p[0], XMax: p[1], YMin: p[2], YMax: p[3]}
	if !v.Valid() {
		return plot.View{}, fmt.Errorf("view %v is empty or not finite", v)
	}
	return v, nil
}

// floats parses exactly n comma-separated numbers.
func floats(s string, n int) ([]float64, error) {
	d := strings.Split(s, ",")
	if len(d) != n {
		return nil, fmt.Errorf("want %d values, have %d", n, len(d))
	}
	r := make([]float64, n)
	for i, v := range d {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		r[i] = f
	}
	return r, nil
}

// ulps gives the distance between a and b in units of the last place of b.
func ulps(a, b float64) float64 {
	if a == b {
		return 0
	}
	u := math.Nextafter(b, math.Inf(1)) - b
	return math.Abs(a-b) / u
}
