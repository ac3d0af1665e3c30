//go:build go1.18
// +build go1.18

package nimbus_test

import (
	"math"
	"testing"

	"github.com/zephyrtronium/nimbus"
)

func FuzzEval(f *testing.F) {
	f.Add("x", 0.0)
	f.Add("1/x", 0.0)
	f.Add("tan(x)", math.Pi/2)
	f.Fuzz(func(t *testing.T, s string, x float64) {
		r, err := nimbus.EvalString(s, x)
		if err == nil && (math.IsNaN(r) || math.IsInf(r, 0)) {
			t.Errorf("%q at %g gave non-finite %g with no error", s, x, r)
		}
	})
}
