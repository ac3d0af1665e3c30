package nimbus

import (
	"math"
	"math/big"
	"sort"

	"github.com/zephyrtronium/bigfloat"
)

// VarName is the name of the free variable.
const VarName = "x"

// function is a recognized single-argument function.
type function struct {
	name string
	// f computes the function in float64. It returns a DomainError kind error
	// for arguments outside the domain.
	f func(x float64) (float64, error)
	// big computes the function to the precision of out, or is nil if the
	// function is only available in float64.
	big func(out, in *big.Float) *big.Float
}

var funcs = map[string]*function{
	"sin": {name: "sin", f: total(math.Sin)},
	"cos": {name: "cos", f: total(math.Cos)},
	"tan": {name: "tan", f: total(math.Tan)},
	"abs": {name: "abs", f: total(math.Abs), big: (*big.Float).Abs},
	"exp": {name: "exp", f: total(math.Exp), big: bigfloat.Exp},
	"sqrt": {
		name: "sqrt",
		f: func(x float64) (float64, error) {
			if x < 0 {
				return 0, &EvalError{Kind: DomainError, Func: "sqrt", X: x}
			}
			return math.Sqrt(x), nil
		},
		big: (*big.Float).Sqrt,
	},
	"ln":  {name: "ln", f: logf("ln"), big: bigfloat.Log},
	"log": {name: "log", f: logf("log"), big: bigfloat.Log},
}

func total(f func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		return f(x), nil
	}
}

// logf creates the natural logarithm under a given name. log and ln are the
// same function.
func logf(name string) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x <= 0 {
			return 0, &EvalError{Kind: DomainError, Func: name, X: x}
		}
		return math.Log(x), nil
	}
}

// constPrec is the precision at which constants are computed before rounding
// to float64.
const constPrec = 128

// consts holds the named constants, rounded to float64 from high precision
// values.
var consts = map[string]float64{
	"pi": roundConst(bigfloat.Pi(new(big.Float).SetPrec(constPrec))),
	"e":  roundConst(bigfloat.Exp(new(big.Float).SetPrec(constPrec), new(big.Float).SetPrec(constPrec).SetInt64(1))),
}

func roundConst(v *big.Float) float64 {
	f, _ := v.Float64()
	return f
}

// Names returns the sorted list of every identifier the parser recognizes.
func Names() []string {
	r := make([]string, 0, 1+len(consts)+len(funcs))
	r = append(r, VarName)
	for k := range consts {
		r = append(r, k)
	}
	for k := range funcs {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Funcs returns the sorted names of the recognized functions.
func Funcs() []string {
	r := make([]string, 0, len(funcs))
	for k := range funcs {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Const returns the value of a named constant.
func Const(name string) (float64, bool) {
	v, ok := consts[name]
	return v, ok
}
