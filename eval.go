package nimbus

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Eval evaluates the expression with the variable bound to x. The result is
// always finite; division by zero, arguments outside a function's domain, and
// non-finite results are reported as *EvalError.
func (e *Expr) Eval(x float64) (float64, error) {
	r, err := e.n.eval(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, &EvalError{Kind: NonFiniteResult, X: r}
	}
	return r, nil
}

// Evaluate is a shortcut for e.Eval(x).
func Evaluate(e *Expr, x float64) (float64, error) {
	return e.Eval(x)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, x float64) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(x)
}

func (n *node) eval(x float64) (float64, error) {
	switch n.kind {
	case nodeNum, nodeConst:
		return n.num, nil
	case nodeVar:
		return x, nil
	case nodeCall:
		a, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		return n.fn.f(a)
	case nodeNeg:
		a, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		return -a, nil
	}
	l, err := n.left.eval(x)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(x)
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Func: "/", X: l}
		}
		return l / r, nil
	case nodePow:
		return math.Pow(l, r), nil
	default:
		panic("nimbus: invalid AST node " + n.kind.String())
	}
}

// bigctx is the state for evaluating an expression in high precision.
type bigctx struct {
	stack []*big.Float
	x     *big.Float
	prec  uint
}

// EvalBig evaluates the expression to prec bits with the variable bound to x.
// It serves as a reference for the float64 results of Eval: trigonometric
// functions have no high precision implementation and are computed in
// float64, and a negative base of ^ is a DomainError.
func (e *Expr) EvalBig(x *big.Float, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = 64
	}
	if x == nil {
		x = new(big.Float)
	}
	ctx := bigctx{x: x, prec: prec}
	if err := e.n.evalBig(&ctx); err != nil {
		return nil, err
	}
	switch len(ctx.stack) {
	case 1:
		r := ctx.stack[0]
		if r.IsInf() {
			f, _ := r.Float64()
			return nil, &EvalError{Kind: NonFiniteResult, X: f}
		}
		return r, nil
	default:
		panic("nimbus: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// push ensures a settable value on the stack.
func (ctx *bigctx) push() *big.Float {
	r := new(big.Float).SetPrec(ctx.prec)
	ctx.stack = append(ctx.stack, r)
	return r
}

// pop removes the top from the stack and returns it.
func (ctx *bigctx) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *bigctx) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// evalBig pushes the node's value to the context's stack.
func (n *node) evalBig(ctx *bigctx) error {
	switch n.kind {
	case nodeNum:
		ctx.push().SetFloat64(n.num)
	case nodeConst:
		r := ctx.push()
		switch n.name {
		case "pi":
			bigfloat.Pi(r)
		case "e":
			var one big.Float
			one.SetPrec(ctx.prec).SetInt64(1)
			bigfloat.Exp(r, &one)
		default:
			panic("nimbus: unknown constant " + n.name)
		}
	case nodeVar:
		ctx.push().Set(ctx.x)
	case nodeCall:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		if v.IsInf() {
			f, _ := v.Float64()
			return &EvalError{Kind: NonFiniteResult, X: f}
		}
		if n.fn.big == nil {
			f, _ := v.Float64()
			r, err := n.fn.f(f)
			if err != nil {
				return err
			}
			v.SetFloat64(r)
			return nil
		}
		if err := bigdomain(n.fn.name, v); err != nil {
			return err
		}
		in := new(big.Float).Copy(v)
		n.fn.big(v, in)
	case nodeNeg:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		if err := n.right.evalBig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return bigbinop(n.kind, l, r)
	default:
		panic("nimbus: invalid AST node " + n.kind.String())
	}
	return nil
}

// bigbinop sets l to l op r.
func bigbinop(op nodeKind, l, r *big.Float) error {
	switch op {
	case nodeAdd:
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return &EvalError{Kind: NonFiniteResult, X: math.NaN()}
		}
		l.Add(l, r)
	case nodeSub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return &EvalError{Kind: NonFiniteResult, X: math.NaN()}
		}
		l.Sub(l, r)
	case nodeMul:
		if l.IsInf() && r.Sign() == 0 || l.Sign() == 0 && r.IsInf() {
			return &EvalError{Kind: NonFiniteResult, X: math.NaN()}
		}
		l.Mul(l, r)
	case nodeDiv:
		if r.Sign() == 0 {
			f, _ := l.Float64()
			return &EvalError{Kind: DivisionByZero, Func: "/", X: f}
		}
		if l.IsInf() && r.IsInf() {
			return &EvalError{Kind: NonFiniteResult, X: math.NaN()}
		}
		l.Quo(l, r)
	case nodePow:
		// bigfloat.Pow only handles positive bases.
		switch {
		case l.IsInf() || r.IsInf():
			return &EvalError{Kind: NonFiniteResult, X: math.Inf(1)}
		case l.Signbit():
			f, _ := l.Float64()
			return &EvalError{Kind: DomainError, Func: "^", X: f}
		case r.Sign() == 0:
			l.SetInt64(1)
		case l.Sign() == 0:
			if r.Sign() < 0 {
				return &EvalError{Kind: NonFiniteResult, X: math.Inf(1)}
			}
			l.SetInt64(0)
		default:
			bigfloat.Pow(l, l, r)
		}
	}
	return nil
}

// bigdomain checks the domain of a function with a high precision
// implementation.
func bigdomain(name string, v *big.Float) error {
	switch name {
	case "sqrt":
		if v.Sign() < 0 {
			f, _ := v.Float64()
			return &EvalError{Kind: DomainError, Func: name, X: f}
		}
	case "ln", "log":
		if v.Sign() <= 0 {
			f, _ := v.Float64()
			return &EvalError{Kind: DomainError, Func: name, X: f}
		}
	}
	return nil
}

// EvalErrorKind classifies an EvalError.
type EvalErrorKind int

const (
	// DivisionByZero is a division with a zero divisor.
	DivisionByZero EvalErrorKind = iota
	// DomainError is a function argument outside the function's domain.
	DomainError
	// NonFiniteResult is a result that is NaN or infinite.
	NonFiniteResult
)

func (k EvalErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case DomainError:
		return "domain error"
	case NonFiniteResult:
		return "non-finite result"
	default:
		return "EvalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Sentinel errors for use with errors.Is on an *EvalError.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrDomain         = errors.New("argument outside domain")
	ErrNonFinite      = errors.New("non-finite result")
)

// EvalError is an error from evaluating an expression.
type EvalError struct {
	// Kind is the classification of the error.
	Kind EvalErrorKind
	// Func names the function or operator that failed. It is empty for
	// NonFiniteResult.
	Func string
	// X is the out-of-domain argument for DomainError, the dividend for
	// DivisionByZero, and the offending result for NonFiniteResult.
	X float64
}

func (err *EvalError) Error() string {
	x := strconv.FormatFloat(err.X, 'g', -1, 64)
	switch err.Kind {
	case DivisionByZero:
		return "division by zero: " + x + " / 0"
	case DomainError:
		return x + " outside domain of " + err.Func
	case NonFiniteResult:
		return "result is not finite: " + x
	default:
		return err.Kind.String()
	}
}

// Is reports whether target is the sentinel for the error's kind.
func (err *EvalError) Is(target error) bool {
	switch target {
	case ErrDivisionByZero:
		return err.Kind == DivisionByZero
	case ErrDomain:
		return err.Kind == DomainError
	case ErrNonFinite:
		return err.Kind == NonFiniteResult
	}
	return false
}
