package curves

import (
	"math"
	"strconv"
)

// Condition classifies the result of evaluating an expression at one point.
type Condition uint8

const (
	// Finite is a defined, finite result.
	Finite Condition = iota
	// DivisionByZero is a division by exactly zero, including a zero base
	// raised to a negative power.
	DivisionByZero
	// DomainError is an argument outside the real domain of an operation,
	// e.g. the square root or logarithm of a negative number.
	DomainError
	// Overflow is a result whose magnitude exceeds the float64 range.
	Overflow
	// Undefined is any other result that is not a real number.
	Undefined
)

var condNames = [...]string{
	Finite:         "finite",
	DivisionByZero: "division by zero",
	DomainError:    "domain error",
	Overflow:       "overflow",
	Undefined:      "undefined",
}

func (c Condition) String() string {
	if int(c) >= len(condNames) {
		return "Condition(" + strconv.Itoa(int(c)) + ")"
	}
	return condNames[c]
}

// Outcome is the result of evaluating an expression at one point: either a
// finite Value or a failure Condition. A failed Outcome always has a NaN
// Value, never zero.
type Outcome struct {
	// Value is the result when Cond is Finite and NaN otherwise.
	Value float64
	// Cond is the condition of the result.
	Cond Condition

	// op and arg describe the operation which failed.
	op  string
	arg float64
}

// Result classifies v as an Outcome. Infinities are overflows, and NaN is
// undefined.
func Result(v float64) Outcome {
	switch {
	case math.IsNaN(v):
		return Outcome{Value: v, Cond: Undefined}
	case math.IsInf(v, 0):
		return Outcome{Value: math.NaN(), Cond: Overflow}
	default:
		return Outcome{Value: v}
	}
}

// Fail creates an Outcome for operation op failing on argument x. If c is
// Finite, the result is Undefined.
func Fail(c Condition, op string, x float64) Outcome {
	if c == Finite {
		c = Undefined
	}
	return Outcome{Value: math.NaN(), Cond: c, op: op, arg: x}
}

// Defined returns whether o is a finite value.
func (o Outcome) Defined() bool {
	return o.Cond == Finite
}

// Err returns nil if o is defined and an *EvalError describing the failure
// otherwise.
func (o Outcome) Err() error {
	if o.Defined() {
		return nil
	}
	return &EvalError{Cond: o.Cond, Func: o.op, X: o.arg}
}

func (o Outcome) String() string {
	if o.Defined() {
		return strconv.FormatFloat(o.Value, 'g', -1, 64)
	}
	return o.Cond.String()
}

// attribute sets the failed operation of o if it is not already set.
func (o Outcome) attribute(op string, x float64) Outcome {
	if o.Cond != Finite && o.op == "" {
		o.op, o.arg = op, x
	}
	return o
}

// Eval evaluates the expression with its free variable set to x. Evaluation
// never panics on any value of x; every failure is reported in the Outcome.
// The first failure encountered, left to right, determines the Outcome.
func (e *Expr) Eval(x float64) Outcome {
	return e.n.eval(x)
}

// Evaluate is a shortcut for e.Eval(x).
func Evaluate(e *Expr, x float64) Outcome {
	return e.Eval(x)
}

// EvalString is a shortcut to parse an expression in the default variable and
// evaluate it at x.
func EvalString(src string, x float64) (Outcome, error) {
	e, err := Parse(src, DefaultVariable)
	if err != nil {
		return Outcome{}, err
	}
	return e.Eval(x), nil
}

func (n *node) eval(x float64) Outcome {
	switch n.kind {
	case nodeNum:
		return Result(n.val).attribute(n.name, n.val)
	case nodeVar:
		return Result(x).attribute(n.name, x)
	case nodeCall:
		var buf [1]float64
		args := buf[:0]
		for _, a := range n.args {
			o := a.eval(x)
			if !o.Defined() {
				return o
			}
			args = append(args, o.Value)
		}
		var arg float64
		if len(args) > 0 {
			arg = args[0]
		}
		o := n.fn.Call(args)
		if o.Defined() {
			// Custom functions may return non-finite values directly.
			o = Result(o.Value)
		}
		return o.attribute(n.name, arg)
	case nodeNeg:
		o := n.left.eval(x)
		if o.Defined() {
			o.Value = -o.Value
		}
		return o
	case nodeNop:
		return n.left.eval(x)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l := n.left.eval(x)
		if !l.Defined() {
			return l
		}
		r := n.right.eval(x)
		if !r.Defined() {
			return r
		}
		return binary(n.kind, l.Value, r.Value)
	default:
		panic("curves: invalid AST node " + n.kind.String())
	}
}

// binary applies a binary operator to finite operands.
func binary(kind nodeKind, a, b float64) Outcome {
	switch kind {
	case nodeAdd:
		return Result(a+b).attribute("+", a)
	case nodeSub:
		return Result(a-b).attribute("-", a)
	case nodeMul:
		return Result(a*b).attribute("*", a)
	case nodeDiv:
		if b == 0 {
			return Fail(DivisionByZero, "/", a)
		}
		return Result(a/b).attribute("/", a)
	case nodePow:
		switch {
		case a < 0 && b != math.Trunc(b):
			// No complex results.
			return Fail(DomainError, "^", a)
		case a == 0 && b < 0:
			return Fail(DivisionByZero, "^", a)
		}
		return Result(math.Pow(a, b)).attribute("^", a)
	default:
		panic("curves: not a binary operator: " + kind.String())
	}
}

// EvalError describes a failed evaluation.
type EvalError struct {
	// Cond is the failure condition.
	Cond Condition
	// Func is the operator, function, or literal which failed.
	Func string
	// X is the argument of the failing operation: the left operand of an
	// operator or the first argument of a function.
	X float64
}

func (err *EvalError) Error() string {
	x := strconv.FormatFloat(err.X, 'g', -1, 64)
	var s string
	switch err.Cond {
	case DivisionByZero:
		s = "division by zero"
		if err.Func != "" {
			s += " in " + err.Func
		}
		return s
	case DomainError:
		s = x + " outside domain"
	case Overflow:
		s = "overflow"
	default:
		s = err.Cond.String() + " result"
	}
	if err.Func != "" {
		s += " of " + err.Func
	}
	return s
}

// Is reports whether target is an *EvalError with the same condition.
func (err *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Cond == err.Cond
}
