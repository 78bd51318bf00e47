package curves

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/bigfloat"
)

func TestEval(t *testing.T) {
	type vc struct {
		x, r float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{0, 1}}},
		{"var", "x", []vc{{4, 4}, {-5, -5}, {0, 0}}},
		{"plus", "+x", []vc{{4, 4}, {-5, -5}}},
		{"neg", "-x", []vc{{4, -4}, {-5, 5}}},
		{"add", "4+5+6", []vc{{0, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{0, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{0, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{0, 4.0 / 5.0 / 6.0}}},
		{"pow", "4^3^2", []vc{{0, 262144}}},
		{"neg-pow", "-2^2", []vc{{0, -4}}},
		{"pow-neg", "2^-1", []vc{{0, 0.5}}},
		{"square", "x^2", []vc{{-1, 1}, {0, 0}, {1, 1}, {3, 9}}},
		{"neg-base-int", "x^3", []vc{{-2, -8}}},
		{"neg-base-neg-int", "x^-2", []vc{{-2, 0.25}}},
		{"zero-pow-zero", "x^0", []vc{{0, 1}}},
		{"implicit", "2x + 3", []vc{{0, 3}, {1, 5}, {-2, -1}}},
		{"implicit-div", "1/2x", []vc{{2, 0.25}}},
		{"pi", "pi", []vc{{0, math.Pi}}},
		{"e", "e", []vc{{0, math.E}}},
		{"exp", "exp 1", []vc{{0, math.E}}},
		{"exp-var", "exp(x)", []vc{{0, 1}, {1, math.E}}},
		{"log", "log(e)", []vc{{0, 1}}},
		{"ln", "ln x", []vc{{1, 0}}},
		{"log10", "log10 1000", []vc{{0, 3}}},
		{"sqrt", "sqrt(x)", []vc{{0, 0}, {4, 2}, {2.25, 1.5}}},
		{"abs", "abs(x)", []vc{{-3, 3}, {3, 3}}},
		{"sin", "sin(x)", []vc{{0, 0}, {math.Pi / 2, 1}}},
		{"cos", "cos x", []vc{{0, 1}}},
		{"tan", "tan(x)", []vc{{0, 0}}},
		{"asin", "asin(1)", []vc{{0, math.Pi / 2}}},
		{"acos", "acos(1)", []vc{{0, 0}}},
		{"atan", "atan(x)", []vc{{0, 0}}},
		{"sinh", "sinh 0", []vc{{0, 0}}},
		{"cosh", "cosh 0", []vc{{0, 1}}},
		{"tanh", "tanh 0", []vc{{0, 0}}},
		{"underflow", "1e-400", []vc{{0, 0}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, "x")
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				o := a.Eval(v.x)
				if !o.Defined() {
					t.Errorf("%q at %g: evaluation failed: %v", c.src, v.x, o.Err())
					continue
				}
				if o.Err() != nil {
					t.Errorf("%q at %g: defined outcome has error %v", c.src, v.x, o.Err())
				}
				if math.Abs(o.Value-v.r) > 1e-15*math.Max(1, math.Abs(v.r)) {
					t.Errorf("%q at %g: want %g, got %g", c.src, v.x, v.r, o.Value)
				}
			}
		})
	}
}

func TestEvalConditions(t *testing.T) {
	cases := []struct {
		name string
		src  string
		x    float64
		cond Condition
		op   string
	}{
		{"div-zero", "1/x", 0, DivisionByZero, "/"},
		{"div-zero-zero", "0/0", 0, DivisionByZero, "/"},
		{"div-cancel", "1/(x-x)", 3, DivisionByZero, "/"},
		{"div-alt", "1÷x", 0, DivisionByZero, "/"},
		{"pow-zero-neg", "x^-1", 0, DivisionByZero, "^"},
		{"pow-neg-frac", "x^0.5", -4, DomainError, "^"},
		{"cube-root-neg", "(-8)^(1/3)", 0, DomainError, "^"},
		{"sqrt-neg", "sqrt(x)", -1, DomainError, "sqrt"},
		{"log-neg", "log(x)", -1, DomainError, "log"},
		{"log-zero", "log(x)", 0, DomainError, "log"},
		{"ln-zero", "ln(x)", 0, DomainError, "ln"},
		{"log10-zero", "log10(x)", 0, DomainError, "log10"},
		{"log10-neg", "log10(x)", -10, DomainError, "log10"},
		{"asin", "asin(x)", 2, DomainError, "asin"},
		{"acos", "acos(x)", -1.5, DomainError, "acos"},
		{"exp-overflow", "exp(x)", 1000, Overflow, "exp"},
		{"pow-overflow", "10^x", 400, Overflow, "^"},
		{"mul-overflow", "x*x", 1e200, Overflow, "*"},
		{"add-overflow", "x+x", math.MaxFloat64, Overflow, "+"},
		{"cosh-overflow", "cosh x", 1000, Overflow, "cosh"},
		{"literal-overflow", "1e999", 0, Overflow, "1e999"},
		{"var-nan", "x", math.NaN(), Undefined, "x"},
		{"var-inf", "x+1", math.Inf(1), Overflow, "x"},
		{"nested", "sin(1/x)", 0, DivisionByZero, "/"},
		{"first-left", "sqrt(-1) + 1/0", 0, DomainError, "sqrt"},
		{"first-right", "1/0 + sqrt(-1)", 0, DivisionByZero, "/"},
		{"unused-var", "x^2 + 1/0", 2, DivisionByZero, "/"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(c.src, "x")
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			o := a.Eval(c.x)
			if o.Cond != c.cond {
				t.Fatalf("%q at %g: want %v, got %v", c.src, c.x, c.cond, o)
			}
			if o.Defined() {
				t.Errorf("%q at %g: failure is defined", c.src, c.x)
			}
			if !math.IsNaN(o.Value) {
				t.Errorf("%q at %g: failure has value %g, want NaN", c.src, c.x, o.Value)
			}
			err = o.Err()
			var eerr *EvalError
			if !errors.As(err, &eerr) {
				t.Fatalf("%q at %g: error %#v is not *EvalError", c.src, c.x, err)
			}
			if eerr.Func != c.op {
				t.Errorf("%q at %g: failure attributed to %q, want %q", c.src, c.x, eerr.Func, c.op)
			}
			if !errors.Is(err, &EvalError{Cond: c.cond}) {
				t.Errorf("%q at %g: %v is not %v", c.src, c.x, err, c.cond)
			}
			if err.Error() == "" {
				t.Errorf("%q at %g: empty error message", c.src, c.x)
			}
		})
	}
}

func TestEvalDeterministic(t *testing.T) {
	srcs := []string{"x^2", "1/x", "sqrt(x)", "log(x)", "exp(x)", "sin(x)/x", "(-x)^0.5"}
	xs := []float64{-710, -2, -1, -0.5, 0, 0.5, 1, 2, 710}
	for _, src := range srcs {
		a, err := Parse(src, "x")
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		b, err := Parse(src, "x")
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		for _, x := range xs {
			o, p, q := a.Eval(x), a.Eval(x), b.Eval(x)
			if !sameOutcome(o, p) || !sameOutcome(o, q) {
				t.Errorf("%q at %g: outcomes %v, %v, %v differ", src, x, o, p, q)
			}
		}
	}
}

// sameOutcome compares outcomes including NaN values.
func sameOutcome(a, b Outcome) bool {
	return a.Cond == b.Cond && math.Float64bits(a.Value) == math.Float64bits(b.Value) && a.op == b.op
}

func TestEvalString(t *testing.T) {
	o, err := EvalString("x^2 + 1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Defined() || o.Value != 10 {
		t.Errorf("want 10, got %v", o)
	}
	if _, err := EvalString("x^", 3); err == nil {
		t.Error("no error from bad syntax")
	}
	e, _ := Parse("x/2", "")
	if got := Evaluate(e, 3); got.Value != 1.5 {
		t.Errorf("Evaluate gave %v", got)
	}
}

func TestResultFail(t *testing.T) {
	if o := Result(math.Inf(-1)); o.Cond != Overflow || !math.IsNaN(o.Value) {
		t.Errorf("Result(-Inf) = %+v", o)
	}
	if o := Result(math.NaN()); o.Cond != Undefined {
		t.Errorf("Result(NaN) = %+v", o)
	}
	if o := Result(-0.0); !o.Defined() {
		t.Errorf("Result(-0) = %+v", o)
	}
	if o := Fail(Finite, "f", 1); o.Cond != Undefined {
		t.Errorf("Fail(Finite) = %+v", o)
	}
	if s := Condition(200).String(); s != "Condition(200)" {
		t.Errorf("bad condition string %q", s)
	}
}

func TestCustomFuncResult(t *testing.T) {
	inf := Checked(func(x float64) Outcome { return Outcome{Value: math.Inf(1)} })
	a, err := Parse("inf(x)", "x", ParseFunc("inf", inf))
	if err != nil {
		t.Fatal(err)
	}
	o := a.Eval(1)
	if o.Cond != Overflow {
		t.Errorf("infinite custom result gave %v", o)
	}
	var eerr *EvalError
	if !errors.As(o.Err(), &eerr) || eerr.Func != "inf" || eerr.X != 1 {
		t.Errorf("custom failure attributed as %#v", o.Err())
	}
}

// refEval evaluates a tree in big.Float. Only positive bases and arguments are
// supported.
func refEval(t *testing.T, n *node, x *big.Float, prec uint) *big.Float {
	t.Helper()
	z := new(big.Float).SetPrec(prec)
	switch n.kind {
	case nodeNum:
		return z.SetFloat64(n.val)
	case nodeVar:
		return z.Set(x)
	case nodeNeg:
		return z.Neg(refEval(t, n.left, x, prec))
	case nodeNop:
		return refEval(t, n.left, x, prec)
	case nodeAdd:
		return z.Add(refEval(t, n.left, x, prec), refEval(t, n.right, x, prec))
	case nodeSub:
		return z.Sub(refEval(t, n.left, x, prec), refEval(t, n.right, x, prec))
	case nodeMul:
		return z.Mul(refEval(t, n.left, x, prec), refEval(t, n.right, x, prec))
	case nodeDiv:
		return z.Quo(refEval(t, n.left, x, prec), refEval(t, n.right, x, prec))
	case nodePow:
		return bigfloat.Pow(z, refEval(t, n.left, x, prec), refEval(t, n.right, x, prec))
	case nodeCall:
		switch n.name {
		case "exp":
			return bigfloat.Exp(z, refEval(t, n.args[0], x, prec))
		case "log", "ln":
			return bigfloat.Log(z, refEval(t, n.args[0], x, prec))
		case "sqrt":
			return z.Sqrt(refEval(t, n.args[0], x, prec))
		case "e":
			one := new(big.Float).SetPrec(prec).SetFloat64(1)
			return bigfloat.Exp(z, one)
		case "pi":
			return bigfloat.Pi(z)
		}
	}
	t.Fatalf("no reference for %v", n)
	return nil
}

// TestEvalMatchesBigFloat verifies float64 evaluation against a high precision
// reference for expressions that stay in the domain of every operation.
func TestEvalMatchesBigFloat(t *testing.T) {
	srcs := []string{
		"x",
		"2x + 3",
		"x^2 - 1/x",
		"exp(x)",
		"exp(-x^2/2)",
		"log(x)",
		"ln(1 + x^2)",
		"sqrt(x)",
		"sqrt(x^2 + 1) - x",
		"x^x",
		"2^(x/3)",
		"(1 + 1/x)^x",
		"pi x^2",
		"e^x",
	}
	const prec = 256
	xs := []float64{0.125, 0.5, 1, 2, 3, 7.5, 10}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			a, err := Parse(src, "x")
			if err != nil {
				t.Fatal(err)
			}
			for _, x := range xs {
				o := a.Eval(x)
				if !o.Defined() {
					t.Errorf("x=%g: %v", x, o.Err())
					continue
				}
				bx := new(big.Float).SetPrec(prec).SetFloat64(x)
				want, _ := refEval(t, a.n, bx, prec).Float64()
				tol := math.Max(math.Abs(want)*1e-12, 1e-12)
				if diff := math.Abs(o.Value - want); diff > tol {
					t.Errorf("x=%g: float64 %g, reference %g, diff %g", x, o.Value, want, diff)
				}
			}
		})
	}
}

func BenchmarkEval(b *testing.B) {
	b.Run("poly", func(b *testing.B) {
		b.ReportAllocs()
		a, err := Parse("3x^3 - 2x^2 + x - 7", "x")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(float64(i))
		}
	})
	b.Run("funcs", func(b *testing.B) {
		b.ReportAllocs()
		a, err := Parse("sin(x) exp(-x^2) + log(1 + abs x)", "x")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(float64(i) / 1000)
		}
	})
}

func TestFuncs(t *testing.T) {
	names := Funcs()
	if len(names) != len(globalfuncs) {
		t.Fatalf("got %d names for %d funcs", len(names), len(globalfuncs))
	}
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Errorf("names out of order at %d: %q then %q", i, names[i-1], name)
		}
		fn := globalfuncs[name]
		if !fn.CanCall(0) && !fn.CanCall(1) {
			t.Errorf("%s cannot be called", name)
		}
	}
	for _, name := range []string{"sin", "cos", "tan", "sqrt", "log", "log10", "abs", "exp"} {
		if fn := globalfuncs[name]; fn == nil || !fn.CanCall(1) || fn.CanCall(2) {
			t.Errorf("%s is not a function of one argument", name)
		}
	}
}
