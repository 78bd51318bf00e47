package curves

import "math"

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true, and every element is finite. Call must not retain or
	// modify args. Failures are reported through the Outcome; a failing
	// Outcome with an empty operation name is attributed to the name under
	// which the function was called.
	Call(args []float64) Outcome

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a bracketed list of n expressions follows a function, the
	//		parser treats it as an argument list and requires CanCall(n).
	//		If the function is niladic, i.e. CanCall(0) but not CanCall(1),
	//		then the bracketed term is instead a multiplication.
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "exp x" is
	//		parsed as "exp(x)".
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"sin":   Monadic(math.Sin),
	"cos":   Monadic(math.Cos),
	"tan":   Monadic(math.Tan),
	"sqrt":  Checked(sqrt),
	"log":   Checked(logarithm(math.Log)),
	"ln":    Checked(logarithm(math.Log)),
	"log10": Checked(logarithm(math.Log10)),
	"abs":   Monadic(math.Abs),
	"exp":   Monadic(math.Exp),

	"asin": Checked(arc(math.Asin)),
	"acos": Checked(arc(math.Acos)),
	"atan": Monadic(math.Atan),
	"sinh": Monadic(math.Sinh),
	"cosh": Monadic(math.Cosh),
	"tanh": Monadic(math.Tanh),

	// constants
	"pi": Niladic(math.Pi),
	"e":  Niladic(math.E),
}

// Funcs returns the names of the default functions and constants.
func Funcs() []string {
	names := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

func sqrt(x float64) Outcome {
	if x < 0 {
		return Fail(DomainError, "", x)
	}
	return Result(math.Sqrt(x))
}

// logarithm wraps a logarithm so that non-positive arguments are domain
// errors rather than -Inf or NaN.
func logarithm(f func(float64) float64) func(float64) Outcome {
	return func(x float64) Outcome {
		if x <= 0 {
			return Fail(DomainError, "", x)
		}
		return Result(f(x))
	}
}

// arc wraps an inverse trigonometric function defined on [-1, 1].
func arc(f func(float64) float64) func(float64) Outcome {
	return func(x float64) Outcome {
		if x < -1 || x > 1 {
			return Fail(DomainError, "", x)
		}
		return Result(f(x))
	}
}

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(args []float64) Outcome {
	r := m.f(args[0])
	if math.IsNaN(r) {
		return Fail(DomainError, "", args[0])
	}
	return Result(r)
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. A NaN result is
// reported as a domain error and an infinite one as overflow.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type checked struct {
	f func(float64) Outcome
}

func (c checked) Call(args []float64) Outcome {
	return c.f(args[0])
}

func (c checked) CanCall(n int) bool {
	return n == 1
}

// Checked wraps a function of one variable which reports its own failures.
func Checked(f func(float64) Outcome) Func {
	return checked{f}
}

type niladic struct {
	v float64
}

func (n niladic) Call(args []float64) Outcome {
	return Result(n.v)
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic creates a Func for a named constant. A niladic function followed by
// a term multiplies it, so "2 pi x" and "pi(x)" are both products.
func Niladic(v float64) Func {
	return niladic{v}
}
