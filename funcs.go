package formula

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals callable from formulas.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Every argument is finite.
	Call(args []float64) (float64, *Error)
	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

// Unbounded is the MaxArity of a function taking any number of arguments
// beyond its minimum.
const Unbounded = -1

// Signature describes the name and arity of a callable function.
type Signature struct {
	Name     string `json:"name" yaml:"name"`
	MinArity int    `json:"minArity" yaml:"minArity"`
	MaxArity int    `json:"maxArity" yaml:"maxArity"`
}

// Accepts returns whether a call with n arguments matches the signature.
func (s Signature) Accepts(n int) bool {
	return n >= s.MinArity && (s.MaxArity == Unbounded || n <= s.MaxArity)
}

// String describes the arity in words, e.g. "1 argument" or "at least 2
// arguments".
func (s Signature) String() string {
	switch {
	case s.MaxArity == Unbounded:
		return "at least " + plural(s.MinArity, "argument")
	case s.MinArity == s.MaxArity:
		return plural(s.MinArity, "argument")
	default:
		return strconv.Itoa(s.MinArity) + " to " + plural(s.MaxArity, "argument")
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

type function struct {
	sig Signature
	fn  Func
}

// globalfuncs is the closed function whitelist, in the order it is published.
var globalfuncs = []function{
	{Signature{"sqrt", 1, 1}, Monadic(fsqrt)},
	{Signature{"abs", 1, 1}, Monadic(safe(math.Abs))},
	{Signature{"exp", 1, 1}, Monadic(fexp)},
	{Signature{"log", 1, 1}, Monadic(flog)},
	{Signature{"sin", 1, 1}, Monadic(safe(math.Sin))},
	{Signature{"cos", 1, 1}, Monadic(safe(math.Cos))},
	{Signature{"tan", 1, 1}, Monadic(safe(math.Tan))},
	{Signature{"pow", 2, 2}, Dyadic(pow)},
	{Signature{"min", 2, Unbounded}, Variadic(2, math.Min)},
	{Signature{"max", 2, Unbounded}, Variadic(2, math.Max)},
	{Signature{"round", 1, 2}, roundfn{}},
	{Signature{"floor", 1, 1}, Monadic(safe(math.Floor))},
	{Signature{"ceil", 1, 1}, Monadic(safe(math.Ceil))},
}

var funcindex = func() map[string]int {
	m := make(map[string]int, len(globalfuncs))
	for i, f := range globalfuncs {
		m[f.sig.Name] = i
	}
	return m
}()

// Functions returns the signatures of all callable functions.
func Functions() []Signature {
	r := make([]Signature, len(globalfuncs))
	for i, f := range globalfuncs {
		r[i] = f.sig
	}
	return r
}

// lookupFunc finds a function by exact name.
func lookupFunc(name string) (function, bool) {
	i, ok := funcindex[name]
	if !ok {
		return function{}, false
	}
	return globalfuncs[i], true
}

// funcNames lists function names in table order.
func funcNames() []string {
	r := make([]string, len(globalfuncs))
	for i, f := range globalfuncs {
		r[i] = f.sig.Name
	}
	return r
}

type monadic func(float64) (float64, *Error)

func (m monadic) Call(args []float64) (float64, *Error) {
	return m(args[0])
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func.
func Monadic(f func(float64) (float64, *Error)) Func {
	return monadic(f)
}

type dyadic func(x, y float64) (float64, *Error)

func (d dyadic) Call(args []float64) (float64, *Error) {
	return d(args[0], args[1])
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two variables into a Func.
func Dyadic(f func(x, y float64) (float64, *Error)) Func {
	return dyadic(f)
}

type variadic struct {
	min int
	f   func(x, y float64) float64
}

func (v variadic) Call(args []float64) (float64, *Error) {
	r := args[0]
	for _, x := range args[1:] {
		r = v.f(r, x)
	}
	return r, nil
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min
}

// Variadic wraps a binary reduction into a Func of at least min arguments.
func Variadic(min int, f func(x, y float64) float64) Func {
	return variadic{min: min, f: f}
}

// safe adapts a function that is total on finite inputs.
func safe(f func(float64) float64) func(float64) (float64, *Error) {
	return func(x float64) (float64, *Error) {
		return f(x), nil
	}
}

// bigprec is the precision of intermediate results of transcendental
// functions. Computing with more bits than a float64 and rounding once makes
// results independent of the host math library.
const bigprec = 128

// Limits beyond which exp and pow certainly overflow or underflow a float64.
const (
	expOverflow  = 710
	expUnderflow = -750
)

func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(bigprec).SetFloat64(x)
}

func float(x *big.Float) float64 {
	f, _ := x.Float64()
	return f
}

func domain(fn string, x float64, why string) *Error {
	return errNoPos(DomainError, fn+" of "+formatNum(x)+": "+why)
}

func fsqrt(x float64) (float64, *Error) {
	if x < 0 {
		return 0, domain("sqrt", x, "negative argument")
	}
	return math.Sqrt(x), nil
}

func fexp(x float64) (float64, *Error) {
	switch {
	case x > expOverflow:
		return 0, domain("exp", x, "result too large")
	case x < expUnderflow:
		return 0, nil
	}
	return float(bigfloat.Exp(new(big.Float).SetPrec(bigprec), bigf(x))), nil
}

func flog(x float64) (float64, *Error) {
	if x <= 0 {
		return 0, domain("log", x, "argument not positive")
	}
	return float(bigfloat.Log(new(big.Float).SetPrec(bigprec), bigf(x))), nil
}

// pow computes x^y for finite x and y.
func pow(x, y float64) (float64, *Error) {
	switch {
	case y == 0, x == 1:
		return 1, nil
	case x == 0:
		if y < 0 {
			return 0, errNoPos(DivisionByZero, "division by zero: 0 raised to negative power "+formatNum(y))
		}
		return 0, nil
	}
	neg := false
	if x < 0 {
		if y != math.Trunc(y) {
			return 0, errNoPos(DomainError, "power of negative base "+formatNum(x)+" to non-integer exponent "+formatNum(y))
		}
		// Every float64 beyond 2^53 is even.
		neg = math.Mod(y, 2) != 0
		x = -x
	}
	est := y * math.Log(x)
	switch {
	case est > expOverflow:
		return 0, errNoPos(DomainError, "power "+formatNum(x)+"^"+formatNum(y)+": result too large")
	case est < expUnderflow:
		if neg {
			return math.Copysign(0, -1), nil
		}
		return 0, nil
	}
	r := float(bigfloat.Pow(new(big.Float).SetPrec(bigprec), bigf(x), bigf(y)))
	if neg {
		r = -r
	}
	return r, nil
}

type roundfn struct{}

// maxRoundDigits bounds the digits argument of round so that the scale factor
// is exact.
const maxRoundDigits = 15

func (roundfn) Call(args []float64) (float64, *Error) {
	x := args[0]
	if len(args) == 1 {
		return math.Round(x), nil
	}
	n := args[1]
	if n != math.Trunc(n) || n < 0 || n > maxRoundDigits {
		return 0, domain("round", n, "digits must be an integer from 0 to "+strconv.Itoa(maxRoundDigits))
	}
	p := math.Pow(10, n)
	s := x * p
	if math.IsInf(s, 0) {
		// x is already an integer at this scale.
		return x, nil
	}
	return math.Round(s) / p, nil
}

func (roundfn) CanCall(n int) bool {
	return n == 1 || n == 2
}
