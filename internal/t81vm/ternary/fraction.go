package ternary

import (
	"fmt"
	"math"
)

// FractionLimbs is the limb width used for Fraction numerators and
// denominators throughout the VM.
const FractionLimbs = 2

// Fraction is a canonical-form rational number over TritInt: the
// denominator is always positive, and num/den is reduced to lowest terms
// (0 is stored as 0/1).
type Fraction struct {
	Num TritInt
	Den TritInt
}

// NewFraction builds a Fraction from int64 numerator/denominator and
// canonicalizes it.
func NewFraction(num, den int64) (Fraction, error) {
	if den == 0 {
		return Fraction{}, fmt.Errorf("ternary: fraction denominator is zero")
	}
	f := Fraction{
		Num: FromInt64(num, FractionLimbs),
		Den: FromInt64(den, FractionLimbs),
	}
	return f.canonicalize()
}

// canonicalize ensures Den > 0 and num/den share no common factor, via
// int64 gcd reduction (exact for the magnitudes this VM's fractions carry).
func (f Fraction) canonicalize() (Fraction, error) {
	return canonicalizeTritInt(f.Num, f.Den)
}

// canonicalizeTritInt is canonicalize's entry point for numerators and
// denominators already computed via exact TritInt arithmetic (Add/Sub/Mul),
// so the only int64 round-trip left in the Fraction arithmetic suite is the
// gcd reduction of the already-exact result, not the cross-multiplication
// that used to overflow silently.
func canonicalizeTritInt(num, den TritInt) (Fraction, error) {
	if num.IsZero() {
		return Fraction{Num: FromInt64(0, FractionLimbs), Den: FromInt64(1, FractionLimbs)}, nil
	}
	n, err := num.ToInt64()
	if err != nil {
		return Fraction{}, err
	}
	d, err := den.ToInt64()
	if err != nil {
		return Fraction{}, err
	}
	if d == 0 {
		return Fraction{}, fmt.Errorf("ternary: fraction denominator is zero")
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd64(abs64(n), d)
	if g > 1 {
		n /= g
		d /= g
	}
	return Fraction{Num: FromInt64(n, FractionLimbs), Den: FromInt64(d, FractionLimbs)}, nil
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// Add returns f+other in canonical form. The cross-multiplication and sum
// are computed entirely via TritInt.Mul/Add, never by extracting int64 and
// multiplying natively — the one path Mul exists to serve.
func (f Fraction) Add(other Fraction) (Fraction, error) {
	fnod, err := f.Num.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	onfd, err := other.Num.Mul(f.Den)
	if err != nil {
		return Fraction{}, err
	}
	num, err := fnod.Add(onfd)
	if err != nil {
		return Fraction{}, err
	}
	den, err := f.Den.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	return canonicalizeTritInt(num, den)
}

// Sub returns f-other in canonical form.
func (f Fraction) Sub(other Fraction) (Fraction, error) {
	fnod, err := f.Num.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	onfd, err := other.Num.Mul(f.Den)
	if err != nil {
		return Fraction{}, err
	}
	num, err := fnod.Sub(onfd)
	if err != nil {
		return Fraction{}, err
	}
	den, err := f.Den.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	return canonicalizeTritInt(num, den)
}

// Mul returns f*other in canonical form.
func (f Fraction) Mul(other Fraction) (Fraction, error) {
	num, err := f.Num.Mul(other.Num)
	if err != nil {
		return Fraction{}, err
	}
	den, err := f.Den.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	return canonicalizeTritInt(num, den)
}

// Div returns f/other in canonical form.
func (f Fraction) Div(other Fraction) (Fraction, error) {
	if other.Num.IsZero() {
		return Fraction{}, fmt.Errorf("ternary: division by zero fraction")
	}
	num, err := f.Num.Mul(other.Den)
	if err != nil {
		return Fraction{}, err
	}
	den, err := f.Den.Mul(other.Num)
	if err != nil {
		return Fraction{}, err
	}
	return canonicalizeTritInt(num, den)
}

// ToFloat64 converts f to the nearest float64.
func (f Fraction) ToFloat64() (float64, error) {
	n, err := f.Num.ToInt64()
	if err != nil {
		return 0, err
	}
	d, err := f.Den.ToInt64()
	if err != nil {
		return 0, err
	}
	return float64(n) / float64(d), nil
}

// FractionFromFloat64 approximates v as a Fraction via a bounded
// continued-fraction expansion, terminating early once the denominator
// would exceed 2^32.
func FractionFromFloat64(v float64) (Fraction, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Fraction{}, fmt.Errorf("ternary: cannot convert non-finite float %v to fraction", v)
	}
	const maxDen = int64(1) << 32
	sign := int64(1)
	if v < 0 {
		sign = -1
		v = -v
	}
	// Continued fraction expansion: v = a0 + 1/(a1 + 1/(a2 + ...))
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := v
	for i := 0; i < 40; i++ {
		a := int64(math.Floor(x))
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDen || k2 <= 0 {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	return NewFraction(sign*h1, k1)
}
