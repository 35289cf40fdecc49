package ternary

import "fmt"

// TritInt is an arbitrary-width balanced-ternary integer, represented as a
// little-limb-first slice of Limb48 limbs. It backs the numerator and
// denominator of Fraction and the tensor/integer register values of the VM.
type TritInt struct {
	limbs []Limb48
}

// NewTritInt returns a zero-valued TritInt with the given number of limbs
// (minimum 1).
func NewTritInt(numLimbs int) TritInt {
	if numLimbs < 1 {
		numLimbs = 1
	}
	return TritInt{limbs: make([]Limb48, numLimbs)}
}

// Limbs returns the little-limb-first backing slice.
func (t TritInt) Limbs() []Limb48 { return t.limbs }

// IsZero reports whether every trit of every limb is zero.
func (t TritInt) IsZero() bool {
	for _, limb := range t.limbs {
		for _, tr := range limb.ToTrits() {
			if tr != 0 {
				return false
			}
		}
	}
	return true
}

// Sign returns -1, 0, or 1 according to the most significant nonzero trit,
// consistent with balanced ternary's sign-magnitude-free representation.
func (t TritInt) Sign() int {
	for i := len(t.limbs) - 1; i >= 0; i-- {
		trits := t.limbs[i].ToTrits()
		for j := len(trits) - 1; j >= 0; j-- {
			if trits[j] != 0 {
				return int(trits[j])
			}
		}
	}
	return 0
}

// Add returns t+other, propagating carry across limb boundaries. Both
// operands must have the same limb count.
func (t TritInt) Add(other TritInt) (TritInt, error) {
	if len(t.limbs) != len(other.limbs) {
		return TritInt{}, fmt.Errorf("ternary: mismatched TritInt widths %d vs %d", len(t.limbs), len(other.limbs))
	}
	result := NewTritInt(len(t.limbs))
	carryLimb := Limb48{}
	for i := range t.limbs {
		sum, carryTrit := t.limbs[i].AddC(other.limbs[i])
		sum2, carryTrit2 := sum.AddC(carryLimb)
		result.limbs[i] = sum2
		carryLimb.SetTryte(0, carryTrit+carryTrit2)
	}
	return result, nil
}

// Neg returns the trit-wise negation of t (each trit's sign flipped, which
// is an exact additive inverse in balanced ternary with no extra carry).
func (t TritInt) Neg() TritInt {
	result := NewTritInt(len(t.limbs))
	for i, limb := range t.limbs {
		trits := limb.ToTrits()
		for j := range trits {
			trits[j] = -trits[j]
		}
		result.limbs[i] = Limb48FromTrits(trits)
	}
	return result
}

// Sub returns t-other.
func (t TritInt) Sub(other TritInt) (TritInt, error) {
	return t.Add(other.Neg())
}

// Mul returns t*other, computed entirely in balanced-ternary limb
// arithmetic via Limb48.MulWide — no operand is ever round-tripped through
// int64. Both operands must have the same limb count; the result is
// truncated back to that width, the same fixed-width convention Add already
// uses for a carry out of the top limb.
func (t TritInt) Mul(other TritInt) (TritInt, error) {
	if len(t.limbs) != len(other.limbs) {
		return TritInt{}, fmt.Errorf("ternary: mismatched TritInt widths %d vs %d", len(t.limbs), len(other.limbs))
	}
	n := len(t.limbs)
	wide := make([]Limb48, 2*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			low, high := t.limbs[i].MulWide(other.limbs[j])
			addLimbAt(wide, i+j, low)
			addLimbAt(wide, i+j+1, high)
		}
	}
	result := NewTritInt(n)
	copy(result.limbs, wide[:n])
	return result, nil
}

// addLimbAt adds v into wide[pos], rippling any carry out of wide[pos]
// rightward for as many further positions as the carry chain actually
// runs. Positions past the end of wide are
// dropped, consistent with Mul's fixed-width truncation.
func addLimbAt(wide []Limb48, pos int, v Limb48) {
	for pos < len(wide) {
		sum, carryTrit := wide[pos].AddC(v)
		wide[pos] = sum
		if carryTrit == 0 {
			return
		}
		var carryLimb Limb48
		carryLimb.SetTryte(0, carryTrit)
		v = carryLimb
		pos++
	}
}

// ErrOverflow is returned by ToInt64 when the value does not fit in a
// signed 64-bit integer.
var ErrOverflow = fmt.Errorf("ternary: value overflows int64")

// ToInt64 converts t to a signed 64-bit integer by accumulating trit place
// values, the inverse of FromInt64. It reports ErrOverflow if the value
// exceeds the range of int64.
func (t TritInt) ToInt64() (int64, error) {
	var acc int64
	place := int64(1)
	placeExhausted := false
	for _, limb := range t.limbs {
		for _, tr := range limb.ToTrits() {
			if tr != 0 {
				if placeExhausted {
					return 0, ErrOverflow
				}
				delta := place * int64(tr)
				next := acc + delta
				if (delta > 0 && next < acc) || (delta < 0 && next > acc) {
					return 0, ErrOverflow
				}
				acc = next
			}
			if placeExhausted {
				continue
			}
			if place > (1<<62)/3 {
				placeExhausted = true
			} else {
				place *= 3
			}
		}
	}
	return acc, nil
}

// FromInt64 converts a signed 64-bit integer into a TritInt with the given
// limb width, via repeated division by 3 with balanced remainder
// (remainder in {-1,0,1}, rounding the quotient toward the remainder that
// keeps it exact).
func FromInt64(v int64, numLimbs int) TritInt {
	result := NewTritInt(numLimbs)
	totalTrits := numLimbs * Limb48Trits
	trits := make([]int8, totalTrits)
	n := v
	for i := 0; i < totalTrits && n != 0; i++ {
		rem := n % 3
		n /= 3
		switch rem {
		case 2:
			rem = -1
			n++
		case -2:
			rem = 1
			n--
		}
		trits[i] = int8(rem)
	}
	for limbIdx := 0; limbIdx < numLimbs; limbIdx++ {
		var limbTrits [Limb48Trits]int8
		copy(limbTrits[:], trits[limbIdx*Limb48Trits:(limbIdx+1)*Limb48Trits])
		result.limbs[limbIdx] = Limb48FromTrits(limbTrits)
	}
	return result
}
