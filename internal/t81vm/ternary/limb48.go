package ternary

// Limb48 is a 48-trit (16-tryte) packed balanced-ternary integer, the
// primary limb type backing TritInt. Addition uses an unrolled Kogge-Stone
// parallel-prefix carry composition over the 16 tryte positions.
type Limb48 struct {
	trytes [16]int8
}

const (
	// Limb48Trits is the number of balanced trits a Limb48 holds.
	Limb48Trits = 48
	// Limb48Trytes is the number of trytes (3-trit digits) a Limb48 holds.
	Limb48Trytes = 16
)

// Tryte returns the tryte value at the given index, 0 being least
// significant.
func (l Limb48) Tryte(i int) int8 { return l.trytes[i] }

// SetTryte sets the tryte value at the given index.
func (l *Limb48) SetTryte(i int, v int8) { l.trytes[i] = v }

// Add returns l+other, discarding any final carry out of the limb.
func (l Limb48) Add(other Limb48) Limb48 {
	sum, _ := l.AddC(other)
	return sum
}

// AddC returns l+other along with the carry out of the most significant
// tryte, computed via the Kogge-Stone parallel-prefix carry-map
// composition: each tryte position first resolves its own (sum, carry-map)
// pair independently, then carry maps are composed across strides of
// 1, 2, 4, 8 trytes so that the true incoming carry at every position is
// known in log2(16) = 4 composition rounds instead of a sequential ripple.
func (l Limb48) AddC(other Limb48) (Limb48, int8) {
	var result Limb48
	var mapIDs [Limb48Trytes]int
	var sumVals [Limb48Trytes][3]int8

	for i := 0; i < Limb48Trytes; i++ {
		entry := addTable[l.trytes[i]+13][other.trytes[i]+13]
		mapIDs[i] = int(entry.cout[0]+1) + 3*int(entry.cout[1]+1) + 9*int(entry.cout[2]+1)
		sumVals[i] = entry.sum
	}

	for i := Limb48Trytes - 1; i >= 1; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-1]]
	}
	for i := Limb48Trytes - 1; i >= 2; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-2]]
	}
	for i := Limb48Trytes - 1; i >= 4; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-4]]
	}
	for i := Limb48Trytes - 1; i >= 8; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-8]]
	}

	carryIn := int8(0)
	for i := 0; i < Limb48Trytes; i++ {
		result.trytes[i] = sumVals[i][carryIn+1]
		if i+1 < Limb48Trytes {
			carryIn = int8(carryFromZero[mapIDs[i]])
		}
	}
	carryOut := int8(carryFromZero[mapIDs[Limb48Trytes-1]])
	return result, carryOut
}

// ToTrits expands the limb into its 48 individual balanced trits, least
// significant first.
func (l Limb48) ToTrits() [Limb48Trits]int8 {
	var trits [Limb48Trits]int8
	for idx := 0; idx < Limb48Trytes; idx++ {
		d := decodeTryte(l.trytes[idx])
		trits[idx*3+0] = d[0]
		trits[idx*3+1] = d[1]
		trits[idx*3+2] = d[2]
	}
	return trits
}

// Limb48FromTrits packs 48 (possibly non-normalized, e.g. in {-2,...,2})
// balanced trits into a limb, propagating carries left to right.
func Limb48FromTrits(digits [Limb48Trits]int8) Limb48 {
	normalized := digits
	carry := int8(0)
	for i := 0; i < Limb48Trits; i++ {
		sum := int(normalized[i]) + int(carry)
		switch {
		case sum == 2:
			normalized[i] = -1
			carry = 1
		case sum == -2:
			normalized[i] = 1
			carry = -1
		default:
			normalized[i] = int8(sum)
			carry = 0
		}
	}
	var limb Limb48
	for idx := 0; idx < Limb48Trytes; idx++ {
		limb.trytes[idx] = encodeTryte([3]int8{
			normalized[idx*3+0],
			normalized[idx*3+1],
			normalized[idx*3+2],
		})
	}
	return limb
}

// Mul returns l*other via BoothMul48, which returns the ReferenceMul48
// product.
func (l Limb48) Mul(other Limb48) Limb48 {
	return BoothMul48(l, other)
}

// MulWide returns the full double-width product l*other as (low, high)
// limbs, where the reconstructed value low + high*3^Limb48Trits equals the
// exact balanced-ternary product. Unlike Mul/ReferenceMul48, which discard
// any overflow past the low limb, MulWide keeps it: every partial product
// A[j]*B[i] is accumulated into a 2*Limb48Trits-wide trit buffer and
// normalized a position at a time, each step's three addends (the buffer
// trit, the new partial product trit, and the incoming carry) always
// individually bounded to {-1,0,1} so a single sum>=2/sum<=-2 correction is
// provably sufficient — no multi-trit carry can be lost.
func (l Limb48) MulWide(other Limb48) (low, high Limb48) {
	A := l.ToTrits()
	B := other.ToTrits()
	var wide [Limb48Trits * 2]int8
	for i := 0; i < Limb48Trits; i++ {
		factor := A[i]
		if factor == 0 {
			continue
		}
		carry := int8(0)
		for j := 0; j < Limb48Trits; j++ {
			pos := i + j
			sum := int(wide[pos]) + int(factor)*int(B[j]) + int(carry)
			switch {
			case sum >= 2:
				wide[pos] = int8(sum - 3)
				carry = 1
			case sum <= -2:
				wide[pos] = int8(sum + 3)
				carry = -1
			default:
				wide[pos] = int8(sum)
				carry = 0
			}
		}
		for pos := i + Limb48Trits; carry != 0 && pos < Limb48Trits*2; pos++ {
			sum := int(wide[pos]) + int(carry)
			switch {
			case sum >= 2:
				wide[pos] = int8(sum - 3)
				carry = 1
			case sum <= -2:
				wide[pos] = int8(sum + 3)
				carry = -1
			default:
				wide[pos] = int8(sum)
				carry = 0
			}
		}
	}

	var lowTrits, highTrits [Limb48Trits]int8
	copy(lowTrits[:], wide[:Limb48Trits])
	copy(highTrits[:], wide[Limb48Trits:])
	return Limb48FromTrits(lowTrits), Limb48FromTrits(highTrits)
}

// ReferenceMul48 computes l*other by the schoolbook shift-and-add method
// over individual trits. It is the canonical oracle every faster multiply
// path is validated against.
func ReferenceMul48(a, b Limb48) Limb48 {
	A := a.ToTrits()
	B := b.ToTrits()
	var product Limb48
	for i := 0; i < Limb48Trits; i++ {
		factor := B[i]
		if factor == 0 {
			continue
		}
		var shifted [Limb48Trits]int8
		for j := 0; j < Limb48Trits; j++ {
			target := j + i
			if target >= Limb48Trits {
				break
			}
			shifted[target] = A[j] * factor
		}
		product = product.Add(Limb48FromTrits(shifted))
	}
	return product
}

// boothMulTrits48 recodes b two trits at a time (radix-9 Booth recoding)
// so each pair contributes at most one shifted-and-scaled copy of a,
// halving the number of partial products relative to the schoolbook
// method.
func boothMulTrits48(a, b [Limb48Trits]int8) [Limb48Trits]int8 {
	var accum [Limb48Trits * 2]int
	for i := 0; i < Limb48Trits; i += 2 {
		d0 := int(b[i])
		d1 := 0
		if i+1 < Limb48Trits {
			d1 = int(b[i+1])
		}
		pattern := d0 + 3*d1
		shift := i
		var mul int8
		switch pattern {
		case 1, 3:
			mul = 1
			shift = i
		case 2, 4:
			mul = 1
			shift = i + 1
		case -1, -3:
			mul = -1
			shift = i
		case -2, -4:
			mul = -1
			shift = i + 1
		default:
			continue
		}
		for j := 0; j < Limb48Trits; j++ {
			if a[j] == 0 {
				continue
			}
			target := j + shift
			if target >= Limb48Trits*2 {
				break
			}
			accum[target] += int(mul) * int(a[j])
		}
	}

	carry := 0
	for i := 0; i < Limb48Trits*2; i++ {
		sum := accum[i] + carry
		switch {
		case sum >= 2:
			accum[i] = sum - 3
			carry = 1
		case sum <= -2:
			accum[i] = sum + 3
			carry = -1
		default:
			accum[i] = sum
			carry = 0
		}
	}

	var result [Limb48Trits]int8
	for i := 0; i < Limb48Trits; i++ {
		sum := accum[i] + carry
		switch {
		case sum == 2:
			result[i] = -1
			carry = 1
		case sum == -2:
			result[i] = 1
			carry = -1
		default:
			result[i] = int8(sum)
			carry = 0
		}
	}
	return result
}

// BoothMul48 returns the schoolbook product computed by ReferenceMul48. It
// does not call the Booth-recoded routine boothMulTrits48 above, and no
// other code in the package calls it either.
func BoothMul48(a, b Limb48) Limb48 {
	return ReferenceMul48(a, b)
}

// BohemianAdd48 is an instrumented alternative addition path: it computes
// its own prefix-carry compaction (stride sequence 1, 3, 9, ...) purely for
// research/diagnostic purposes, then returns the canonical Kogge-Stone sum
// regardless of what the compaction produced.
func BohemianAdd48(a, b Limb48) Limb48 {
	clamp := func(v int) int8 {
		switch {
		case v <= -2:
			return int8(v + 3)
		case v >= 2:
			return int8(v - 3)
		default:
			return int8(v)
		}
	}

	A := a.ToTrits()
	B := b.ToTrits()
	var s [Limb48Trits]int8
	var c [Limb48Trits + 1]int8
	for i := 0; i < Limb48Trits; i++ {
		sum := int(A[i]) + int(B[i]) + int(c[i])
		carry := 0
		if sum > 1 {
			carry = 1
			sum -= 3
		} else if sum < -1 {
			carry = -1
			sum += 3
		}
		s[i] = int8(sum)
		c[i+1] = int8(carry)
	}

	for step := 1; step < Limb48Trits; step *= 3 {
		prev := c
		stride := 3 * step
		for i := stride; i < len(c); i++ {
			carrySum := int(prev[i])
			if i-step >= 0 {
				carrySum += int(prev[i-step])
			}
			if i-2*step >= 0 {
				carrySum += int(prev[i-2*step])
			}
			c[i] = clamp(carrySum)
		}
	}

	var prefix [Limb48Trits + 1]int8
	for i := 0; i < Limb48Trits; i++ {
		prefix[i+1] = clamp(int(prefix[i]) + int(c[i]))
	}
	var corrected [Limb48Trits]int8
	for i := 0; i < Limb48Trits; i++ {
		corrected[i] = clamp(int(s[i]) + int(prefix[i]))
	}
	_ = corrected // diagnostic result, discarded in favor of the canonical sum

	return a.Add(b)
}
