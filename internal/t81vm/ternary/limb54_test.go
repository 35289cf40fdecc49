package ternary

import (
	"math/big"
	"math/rand"
	"testing"
)

func limb54FromInt(v int64) Limb54 {
	var trits [Limb54Trits]int8
	n := v
	for i := 0; i < Limb54Trits && n != 0; i++ {
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
	return Limb54FromTrits(trits)
}

func limb54ToInt(l Limb54) int64 {
	var acc int64
	place := int64(1)
	for _, tr := range l.ToTrits() {
		acc += place * int64(tr)
		place *= 3
	}
	return acc
}

func TestKaratsuba54MatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		a := r.Int63n(40000) - 20000
		b := r.Int63n(40000) - 20000
		ref := ReferenceMul54(limb54FromInt(a), limb54FromInt(b))
		kar := Karatsuba54(limb54FromInt(a), limb54FromInt(b))
		if ref.ToTrits() != kar.ToTrits() {
			t.Fatalf("Karatsuba54(%d,%d) disagrees with ReferenceMul54", a, b)
		}
		if got := limb54ToInt(ref); got != a*b {
			t.Errorf("ReferenceMul54(%d,%d) = %d, want %d", a, b, got, a*b)
		}
	}
}

func TestBoothMul54FallsBackWhenNeeded(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		a := r.Int63n(40000) - 20000
		b := r.Int63n(40000) - 20000
		got := BoothMul54(limb54FromInt(a), limb54FromInt(b))
		if limb54ToInt(got) != a*b {
			t.Errorf("BoothMul54(%d,%d) = %d, want %d", a, b, limb54ToInt(got), a*b)
		}
	}
}

func limb54ToBigInt(l Limb54) *big.Int {
	acc := big.NewInt(0)
	place := big.NewInt(1)
	three := big.NewInt(3)
	for _, tr := range l.ToTrits() {
		if tr != 0 {
			acc.Add(acc, new(big.Int).Mul(place, big.NewInt(int64(tr))))
		}
		place.Mul(place, three)
	}
	return acc
}

func TestLimb54MulWideReconstructsExactProduct(t *testing.T) {
	r := rand.New(rand.NewSource(44))
	scale := new(big.Int).Exp(big.NewInt(3), big.NewInt(Limb54Trits), nil)
	for i := 0; i < 200; i++ {
		a := r.Int63n(4_000_000_000) - 2_000_000_000
		b := r.Int63n(4_000_000_000) - 2_000_000_000
		low, high := limb54FromInt(a).MulWide(limb54FromInt(b))
		got := new(big.Int).Mul(limb54ToBigInt(high), scale)
		got.Add(got, limb54ToBigInt(low))
		want := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
		if got.Cmp(want) != 0 {
			t.Fatalf("MulWide(%d,%d) reconstructed %s, want %s", a, b, got, want)
		}
	}
}

func TestLimb54MulWideLowMatchesMul(t *testing.T) {
	r := rand.New(rand.NewSource(45))
	for i := 0; i < 100; i++ {
		a := r.Int63n(40000) - 20000
		b := r.Int63n(40000) - 20000
		low, _ := limb54FromInt(a).MulWide(limb54FromInt(b))
		want := limb54FromInt(a).Mul(limb54FromInt(b))
		if low.ToTrits() != want.ToTrits() {
			t.Fatalf("MulWide(%d,%d) low half disagrees with Mul", a, b)
		}
	}
}

func TestLimb54AddCAgreesWithIntegerAddition(t *testing.T) {
	cases := []struct{ a, b int64 }{{0, 0}, {1, -1}, {999999, 1}, {-999999, -1}}
	for _, c := range cases {
		sum, _ := limb54FromInt(c.a).AddC(limb54FromInt(c.b))
		if got := limb54ToInt(sum); got != c.a+c.b {
			t.Errorf("AddC(%d,%d) = %d, want %d", c.a, c.b, got, c.a+c.b)
		}
	}
}
