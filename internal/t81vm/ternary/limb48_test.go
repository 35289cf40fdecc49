package ternary

import (
	"math/big"
	"math/rand"
	"testing"
)

func limbToBigInt(l Limb48) *big.Int {
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

func limbFromInt(v int64) Limb48 {
	return FromInt64(v, 1).limbs[0]
}

func limbToInt(l Limb48) int64 {
	v, err := (TritInt{limbs: []Limb48{l}}).ToInt64()
	if err != nil {
		panic(err)
	}
	return v
}

func TestLimb48AddMatchesIntegerAddition(t *testing.T) {
	cases := []struct{ a, b int64 }{
		{0, 0}, {1, -1}, {13, 13}, {-13, -13}, {100, 200}, {-500, 17},
	}
	for _, c := range cases {
		got := limbToInt(limbFromInt(c.a).Add(limbFromInt(c.b)))
		want := c.a + c.b
		if got != want {
			t.Errorf("Add(%d,%d) = %d, want %d", c.a, c.b, got, want)
		}
	}
}

func TestLimb48AddCommutative(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := r.Int63n(1_000_000) - 500_000
		b := r.Int63n(1_000_000) - 500_000
		x := limbFromInt(a).Add(limbFromInt(b))
		y := limbFromInt(b).Add(limbFromInt(a))
		if x.ToTrits() != y.ToTrits() {
			t.Fatalf("addition not commutative for %d,%d", a, b)
		}
	}
}

func TestBoothMulMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		a := r.Int63n(2000) - 1000
		b := r.Int63n(2000) - 1000
		ref := ReferenceMul48(limbFromInt(a), limbFromInt(b))
		booth := BoothMul48(limbFromInt(a), limbFromInt(b))
		if ref.ToTrits() != booth.ToTrits() {
			t.Fatalf("BoothMul48(%d,%d) disagrees with ReferenceMul48", a, b)
		}
		want := a * b
		got := limbToInt(ref)
		if got != want {
			t.Errorf("ReferenceMul48(%d,%d) = %d, want %d", a, b, got, want)
		}
	}
}

func TestLimb48MulWideReconstructsExactProduct(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	scale := new(big.Int).Exp(big.NewInt(3), big.NewInt(Limb48Trits), nil)
	for i := 0; i < 200; i++ {
		a := r.Int63n(4_000_000_000) - 2_000_000_000
		b := r.Int63n(4_000_000_000) - 2_000_000_000
		low, high := limbFromInt(a).MulWide(limbFromInt(b))
		got := new(big.Int).Mul(limbToBigInt(high), scale)
		got.Add(got, limbToBigInt(low))
		want := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
		if got.Cmp(want) != 0 {
			t.Fatalf("MulWide(%d,%d) reconstructed %s, want %s", a, b, got, want)
		}
	}
}

func TestLimb48MulWideLowMatchesMul(t *testing.T) {
	r := rand.New(rand.NewSource(43))
	for i := 0; i < 100; i++ {
		a := r.Int63n(2000) - 1000
		b := r.Int63n(2000) - 1000
		low, _ := limbFromInt(a).MulWide(limbFromInt(b))
		want := limbFromInt(a).Mul(limbFromInt(b))
		if low.ToTrits() != want.ToTrits() {
			t.Fatalf("MulWide(%d,%d) low half disagrees with Mul", a, b)
		}
	}
}

func TestBohemianAdd48MatchesCanonical(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		a := r.Int63n(1_000_000) - 500_000
		b := r.Int63n(1_000_000) - 500_000
		canonical := limbFromInt(a).Add(limbFromInt(b))
		bohemian := BohemianAdd48(limbFromInt(a), limbFromInt(b))
		if canonical.ToTrits() != bohemian.ToTrits() {
			t.Fatalf("BohemianAdd48(%d,%d) diverged from canonical add", a, b)
		}
	}
}

func TestFromInt64ToInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 13, -13, 123456789, -123456789, 9_000_000_000}
	for _, v := range values {
		ti := FromInt64(v, 2)
		got, err := ti.ToInt64()
		if err != nil {
			t.Fatalf("ToInt64(%d) returned error: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestToInt64Overflow(t *testing.T) {
	ti := NewTritInt(3)
	for i := range ti.limbs {
		var trits [Limb48Trits]int8
		for j := range trits {
			trits[j] = 1
		}
		ti.limbs[i] = Limb48FromTrits(trits)
	}
	if _, err := ti.ToInt64(); err == nil {
		t.Fatal("expected overflow error for a maximal 3-limb TritInt")
	}
}
