package ternary

import "testing"

func TestFractionCanonicalization(t *testing.T) {
	f, err := NewFraction(4, 8)
	if err != nil {
		t.Fatal(err)
	}
	num, _ := f.Num.ToInt64()
	den, _ := f.Den.ToInt64()
	if num != 1 || den != 2 {
		t.Errorf("NewFraction(4,8) canonicalized to %d/%d, want 1/2", num, den)
	}

	f, err = NewFraction(-3, -9)
	if err != nil {
		t.Fatal(err)
	}
	num, _ = f.Num.ToInt64()
	den, _ = f.Den.ToInt64()
	if num != 1 || den != 3 {
		t.Errorf("NewFraction(-3,-9) canonicalized to %d/%d, want 1/3", num, den)
	}

	zero, err := NewFraction(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	num, _ = zero.Num.ToInt64()
	den, _ = zero.Den.ToInt64()
	if num != 0 || den != 1 {
		t.Errorf("NewFraction(0,5) canonicalized to %d/%d, want 0/1", num, den)
	}
}

func TestFractionArithmetic(t *testing.T) {
	half, _ := NewFraction(1, 2)
	third, _ := NewFraction(1, 3)

	sum, err := half.Add(third)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := sum.Num.ToInt64()
	d, _ := sum.Den.ToInt64()
	if n != 5 || d != 6 {
		t.Errorf("1/2+1/3 = %d/%d, want 5/6", n, d)
	}

	prod, err := half.Mul(third)
	if err != nil {
		t.Fatal(err)
	}
	n, _ = prod.Num.ToInt64()
	d, _ = prod.Den.ToInt64()
	if n != 1 || d != 6 {
		t.Errorf("1/2*1/3 = %d/%d, want 1/6", n, d)
	}

	quot, err := half.Div(third)
	if err != nil {
		t.Fatal(err)
	}
	n, _ = quot.Num.ToInt64()
	d, _ = quot.Den.ToInt64()
	if n != 3 || d != 2 {
		t.Errorf("(1/2)/(1/3) = %d/%d, want 3/2", n, d)
	}
}

func TestFractionSub(t *testing.T) {
	half, _ := NewFraction(1, 2)
	third, _ := NewFraction(1, 3)

	diff, err := half.Sub(third)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := diff.Num.ToInt64()
	d, _ := diff.Den.ToInt64()
	if n != 1 || d != 6 {
		t.Errorf("1/2-1/3 = %d/%d, want 1/6", n, d)
	}
}

func TestFractionDivisionByZeroFraction(t *testing.T) {
	one, _ := NewFraction(1, 1)
	zero, _ := NewFraction(0, 1)
	if _, err := one.Div(zero); err == nil {
		t.Fatal("expected error dividing by zero fraction")
	}
}

func TestFractionFromFloat64RoundTrips(t *testing.T) {
	values := []float64{0.5, 0.25, 1.0 / 3.0, -0.75, 2.0}
	for _, v := range values {
		f, err := FractionFromFloat64(v)
		if err != nil {
			t.Fatalf("FractionFromFloat64(%v): %v", v, err)
		}
		got, err := f.ToFloat64()
		if err != nil {
			t.Fatal(err)
		}
		if diff := got - v; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("FractionFromFloat64(%v) round-tripped to %v", v, got)
		}
	}
}
