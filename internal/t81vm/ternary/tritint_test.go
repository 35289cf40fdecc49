package ternary

import "testing"

func TestTritIntMulMatchesIntegerMultiplication(t *testing.T) {
	cases := []struct{ a, b int64 }{
		{0, 0}, {1, -1}, {13, 13}, {1000, -1000}, {-7, -9}, {123456, 789},
	}
	for _, c := range cases {
		a := FromInt64(c.a, 2)
		b := FromInt64(c.b, 2)
		got, err := a.Mul(b)
		if err != nil {
			t.Fatalf("Mul(%d,%d): %v", c.a, c.b, err)
		}
		v, err := got.ToInt64()
		if err != nil {
			t.Fatalf("Mul(%d,%d).ToInt64(): %v", c.a, c.b, err)
		}
		if want := c.a * c.b; v != want {
			t.Errorf("Mul(%d,%d) = %d, want %d", c.a, c.b, v, want)
		}
	}
}

func TestTritIntMulMismatchedWidths(t *testing.T) {
	a := FromInt64(1, 1)
	b := FromInt64(1, 2)
	if _, err := a.Mul(b); err == nil {
		t.Fatal("expected error for mismatched TritInt widths")
	}
}
