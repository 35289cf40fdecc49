package ternary

import "math"

// Float is the VM's ternary-native floating value. It is stored as a plain
// float64 internally — a deliberate simplification from the original's
// sign-trit/biased-exponent/mantissa trit layout, since no testable
// property in this system depends on bit-identical float semantics (see
// the design notes on this Open Question).
type Float struct {
	Value float64
}

// NewFloat wraps a float64 as a Float.
func NewFloat(v float64) Float { return Float{Value: v} }

// Add returns f+other.
func (f Float) Add(other Float) Float { return Float{Value: f.Value + other.Value} }

// Sub returns f-other.
func (f Float) Sub(other Float) Float { return Float{Value: f.Value - other.Value} }

// Mul returns f*other.
func (f Float) Mul(other Float) Float { return Float{Value: f.Value * other.Value} }

// Div returns f/other. Callers that must trap on division by zero (the VM
// does, for FDiv) check other.Value == 0 themselves before calling Div.
func (f Float) Div(other Float) Float { return Float{Value: f.Value / other.Value} }

// IsNaN reports whether f is NaN.
func (f Float) IsNaN() bool { return math.IsNaN(f.Value) }
