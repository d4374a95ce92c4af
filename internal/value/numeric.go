package value

import "math"

// int32 overflow threshold used to decide when an Int promotes to Int64
// (§3: "Int overflow of 32 bits promotes to the wider integer variant").
const (
	int32Max = int64(math.MaxInt32)
	int32Min = int64(math.MinInt32)
)

// NormalizeInt narrows a computed int64 back to Int when it still fits in
// 32 bits, otherwise promotes to Int64.
func NormalizeInt(v int64) Value {
	if v >= int32Min && v <= int32Max {
		return Int(v)
	}
	return Int64(v)
}

// NormalizeFloat prefers Float32 when v round-trips exactly through a
// float32, otherwise keeps the wider Float64 (§3: "single-precision
// preferred when the value is representable exactly, else double").
func NormalizeFloat(v float64) Value {
	f32 := float32(v)
	if float64(f32) == v {
		return Float32(f32)
	}
	return Float64(v)
}

// AsInt64 extracts the integer value of an Int/Int64, or ok=false.
func AsInt64(v Value) (int64, bool) {
	switch n := v.(type) {
	case Int:
		return int64(n), true
	case Int64:
		return int64(n), true
	}
	return 0, false
}

// AsFloat64 extracts the float value of a Float32/Float64, or ok=false.
func AsFloat64(v Value) (float64, bool) {
	switch n := v.(type) {
	case Float32:
		return float64(n), true
	case Float64:
		return float64(n), true
	}
	return 0, false
}

// IsNumeric reports whether v is any Int/Int64/Float32/Float64 variant.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Int, Int64, Float32, Float64:
		return true
	}
	return false
}

// AsFloatAny extracts a float64 view of any numeric value (used once both
// operands of a binary op have been confirmed numeric and at least one is
// a float, per the promotion rule in §3).
func AsFloatAny(v Value) float64 {
	if i, ok := AsInt64(v); ok {
		return float64(i)
	}
	f, _ := AsFloat64(v)
	return f
}

// IsFloat reports whether v is a Float32/Float64 variant.
func IsFloat(v Value) bool {
	switch v.(type) {
	case Float32, Float64:
		return true
	}
	return false
}
