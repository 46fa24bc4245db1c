// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookfloat

import (
	"github.com/holiman/uint256"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

var ten = uint256.NewInt(10)

// normalizeWide reduces a wide mantissa into the canonical range.
// Underflow collapses to zero, overflow reports OVERFLOW, both per the
// ledger's amount arithmetic.
func normalizeWide(man *uint256.Int, exp int32, neg bool) int64 {
	for man.Gt(uint256.NewInt(uint64(MaxMantissa))) {
		man.Div(man, ten)
		exp++
		if exp > MaxExponent {
			return hookapi.OVERFLOW
		}
	}
	m := int64(man.Uint64())
	if m == 0 {
		return 0
	}
	for m < MinMantissa {
		m *= 10
		exp--
		if exp < MinExponent {
			return 0
		}
	}
	if exp < MinExponent {
		return 0
	}
	if neg {
		m = -m
	}
	return makeFloat(m, exp)
}

// Multiply computes float1*float2 with a 128-bit intermediate product.
func Multiply(float1, float2 int64) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if c := validate(float2); c != 0 {
		return c
	}
	if float1 == 0 || float2 == 0 {
		return 0
	}

	prod := new(uint256.Int).Mul(
		uint256.NewInt(uint64(Mantissa(float1))),
		uint256.NewInt(uint64(Mantissa(float2))),
	)
	exp := int32(Exponent(float1)) + int32(Exponent(float2))
	neg := IsNegative(float1) != IsNegative(float2)
	out := normalizeWide(prod, exp, neg)
	if out == hookapi.OVERFLOW || out == 0 {
		return out
	}
	if out < 0 {
		// exponent fell outside the representable range
		return hookapi.INVALID_FLOAT
	}
	return out
}

// MulRatio multiplies float1 by numerator/denominator with directed
// rounding: roundUp rounds toward positive infinity, otherwise toward
// negative infinity.
func MulRatio(float1 int64, roundUp bool, numerator, denominator uint32) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if denominator == 0 {
		return hookapi.DIVISION_BY_ZERO
	}
	if float1 == 0 {
		return 0
	}

	neg := IsNegative(float1)
	prod := new(uint256.Int).Mul(
		uint256.NewInt(uint64(Mantissa(float1))),
		uint256.NewInt(uint64(numerator)),
	)
	den := uint256.NewInt(uint64(denominator))
	rem := new(uint256.Int)
	quo := new(uint256.Int)
	quo.DivMod(prod, den, rem)

	// round away from zero only when the directed rounding and the
	// sign point the same way
	if !rem.IsZero() && (roundUp != neg) {
		quo.AddUint64(quo, 1)
	}

	out := normalizeWide(quo, int32(Exponent(float1)), neg)
	if out < 0 && out != hookapi.OVERFLOW {
		return hookapi.OVERFLOW
	}
	return out
}

// Divide computes float1/float2 by long division on the mantissas.
func Divide(float1, float2 int64) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if c := validate(float2); c != 0 {
		return c
	}
	if float2 == 0 {
		return hookapi.DIVISION_BY_ZERO
	}
	if float1 == 0 {
		return 0
	}

	man1 := Mantissa(float1)
	exp1 := int32(Exponent(float1))
	neg1 := IsNegative(float1)
	man2 := Mantissa(float2)
	exp2 := int32(Exponent(float2))
	neg2 := IsNegative(float2)

	// bring the divisor into (man1/10, man1]
	for man2 > man1 {
		man2 /= 10
		exp2++
	}
	if man2 == 0 {
		return hookapi.DIVISION_BY_ZERO
	}
	for man2 < man1 {
		if man2*10 > man1 {
			break
		}
		man2 *= 10
		exp2--
	}

	var man3 int64
	exp3 := exp1 - exp2
	for man2 > 0 {
		var digit int64
		for ; man1 >= man2; man1 -= man2 {
			digit++
		}
		man3 = man3*10 + digit
		man2 /= 10
		if man2 == 0 {
			break
		}
		exp3--
	}

	for man3 < MinMantissa {
		man3 *= 10
		exp3--
		if exp3 < MinExponent {
			return 0
		}
	}
	for man3 > MaxMantissa {
		man3 /= 10
		exp3++
		if exp3 > MaxExponent {
			return hookapi.INVALID_FLOAT
		}
	}

	if neg1 != neg2 {
		man3 = -man3
	}
	return makeFloat(man3, exp3)
}

// Invert computes 1/float1.
func Invert(float1 int64) int64 {
	if float1 == 0 {
		return hookapi.DIVISION_BY_ZERO
	}
	return Divide(One(), float1)
}

// Sum adds two values using the ledger's amount arithmetic: the
// operand with the smaller exponent loses precision.
func Sum(float1, float2 int64) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if c := validate(float2); c != 0 {
		return c
	}
	if float1 == 0 {
		return float2
	}
	if float2 == 0 {
		return float1
	}

	man1 := signedMantissa(float1)
	exp1 := int32(Exponent(float1))
	man2 := signedMantissa(float2)
	exp2 := int32(Exponent(float2))

	for exp1 < exp2 {
		man1 /= 10
		exp1++
	}
	for exp2 < exp1 {
		man2 /= 10
		exp2++
	}

	sum := man1 + man2
	if sum == 0 {
		return 0
	}
	out := Set(exp1, sum)
	if out == hookapi.INVALID_FLOAT && (sum > MaxMantissa || sum < -MaxMantissa) {
		return hookapi.OVERFLOW
	}
	if out == hookapi.INVALID_FLOAT {
		// underflowed to nothing representable
		return 0
	}
	return out
}

// Compare evaluates float1 against float2 under a bitfield of
// CompareEqual/CompareLess/CompareGreater; LESS|GREATER means
// "not equal". Returns 1 when the requested relation holds, else 0.
func Compare(float1, float2 int64, mode uint32) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if c := validate(float2); c != 0 {
		return c
	}

	equalFlag := mode&hookapi.CompareEqual != 0
	lessFlag := mode&hookapi.CompareLess != 0
	greaterFlag := mode&hookapi.CompareGreater != 0
	notEqual := lessFlag && greaterFlag

	if (equalFlag && lessFlag && greaterFlag) || mode == 0 {
		return hookapi.INVALID_ARGUMENT
	}

	cmp := cmpValues(float1, float2)
	switch {
	case notEqual && cmp != 0:
		return 1
	case equalFlag && cmp == 0:
		return 1
	case greaterFlag && cmp > 0:
		return 1
	case lessFlag && cmp < 0:
		return 1
	}
	return 0
}

// cmpValues orders two valid encodings: -1, 0 or 1.
func cmpValues(float1, float2 int64) int {
	if float1 == float2 {
		return 0
	}
	if float1 == 0 {
		if IsNegative(float2) {
			return 1
		}
		return -1
	}
	if float2 == 0 {
		if IsNegative(float1) {
			return -1
		}
		return 1
	}
	neg1, neg2 := IsNegative(float1), IsNegative(float2)
	if neg1 != neg2 {
		if neg1 {
			return -1
		}
		return 1
	}

	// same sign: canonical mantissas make exponent order decisive
	exp1, exp2 := Exponent(float1), Exponent(float2)
	var cmp int
	switch {
	case exp1 < exp2:
		cmp = -1
	case exp1 > exp2:
		cmp = 1
	case Mantissa(float1) < Mantissa(float2):
		cmp = -1
	default:
		cmp = 1
	}
	if neg1 {
		cmp = -cmp
	}
	return cmp
}
