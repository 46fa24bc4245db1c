// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hookfloat implements the 64-bit decimal float used by hook
// programs. A value is a signed decimal m*10^e with the canonical
// mantissa range [10^15, 10^16-1] and exponent range [-96, 80],
// packed into an int64:
//
//	bit  63     always 0 for a valid encoding
//	bit  62     sign, 1 = positive
//	bits 61..54 exponent, biased by +97
//	bits 53..0  mantissa
//
// Zero is the single encoding 0. Functions return either a valid
// encoding (>= 0) or a negative hookapi code.
package hookfloat

import "github.com/eatozee/xrpld-hooks/hookapi"

const (
	MinMantissa int64 = 1_000_000_000_000_000
	MaxMantissa int64 = 9_999_999_999_999_999
	MinExponent int32 = -96
	MaxExponent int32 = 80

	mantissaMask = (int64(1) << 54) - 1
	signBit      = int64(1) << 62
	exponentBias = 97
)

// Exponent returns the unbiased exponent of float1. Invalid encodings
// return INVALID_FLOAT; zero returns 0.
func Exponent(float1 int64) int64 {
	if float1 < 0 {
		return hookapi.INVALID_FLOAT
	}
	if float1 == 0 {
		return 0
	}
	return int64((float1>>54)&0xFF) - exponentBias
}

// Mantissa returns the (always positive) mantissa of float1.
func Mantissa(float1 int64) int64 {
	if float1 < 0 {
		return hookapi.INVALID_FLOAT
	}
	if float1 == 0 {
		return 0
	}
	return float1 & mantissaMask
}

// IsNegative reports the sign of float1. Only meaningful for non-zero
// valid encodings.
func IsNegative(float1 int64) bool {
	return (float1>>62)&1 == 0
}

// InvertSign flips the sign bit.
func InvertSign(float1 int64) int64 {
	return float1 ^ signBit
}

// SetSign forces the sign bit of float1 to the requested sign.
func SetSign(float1 int64, negative bool) int64 {
	if IsNegative(float1) == negative {
		return float1
	}
	return InvertSign(float1)
}

// SetMantissa replaces the mantissa of float1 without normalizing.
func SetMantissa(float1 int64, mantissa int64) int64 {
	if mantissa > MaxMantissa {
		return hookapi.MANTISSA_OVERSIZED
	}
	return float1 - Mantissa(float1) + mantissa
}

// SetExponent replaces the exponent of float1 without normalizing.
func SetExponent(float1 int64, exponent int32) int64 {
	if exponent > MaxExponent {
		return hookapi.EXPONENT_OVERSIZED
	}
	if exponent < MinExponent {
		return hookapi.EXPONENT_UNDERSIZED
	}
	float1 &^= int64(0xFF) << 54
	float1 += int64(exponent+exponentBias) << 54
	return float1
}

// makeFloat builds an encoding from a signed canonical mantissa and an
// exponent, rejecting out-of-range parts.
func makeFloat(mantissa int64, exponent int32) int64 {
	if mantissa == 0 {
		return 0
	}
	neg := mantissa < 0
	if neg {
		mantissa = -mantissa
	}
	out := SetMantissa(0, mantissa)
	if out < 0 {
		return out
	}
	out = SetExponent(out, exponent)
	if out < 0 {
		return out
	}
	return SetSign(out, neg)
}

// Set normalizes an arbitrary (exponent, mantissa) pair into the
// canonical encoding. Underflow and overflow yield INVALID_FLOAT.
func Set(exponent int32, mantissa int64) int64 {
	if mantissa == 0 {
		return 0
	}
	neg := mantissa < 0
	if neg {
		mantissa = -mantissa
	}
	for mantissa < MinMantissa {
		mantissa *= 10
		exponent--
		if exponent < MinExponent {
			return hookapi.INVALID_FLOAT
		}
	}
	for mantissa > MaxMantissa {
		mantissa /= 10
		exponent++
		if exponent > MaxExponent {
			return hookapi.INVALID_FLOAT
		}
	}
	if neg {
		mantissa = -mantissa
	}
	return makeFloat(mantissa, exponent)
}

// validate returns 0 for well-formed encodings and INVALID_FLOAT
// otherwise.
func validate(float1 int64) int64 {
	if float1 < 0 {
		return hookapi.INVALID_FLOAT
	}
	if float1 == 0 {
		return 0
	}
	m := Mantissa(float1)
	e := int32(Exponent(float1))
	if m < MinMantissa || m > MaxMantissa || e < MinExponent || e > MaxExponent {
		return hookapi.INVALID_FLOAT
	}
	return 0
}

// Validate reports whether float1 is zero or a canonical encoding.
func Validate(float1 int64) bool {
	return validate(float1) == 0
}

// signedMantissa returns the mantissa with the sign applied.
func signedMantissa(float1 int64) int64 {
	m := Mantissa(float1)
	if IsNegative(float1) {
		return -m
	}
	return m
}

// One is the canonical encoding of 1.
func One() int64 {
	return makeFloat(MinMantissa, -15)
}

// Negate flips the sign of a non-zero value.
func Negate(float1 int64) int64 {
	if float1 == 0 {
		return 0
	}
	if c := validate(float1); c != 0 {
		return c
	}
	return InvertSign(float1)
}

// Sign returns 1 for negative values, 0 for positive values and zero.
func Sign(float1 int64) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if float1 == 0 {
		return 0
	}
	if IsNegative(float1) {
		return 1
	}
	return 0
}

// Int rescales float1 to exponent -6 and returns the resulting
// integer mantissa. Negative values are rejected unless absolute is
// set.
func Int(float1 int64, decimalPlaces uint32, absolute bool) int64 {
	if c := validate(float1); c != 0 {
		return c
	}
	if decimalPlaces > 15 {
		return hookapi.INVALID_ARGUMENT
	}
	if float1 == 0 {
		return 0
	}
	if IsNegative(float1) && !absolute {
		return hookapi.CANT_RETURN_NEGATIVE
	}
	man := Mantissa(float1)
	exp := int32(Exponent(float1))
	for exp > -6 {
		if man > (int64(1)<<62)/10 {
			return hookapi.INVALID_FLOAT
		}
		man *= 10
		exp--
	}
	for exp < -6 {
		man /= 10
		exp++
	}
	return man
}
