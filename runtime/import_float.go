// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"strconv"

	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/hookfloat"
)

// floatImports is the decimal-float surface. The arithmetic lives in
// the hookfloat package; this layer only moves bytes.
func floatImports(_ *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"float_set": func(exp int32, mantissa int64) int64 {
			return hookfloat.Set(exp, mantissa)
		},
		"float_multiply": func(f1, f2 int64) int64 {
			return hookfloat.Multiply(f1, f2)
		},
		"float_mulratio": func(f1 int64, roundUp, numerator, denominator int32) int64 {
			return hookfloat.MulRatio(f1, roundUp != 0, uint32(numerator), uint32(denominator))
		},
		"float_divide": func(f1, f2 int64) int64 {
			return hookfloat.Divide(f1, f2)
		},
		"float_sum": func(f1, f2 int64) int64 {
			return hookfloat.Sum(f1, f2)
		},
		"float_compare": func(f1, f2 int64, mode int32) int64 {
			return hookfloat.Compare(f1, f2, uint32(mode))
		},
		"float_negate": func(f1 int64) int64 { return hookfloat.Negate(f1) },
		"float_invert": func(f1 int64) int64 { return hookfloat.Invert(f1) },
		"float_one":    func() int64 { return hookfloat.One() },
		"float_sign":   func(f1 int64) int64 { return hookfloat.Sign(f1) },
		"float_exponent": func(f1 int64) int64 {
			if !hookfloat.Validate(f1) {
				return hookapi.INVALID_FLOAT
			}
			return hookfloat.Exponent(f1)
		},
		"float_mantissa": func(f1 int64) int64 {
			if !hookfloat.Validate(f1) {
				return hookapi.INVALID_FLOAT
			}
			return hookfloat.Mantissa(f1)
		},
		"float_exponent_set": func(f1 int64, exponent int32) int64 {
			if !hookfloat.Validate(f1) {
				return hookapi.INVALID_FLOAT
			}
			if f1 == 0 {
				return 0
			}
			return hookfloat.SetExponent(f1, exponent)
		},
		"float_mantissa_set": func(f1, mantissa int64) int64 {
			if !hookfloat.Validate(f1) {
				return hookapi.INVALID_FLOAT
			}
			if mantissa == 0 {
				return 0
			}
			return hookfloat.SetMantissa(f1, mantissa)
		},
		"float_sign_set": func(f1 int64, negative int32) int64 {
			if !hookfloat.Validate(f1) {
				return hookapi.INVALID_FLOAT
			}
			if f1 == 0 {
				return 0
			}
			return hookfloat.SetSign(f1, negative != 0)
		},
		"float_int": func(f1 int64, decimalPlaces, absolute int32) int64 {
			return hookfloat.Int(f1, uint32(decimalPlaces), absolute != 0)
		},

		"float_sto": func(caller *wasmtime.Caller, writePtr, writeLen, creadPtr, creadLen, ireadPtr, ireadLen int32, float1 int64, fieldCode int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			fc := uint32(fieldCode)
			isXRP := fc == hookfloat.StoXRP
			isShort := fc == hookfloat.StoShort
			var currency, issuer []byte
			if !isXRP && !isShort {
				if creadPtr == 0 && creadLen == 0 && ireadPtr == 0 && ireadLen == 0 {
					return hookapi.INVALID_ARGUMENT
				}
				var ok bool
				currency, ok = readGuest(mem, uint32(creadPtr), uint32(creadLen))
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
				issuer, ok = readGuest(mem, uint32(ireadPtr), uint32(ireadLen))
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
			}
			dst := mem[uint32(writePtr) : uint32(writePtr)+uint32(writeLen)]
			return hookfloat.Sto(dst, currency, issuer, float1, fc)
		},

		"float_sto_set": func(caller *wasmtime.Caller, readPtr, readLen int32) int64 {
			buf, ok := readGuest(guestMemory(caller), uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			return hookfloat.StoSet(buf)
		},
	}
}

// formatFloat renders a float for trace output.
func formatFloat(float1 int64) string {
	if float1 == 0 {
		return "0*10^(0) <ZERO>"
	}
	if !hookfloat.Validate(float1) {
		return "<INVALID>"
	}
	man := hookfloat.Mantissa(float1)
	if hookfloat.IsNegative(float1) {
		man = -man
	}
	return strconv.FormatInt(man, 10) + "*10^(" +
		strconv.FormatInt(hookfloat.Exponent(float1), 10) + ")"
}
