// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookfloat

import "github.com/eatozee/xrpld-hooks/hookapi"

// Field-code sentinels accepted by Sto.
const (
	// StoXRP emits the 8-byte native amount with no field header.
	StoXRP uint32 = 0
	// StoShort emits the 8-byte issued-amount value with no header
	// and no currency/issuer tail.
	StoShort uint32 = 0xFFFFFFFF
)

// Sto serializes float1 as a ledger amount into dst and returns the
// number of bytes written. fieldCode 0 selects the native (drops)
// form; 0xFFFFFFFF the bare issued form; any other value wraps an
// issued amount (8-byte value + 20-byte currency + 20-byte issuer) in
// the canonical field header. currency/issuer must each be 20 bytes
// for the issued form and are ignored otherwise.
func Sto(dst []byte, currency, issuer []byte, float1 int64, fieldCode uint32) int64 {
	if c := validate(float1); c != 0 {
		return c
	}

	field := fieldCode & 0xFFFF
	typ := fieldCode >> 16
	isXRP := fieldCode == StoXRP
	isShort := fieldCode == StoShort

	bytesNeeded := 8
	switch {
	case isXRP || isShort:
	case field < 16 && typ < 16:
		bytesNeeded++
	case field >= 16 && typ >= 16:
		bytesNeeded += 3
	default:
		bytesNeeded += 2
	}

	if !isXRP && !isShort {
		if len(currency) != 20 || len(issuer) != 20 {
			return hookapi.INVALID_ARGUMENT
		}
		bytesNeeded += 40
	}
	if len(dst) < bytesNeeded {
		return hookapi.TOO_SMALL
	}

	written := 0
	switch {
	case isXRP || isShort:
	case field < 16 && typ < 16:
		dst[0] = byte(typ<<4) | byte(field)
		written = 1
	case field >= 16 && typ < 16:
		dst[0] = byte(typ << 4)
		dst[1] = byte(field)
		written = 2
	case field < 16 && typ >= 16:
		dst[0] = byte(field << 4)
		dst[1] = byte(typ)
		written = 2
	default:
		dst[0] = 0
		dst[1] = byte(typ)
		dst[2] = byte(field)
		written = 3
	}

	man := uint64(Mantissa(float1))
	exp := int32(Exponent(float1))
	neg := IsNegative(float1)
	out := dst[written : written+8]

	switch {
	case isXRP:
		// native form carries drops, exponent pinned to -6
		for exp < -6 {
			man /= 10
			exp++
		}
		for exp > -6 {
			man *= 10
			exp--
		}
		if neg {
			out[0] = 0
		} else {
			out[0] = 0x40
		}
		out[0] |= byte(man>>56) & 0x3F
	case man == 0:
		out[0] = 0xC0
		for i := 1; i < 8; i++ {
			out[i] = 0
		}
		written += 8
		return int64(written) + stoTail(dst, written, currency, issuer, isShort)
	default:
		biased := uint32(exp + exponentBias)
		if neg {
			out[0] = 0x80
		} else {
			out[0] = 0xC0
		}
		out[0] |= byte(biased >> 2)
		out[1] = byte(biased&0x3)<<6 | byte(man>>48)&0x3F
	}
	if isXRP {
		out[1] = byte(man >> 48)
	}
	out[2] = byte(man >> 40)
	out[3] = byte(man >> 32)
	out[4] = byte(man >> 24)
	out[5] = byte(man >> 16)
	out[6] = byte(man >> 8)
	out[7] = byte(man)
	written += 8

	return int64(written) + stoTail(dst, written, currency, issuer, isShort)
}

func stoTail(dst []byte, written int, currency, issuer []byte, isShort bool) int64 {
	if isShort || len(currency) != 20 {
		return 0
	}
	copy(dst[written:], currency)
	copy(dst[written+20:], issuer)
	return 40
}

// StoSet parses a serialized amount (with or without a field header)
// back into the float encoding. Both the native (drops) and the
// issued-amount 8-byte images are accepted; a buffer longer than 8
// bytes is read as starting with a field header.
func StoSet(buf []byte) int64 {
	if len(buf) < 8 {
		return hookapi.NOT_AN_OBJECT
	}

	upto := 0
	if len(buf) > 8 {
		hi := buf[0] >> 4
		lo := buf[0] & 0xF
		switch {
		case hi == 0 && lo == 0:
			if len(buf) < 11 {
				return hookapi.NOT_AN_OBJECT
			}
			upto = 3
		case hi == 0 || lo == 0:
			if len(buf) < 10 {
				return hookapi.NOT_AN_OBJECT
			}
			upto = 2
		default:
			upto = 1
		}
	}

	b := buf[upto:]
	if b[0]&0x80 == 0 {
		// native amount: 62-bit drops with a sign bit
		man := uint64(b[0]&0x3F)<<56 |
			uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
			uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 |
			uint64(b[7])
		if man == 0 {
			return 0
		}
		drops := int64(man)
		if b[0]&0x40 == 0 {
			drops = -drops
		}
		return Set(-6, drops)
	}

	negative := b[0]&0x40 == 0
	exponent := int32(b[0]&0x3F)<<2 + int32(b[1]>>6) - exponentBias
	mantissa := uint64(b[1]&0x3F)<<48 |
		uint64(b[2])<<40 | uint64(b[3])<<32 | uint64(b[4])<<24 |
		uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
	if mantissa == 0 {
		return 0
	}
	man := int64(mantissa)
	if negative {
		man = -man
	}
	return Set(exponent, man)
}
