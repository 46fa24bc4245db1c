// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sto is a streaming parser and editor for the ledger's
// tagged-binary object encoding. Each field starts with a one-byte
// tag: high nibble = type, low nibble = field, with a zero nibble
// meaning the full code follows in the next byte. Objects (type 14)
// and arrays (type 15) run to the 0xE1 / 0xF1 sentinels; blob-like
// types carry a three-tier variable-length prefix.
package sto

import "github.com/eatozee/xrpld-hooks/hookapi"

const (
	maxNesting  = 10
	maxFields   = 1024
	objectEnd   = 0xE1
	arrayEnd    = 0xF1
	typeObject  = 14
	typeArray   = 15
	typeAmount  = 6
	typeAccount = 8
)

// parse errors, internal to the walker
const (
	errTruncated = -1
	errBadType   = -2
	errNoLength  = -3
	errTooDeep   = -4
	errTooWide   = -5
)

// field describes one parsed field within a buffer.
type field struct {
	typeCode     int
	fieldCode    int
	payloadStart int // offset of the payload, relative to the field start
	payloadLen   int
	totalLen     int // header + payload (+ sentinel for containers)
}

func (f field) id() uint32 {
	return uint32(f.typeCode)<<16 | uint32(f.fieldCode)
}

var fixedWidths = map[int]int{
	1: 2, 2: 4, 3: 8, 4: 16, 5: 32, 16: 1, 17: 20,
}

// fieldAt parses the field starting at buf[0]. Returns a negative
// parse error on malformed input.
func fieldAt(buf []byte, depth int) (field, int) {
	if depth > maxNesting {
		return field{}, errTooDeep
	}
	if len(buf) < 2 {
		return field{}, errTruncated
	}

	high := int(buf[0] >> 4)
	low := int(buf[0] & 0xF)
	upto := 1

	var f field
	switch {
	case high > 0 && low > 0:
		f.typeCode, f.fieldCode = high, low
	case high > 0:
		f.typeCode = high
		f.fieldCode = int(buf[upto])
		upto++
	case low > 0:
		f.fieldCode = low
		f.typeCode = int(buf[upto])
		upto++
	default:
		f.typeCode = int(buf[upto])
		upto++
		if upto >= len(buf) {
			return field{}, errTruncated
		}
		f.fieldCode = int(buf[upto])
		upto++
	}
	if upto >= len(buf) {
		return field{}, errTruncated
	}

	if f.typeCode < 1 || f.typeCode > 19 || (f.typeCode >= 9 && f.typeCode <= 13) {
		return field{}, errBadType
	}

	switch {
	case isVL(f.typeCode):
		length := int(buf[upto])
		upto++
		switch {
		case length < 193:
		case length < 241:
			if upto >= len(buf) {
				return field{}, errTruncated
			}
			length = (length-193)*256 + int(buf[upto]) + 193
			upto++
		default:
			if upto+1 >= len(buf) {
				return field{}, errTruncated
			}
			length = (length-241)*65536 + 12481 + int(buf[upto])*256 + int(buf[upto+1])
			upto += 2
		}
		f.payloadStart = upto
		f.payloadLen = length
	case fixedWidths[f.typeCode] != 0:
		f.payloadStart = upto
		f.payloadLen = fixedWidths[f.typeCode]
	case f.typeCode == typeAmount:
		if buf[upto]>>6 == 1 {
			f.payloadLen = 8
		} else {
			f.payloadLen = 48
		}
		f.payloadStart = upto
	case f.typeCode == typeObject || f.typeCode == typeArray:
		f.payloadStart = upto
		end := objectEnd
		if f.typeCode == typeArray {
			end = arrayEnd
		}
		for i := 0; i < maxFields; i++ {
			_, subLen := fieldAt(buf[upto:], depth+1)
			if subLen < 0 {
				return field{}, errTruncated
			}
			upto += subLen
			if upto >= len(buf) {
				return field{}, errTruncated
			}
			if int(buf[upto]) == end {
				f.payloadLen = upto - f.payloadStart
				upto++
				f.totalLen = upto
				return f, upto
			}
		}
		return field{}, errTooWide
	default:
		return field{}, errNoLength
	}

	f.totalLen = f.payloadStart + f.payloadLen
	if f.totalLen > len(buf) {
		return field{}, errTruncated
	}
	return f, f.totalLen
}

func isVL(typeCode int) bool {
	return typeCode == 7 || typeCode == typeAccount || typeCode == 18 || typeCode == 19
}

// Subfield locates fieldID in buf and returns (offset<<32)|length of
// its payload; arrays are returned fully wrapped.
func Subfield(buf []byte, fieldID uint32) int64 {
	if len(buf) < 1 {
		return hookapi.TOO_SMALL
	}
	upto := 0
	for i := 0; i < maxFields && upto < len(buf); i++ {
		f, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return hookapi.PARSE_ERROR
		}
		if f.id() == fieldID {
			if f.typeCode == typeArray {
				return int64(upto)<<32 | int64(uint32(n))
			}
			return int64(upto+f.payloadStart)<<32 | int64(uint32(f.payloadLen))
		}
		upto += n
	}
	return hookapi.DOESNT_EXIST
}

// Subarray returns (offset<<32)|length of the index-th element of the
// array in buf, wrapper included.
func Subarray(buf []byte, index uint32) int64 {
	if len(buf) < 1 {
		return hookapi.TOO_SMALL
	}
	upto, end := 0, len(buf)
	if buf[0]&0xF0 == 0xF0 {
		upto++
		end--
	}
	for i := 0; i < maxFields && upto < end; i++ {
		_, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return hookapi.PARSE_ERROR
		}
		if uint32(i) == index {
			return int64(upto)<<32 | int64(uint32(n))
		}
		upto += n
	}
	return hookapi.DOESNT_EXIST
}

// Emplace copies src into dst with fieldBytes (a fully wrapped field)
// inserted at the canonical position for fieldID, replacing any
// existing occurrence. Returns bytes written.
func Emplace(dst, src, fieldBytes []byte, fieldID uint32) int64 {
	if len(dst) < len(src)+len(fieldBytes) {
		return hookapi.TOO_SMALL
	}
	if len(src) > hookapi.MaxStoSourceSize {
		return hookapi.TOO_BIG
	}
	if len(fieldBytes) > hookapi.MaxStoFieldSize {
		return hookapi.TOO_BIG
	}

	injectStart, injectEnd := len(src), len(src)
	upto := 0
	for i := 0; i < maxFields && upto < len(src); i++ {
		f, n := fieldAt(src[upto:], 0)
		if n < 0 {
			return hookapi.PARSE_ERROR
		}
		if f.id() == fieldID {
			injectStart, injectEnd = upto, upto+n
			break
		}
		if f.id() > fieldID {
			injectStart, injectEnd = upto, upto
			break
		}
		upto += n
	}

	written := copy(dst, src[:injectStart])
	written += copy(dst[written:], fieldBytes)
	written += copy(dst[written:], src[injectEnd:])
	return int64(written)
}

// Erase copies src into dst minus the named field.
func Erase(dst, src []byte, fieldID uint32) int64 {
	if len(src) > hookapi.MaxStoSourceSize {
		return hookapi.TOO_BIG
	}
	if len(dst) < len(src) {
		return hookapi.TOO_SMALL
	}

	eraseStart, eraseEnd := -1, -1
	upto := 0
	for i := 0; i < maxFields && upto < len(src); i++ {
		f, n := fieldAt(src[upto:], 0)
		if n < 0 {
			return hookapi.PARSE_ERROR
		}
		if f.id() == fieldID {
			eraseStart, eraseEnd = upto, upto+n
		}
		upto += n
	}
	if eraseStart < 0 {
		return hookapi.DOESNT_EXIST
	}

	written := copy(dst, src[:eraseStart])
	written += copy(dst[written:], src[eraseEnd:])
	return int64(written)
}

// Validate walks buf and reports 1 iff it parses to exactly its end.
func Validate(buf []byte) int64 {
	if len(buf) < 1 {
		return hookapi.TOO_SMALL
	}
	upto := 0
	for i := 0; i < maxFields && upto < len(buf); i++ {
		_, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return 0
		}
		upto += n
	}
	if upto == len(buf) {
		return 1
	}
	return 0
}
