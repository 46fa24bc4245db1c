// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sto

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

// Step is one hop of a cursor path: a field descent or an array index.
type Step struct {
	Field   uint32
	Index   uint32
	IsIndex bool
}

// Cursor addresses a node inside a serialized object. The root cursor
// covers a bare field sequence (a transaction or ledger entry without
// an outer wrapper); descents re-walk the bytes so a cursor never
// holds interior pointers.
type Cursor struct {
	typeCode  int
	fieldCode uint32 // full (type<<16|field) id, 0 at the root
	tagLen    int
	raw       []byte // wrapped field, nil at the root
	payload   []byte
}

// Root wraps a serialized field sequence in a cursor.
func Root(data []byte) Cursor {
	return Cursor{typeCode: typeObject, payload: data}
}

func (c Cursor) IsRoot() bool      { return c.raw == nil }
func (c Cursor) TypeCode() int     { return c.typeCode }
func (c Cursor) FieldCode() uint32 { return c.fieldCode }
func (c Cursor) IsArray() bool     { return c.typeCode == typeArray }
func (c Cursor) IsObject() bool    { return c.typeCode == typeObject }
func (c Cursor) IsAmount() bool    { return c.typeCode == typeAmount }
func (c Cursor) IsAccount() bool   { return c.typeCode == typeAccount }

// Native reports whether an amount cursor carries the native (drops)
// form.
func (c Cursor) Native() bool {
	return c.typeCode == typeAmount && len(c.payload) > 0 && c.payload[0]&0x80 == 0
}

// Bytes serializes the node the way the ledger's serializer would:
// containers and fixed-width types yield their payload, variable-
// length types keep their length prefix, account fields drop it.
func (c Cursor) Bytes() []byte {
	if c.raw == nil {
		return c.payload
	}
	if isVL(c.typeCode) && c.typeCode != typeAccount {
		return c.raw[c.tagLen:]
	}
	return c.payload
}

// Size is the length Bytes would return, without serializing.
func (c Cursor) Size() int64 {
	if c.raw == nil {
		return int64(len(c.payload))
	}
	if isVL(c.typeCode) && c.typeCode != typeAccount {
		return int64(len(c.raw) - c.tagLen)
	}
	return int64(len(c.payload))
}

// Count returns the number of elements of an array cursor.
func (c Cursor) Count() int64 {
	if c.typeCode != typeArray {
		return hookapi.NOT_AN_ARRAY
	}
	buf := c.payload
	upto, count := 0, int64(0)
	for i := 0; i < maxFields && upto < len(buf); i++ {
		_, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return hookapi.PARSE_ERROR
		}
		count++
		upto += n
	}
	return count
}

// Descend resolves a named field within an object cursor.
func (c Cursor) Descend(fieldID uint32) (Cursor, int64) {
	if c.typeCode != typeObject {
		return Cursor{}, hookapi.NOT_AN_OBJECT
	}
	buf := c.payload
	upto := 0
	for i := 0; i < maxFields && upto < len(buf); i++ {
		f, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return Cursor{}, hookapi.PARSE_ERROR
		}
		if f.id() == fieldID {
			return Cursor{
				typeCode:  f.typeCode,
				fieldCode: f.id(),
				tagLen:    tagLen(f),
				raw:       buf[upto : upto+n],
				payload:   buf[upto+f.payloadStart : upto+f.payloadStart+f.payloadLen],
			}, 0
		}
		upto += n
	}
	return Cursor{}, hookapi.DOESNT_EXIST
}

// DescendIndex resolves the index-th element of an array cursor.
func (c Cursor) DescendIndex(index uint32) (Cursor, int64) {
	if c.typeCode != typeArray {
		return Cursor{}, hookapi.NOT_AN_ARRAY
	}
	buf := c.payload
	upto := 0
	for i := 0; i < maxFields && upto < len(buf); i++ {
		f, n := fieldAt(buf[upto:], 0)
		if n < 0 {
			return Cursor{}, hookapi.PARSE_ERROR
		}
		if uint32(i) == index {
			return Cursor{
				typeCode:  f.typeCode,
				fieldCode: f.id(),
				tagLen:    tagLen(f),
				raw:       buf[upto : upto+n],
				payload:   buf[upto+f.payloadStart : upto+f.payloadStart+f.payloadLen],
			}, 0
		}
		upto += n
	}
	return Cursor{}, hookapi.DOESNT_EXIST
}

// Walk replays a path of steps from this cursor.
func (c Cursor) Walk(path []Step) (Cursor, int64) {
	cur := c
	for _, s := range path {
		var code int64
		if s.IsIndex {
			cur, code = cur.DescendIndex(s.Index)
		} else {
			cur, code = cur.Descend(s.Field)
		}
		if code != 0 {
			return Cursor{}, code
		}
	}
	return cur, 0
}

// tagLen computes the header length of a parsed field: the tag bytes,
// excluding any variable-length prefix.
func tagLen(f field) int {
	n := 1
	if f.typeCode >= 16 {
		n++
	}
	if f.fieldCode >= 16 {
		n++
	}
	return n
}

// FieldText renders a field payload as text: decimal for the integer
// types, drops or mantissa notation for amounts, hex otherwise.
func FieldText(typeCode int, payload []byte) string {
	switch typeCode {
	case 1:
		if len(payload) == 2 {
			return strconv.FormatUint(uint64(binary.BigEndian.Uint16(payload)), 10)
		}
	case 2:
		if len(payload) == 4 {
			return strconv.FormatUint(uint64(binary.BigEndian.Uint32(payload)), 10)
		}
	case 3:
		if len(payload) == 8 {
			return strconv.FormatUint(binary.BigEndian.Uint64(payload), 10)
		}
	case 16:
		if len(payload) == 1 {
			return strconv.FormatUint(uint64(payload[0]), 10)
		}
	case typeAmount:
		if len(payload) >= 8 && payload[0]&0x80 == 0 {
			drops := binary.BigEndian.Uint64(payload[:8]) &^ (uint64(3) << 62)
			return strconv.FormatUint(drops, 10)
		}
	}
	return hex.EncodeToString(payload)
}
