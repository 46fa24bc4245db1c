// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sto

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

// test fixture helpers; tags are written the way the wire does

func fldUInt16(fieldCode byte, v uint16) []byte {
	out := []byte{0x10 | fieldCode, 0, 0}
	binary.BigEndian.PutUint16(out[1:], v)
	return out
}

func fldUInt32(fieldCode byte, v uint32) []byte {
	if fieldCode >= 16 {
		out := []byte{0x20, fieldCode, 0, 0, 0, 0}
		binary.BigEndian.PutUint32(out[2:], v)
		return out
	}
	out := []byte{0x20 | fieldCode, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(out[1:], v)
	return out
}

func fldAccount(fieldCode byte, acct []byte) []byte {
	out := []byte{0x80 | fieldCode, 20}
	return append(out, acct...)
}

func fldAmountXRP(fieldCode byte, drops uint64) []byte {
	out := []byte{0x60 | fieldCode, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.BigEndian.PutUint64(out[1:], drops|1<<62)
	return out
}

func fldBlob(fieldCode byte, data []byte) []byte {
	out := []byte{0x70 | fieldCode}
	switch l := len(data); {
	case l < 193:
		out = append(out, byte(l))
	case l <= 12480:
		l -= 193
		out = append(out, byte(193+l/256), byte(l%256))
	default:
		l -= 12481
		out = append(out, byte(241+l/65536), byte(l/256%256), byte(l%256))
	}
	return append(out, data...)
}

func wrapObject(fieldCode byte, inner []byte) []byte {
	out := []byte{0xE0 | fieldCode}
	out = append(out, inner...)
	return append(out, objectEnd)
}

func wrapArray(fieldCode byte, elems []byte) []byte {
	out := []byte{0xF0 | fieldCode}
	out = append(out, elems...)
	return append(out, arrayEnd)
}

var (
	testAccount = bytes.Repeat([]byte{0x11}, 20)
	otherAcct   = bytes.Repeat([]byte{0x22}, 20)
)

// a payment-shaped field sequence in canonical field order
func testTxn() []byte {
	var out []byte
	out = append(out, fldUInt16(2, 0)...)     // TransactionType
	out = append(out, fldUInt32(4, 7)...)     // Sequence
	out = append(out, fldAmountXRP(8, 10)...) // Fee
	out = append(out, fldBlob(3, nil)...)     // SigningPubKey
	out = append(out, fldAccount(1, testAccount)...)
	return out
}

func TestSubfield(t *testing.T) {
	require := require.New(t)

	tx := testTxn()
	res := Subfield(tx, hookapi.SfSequence)
	require.Greater(res, int64(0))
	off, length := int(res>>32), int(uint32(res))
	require.Equal(4, length)
	require.Equal(uint32(7), binary.BigEndian.Uint32(tx[off:off+length]))

	require.Equal(hookapi.DOESNT_EXIST, Subfield(tx, hookapi.SfSignature))
	require.Equal(hookapi.TOO_SMALL, Subfield(nil, hookapi.SfSequence))
	require.Equal(hookapi.PARSE_ERROR, Subfield([]byte{0x00, 0x00}, hookapi.SfSequence))
}

func TestSubfieldReturnsArraysWrapped(t *testing.T) {
	require := require.New(t)

	entry := wrapObject(11, append(fldAccount(1, otherAcct), fldUInt16(3, 1)...))
	arr := wrapArray(4, entry) // SignerEntries
	doc := append(fldUInt32(4, 1), arr...)

	res := Subfield(doc, hookapi.SfSignerEntries)
	require.Greater(res, int64(0))
	off, length := int(res>>32), int(uint32(res))
	require.Equal(arr, doc[off:off+length])
}

func TestSubarray(t *testing.T) {
	require := require.New(t)

	e0 := wrapObject(11, fldUInt16(3, 1))
	e1 := wrapObject(11, fldUInt16(3, 2))
	arr := wrapArray(4, append(append([]byte{}, e0...), e1...))

	res := Subarray(arr, 0)
	require.Greater(res, int64(0))
	off, length := int(res>>32), int(uint32(res))
	require.Equal(e0, arr[off:off+length])

	res = Subarray(arr, 1)
	require.Greater(res, int64(0))
	off, length = int(res>>32), int(uint32(res))
	require.Equal(e1, arr[off:off+length])

	require.Equal(hookapi.DOESNT_EXIST, Subarray(arr, 2))
}

func TestVLTiers(t *testing.T) {
	require := require.New(t)

	for _, size := range []int{0, 1, 192, 193, 300, 12480, 12481, 20000} {
		data := bytes.Repeat([]byte{0x5A}, size)
		doc := fldBlob(6, data)
		require.Equal(int64(1), Validate(doc), "size %d", size)

		res := Subfield(doc, hookapi.SfSignature)
		require.Greater(res, int64(0), "size %d", size)
		off, length := int(res>>32), int(uint32(res))
		require.Equal(size, length)
		require.Equal(data, doc[off:off+length])
	}
}

func TestEmplaceCanonicalOrder(t *testing.T) {
	require := require.New(t)

	tx := testTxn()
	seq := fldUInt32(26, 99) // FirstLedgerSequence sorts after Sequence
	dst := make([]byte, len(tx)+len(seq))
	n := Emplace(dst, tx, seq, hookapi.SfFirstLedgerSequence)
	require.Equal(int64(len(tx)+len(seq)), n)
	require.Equal(int64(1), Validate(dst[:n]))

	// the new field must land between Sequence and Fee
	res := Subfield(dst[:n], hookapi.SfFirstLedgerSequence)
	require.Greater(res, int64(0))
	seqRes := Subfield(dst[:n], hookapi.SfSequence)
	feeRes := Subfield(dst[:n], hookapi.SfFee)
	require.Less(seqRes>>32, res>>32)
	require.Less(res>>32, feeRes>>32)
}

func TestEmplaceReplacesExisting(t *testing.T) {
	require := require.New(t)

	tx := testTxn()
	repl := fldUInt32(4, 42)
	dst := make([]byte, len(tx)+len(repl))
	n := Emplace(dst, tx, repl, hookapi.SfSequence)
	require.Equal(int64(len(tx)), n)

	res := Subfield(dst[:n], hookapi.SfSequence)
	off := int(res >> 32)
	require.Equal(uint32(42), binary.BigEndian.Uint32(dst[off:off+4]))
}

func TestEmplaceIdempotent(t *testing.T) {
	require := require.New(t)

	tx := testTxn()
	f := fldUInt32(26, 5)

	once := make([]byte, len(tx)+len(f))
	n1 := Emplace(once, tx, f, hookapi.SfFirstLedgerSequence)
	require.Greater(n1, int64(0))

	twice := make([]byte, int(n1)+len(f))
	n2 := Emplace(twice, once[:n1], f, hookapi.SfFirstLedgerSequence)
	require.Equal(n1, n2)
	require.Equal(once[:n1], twice[:n2])
}

func TestEraseInvertsEmplace(t *testing.T) {
	require := require.New(t)

	tx := testTxn()
	f := fldUInt32(26, 5)

	with := make([]byte, len(tx)+len(f))
	n := Emplace(with, tx, f, hookapi.SfFirstLedgerSequence)
	require.Greater(n, int64(0))

	out := make([]byte, n)
	m := Erase(out, with[:n], hookapi.SfFirstLedgerSequence)
	require.Equal(int64(len(tx)), m)
	require.Equal(tx, out[:m])

	require.Equal(hookapi.DOESNT_EXIST, Erase(out, tx, hookapi.SfFirstLedgerSequence))
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	require.Equal(int64(1), Validate(testTxn()))
	require.Equal(int64(0), Validate(testTxn()[:6]))
	require.Equal(int64(0), Validate([]byte{0x00, 0x00, 0x01}))
	require.Equal(hookapi.TOO_SMALL, Validate(nil))
}

func TestCursorDescend(t *testing.T) {
	require := require.New(t)

	root := Root(testTxn())
	seq, code := root.Descend(hookapi.SfSequence)
	require.Zero(code)
	require.Equal(int64(4), seq.Size())
	require.Equal(uint32(hookapi.SfSequence), seq.FieldCode())

	_, code = root.Descend(hookapi.SfSignature)
	require.Equal(hookapi.DOESNT_EXIST, code)

	_, code = seq.Descend(hookapi.SfSequence)
	require.Equal(hookapi.NOT_AN_OBJECT, code)
}

func TestCursorAccountStripsPrefix(t *testing.T) {
	require := require.New(t)

	root := Root(testTxn())
	acct, code := root.Descend(hookapi.SfAccount)
	require.Zero(code)
	require.True(acct.IsAccount())
	require.Equal(testAccount, acct.Bytes())
	require.Equal(int64(20), acct.Size())
}

func TestCursorBlobKeepsPrefix(t *testing.T) {
	require := require.New(t)

	doc := fldBlob(6, []byte{9, 9, 9})
	blob, code := Root(doc).Descend(hookapi.SfSignature)
	require.Zero(code)
	require.Equal([]byte{3, 9, 9, 9}, blob.Bytes())
	require.Equal(int64(4), blob.Size())
}

func TestCursorArray(t *testing.T) {
	require := require.New(t)

	e0 := wrapObject(11, append(fldAccount(1, testAccount), fldUInt16(3, 1)...))
	e1 := wrapObject(11, append(fldAccount(1, otherAcct), fldUInt16(3, 2)...))
	doc := wrapArray(4, append(append([]byte{}, e0...), e1...))

	arr, code := Root(doc).Descend(hookapi.SfSignerEntries)
	require.Zero(code)
	require.True(arr.IsArray())
	require.Equal(int64(2), arr.Count())

	first, code := arr.DescendIndex(0)
	require.Zero(code)
	require.True(first.IsObject())

	who, code := first.Descend(hookapi.SfAccount)
	require.Zero(code)
	require.Equal(testAccount, who.Bytes())

	_, code = arr.DescendIndex(9)
	require.Equal(hookapi.DOESNT_EXIST, code)
	require.Equal(hookapi.NOT_AN_ARRAY, first.Count())
}

func TestCursorWalk(t *testing.T) {
	require := require.New(t)

	e0 := wrapObject(11, fldAccount(1, otherAcct))
	doc := wrapArray(4, e0)

	cur, code := Root(doc).Walk([]Step{
		{Field: hookapi.SfSignerEntries},
		{Index: 0, IsIndex: true},
		{Field: hookapi.SfAccount},
	})
	require.Zero(code)
	require.Equal(otherAcct, cur.Bytes())
}

func TestCursorAmountNative(t *testing.T) {
	require := require.New(t)

	doc := fldAmountXRP(8, 500)
	fee, code := Root(doc).Descend(hookapi.SfFee)
	require.Zero(code)
	require.True(fee.IsAmount())
	require.True(fee.Native())
	require.Equal(int64(8), fee.Size())
}
