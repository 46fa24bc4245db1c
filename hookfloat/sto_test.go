// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookfloat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

func TestStoXRPOneDrop(t *testing.T) {
	require := require.New(t)

	oneDrop := Set(-6, 1)
	var buf [8]byte
	n := Sto(buf[:], nil, nil, oneDrop, StoXRP)
	require.Equal(int64(8), n)
	require.Equal([]byte{0x40, 0, 0, 0, 0, 0, 0, 0x01}, buf[:])

	require.Equal(oneDrop, StoSet(buf[:]))
}

func TestStoXRPNegative(t *testing.T) {
	require := require.New(t)

	f := Set(-6, -25)
	var buf [8]byte
	n := Sto(buf[:], nil, nil, f, StoXRP)
	require.Equal(int64(8), n)
	require.Zero(buf[0] & 0x40)
	require.Equal(f, StoSet(buf[:]))
}

func TestStoIOURoundTrip(t *testing.T) {
	require := require.New(t)

	currency := bytes.Repeat([]byte{0xAA}, 20)
	issuer := bytes.Repeat([]byte{0xBB}, 20)

	cases := []int64{
		Set(0, 1),
		Set(-6, 1),
		Set(5, 1234567),
		Set(-30, -987654321),
		Set(MaxExponent-16, MaxMantissa),
		Set(MinExponent+16, MinMantissa),
	}
	for _, f := range cases {
		var buf [49]byte
		n := Sto(buf[:], currency, issuer, f, hookapi.SfAmount)
		require.Equal(int64(49), n, "float %d", f)
		require.Equal(byte(0x61), buf[0])
		require.Equal(currency, buf[9:29])
		require.Equal(issuer, buf[29:49])
		require.Equal(f, StoSet(buf[:]), "float %d", f)
	}
}

func TestStoShortForm(t *testing.T) {
	require := require.New(t)

	f := Set(2, 42)
	var buf [8]byte
	n := Sto(buf[:], nil, nil, f, StoShort)
	require.Equal(int64(8), n)
	require.Equal(f, StoSet(buf[:]))
}

func TestStoHeaderShapes(t *testing.T) {
	require := require.New(t)

	currency := make([]byte, 20)
	issuer := make([]byte, 20)
	f := Set(0, 7)

	// one-byte header
	var small [49]byte
	require.Equal(int64(49), Sto(small[:], currency, issuer, f, hookapi.FieldID(6, 1)))
	require.Equal(byte(0x61), small[0])

	// two-byte header, large field code
	var two [50]byte
	require.Equal(int64(50), Sto(two[:], currency, issuer, f, hookapi.FieldID(6, 30)))
	require.Equal(byte(0x60), two[0])
	require.Equal(byte(30), two[1])

	require.Equal(f, StoSet(two[:50]))
}

func TestStoErrors(t *testing.T) {
	require := require.New(t)

	f := Set(0, 7)
	var tiny [4]byte
	require.Equal(hookapi.TOO_SMALL, Sto(tiny[:], nil, nil, f, StoXRP))
	require.Equal(hookapi.INVALID_ARGUMENT,
		Sto(make([]byte, 64), []byte{1, 2}, make([]byte, 20), f, hookapi.SfAmount))
	require.Equal(hookapi.INVALID_FLOAT, Sto(make([]byte, 64), nil, nil, -9, StoXRP))

	require.Equal(hookapi.NOT_AN_OBJECT, StoSet([]byte{1, 2, 3}))
}

func TestStoZeroIOU(t *testing.T) {
	require := require.New(t)

	var buf [8]byte
	n := Sto(buf[:], nil, nil, 0, StoShort)
	require.Equal(int64(8), n)
	require.Equal(byte(0xC0), buf[0])
	require.Equal(int64(0), StoSet(buf[:]))
}
