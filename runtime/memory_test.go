// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInBoundsNoWrap(t *testing.T) {
	require := require.New(t)

	require.True(inBounds(100, 0, 100))
	require.True(inBounds(100, 99, 1))
	require.False(inBounds(100, 100, 1))
	require.False(inBounds(100, 0, 101))

	// a 32-bit wrap must not pass the check
	require.False(inBounds(100, 0xFFFFFFFF, 0xFFFFFFFF))
	require.False(inBounds(100, 0xFFFFFFFF, 1))
	require.True(inBounds(100, 50, 0))
}

func TestReadGuest(t *testing.T) {
	require := require.New(t)

	mem := []byte{1, 2, 3, 4}
	buf, ok := readGuest(mem, 1, 2)
	require.True(ok)
	require.Equal([]byte{2, 3}, buf)

	_, ok = readGuest(mem, 3, 2)
	require.False(ok)
}

func TestWriteGuestSaturates(t *testing.T) {
	require := require.New(t)

	mem := make([]byte, 8)
	// guest buffer shorter than payload: write is clipped
	n := writeGuest(mem, 0, 2, []byte{9, 9, 9, 9})
	require.Equal(int64(2), n)
	require.Equal([]byte{9, 9, 0, 0, 0, 0, 0, 0}, mem)

	// payload shorter than guest buffer
	n = writeGuest(mem, 4, 4, []byte{7})
	require.Equal(int64(1), n)
	require.Equal(byte(7), mem[4])
}

func TestIsUTF16LE(t *testing.T) {
	require := require.New(t)

	require.True(isUTF16LE([]byte{'h', 0, 'i', 0}))
	require.False(isUTF16LE([]byte{'h', 0, 'i'}))
	require.False(isUTF16LE(nil))
	require.False(isUTF16LE([]byte{0, 'h'}))
	require.False(isUTF16LE([]byte{'h', 'i'}))

	require.Equal([]byte("hi"), narrowIfUTF16([]byte{'h', 0, 'i', 0}))
	require.Equal([]byte("hi"), narrowIfUTF16([]byte("hi")))
}
