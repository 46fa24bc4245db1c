// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanHookActiveLow(t *testing.T) {
	require := require.New(t)

	// all bits clear: every type triggers except HookSet
	require.True(CanHook(0, 0))
	require.True(CanHook(1, 0))
	require.False(CanHook(HookSetTxType, 0))

	// setting a bit disables that type
	require.False(CanHook(2, 1<<2))
	require.True(CanHook(3, 1<<2))

	// the HookSet bit is active high
	require.True(CanHook(HookSetTxType, 1<<HookSetTxType))
}

func TestFieldID(t *testing.T) {
	require := require.New(t)

	require.Equal(uint32(SfSequence), FieldID(STypeUInt32, 4))
	require.Equal(uint32(SfEmitDetails), FieldID(STypeObject, 12))
}
