// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/keylet"
)

var acct = hookapi.AccountID{1, 2, 3}

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(memdb.New(), DefaultConfig())
}

func TestObjectsAndTxs(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	kl := keylet.Account(acct)
	_, found := l.Peek(kl)
	require.False(found)

	require.NoError(l.PutObject(kl, []byte{1, 2, 3}))
	obj, found := l.Peek(kl)
	require.True(found)
	require.Equal([]byte{1, 2, 3}, obj)

	id := hookapi.Hash{9}
	require.NoError(l.PutTx(id, []byte{4, 5}))
	tx, found := l.FetchTx(id)
	require.True(found)
	require.Equal([]byte{4, 5}, tx)
}

func TestAccountRoot(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	require.Zero(l.BalanceDrops(acct))
	require.Zero(l.HookStateDataMaxSize(acct))

	require.NoError(l.CreateAccount(acct, 500, 128))
	require.Equal(uint64(500), l.BalanceDrops(acct))
	require.Equal(uint32(128), l.HookStateDataMaxSize(acct))

	l.AdjustOwnerCount(acct, 2)
	require.Equal(uint32(2), l.OwnerCount(acct))
	l.AdjustOwnerCount(acct, -5)
	require.Zero(l.OwnerCount(acct))

	l.SetHookStateCount(acct, 7)
	require.Equal(uint32(7), l.HookStateCount(acct))
}

func TestState(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	key := hookapi.Hash{0xAB}
	_, found := l.StateGet(acct, key)
	require.False(found)

	require.NoError(l.StateInsert(acct, key, []byte{1}))
	value, found := l.StateGet(acct, key)
	require.True(found)
	require.Equal([]byte{1}, value)

	require.NoError(l.StateErase(acct, key))
	_, found = l.StateGet(acct, key)
	require.False(found)

	require.ErrorIs(l.StateErase(acct, key), hook.ErrNotFound)
}

func TestEmittedDirectory(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	id := hookapi.Hash{1}
	require.NoError(l.EmittedInsert(id, []byte{0xEE}))
	tx, found := l.EmittedGet(id)
	require.True(found)
	require.Equal([]byte{0xEE}, tx)

	// duplicate ids are ignored
	require.NoError(l.EmittedInsert(id, []byte{0xFF}))
	tx, _ = l.EmittedGet(id)
	require.Equal([]byte{0xEE}, tx)

	require.NoError(l.EmittedErase(id))
	_, found = l.EmittedGet(id)
	require.False(found)
	require.ErrorIs(l.EmittedErase(id), hook.ErrNotFound)
}

func TestEmittedDirectoryFull(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	var id hookapi.Hash
	for i := 0; i < emittedDirCapacity; i++ {
		id[0], id[1] = byte(i), byte(i>>8)
		require.NoError(l.EmittedInsert(id, []byte{1}))
	}
	id[0], id[1] = 0xFF, 0xFF
	require.ErrorIs(l.EmittedInsert(id, []byte{1}), hook.ErrDirFull)
}

func TestExecIndexAndMetas(t *testing.T) {
	require := require.New(t)
	l := newLedger(t)

	require.Equal(uint16(0), l.NextHookExecutionIndex())
	require.Equal(uint16(1), l.NextHookExecutionIndex())

	l.AddHookMeta(hook.ExecMeta{ExecutionIndex: 1})
	require.Len(l.Metas(), 1)
}
