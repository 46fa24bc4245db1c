// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import "github.com/eatozee/xrpld-hooks/hookapi"

// TER mirrors the transactor result codes the commit path produces.
type TER int

const (
	TesSuccess TER = iota
	TecInsufficientReserve
	TecDirFull
	TemHookDataTooLarge
	TefInternal
	TefBadLedger
)

// makeStateKey left-zero-pads a 1..32 byte key to the full width.
func makeStateKey(key []byte) (hookapi.Hash, bool) {
	var out hookapi.Hash
	if len(key) < 1 || len(key) > hookapi.MaxStateKeySize {
		return out, false
	}
	copy(out[len(out)-len(key):], key)
	return out, true
}

// State reads a hook-state value on the installing account, filling
// the cache on a miss.
func (c *Context) State(key []byte) ([]byte, int64) {
	return c.StateForeign(key, nil)
}

// StateForeign reads a hook-state value; a nil account means the
// installing account, and only those local reads touch the cache.
func (c *Context) StateForeign(key []byte, acct []byte) ([]byte, int64) {
	if len(key) > hookapi.MaxStateKeySize {
		return nil, hookapi.TOO_BIG
	}
	isForeign := acct != nil
	if isForeign && len(acct) != 20 {
		return nil, hookapi.INVALID_ACCOUNT
	}

	k, ok := makeStateKey(key)
	if !ok {
		return nil, hookapi.INVALID_ARGUMENT
	}

	if !isForeign {
		if entry, ok := c.Result.changedState[k]; ok {
			return entry.value, int64(len(entry.value))
		}
	}

	if c.view.HookStateDataMaxSize(c.Result.Account) == 0 {
		return nil, hookapi.INTERNAL_ERROR
	}

	owner := c.Result.Account
	if isForeign {
		owner, _ = hookapi.AccountIDFromBytes(acct)
	}
	value, found := c.view.StateGet(owner, k)
	if !found {
		return nil, hookapi.DOESNT_EXIST
	}

	if !isForeign {
		c.cacheState(k, &stateEntry{value: value})
	}
	return value, int64(len(value))
}

// StateSet stages a write (or, with an empty value, a delete) into
// the cache. Nothing reaches the ledger before commit.
func (c *Context) StateSet(value, key []byte) int64 {
	if len(key) > hookapi.MaxStateKeySize {
		return hookapi.TOO_BIG
	}
	if len(key) < 1 {
		return hookapi.TOO_SMALL
	}

	maxSize := c.view.HookStateDataMaxSize(c.Result.Account)
	if maxSize == 0 {
		return hookapi.INTERNAL_ERROR
	}
	if maxSize > hookapi.MaxStateDataSize {
		maxSize = hookapi.MaxStateDataSize
	}
	if uint32(len(value)) > maxSize {
		return hookapi.TOO_BIG
	}

	k, ok := makeStateKey(key)
	if !ok {
		return hookapi.INVALID_ARGUMENT
	}
	c.cacheState(k, &stateEntry{dirty: true, value: append([]byte{}, value...)})
	return int64(len(value))
}

func (c *Context) cacheState(k hookapi.Hash, entry *stateEntry) {
	if _, seen := c.Result.changedState[k]; !seen {
		c.Result.stateOrder = append(c.Result.stateOrder, k)
	}
	c.Result.changedState[k] = entry
}

// setHookState persists one state entry, charging or releasing the
// owner reserve at every fifth entry.
func setHookState(res *Result, view LedgerView, key hookapi.Hash, data []byte) TER {
	maxSize := view.HookStateDataMaxSize(res.Account)
	if maxSize == 0 {
		return TefInternal
	}
	if uint32(len(data)) > maxSize {
		return TemHookDataTooLarge
	}

	stateCount := view.HookStateCount(res.Account)
	oldReserve := stateReserveUnits(stateCount)
	_, exists := view.StateGet(res.Account, key)

	if len(data) == 0 {
		if !exists {
			// removing a non-existent entry is a success
			return TesSuccess
		}
		if err := view.StateErase(res.Account, key); err != nil {
			return TefBadLedger
		}
		if stateCount > 0 {
			stateCount--
		}
		if stateReserveUnits(stateCount) < oldReserve {
			view.AdjustOwnerCount(res.Account, -1)
		}
		view.SetHookStateCount(res.Account, stateCount)
		return TesSuccess
	}

	if !exists {
		stateCount++
		if stateReserveUnits(stateCount) > oldReserve {
			newOwnerCount := view.OwnerCount(res.Account) + 1
			if view.BalanceDrops(res.Account) < view.ReserveDrops(newOwnerCount) {
				return TecInsufficientReserve
			}
			view.AdjustOwnerCount(res.Account, 1)
		}
		view.SetHookStateCount(res.Account, stateCount)
	}

	if err := view.StateInsert(res.Account, key, data); err != nil {
		if err == ErrDirFull {
			return TecDirFull
		}
		return TefBadLedger
	}
	return TesSuccess
}

// stateReserveUnits is the owner-reserve charge for a state count:
// one unit per five entries, rounded up.
func stateReserveUnits(stateCount uint32) uint32 {
	return (stateCount + 4) / 5
}

func terString(t TER) string {
	switch t {
	case TesSuccess:
		return "tesSUCCESS"
	case TecInsufficientReserve:
		return "tecINSUFFICIENT_RESERVE"
	case TecDirFull:
		return "tecDIR_FULL"
	case TemHookDataTooLarge:
		return "temHOOK_DATA_TOO_LARGE"
	case TefBadLedger:
		return "tefBAD_LEDGER"
	default:
		return "tefINTERNAL"
	}
}
