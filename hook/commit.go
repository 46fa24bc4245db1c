// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/sto"
)

// CommitMode selects which deferred effects a commit applies.
type CommitMode uint8

const (
	// CommitApply flushes staged state writes and queued emissions.
	CommitApply CommitMode = 1 << iota
	// CommitRemove retires the originating transaction's entry from
	// the emitted directory.
	CommitRemove
)

// Commit applies (or discards) everything the run staged and appends
// an execution-metadata record. A zero mode is rejected with a warning
// and records nothing.
func Commit(log logging.Logger, view LedgerView, res *Result, otxn []byte, otxnID hookapi.Hash, mode CommitMode) {
	if mode == 0 {
		log.Warn("commit called with invalid mode",
			zap.String("account", res.Account.String()),
		)
		return
	}

	var changeCount uint16
	if mode&CommitApply != 0 {
		for _, key := range res.stateOrder {
			entry := res.changedState[key]
			if !entry.dirty {
				continue
			}
			changeCount++
			if ter := setHookState(res, view, key, entry.value); ter != TesSuccess {
				log.Warn("hook state write failed",
					zap.String("account", res.Account.String()),
					zap.String("key", key.String()),
					zap.String("result", terString(ter)),
				)
			}
		}
	}

	execIndex := view.NextHookExecutionIndex()
	var emissionCount uint16
	if mode&CommitApply != 0 {
		for _, tx := range res.emittedTxn {
			id := TxID(tx)
			log.Debug("emitting transaction",
				zap.String("account", res.Account.String()),
				zap.String("id", id.String()),
			)
			err := view.EmittedInsert(id, tx)
			switch err {
			case nil:
				emissionCount++
			case ErrDirFull:
				log.Warn("emission directory full",
					zap.String("account", res.Account.String()),
					zap.String("id", id.String()),
				)
			default:
				log.Warn("emission insert failed",
					zap.String("id", id.String()),
					zap.Error(err),
				)
			}
			if err == ErrDirFull {
				break
			}
		}
		res.emittedTxn = nil
	}

	if mode&CommitRemove != 0 {
		removeEmittedEntry(log, view, res, otxn, otxnID)
	}

	code := res.ExitCode
	var unsignedCode uint64
	if code >= 0 {
		unsignedCode = uint64(code)
	} else {
		unsignedCode = 1<<63 + uint64(-code)
	}
	view.AddHookMeta(ExecMeta{
		Result:           res.ExitType,
		HookHash:         res.HookHash,
		Account:          res.Account,
		ReturnCode:       unsignedCode,
		ReturnString:     []byte(res.ExitReason),
		InstructionCount: res.InstructionCount,
		EmitCount:        emissionCount,
		ExecutionIndex:   execIndex,
		StateChangeCount: changeCount,
	})
}

// removeEmittedEntry drops the originating transaction from the
// emitted directory once it has executed.
func removeEmittedEntry(log logging.Logger, view LedgerView, res *Result, otxn []byte, otxnID hookapi.Hash) {
	if sto.Subfield(otxn, hookapi.SfEmitDetails) < 0 {
		return
	}
	if err := view.EmittedErase(otxnID); err != nil {
		log.Warn("failed to retire emitted transaction entry",
			zap.String("account", res.Account.String()),
			zap.String("id", otxnID.String()),
			zap.Error(err),
		)
	}
}
