// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

// VM runs a compiled hook program against a context. The engine must
// call every host function with the same context it was handed here.
type VM interface {
	Execute(ctx *Context, code []byte, entry string) (instructionCount uint64, err error)
}

// ApplyParams names everything one invocation needs.
type ApplyParams struct {
	HookSetTxnID hookapi.Hash
	HookHash     hookapi.Hash
	Code         []byte
	Account      hookapi.AccountID
	Otxn         []byte
	OtxnID       hookapi.Hash
	Callback     bool
}

// Apply runs a hook against the originating transaction and returns
// the execution result. Callback invocations commit their own
// effects; first invocations leave commit to the caller so it can
// react to the exit code first.
func Apply(log logging.Logger, view LedgerView, vm VM, p ApplyParams) *Result {
	ctx := NewContext(log, view, p.HookSetTxnID, p.HookHash, p.Account, p.Otxn, p.OtxnID)

	entry := "hook"
	if p.Callback {
		entry = "cbak"
	}

	log.Debug("creating wasm instance",
		zap.String("account", p.Account.String()),
		zap.String("entry", entry),
	)

	count, err := vm.Execute(ctx, p.Code, entry)
	ctx.Result.InstructionCount = count
	if err != nil && !ctx.terminated {
		log.Warn("wasm engine error",
			zap.String("account", p.Account.String()),
			zap.Error(err),
		)
		ctx.Result.ExitType = ExitWasmError
		return &ctx.Result
	}

	// a callback that returns normally is an accept
	if p.Callback && !ctx.terminated {
		ctx.Result.ExitType = ExitAccept
		ctx.Result.ExitCode = 0
	}

	log.Debug("hook execution finished",
		zap.String("account", p.Account.String()),
		zap.String("exit", ctx.Result.ExitType.String()),
		zap.String("reason", ctx.Result.ExitReason),
		zap.Int64("code", ctx.Result.ExitCode),
	)

	if p.Callback {
		mode := CommitRemove
		if ctx.Result.ExitType == ExitAccept {
			mode |= CommitApply
		}
		Commit(log, view, &ctx.Result, p.Otxn, p.OtxnID, mode)
	}

	return &ctx.Result
}
