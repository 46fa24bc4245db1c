// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// exitReasonCap bounds the reason string accept/rollback may attach.
const exitReasonCap = 64

// controlImports covers the terminal calls, the guard meter and the
// identity/environment lookups.
func controlImports(ctx *hook.Context) map[string]interface{} {
	terminal := func(exit hook.ExitType) func(*wasmtime.Caller, int32, int32, int64) int64 {
		return func(caller *wasmtime.Caller, readPtr, readLen int32, errorCode int64) int64 {
			mem := guestMemory(caller)
			reason := ""
			if readPtr != 0 {
				l := uint32(readLen)
				if l > exitReasonCap {
					l = exitReasonCap
				}
				buf, ok := readGuest(mem, uint32(readPtr), l)
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
				reason = string(narrowIfUTF16(buf))
			}
			return ctx.Exit(reason, errorCode, exit)
		}
	}

	return map[string]interface{}{
		"accept":   terminal(hook.ExitAccept),
		"rollback": terminal(hook.ExitRollback),

		"_g": func(id, maxItr int32) int32 {
			return int32(ctx.Guard(uint32(id), uint32(maxItr)))
		},

		"hook_account": func(caller *wasmtime.Caller, writePtr, writeLen int32) int64 {
			acct := ctx.HookAccount()
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), 20) {
				return hookapi.OUT_OF_BOUNDS
			}
			return writeGuest(mem, uint32(writePtr), 20, acct[:])
		},

		"hook_hash": func(caller *wasmtime.Caller, writePtr, writeLen int32) int64 {
			if writeLen < 32 {
				return hookapi.TOO_SMALL
			}
			hash := ctx.HookHash()
			return writeChecked(guestMemory(caller), uint32(writePtr), uint32(writeLen), hash[:])
		},

		"ledger_seq": func() int64 { return ctx.LedgerSeq() },
		"fee_base":   func() int64 { return ctx.FeeBase() },
	}
}
