// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// emitImports is the child-transaction surface.
func emitImports(ctx *hook.Context, m *metrics) map[string]interface{} {
	return map[string]interface{}{
		"etxn_reserve": func(count int32) int64 {
			return ctx.EtxnReserve(uint32(count))
		},

		"etxn_burden": func() int64 { return ctx.EtxnBurden() },

		"etxn_generation": func() int64 { return ctx.EtxnGeneration() },

		"etxn_fee_base": func(txByteCount int32) int64 {
			return ctx.EtxnFeeBase(uint32(txByteCount))
		},

		"etxn_details": func(caller *wasmtime.Caller, writePtr, writeLen int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			if writeLen < hookapi.EmitDetailsSize {
				return hookapi.TOO_SMALL
			}
			details, code := ctx.EtxnDetails()
			if code < 0 {
				return code
			}
			return writeGuest(mem, uint32(writePtr), uint32(writeLen), details)
		},

		"emit": func(caller *wasmtime.Caller, readPtr, readLen int32) int64 {
			blob, ok := readGuest(guestMemory(caller), uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			code := ctx.Emit(blob)
			if code >= 0 {
				m.emitted.Inc()
			}
			return code
		},

		"nonce": func(caller *wasmtime.Caller, writePtr, writeLen int32) int64 {
			if writeLen < 32 {
				return hookapi.TOO_SMALL
			}
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			nonce, code := ctx.Nonce()
			if code < 0 {
				return code
			}
			return writeGuest(mem, uint32(writePtr), 32, nonce[:])
		},
	}
}
