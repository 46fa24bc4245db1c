// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// otxnImports exposes the originating transaction.
func otxnImports(ctx *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"otxn_id": func(caller *wasmtime.Caller, writePtr, writeLen int32) int64 {
			id := ctx.OtxnID()
			if int64(writeLen) < int64(len(id)) {
				return hookapi.TOO_SMALL
			}
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(len(id))) {
				return hookapi.OUT_OF_BOUNDS
			}
			return writeGuest(mem, uint32(writePtr), uint32(len(id)), id[:])
		},

		"otxn_type": func() int64 { return ctx.OtxnType() },

		"otxn_burden": func() int64 { return ctx.OtxnBurden() },

		"otxn_generation": func() int64 { return ctx.OtxnGeneration() },

		"otxn_slot": func(slotInto int32) int64 { return ctx.OtxnSlot(slotInto) },

		"otxn_field": func(caller *wasmtime.Caller, writePtr, writeLen, fieldID int32) int64 {
			mem := guestMemory(caller)
			if writePtr != 0 && !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			payload, code := ctx.OtxnField(uint32(fieldID))
			if code < 0 {
				return code
			}
			if writePtr == 0 {
				return hook.DataAsInt64(payload)
			}
			if len(payload) > int(uint32(writeLen)) {
				return hookapi.TOO_SMALL
			}
			return writeGuest(mem, uint32(writePtr), uint32(writeLen), payload)
		},

		"otxn_field_txt": func(caller *wasmtime.Caller, writePtr, writeLen, fieldID int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			text, code := ctx.OtxnFieldText(uint32(fieldID))
			if code < 0 {
				return code
			}
			if len(text) > int(uint32(writeLen)) {
				return hookapi.TOO_SMALL
			}
			return writeGuest(mem, uint32(writePtr), uint32(writeLen), text)
		},
	}
}
