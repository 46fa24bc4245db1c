// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// slotImports is the working-set surface over loaded ledger objects.
func slotImports(ctx *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"slot_set": func(caller *wasmtime.Caller, readPtr, readLen, slotInto int32) int64 {
			mem := guestMemory(caller)
			id, ok := readGuest(mem, uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			return ctx.SlotSet(id, slotInto)
		},

		"slot": func(caller *wasmtime.Caller, writePtr, writeLen, slotNo int32) int64 {
			mem := guestMemory(caller)
			if !(writePtr == 0 && writeLen == 0) &&
				!inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			if writePtr != 0 && writeLen == 0 {
				return hookapi.TOO_SMALL
			}
			payload, code := ctx.SlotBytes(slotNo)
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

		"slot_size": func(slotNo int32) int64 { return ctx.SlotSize(slotNo) },

		"slot_clear": func(slotNo int32) int64 { return ctx.SlotClear(slotNo) },

		"slot_count": func(slotNo int32) int64 { return ctx.SlotCount(slotNo) },

		"slot_id": func(caller *wasmtime.Caller, writePtr, writeLen, slotNo int32) int64 {
			id, code := ctx.SlotID(slotNo)
			if code < 0 {
				return code
			}
			if len(id) > int(uint32(writeLen)) {
				return hookapi.TOO_SMALL
			}
			return writeChecked(guestMemory(caller), uint32(writePtr), uint32(writeLen), id)
		},

		"slot_subfield": func(parentSlot, fieldID, newSlot int32) int64 {
			return ctx.SlotSubfield(parentSlot, uint32(fieldID), newSlot)
		},

		"slot_subarray": func(parentSlot, arrayID, newSlot int32) int64 {
			return ctx.SlotSubarray(parentSlot, uint32(arrayID), newSlot)
		},

		"slot_type": func(slotNo, flags int32) int64 {
			return ctx.SlotType(slotNo, uint32(flags))
		},

		"slot_float": func(slotNo int32) int64 { return ctx.SlotFloat(slotNo) },
	}
}
