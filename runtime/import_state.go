// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// stateImports is the staged hook-state surface.
func stateImports(ctx *hook.Context, m *metrics) map[string]interface{} {
	// state and state_foreign share one implementation: a zero
	// account pointer means a local lookup.
	lookup := func(caller *wasmtime.Caller, writePtr, writeLen, kreadPtr, kreadLen, areadPtr, areadLen int32) int64 {
		mem := guestMemory(caller)
		if !inBounds(len(mem), uint32(kreadPtr), uint32(kreadLen)) ||
			!inBounds(len(mem), uint32(areadPtr), uint32(areadLen)) ||
			!inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
			return hookapi.OUT_OF_BOUNDS
		}
		if uint32(kreadLen) > hookapi.MaxStateKeySize {
			return hookapi.TOO_BIG
		}

		key := mem[uint32(kreadPtr) : uint32(kreadPtr)+uint32(kreadLen)]
		var acct []byte
		if areadPtr > 0 {
			if areadLen != 20 {
				return hookapi.INVALID_ACCOUNT
			}
			acct = mem[uint32(areadPtr) : uint32(areadPtr)+20]
		}

		value, code := ctx.StateForeign(key, acct)
		if code < 0 {
			return code
		}
		if writePtr == 0 {
			return hook.DataAsInt64(value)
		}
		if len(value) > int(uint32(writeLen)) {
			return hookapi.TOO_SMALL
		}
		return writeGuest(mem, uint32(writePtr), uint32(writeLen), value)
	}

	return map[string]interface{}{
		"state": func(caller *wasmtime.Caller, writePtr, writeLen, kreadPtr, kreadLen int32) int64 {
			return lookup(caller, writePtr, writeLen, kreadPtr, kreadLen, 0, 0)
		},

		"state_foreign": lookup,

		"state_set": func(caller *wasmtime.Caller, readPtr, readLen, kreadPtr, kreadLen int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(kreadPtr), uint32(kreadLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			var value []byte
			if readPtr == 0 && readLen == 0 {
				// delete operation
			} else {
				var ok bool
				value, ok = readGuest(mem, uint32(readPtr), uint32(readLen))
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
			}
			key := mem[uint32(kreadPtr) : uint32(kreadPtr)+uint32(kreadLen)]
			code := ctx.StateSet(value, key)
			if code >= 0 {
				m.stateWrites.Inc()
			}
			return code
		},
	}
}
