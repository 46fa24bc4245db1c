// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/sto"
)

// stoImports is the serialized-object parser/editor surface.
func stoImports(_ *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"sto_subfield": func(caller *wasmtime.Caller, readPtr, readLen, fieldID int32) int64 {
			buf, ok := readGuest(guestMemory(caller), uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			return sto.Subfield(buf, uint32(fieldID))
		},

		"sto_subarray": func(caller *wasmtime.Caller, readPtr, readLen, index int32) int64 {
			buf, ok := readGuest(guestMemory(caller), uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			return sto.Subarray(buf, uint32(index))
		},

		"sto_validate": func(caller *wasmtime.Caller, readPtr, readLen int32) int64 {
			buf, ok := readGuest(guestMemory(caller), uint32(readPtr), uint32(readLen))
			if !ok {
				return hookapi.OUT_OF_BOUNDS
			}
			return sto.Validate(buf)
		},

		"sto_emplace": func(caller *wasmtime.Caller, writePtr, writeLen, sreadPtr, sreadLen, freadPtr, freadLen, fieldID int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) ||
				!inBounds(len(mem), uint32(sreadPtr), uint32(sreadLen)) ||
				!inBounds(len(mem), uint32(freadPtr), uint32(freadLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			dst := mem[uint32(writePtr) : uint32(writePtr)+uint32(writeLen)]
			src := mem[uint32(sreadPtr) : uint32(sreadPtr)+uint32(sreadLen)]
			fieldBytes := mem[uint32(freadPtr) : uint32(freadPtr)+uint32(freadLen)]
			return sto.Emplace(dst, src, fieldBytes, uint32(fieldID))
		},

		"sto_erase": func(caller *wasmtime.Caller, writePtr, writeLen, readPtr, readLen, fieldID int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) ||
				!inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			dst := mem[uint32(writePtr) : uint32(writePtr)+uint32(writeLen)]
			src := mem[uint32(readPtr) : uint32(readPtr)+uint32(readLen)]
			return sto.Erase(dst, src, uint32(fieldID))
		},
	}
}
