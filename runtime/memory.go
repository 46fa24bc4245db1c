// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

const memoryName = "memory"

// guestMemory returns the instance's linear memory, valid for the
// duration of one host call.
func guestMemory(caller *wasmtime.Caller) []byte {
	ext := caller.GetExport(memoryName)
	if ext == nil {
		return nil
	}
	mem := ext.Memory()
	if mem == nil {
		return nil
	}
	return mem.UnsafeData(caller)
}

// inBounds checks ptr+len against the memory size in unsigned 64-bit
// arithmetic so no wrap can pass.
func inBounds(memLen int, ptr, length uint32) bool {
	return uint64(ptr)+uint64(length) <= uint64(memLen)
}

// readGuest slices guest memory after a bounds check.
func readGuest(mem []byte, ptr, length uint32) ([]byte, bool) {
	if !inBounds(len(mem), ptr, length) {
		return nil, false
	}
	return mem[ptr : uint64(ptr)+uint64(length)], true
}

// writeGuest copies src into guest memory, saturated to the smaller of
// the two lengths, and returns bytes written. Bounds must already
// hold for (ptr, guestLen).
func writeGuest(mem []byte, ptr, guestLen uint32, src []byte) int64 {
	n := len(src)
	if int(guestLen) < n {
		n = int(guestLen)
	}
	copy(mem[ptr:], src[:n])
	return int64(n)
}

// writeChecked bounds-checks the destination, requires it to fit the
// whole payload, and writes it.
func writeChecked(mem []byte, ptr, guestLen uint32, src []byte) int64 {
	if !inBounds(len(mem), ptr, guestLen) {
		return hookapi.OUT_OF_BOUNDS
	}
	if len(src) > int(guestLen) {
		return hookapi.TOO_SMALL
	}
	return writeGuest(mem, ptr, guestLen, src)
}
