// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/hex"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// traceImports is the guest's debugging tap. Labels are capped at 128
// bytes and payloads at 1024; wide-string buffers are re-encoded
// before logging.
func traceImports(ctx *hook.Context, log logging.Logger) map[string]interface{} {
	label := func(mem []byte, ptr, length int32) (string, bool) {
		l := uint32(length)
		if l > hookapi.MaxTraceLabel {
			l = hookapi.MaxTraceLabel
		}
		buf, ok := readGuest(mem, uint32(ptr), l)
		if !ok {
			return "", false
		}
		return string(narrowIfUTF16(buf)), true
	}

	return map[string]interface{}{
		"trace": func(caller *wasmtime.Caller, mreadPtr, mreadLen, dreadPtr, dreadLen, asHex int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(mreadPtr), uint32(mreadLen)) ||
				!inBounds(len(mem), uint32(dreadPtr), uint32(dreadLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			msg, _ := label(mem, mreadPtr, mreadLen)
			dl := uint32(dreadLen)
			if dl > hookapi.MaxTraceData {
				dl = hookapi.MaxTraceData
			}
			data, _ := readGuest(mem, uint32(dreadPtr), dl)
			var payload string
			if asHex != 0 {
				payload = hex.EncodeToString(data)
			} else {
				payload = string(narrowIfUTF16(data))
			}
			log.Debug("hook trace",
				zap.String("label", msg),
				zap.String("data", payload),
			)
			return 0
		},

		"trace_num": func(caller *wasmtime.Caller, readPtr, readLen int32, number int64) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			msg, _ := label(mem, readPtr, readLen)
			log.Debug("hook trace",
				zap.String("label", msg),
				zap.Int64("number", number),
			)
			return 0
		},

		"trace_float": func(caller *wasmtime.Caller, readPtr, readLen int32, float1 int64) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			msg, _ := label(mem, readPtr, readLen)
			log.Debug("hook trace",
				zap.String("label", msg),
				zap.String("float", formatFloat(float1)),
			)
			return 0
		},

		"trace_slot": func(caller *wasmtime.Caller, readPtr, readLen, slotNo int32) int64 {
			id, code := ctx.SlotID(slotNo)
			if code < 0 {
				return code
			}
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			msg, _ := label(mem, readPtr, readLen)
			if len(id) > 32 {
				id = id[:32]
			}
			log.Debug("hook trace",
				zap.String("label", msg),
				zap.Int32("slot", slotNo),
				zap.String("id", hex.EncodeToString(id)),
			)
			return 0
		},
	}
}
