// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/binary"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/stretchr/testify/require"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/ledger"
)

var testAccount = hookapi.AccountID{0xA1}

// minimal outgoing transaction fixture
func testOtxn() []byte {
	tt := []byte{0x12, 0, 0}
	seq := []byte{0x24, 0, 0, 0, 0}
	binary.BigEndian.PutUint32(seq[1:], 7)
	acct := append([]byte{0x81, 20}, testAccount[:]...)
	out := append(tt, seq...)
	return append(out, acct...)
}

func newRuntime(t *testing.T) *WasmRuntime {
	t.Helper()
	cfg, err := NewConfigBuilder().Build()
	require.NoError(t, err)
	rt, err := New(cfg, logging.NoLog{}, nil)
	require.NoError(t, err)
	return rt
}

func newContext(t *testing.T) (*hook.Context, *ledger.Ledger) {
	t.Helper()
	l := ledger.New(memdb.New(), ledger.DefaultConfig())
	require.NoError(t, l.CreateAccount(testAccount, 100_000_000, hookapi.MaxStateDataSize))
	otxn := testOtxn()
	ctx := hook.NewContext(
		logging.NoLog{}, l, hookapi.Hash{1}, hookapi.Hash{2}, testAccount, otxn, hook.TxID(otxn))
	return ctx, l
}

func TestHostImportTableIsComplete(t *testing.T) {
	require := require.New(t)

	ctx, _ := newContext(t)
	imports := newRuntime(t).hostImports(ctx)

	expected := []string{
		"_g", "accept", "rollback",
		"hook_account", "hook_hash", "ledger_seq", "fee_base",
		"trace", "trace_num", "trace_float", "trace_slot",
		"otxn_id", "otxn_type", "otxn_field", "otxn_field_txt",
		"otxn_slot", "otxn_burden", "otxn_generation",
		"state", "state_foreign", "state_set",
		"slot", "slot_set", "slot_size", "slot_clear", "slot_count",
		"slot_id", "slot_subfield", "slot_subarray", "slot_type",
		"slot_float",
		"sto_subfield", "sto_subarray", "sto_emplace", "sto_erase",
		"sto_validate",
		"emit", "etxn_reserve", "etxn_burden", "etxn_generation",
		"etxn_fee_base", "etxn_details", "nonce",
		"float_set", "float_multiply", "float_mulratio", "float_divide",
		"float_sum", "float_compare", "float_negate", "float_invert",
		"float_one", "float_sign", "float_exponent", "float_mantissa",
		"float_exponent_set", "float_mantissa_set", "float_sign_set",
		"float_int", "float_sto", "float_sto_set",
		"util_keylet", "util_sha512h", "util_raddr", "util_accid",
		"util_verify",
	}
	for _, name := range expected {
		require.Contains(imports, name, "missing host function %s", name)
	}
	require.Len(imports, len(expected))
}

func TestExecuteAccept(t *testing.T) {
	require := require.New(t)

	wasm, err := wasmtime.Wat2Wasm(`
	(module
	  (import "env" "accept" (func $accept (param i32 i32 i64) (result i64)))
	  (memory 1)
	  (func $hook (param i64) (result i64)
	    i32.const 0
	    i32.const 0
	    i64.const 20
	    call $accept
	  )
	  (export "memory" (memory 0))
	  (export "hook" (func $hook))
	)`)
	require.NoError(err)

	ctx, _ := newContext(t)
	count, err := newRuntime(t).Execute(ctx, wasm, "hook")
	require.NoError(err)
	require.Greater(count, uint64(0))
	require.True(ctx.Terminated())
	require.Equal(hook.ExitAccept, ctx.Result.ExitType)
	require.Equal(int64(20), ctx.Result.ExitCode)
}

func TestExecuteGuardViolation(t *testing.T) {
	require := require.New(t)

	wasm, err := wasmtime.Wat2Wasm(`
	(module
	  (import "env" "_g" (func $g (param i32 i32) (result i32)))
	  (memory 1)
	  (func $hook (param i64) (result i64)
	    (local $i i32)
	    (local $last i32)
	    (local.set $i (i32.const 0))
	    (block $out
	      (loop $top
	        (local.set $last (call $g (i32.const 42) (i32.const 3)))
	        (local.set $i (i32.add (local.get $i) (i32.const 1)))
	        (br_if $out (i32.ge_u (local.get $i) (i32.const 4)))
	        (br $top)
	      )
	    )
	    (i64.extend_i32_s (local.get $last))
	  )
	  (export "memory" (memory 0))
	  (export "hook" (func $hook))
	)`)
	require.NoError(err)

	ctx, _ := newContext(t)
	_, err = newRuntime(t).Execute(ctx, wasm, "hook")
	require.NoError(err)
	require.True(ctx.Terminated())
	require.Equal(hook.ExitRollback, ctx.Result.ExitType)
	require.Equal(hookapi.GUARD_VIOLATION, ctx.Result.ExitCode)
}

func TestExecuteStateRoundTrip(t *testing.T) {
	require := require.New(t)

	// writes {0x01,0x02} (offset 0) under key "k" (offset 8), reads it
	// back into a 16-byte buffer at offset 32, then accepts with the
	// read length as the exit code
	wasm, err := wasmtime.Wat2Wasm(`
	(module
	  (import "env" "state_set" (func $state_set (param i32 i32 i32 i32) (result i64)))
	  (import "env" "state" (func $state (param i32 i32 i32 i32) (result i64)))
	  (import "env" "accept" (func $accept (param i32 i32 i64) (result i64)))
	  (memory 1)
	  (data (i32.const 0) "\01\02")
	  (data (i32.const 8) "k")
	  (func $hook (param i64) (result i64)
	    (drop (call $state_set (i32.const 0) (i32.const 2) (i32.const 8) (i32.const 1)))
	    (call $accept
	      (i32.const 0) (i32.const 0)
	      (call $state (i32.const 32) (i32.const 16) (i32.const 8) (i32.const 1)))
	  )
	  (export "memory" (memory 0))
	  (export "hook" (func $hook))
	)`)
	require.NoError(err)

	ctx, l := newContext(t)
	_, err = newRuntime(t).Execute(ctx, wasm, "hook")
	require.NoError(err)
	require.Equal(hook.ExitAccept, ctx.Result.ExitType)
	require.Equal(int64(2), ctx.Result.ExitCode)

	hook.Commit(logging.NoLog{}, l, &ctx.Result, ctx.OtxnBytes(), ctx.OtxnID(), hook.CommitApply)
	fresh := hook.NewContext(
		logging.NoLog{}, l, hookapi.Hash{1}, hookapi.Hash{2}, testAccount, testOtxn(), ctx.OtxnID())
	value, code := fresh.State([]byte("k"))
	require.Equal(int64(2), code)
	require.Equal([]byte{1, 2}, value)
}

func TestExecuteMissingEntry(t *testing.T) {
	require := require.New(t)

	wasm, err := wasmtime.Wat2Wasm(`(module (memory 1) (export "memory" (memory 0)))`)
	require.NoError(err)

	ctx, _ := newContext(t)
	_, err = newRuntime(t).Execute(ctx, wasm, "hook")
	require.ErrorIs(err, ErrMissingExportedFunction)
}
