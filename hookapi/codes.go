// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookapi

// Return codes shared by every host function. Negative values are
// errors; non-negative values carry a length, a handle or an encoded
// datum. RC_ACCEPT and RC_ROLLBACK are what accept, rollback and a
// violated guard return; the host records the exit but does not stop
// the guest, which runs on until its entry point returns.
const (
	SUCCESS              int64 = 0
	OUT_OF_BOUNDS        int64 = -1
	INTERNAL_ERROR       int64 = -2
	TOO_BIG              int64 = -3
	TOO_SMALL            int64 = -4
	DOESNT_EXIST         int64 = -5
	NO_FREE_SLOTS        int64 = -6
	INVALID_ARGUMENT     int64 = -7
	ALREADY_SET          int64 = -8
	PREREQUISITE_NOT_MET int64 = -9
	FEE_TOO_LARGE        int64 = -10
	EMISSION_FAILURE     int64 = -11
	TOO_MANY_NONCES      int64 = -12
	TOO_MANY_EMITTED_TXN int64 = -13
	NOT_IMPLEMENTED      int64 = -14
	INVALID_ACCOUNT      int64 = -15
	GUARD_VIOLATION      int64 = -16
	INVALID_FIELD        int64 = -17
	PARSE_ERROR          int64 = -18
	RC_ROLLBACK          int64 = -19
	RC_ACCEPT            int64 = -20
	NO_SUCH_KEYLET       int64 = -21
	NOT_AN_ARRAY         int64 = -22
	NOT_AN_OBJECT        int64 = -23
	DIVISION_BY_ZERO     int64 = -25
	MANTISSA_OVERSIZED   int64 = -26
	MANTISSA_UNDERSIZED  int64 = -27
	EXPONENT_OVERSIZED   int64 = -28
	EXPONENT_UNDERSIZED  int64 = -29
	OVERFLOW             int64 = -30
	NOT_IOU_AMOUNT       int64 = -31
	NOT_AN_AMOUNT        int64 = -32
	CANT_RETURN_NEGATIVE int64 = -33
	INVALID_FLOAT        int64 = -10024
)

// Runtime limits.
const (
	MaxSlots         = 255
	MaxEmit          = 255
	MaxNonce         = 256
	MaxStateDataSize = 128
	MaxStateKeySize  = 32

	// sto editor input caps
	MaxStoSourceSize = 16 * 1024
	MaxStoFieldSize  = 4 * 1024

	// trace output caps
	MaxTraceLabel = 128
	MaxTraceData  = 1024

	EmitDetailsSize = 105

	DropsPerByte = 2

	// fee_base margin, expressed as a ratio to stay in integer math
	FeeBaseMulNum = 11
	FeeBaseMulDen = 10
)

// float_compare mode bits.
const (
	CompareEqual   = 1
	CompareLess    = 2
	CompareGreater = 4
)

// util_keylet constructor codes.
const (
	KeyletHook           = 1
	KeyletHookState      = 2
	KeyletAccount        = 3
	KeyletAmendments     = 4
	KeyletChild          = 5
	KeyletSkip           = 6
	KeyletFees           = 7
	KeyletNegativeUNL    = 8
	KeyletLine           = 9
	KeyletOffer          = 10
	KeyletQuality        = 11
	KeyletEmittedDir     = 12
	KeyletEmitted        = 13
	KeyletSigners        = 14
	KeyletCheck          = 15
	KeyletDepositPreauth = 16
	KeyletUnchecked      = 17
	KeyletOwnerDir       = 18
	KeyletPage           = 19
	KeyletEscrow         = 20
	KeyletPayChan        = 21
)

// HookOn: every transaction-type bit is active low except HookSet,
// which is active high.
const HookSetTxType = 22

// CanHook reports whether a transaction type triggers a hook installed
// with the given HookOn bitmap.
func CanHook(txType uint32, hookOn uint64) bool {
	hookOn ^= 1 << HookSetTxType
	hookOn = ^hookOn
	return (hookOn>>txType)&1 == 1
}
