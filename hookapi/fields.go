// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookapi

// Serialized-object type codes (high 16 bits of a field id).
const (
	STypeUInt16    = 1
	STypeUInt32    = 2
	STypeUInt64    = 3
	STypeHash128   = 4
	STypeHash256   = 5
	STypeAmount    = 6
	STypeBlob      = 7
	STypeAccount   = 8
	STypeObject    = 14
	STypeArray     = 15
	STypeUInt8     = 16
	STypeHash160   = 17
	STypePathSet   = 18
	STypeVector256 = 19
)

// FieldID packs a type code and a field code the way the wire tags do.
func FieldID(typeCode, fieldCode uint32) uint32 {
	return typeCode<<16 | fieldCode
}

// Field ids used by the core.
const (
	SfAccount             = STypeAccount<<16 | 1
	SfSequence            = STypeUInt32<<16 | 4
	SfFirstLedgerSequence = STypeUInt32<<16 | 26
	SfLastLedgerSequence  = STypeUInt32<<16 | 27
	SfFee                 = STypeAmount<<16 | 8
	SfAmount              = STypeAmount<<16 | 1
	SfSigningPubKey       = STypeBlob<<16 | 3
	SfSignature           = STypeBlob<<16 | 6
	SfEmitDetails         = STypeObject<<16 | 12
	SfEmitGeneration      = STypeUInt32<<16 | 43
	SfEmitBurden          = STypeUInt64<<16 | 12
	SfEmitParentTxnID     = STypeHash256<<16 | 10
	SfEmitNonce           = STypeHash256<<16 | 11
	SfEmitCallback        = STypeAccount<<16 | 9
	SfSignerEntries       = STypeArray<<16 | 4
	SfTransactionType     = STypeUInt16<<16 | 2
)
