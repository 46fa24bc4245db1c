// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import (
	"bytes"
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/sto"
)

// noncePrefix seeds the deterministic emission nonce hash.
var noncePrefix = []byte{'E', 'T', 'X', 'N'}

// txnPrefix seeds a transaction id hash.
var txnPrefix = []byte{'T', 'X', 'N', 0}

// TxID computes the id of a serialized transaction.
func TxID(tx []byte) hookapi.Hash {
	return hookapi.Sha512Half(txnPrefix, tx)
}

// EtxnReserve declares how many transactions this run intends to
// emit. Callable exactly once.
func (c *Context) EtxnReserve(count uint32) int64 {
	if c.expectedEtxnCount > -1 {
		return hookapi.ALREADY_SET
	}
	if count > hookapi.MaxEmit {
		return hookapi.TOO_BIG
	}
	c.expectedEtxnCount = int64(count)
	return int64(count)
}

// EtxnBurden is the burden an emitted transaction must carry.
func (c *Context) EtxnBurden() int64 {
	if c.expectedEtxnCount <= -1 {
		return hookapi.PREREQUISITE_NOT_MET
	}
	lastBurden := uint64(c.OtxnBurden())
	burden := lastBurden * uint64(c.expectedEtxnCount)
	if burden < lastBurden {
		return hookapi.FEE_TOO_LARGE
	}
	return int64(burden)
}

// EtxnGeneration is the generation an emitted transaction must carry.
func (c *Context) EtxnGeneration() int64 {
	return c.OtxnGeneration() + 1
}

// EtxnFeeBase prices a hypothetical emitted transaction of the given
// byte count.
func (c *Context) EtxnFeeBase(txByteCount uint32) int64 {
	if c.expectedEtxnCount <= -1 {
		return hookapi.PREREQUISITE_NOT_MET
	}
	baseFee := uint64(c.FeeBase())
	burden := c.EtxnBurden()
	if burden < 1 {
		return hookapi.FEE_TOO_LARGE
	}
	fee := baseFee * uint64(burden)
	if fee < uint64(burden) || fee&(3<<62) != 0 {
		return hookapi.FEE_TOO_LARGE
	}
	c.feeBase = fee
	return int64(fee * hookapi.DropsPerByte * uint64(txByteCount))
}

// Nonce issues the next deterministic emission nonce and records it
// for validation.
func (c *Context) Nonce() (hookapi.Hash, int64) {
	if c.nonceCounter >= hookapi.MaxNonce {
		return hookapi.Hash{}, hookapi.TOO_MANY_NONCES
	}
	var ctr [4]byte
	binary.BigEndian.PutUint32(ctr[:], c.nonceCounter)
	c.nonceCounter++
	hash := hookapi.Sha512Half(noncePrefix, c.otxnID[:], ctr[:], c.Result.Account[:])
	c.nonces.Add(hash)
	return hash, 32
}

// EtxnDetails writes the fully-formed emit-details object the way an
// emitted transaction must carry it.
func (c *Context) EtxnDetails() ([]byte, int64) {
	if c.expectedEtxnCount <= -1 {
		return nil, hookapi.PREREQUISITE_NOT_MET
	}
	generation := uint32(c.EtxnGeneration())
	burden := c.EtxnBurden()
	if burden < 1 {
		return nil, hookapi.FEE_TOO_LARGE
	}
	nonce, code := c.Nonce()
	if code < 0 {
		return nil, code
	}

	out := make([]byte, 0, hookapi.EmitDetailsSize)
	out = append(out, 0xEC)       // EmitDetails
	out = append(out, 0x20, 0x2B) // EmitGeneration
	out = binary.BigEndian.AppendUint32(out, generation)
	out = append(out, 0x3C) // EmitBurden
	out = binary.BigEndian.AppendUint64(out, uint64(burden))
	out = append(out, 0x5A) // EmitParentTxnID
	out = append(out, c.otxnID[:]...)
	out = append(out, 0x5B) // EmitNonce
	out = append(out, nonce[:]...)
	out = append(out, 0x89, 0x14) // EmitCallback
	out = append(out, c.Result.Account[:]...)
	out = append(out, 0xE1)
	return out, int64(len(out))
}

// Emit validates a candidate child transaction against the emission
// rules and queues it. Returns the byte count accepted.
func (c *Context) Emit(blob []byte) int64 {
	if c.expectedEtxnCount < 0 {
		return hookapi.PREREQUISITE_NOT_MET
	}
	if int64(len(c.Result.emittedTxn)) >= c.expectedEtxnCount {
		return hookapi.TOO_MANY_EMITTED_TXN
	}
	if sto.Validate(blob) != 1 {
		return c.emitFail("malformed transaction")
	}

	// rule 1: a sequence field, pinned to zero
	seq, ok := fieldPayload(blob, hookapi.SfSequence)
	if !ok || len(seq) != 4 || binary.BigEndian.Uint32(seq) != 0 {
		return c.emitFail("Sequence missing or non-zero")
	}

	// rule 2: an all-zero signing key placeholder
	pk, ok := fieldPayload(blob, hookapi.SfSigningPubKey)
	if !ok {
		return c.emitFail("SigningPubKey missing")
	}
	if len(pk) != 0 && len(pk) != 33 {
		return c.emitFail("SigningPubKey present but wrong size")
	}
	for _, b := range pk {
		if b != 0 {
			return c.emitFail("SigningPubKey present but non-zero")
		}
	}

	// rule 3: emit details matching this run
	details, ok := fieldPayload(blob, hookapi.SfEmitDetails)
	if !ok {
		return c.emitFail("EmitDetails missing")
	}
	gen, ok := fieldPayload(details, hookapi.SfEmitGeneration)
	if !ok || len(gen) != 4 {
		return c.emitFail("EmitDetails malformed")
	}
	bur, ok := fieldPayload(details, hookapi.SfEmitBurden)
	if !ok || len(bur) != 8 {
		return c.emitFail("EmitDetails malformed")
	}
	parent, ok := fieldPayload(details, hookapi.SfEmitParentTxnID)
	if !ok || len(parent) != 32 {
		return c.emitFail("EmitDetails malformed")
	}
	nonce, ok := fieldPayload(details, hookapi.SfEmitNonce)
	if !ok || len(nonce) != 32 {
		return c.emitFail("EmitDetails malformed")
	}
	callback, ok := fieldPayload(details, hookapi.SfEmitCallback)
	if !ok || len(callback) != 20 {
		return c.emitFail("EmitDetails malformed")
	}

	if int64(binary.BigEndian.Uint32(gen)) != c.EtxnGeneration() {
		return c.emitFail("EmitGeneration not correct")
	}
	if int64(binary.BigEndian.Uint64(bur)) != c.EtxnBurden() {
		return c.emitFail("EmitBurden not correct")
	}
	if !bytes.Equal(parent, c.otxnID[:]) {
		return c.emitFail("EmitParentTxnID not correct")
	}
	nonceHash, _ := hookapi.HashFromBytes(nonce)
	if !c.nonces.Contains(nonceHash) {
		return c.emitFail("EmitNonce was not generated by the nonce api")
	}
	if !bytes.Equal(callback, c.Result.Account[:]) {
		return c.emitFail("EmitCallback must be the hook account")
	}

	// rule 4: unsigned
	if _, ok := fieldPayload(blob, hookapi.SfSignature); ok {
		return c.emitFail("Signature is present but should not be")
	}

	// rule 5: expires after the next ledger
	lls, ok := fieldPayload(blob, hookapi.SfLastLedgerSequence)
	if !ok || len(lls) != 4 {
		return c.emitFail("LastLedgerSequence missing")
	}
	txLLS := binary.BigEndian.Uint32(lls)
	ledgerSeq := c.view.Seq()
	if txLLS < ledgerSeq+2 {
		return c.emitFail("LastLedgerSequence invalid")
	}

	// rule 6: becomes valid no later than it expires
	fls, ok := fieldPayload(blob, hookapi.SfFirstLedgerSequence)
	if !ok || len(fls) != 4 || binary.BigEndian.Uint32(fls) > txLLS {
		return c.emitFail("FirstLedgerSequence must be present and <= LastLedgerSequence")
	}

	// rule 7: pays at least the emission fee
	if c.feeBase == 0 {
		if fb := c.EtxnFeeBase(uint32(len(blob))); fb < 0 {
			return c.emitFail("fee could not be calculated")
		}
	}
	minFee := int64(c.feeBase) * hookapi.DropsPerByte * int64(len(blob))
	if minFee < 0 {
		return c.emitFail("fee could not be calculated")
	}
	feeField, ok := fieldPayload(blob, hookapi.SfFee)
	if !ok || len(feeField) < 8 || feeField[0]&0x80 != 0 {
		return c.emitFail("Fee missing from emitted tx")
	}
	drops := int64(binary.BigEndian.Uint64(feeField[:8]) &^ (uint64(3) << 62))
	if drops < minFee {
		return c.emitFail("Fee on emitted txn is less than the minimum required fee")
	}

	c.Result.emittedTxn = append(c.Result.emittedTxn, append([]byte{}, blob...))
	return int64(len(blob))
}

func (c *Context) emitFail(why string) int64 {
	c.log.Debug("emit rejected", zap.String("reason", why))
	return hookapi.EMISSION_FAILURE
}

// fieldPayload is a small wrapper over the sto walker returning the
// payload slice of a field.
func fieldPayload(buf []byte, fieldID uint32) ([]byte, bool) {
	res := sto.Subfield(buf, fieldID)
	if res < 0 {
		return nil, false
	}
	off, length := int(res>>32), int(uint32(res))
	return buf[off : off+length], true
}
