// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hookapi

import (
	"crypto/sha512"
	"encoding/hex"
)

// AccountID is a 20-byte ledger account identifier.
type AccountID [20]byte

// Hash is a 32-byte half-SHA512 digest.
type Hash [32]byte

func (a AccountID) String() string { return hex.EncodeToString(a[:]) }
func (h Hash) String() string      { return hex.EncodeToString(h[:]) }

func AccountIDFromBytes(b []byte) (AccountID, bool) {
	var a AccountID
	if len(b) != len(a) {
		return a, false
	}
	copy(a[:], b)
	return a, true
}

func HashFromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != len(h) {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

// Sha512Half is the ledger's standard digest: the first 32 bytes of
// SHA-512 over the concatenated inputs.
func Sha512Half(chunks ...[]byte) Hash {
	d := sha512.New()
	for _, c := range chunks {
		_, _ = d.Write(c)
	}
	var out Hash
	copy(out[:], d.Sum(nil))
	return out
}
