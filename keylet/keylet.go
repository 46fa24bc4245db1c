// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keylet computes the 34-byte (type, key) locators used to
// address ledger objects. The key is the half-SHA512 of a two-byte
// namespace tag and the constructor arguments.
package keylet

import (
	"encoding/binary"

	"github.com/eatozee/xrpld-hooks/hookapi"
)

// Ledger entry type codes.
const (
	TypeAccountRoot    uint16 = 0x0061
	TypeDirNode        uint16 = 0x0064
	TypeRippleState    uint16 = 0x0072
	TypeOffer          uint16 = 0x006F
	TypeSignerList     uint16 = 0x0053
	TypeEscrow         uint16 = 0x0075
	TypePayChan        uint16 = 0x0078
	TypeCheck          uint16 = 0x0043
	TypeDepositPreauth uint16 = 0x0070
	TypeHook           uint16 = 0x0048
	TypeHookState      uint16 = 0x0076
	TypeEmittedTxn     uint16 = 0x0045
	TypeAmendments     uint16 = 0x0066
	TypeFeeSettings    uint16 = 0x0073
	TypeLedgerHashes   uint16 = 0x0068
	TypeNegativeUNL    uint16 = 0x004E
	TypeChild          uint16 = 0x1CD2
	TypeAny            uint16 = 0
)

// Namespace tags feeding the key hash.
const (
	nsAccount        = 'a'
	nsDirNode        = 'd'
	nsOwnerDir       = 'O'
	nsTrustLine      = 'r'
	nsOffer          = 'o'
	nsSkipList       = 's'
	nsAmendments     = 'f'
	nsFees           = 'e'
	nsNegativeUNL    = 'N'
	nsEscrow         = 'u'
	nsPayChan        = 'x'
	nsCheck          = 'C'
	nsDepositPreauth = 'p'
	nsHook           = 'H'
	nsHookState      = 'v'
	nsEmittedTxn     = 'E'
	nsEmittedDir     = 'D'
	nsSignerList     = 'S'
	nsChild          = 'c'
)

// Keylet locates a ledger object.
type Keylet struct {
	Type uint16
	Key  hookapi.Hash
}

// Size is the serialized keylet length.
const Size = 34

// Serialize writes the keylet into dst and returns Size, or TOO_SMALL.
func (k Keylet) Serialize(dst []byte) int64 {
	if len(dst) < Size {
		return hookapi.TOO_SMALL
	}
	binary.BigEndian.PutUint16(dst, k.Type)
	copy(dst[2:], k.Key[:])
	return Size
}

// Bytes returns the 34-byte serialized form.
func (k Keylet) Bytes() []byte {
	out := make([]byte, Size)
	k.Serialize(out)
	return out
}

// Parse reconstructs a keylet from its 34-byte serialized form.
func Parse(b []byte) (Keylet, bool) {
	if len(b) != Size {
		return Keylet{}, false
	}
	var k Keylet
	k.Type = binary.BigEndian.Uint16(b)
	copy(k.Key[:], b[2:])
	return k, true
}

func index(space byte, chunks ...[]byte) hookapi.Hash {
	all := make([][]byte, 0, len(chunks)+1)
	all = append(all, []byte{0, space})
	all = append(all, chunks...)
	return hookapi.Sha512Half(all...)
}

func u32be(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func u64be(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func Account(acct hookapi.AccountID) Keylet {
	return Keylet{TypeAccountRoot, index(nsAccount, acct[:])}
}

func OwnerDir(acct hookapi.AccountID) Keylet {
	return Keylet{TypeDirNode, index(nsOwnerDir, acct[:])}
}

func Hook(acct hookapi.AccountID) Keylet {
	return Keylet{TypeHook, index(nsHook, acct[:])}
}

func Signers(acct hookapi.AccountID) Keylet {
	return Keylet{TypeSignerList, index(nsSignerList, acct[:], u32be(0))}
}

func HookState(acct hookapi.AccountID, key hookapi.Hash) Keylet {
	return Keylet{TypeHookState, index(nsHookState, acct[:], key[:])}
}

func Offer(acct hookapi.AccountID, seq uint32) Keylet {
	return Keylet{TypeOffer, index(nsOffer, acct[:], u32be(seq))}
}

func Check(acct hookapi.AccountID, seq uint32) Keylet {
	return Keylet{TypeCheck, index(nsCheck, acct[:], u32be(seq))}
}

func Escrow(acct hookapi.AccountID, seq uint32) Keylet {
	return Keylet{TypeEscrow, index(nsEscrow, acct[:], u32be(seq))}
}

func PayChan(src, dst hookapi.AccountID, seq uint32) Keylet {
	return Keylet{TypePayChan, index(nsPayChan, src[:], dst[:], u32be(seq))}
}

func DepositPreauth(owner, authorized hookapi.AccountID) Keylet {
	return Keylet{TypeDepositPreauth, index(nsDepositPreauth, owner[:], authorized[:])}
}

// Line orders the two accounts canonically so either direction yields
// the same trust-line object.
func Line(a, b hookapi.AccountID, currency []byte) Keylet {
	lo, hi := a, b
	for i := range lo {
		if lo[i] != hi[i] {
			if lo[i] > hi[i] {
				lo, hi = hi, lo
			}
			break
		}
	}
	return Keylet{TypeRippleState, index(nsTrustLine, lo[:], hi[:], currency)}
}

func Child(key hookapi.Hash) Keylet {
	return Keylet{TypeChild, key}
}

func Unchecked(key hookapi.Hash) Keylet {
	return Keylet{TypeAny, key}
}

func Emitted(id hookapi.Hash) Keylet {
	return Keylet{TypeEmittedTxn, index(nsEmittedTxn, id[:])}
}

func EmittedDir() Keylet {
	return Keylet{TypeDirNode, index(nsEmittedDir)}
}

func Skip() Keylet {
	return Keylet{TypeLedgerHashes, index(nsSkipList)}
}

func SkipAt(ledgerSeq uint32) Keylet {
	return Keylet{TypeLedgerHashes, index(nsSkipList, u32be(ledgerSeq>>16))}
}

func Amendments() Keylet {
	return Keylet{TypeAmendments, index(nsAmendments)}
}

func Fees() Keylet {
	return Keylet{TypeFeeSettings, index(nsFees)}
}

func NegativeUNL() Keylet {
	return Keylet{TypeNegativeUNL, index(nsNegativeUNL)}
}

// Page addresses the index-th node of a directory root.
func Page(root hookapi.Hash, idx uint64) Keylet {
	if idx == 0 {
		return Keylet{TypeDirNode, root}
	}
	return Keylet{TypeDirNode, index(nsDirNode, root[:], u64be(idx))}
}

// Quality rebases a directory keylet so its low 64 bits carry the
// quality argument.
func Quality(dir Keylet, quality uint64) Keylet {
	out := dir
	binary.BigEndian.PutUint64(out.Key[24:], quality)
	return out
}
