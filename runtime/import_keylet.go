// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/keylet"
)

// keyletImports exposes the typed keylet constructors as one host
// call; the keylet type selects the constructor and a..f carry its
// arguments as (pointer, length) pairs or raw integers.
func keyletImports(_ *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"util_keylet": func(caller *wasmtime.Caller, writePtr, writeLen, keyletType, a, b, c, d, e, f int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			if writeLen < keylet.Size {
				return hookapi.TOO_SMALL
			}
			if keyletType < hookapi.KeyletHook || keyletType > hookapi.KeyletPayChan {
				return hookapi.INVALID_ARGUMENT
			}

			readAcct := func(ptr, length int32) (hookapi.AccountID, int64) {
				var acct hookapi.AccountID
				buf, ok := readGuest(mem, uint32(ptr), uint32(length))
				if !ok {
					return acct, hookapi.OUT_OF_BOUNDS
				}
				if length != 20 {
					return acct, hookapi.INVALID_ARGUMENT
				}
				copy(acct[:], buf)
				return acct, 0
			}
			readHash := func(ptr, length int32) (hookapi.Hash, int64) {
				var h hookapi.Hash
				buf, ok := readGuest(mem, uint32(ptr), uint32(length))
				if !ok {
					return h, hookapi.OUT_OF_BOUNDS
				}
				if length != 32 {
					return h, hookapi.INVALID_ARGUMENT
				}
				copy(h[:], buf)
				return h, 0
			}
			allZero := func(vs ...int32) bool {
				for _, v := range vs {
					if v != 0 {
						return false
					}
				}
				return true
			}

			var kl keylet.Keylet
			switch keyletType {

			// a 20-byte account id
			case hookapi.KeyletAccount, hookapi.KeyletHook,
				hookapi.KeyletSigners, hookapi.KeyletOwnerDir:
				if a == 0 || b == 0 || !allZero(c, d, e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				acct, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				switch keyletType {
				case hookapi.KeyletHook:
					kl = keylet.Hook(acct)
				case hookapi.KeyletSigners:
					kl = keylet.Signers(acct)
				case hookapi.KeyletOwnerDir:
					kl = keylet.OwnerDir(acct)
				default:
					kl = keylet.Account(acct)
				}

			// a 20-byte account id and a 4-byte sequence
			case hookapi.KeyletOffer, hookapi.KeyletCheck, hookapi.KeyletEscrow:
				if a == 0 || b == 0 || c == 0 || !allZero(d, e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				acct, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				switch keyletType {
				case hookapi.KeyletCheck:
					kl = keylet.Check(acct, uint32(c))
				case hookapi.KeyletEscrow:
					kl = keylet.Escrow(acct, uint32(c))
				default:
					kl = keylet.Offer(acct, uint32(c))
				}

			// a 32-byte key
			case hookapi.KeyletChild, hookapi.KeyletEmitted, hookapi.KeyletUnchecked:
				if a == 0 || b == 0 || !allZero(c, d, e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				key, code := readHash(a, b)
				if code != 0 {
					return code
				}
				switch keyletType {
				case hookapi.KeyletChild:
					kl = keylet.Child(key)
				case hookapi.KeyletEmitted:
					kl = keylet.Emitted(key)
				default:
					kl = keylet.Unchecked(key)
				}

			// a 20-byte account id and a 32-byte key
			case hookapi.KeyletHookState:
				if a == 0 || b == 0 || c == 0 || d == 0 || !allZero(e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				acct, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				key, code := readHash(c, d)
				if code != 0 {
					return code
				}
				kl = keylet.HookState(acct, key)

			// a 34-byte keylet and an 8-byte argument
			case hookapi.KeyletQuality:
				if a == 0 || b == 0 || c == 0 || d == 0 || !allZero(e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				buf, ok := readGuest(mem, uint32(a), uint32(b))
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
				if b != keylet.Size {
					return hookapi.INVALID_ARGUMENT
				}
				dir, ok := keylet.Parse(buf)
				if !ok {
					return hookapi.NO_SUCH_KEYLET
				}
				kl = keylet.Quality(dir, uint64(uint32(c))<<32|uint64(uint32(d)))

			// a 32-byte key and an 8-byte index
			case hookapi.KeyletPage:
				if a == 0 || b == 0 || c == 0 || d == 0 || !allZero(e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				key, code := readHash(a, b)
				if code != 0 {
					return code
				}
				kl = keylet.Page(key, uint64(uint32(c))<<32|uint64(uint32(d)))

			// two 20-byte account ids and a 20-byte currency
			case hookapi.KeyletLine:
				if a == 0 || b == 0 || c == 0 || d == 0 || e == 0 || f == 0 {
					return hookapi.INVALID_ARGUMENT
				}
				hi, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				lo, code := readAcct(c, d)
				if code != 0 {
					return code
				}
				currency, ok := readGuest(mem, uint32(e), uint32(f))
				if !ok {
					return hookapi.OUT_OF_BOUNDS
				}
				if f != 20 {
					return hookapi.INVALID_ARGUMENT
				}
				kl = keylet.Line(hi, lo, currency)

			// two 20-byte account ids
			case hookapi.KeyletDepositPreauth:
				if a == 0 || b == 0 || c == 0 || d == 0 || !allZero(e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				owner, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				authorized, code := readAcct(c, d)
				if code != 0 {
					return code
				}
				kl = keylet.DepositPreauth(owner, authorized)

			// two 20-byte account ids and a 4-byte sequence
			case hookapi.KeyletPayChan:
				if a == 0 || b == 0 || c == 0 || d == 0 || e == 0 || f != 0 {
					return hookapi.INVALID_ARGUMENT
				}
				src, code := readAcct(a, b)
				if code != 0 {
					return code
				}
				dst, code := readAcct(c, d)
				if code != 0 {
					return code
				}
				kl = keylet.PayChan(src, dst, uint32(e))

			// an optional 4-byte ledger sequence
			case hookapi.KeyletSkip:
				if !allZero(c, d, e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				if b == 0 {
					kl = keylet.Skip()
				} else {
					kl = keylet.SkipAt(uint32(a))
				}

			// no arguments
			case hookapi.KeyletAmendments, hookapi.KeyletFees,
				hookapi.KeyletNegativeUNL, hookapi.KeyletEmittedDir:
				if !allZero(a, b, c, d, e, f) {
					return hookapi.INVALID_ARGUMENT
				}
				switch keyletType {
				case hookapi.KeyletAmendments:
					kl = keylet.Amendments()
				case hookapi.KeyletFees:
					kl = keylet.Fees()
				case hookapi.KeyletNegativeUNL:
					kl = keylet.NegativeUNL()
				default:
					kl = keylet.EmittedDir()
				}

			default:
				return hookapi.NO_SUCH_KEYLET
			}

			return kl.Serialize(mem[uint32(writePtr) : uint32(writePtr)+uint32(writeLen)])
		},
	}
}
