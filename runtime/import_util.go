// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"crypto/sha256"

	"github.com/bytecodealliance/wasmtime-go/v14"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/hdevalence/ed25519consensus"
	"github.com/mr-tron/base58"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
)

// rippleAlphabet is the base58 dialect account addresses use.
var rippleAlphabet = base58.NewAlphabet(
	"rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// accountTokenType prefixes an encoded account id.
const accountTokenType = 0x00

// maxRAddrLen bounds the decodable address length.
const maxRAddrLen = 49

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

func encodeAccountID(acct []byte) string {
	payload := append([]byte{accountTokenType}, acct...)
	payload = append(payload, checksum(payload)...)
	return base58.EncodeAlphabet(payload, rippleAlphabet)
}

func decodeAccountID(raddr string) ([]byte, bool) {
	payload, err := base58.DecodeAlphabet(raddr, rippleAlphabet)
	if err != nil || len(payload) != 25 || payload[0] != accountTokenType {
		return nil, false
	}
	expect := checksum(payload[:21])
	for i := range expect {
		if payload[21+i] != expect[i] {
			return nil, false
		}
	}
	return payload[1:21], true
}

// verifySignature checks either key flavor using the key-type prefix
// convention: 0xED tags an ed25519 key, anything else is treated as a
// compressed secp256k1 key over the half-SHA512 digest.
func verifySignature(key, data, sig []byte) bool {
	if len(key) == 33 && key[0] == 0xED {
		if len(sig) != 64 {
			return false
		}
		return ed25519consensus.Verify(key[1:], data, sig)
	}
	pub, err := secp256k1.ParsePubKey(key)
	if err != nil {
		return false
	}
	parsed, err := secpecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := hookapi.Sha512Half(data)
	return parsed.Verify(digest[:], pub)
}

// utilImports is the utility surface: hashing, signature checks and
// address codecs.
func utilImports(_ *hook.Context) map[string]interface{} {
	return map[string]interface{}{
		"util_sha512h": func(caller *wasmtime.Caller, writePtr, writeLen, readPtr, readLen int32) int64 {
			mem := guestMemory(caller)
			if writeLen < 32 {
				return hookapi.TOO_SMALL
			}
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) ||
				!inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			hash := hookapi.Sha512Half(mem[uint32(readPtr) : uint32(readPtr)+uint32(readLen)])
			return writeGuest(mem, uint32(writePtr), 32, hash[:])
		},

		"util_raddr": func(caller *wasmtime.Caller, writePtr, writeLen, readPtr, readLen int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) ||
				!inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			if readLen != 20 {
				return hookapi.INVALID_ARGUMENT
			}
			raddr := encodeAccountID(mem[uint32(readPtr) : uint32(readPtr)+20])
			if len(raddr) > int(uint32(writeLen)) {
				return hookapi.TOO_SMALL
			}
			return writeGuest(mem, uint32(writePtr), uint32(writeLen), []byte(raddr))
		},

		"util_accid": func(caller *wasmtime.Caller, writePtr, writeLen, readPtr, readLen int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(writePtr), uint32(writeLen)) ||
				!inBounds(len(mem), uint32(readPtr), uint32(readLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			if writeLen < 20 {
				return hookapi.TOO_SMALL
			}
			if readLen > maxRAddrLen {
				return hookapi.TOO_BIG
			}
			acct, ok := decodeAccountID(string(mem[uint32(readPtr) : uint32(readPtr)+uint32(readLen)]))
			if !ok {
				return hookapi.INVALID_ARGUMENT
			}
			return writeGuest(mem, uint32(writePtr), uint32(writeLen), acct)
		},

		"util_verify": func(caller *wasmtime.Caller, dreadPtr, dreadLen, sreadPtr, sreadLen, kreadPtr, kreadLen int32) int64 {
			mem := guestMemory(caller)
			if !inBounds(len(mem), uint32(dreadPtr), uint32(dreadLen)) ||
				!inBounds(len(mem), uint32(sreadPtr), uint32(sreadLen)) ||
				!inBounds(len(mem), uint32(kreadPtr), uint32(kreadLen)) {
				return hookapi.OUT_OF_BOUNDS
			}
			data := mem[uint32(dreadPtr) : uint32(dreadPtr)+uint32(dreadLen)]
			sig := mem[uint32(sreadPtr) : uint32(sreadPtr)+uint32(sreadLen)]
			key := mem[uint32(kreadPtr) : uint32(kreadPtr)+uint32(kreadLen)]
			if verifySignature(key, data, sig) {
				return 1
			}
			return 0
		},
	}
}
