// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hook executes ledger hook programs: it owns the
// per-invocation context the host functions mutate, validates the
// side effects a program stages, and commits them on accept.
package hook

import (
	"errors"

	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/keylet"
)

var (
	ErrNotFound = errors.New("object not found")
	ErrDirFull  = errors.New("directory full")
)

// LedgerView is the runtime's window onto the ledger. Reads may happen
// at any time during execution; mutations happen only during commit.
type LedgerView interface {
	// Seq is the sequence the current transaction will land in.
	Seq() uint32
	// BaseFeeDrops is the reference transaction cost.
	BaseFeeDrops() uint64
	// ReserveDrops is the reserve requirement at an owner count.
	ReserveDrops(ownerCount uint32) uint64

	// Peek fetches the serialized object a keylet addresses.
	Peek(kl keylet.Keylet) ([]byte, bool)
	// FetchTx fetches a historic transaction by id.
	FetchTx(id hookapi.Hash) ([]byte, bool)

	BalanceDrops(acct hookapi.AccountID) uint64
	OwnerCount(acct hookapi.AccountID) uint32
	AdjustOwnerCount(acct hookapi.AccountID, delta int32)

	// HookStateDataMaxSize is the per-hook value cap; zero means no
	// hook is installed on the account.
	HookStateDataMaxSize(acct hookapi.AccountID) uint32
	HookStateCount(acct hookapi.AccountID) uint32
	SetHookStateCount(acct hookapi.AccountID, count uint32)

	StateGet(acct hookapi.AccountID, key hookapi.Hash) ([]byte, bool)
	StateInsert(acct hookapi.AccountID, key hookapi.Hash, value []byte) error
	StateErase(acct hookapi.AccountID, key hookapi.Hash) error

	// EmittedInsert files an emitted transaction in the emitted
	// directory; ErrDirFull when the directory cannot take it.
	EmittedInsert(id hookapi.Hash, tx []byte) error
	EmittedErase(id hookapi.Hash) error

	NextHookExecutionIndex() uint16
	AddHookMeta(meta ExecMeta)
}

// ExecMeta is the execution record appended for every invocation.
type ExecMeta struct {
	Result           ExitType
	HookHash         hookapi.Hash
	Account          hookapi.AccountID
	ReturnCode       uint64
	ReturnString     []byte
	InstructionCount uint64
	EmitCount        uint16
	ExecutionIndex   uint16
	StateChangeCount uint16
}
