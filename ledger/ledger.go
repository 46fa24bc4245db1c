// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is a key-value backed implementation of the ledger
// window the hook runtime needs. It is the reference collaborator for
// tests and the CLI; a production ledger plugs in behind the same
// interface.
package ledger

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/keylet"
)

var _ hook.LedgerView = (*Ledger)(nil)

// key prefixes
const (
	prefixObject  = 'o'
	prefixTx      = 't'
	prefixState   = 's'
	prefixEmitted = 'e'
	prefixAccount = 'a'
)

// emittedDirCapacity bounds the emission directory.
const emittedDirCapacity = 256

// Config fixes the ledger-wide constants.
type Config struct {
	Seq              uint32
	BaseFeeDrops     uint64
	ReserveBase      uint64
	ReserveIncrement uint64
}

// DefaultConfig mirrors common network settings.
func DefaultConfig() Config {
	return Config{
		Seq:              10,
		BaseFeeDrops:     10,
		ReserveBase:      10_000_000,
		ReserveIncrement: 2_000_000,
	}
}

type accountRoot struct {
	balance    uint64
	ownerCount uint32
	stateCount uint32
	stateMax   uint32
}

// Ledger implements hook.LedgerView over a database.
type Ledger struct {
	db  database.Database
	cfg Config

	emittedCount int
	execIndex    uint16
	metas        []hook.ExecMeta
}

func New(db database.Database, cfg Config) *Ledger {
	return &Ledger{db: db, cfg: cfg}
}

func (l *Ledger) Seq() uint32          { return l.cfg.Seq }
func (l *Ledger) BaseFeeDrops() uint64 { return l.cfg.BaseFeeDrops }

func (l *Ledger) ReserveDrops(ownerCount uint32) uint64 {
	return l.cfg.ReserveBase + l.cfg.ReserveIncrement*uint64(ownerCount)
}

func objectKey(kl keylet.Keylet) []byte {
	return append([]byte{prefixObject}, kl.Bytes()...)
}

func stateKey(acct hookapi.AccountID, key hookapi.Hash) []byte {
	out := make([]byte, 0, 1+len(acct)+len(key))
	out = append(out, prefixState)
	out = append(out, acct[:]...)
	return append(out, key[:]...)
}

func accountKey(acct hookapi.AccountID) []byte {
	return append([]byte{prefixAccount}, acct[:]...)
}

// PutObject installs a serialized object at a keylet.
func (l *Ledger) PutObject(kl keylet.Keylet, obj []byte) error {
	return l.db.Put(objectKey(kl), obj)
}

func (l *Ledger) Peek(kl keylet.Keylet) ([]byte, bool) {
	obj, err := l.db.Get(objectKey(kl))
	if err != nil {
		return nil, false
	}
	return obj, true
}

// PutTx records a historic transaction for FetchTx.
func (l *Ledger) PutTx(id hookapi.Hash, tx []byte) error {
	return l.db.Put(append([]byte{prefixTx}, id[:]...), tx)
}

func (l *Ledger) FetchTx(id hookapi.Hash) ([]byte, bool) {
	tx, err := l.db.Get(append([]byte{prefixTx}, id[:]...))
	if err != nil {
		return nil, false
	}
	return tx, true
}

// CreateAccount seeds an account root. stateMax of zero means no hook
// is installed.
func (l *Ledger) CreateAccount(acct hookapi.AccountID, balance uint64, stateMax uint32) error {
	return l.putAccount(acct, accountRoot{balance: balance, stateMax: stateMax})
}

func (l *Ledger) getAccount(acct hookapi.AccountID) (accountRoot, bool) {
	raw, err := l.db.Get(accountKey(acct))
	if err != nil || len(raw) != 20 {
		return accountRoot{}, false
	}
	return accountRoot{
		balance:    binary.BigEndian.Uint64(raw),
		ownerCount: binary.BigEndian.Uint32(raw[8:]),
		stateCount: binary.BigEndian.Uint32(raw[12:]),
		stateMax:   binary.BigEndian.Uint32(raw[16:]),
	}, true
}

func (l *Ledger) putAccount(acct hookapi.AccountID, root accountRoot) error {
	raw := make([]byte, 20)
	binary.BigEndian.PutUint64(raw, root.balance)
	binary.BigEndian.PutUint32(raw[8:], root.ownerCount)
	binary.BigEndian.PutUint32(raw[12:], root.stateCount)
	binary.BigEndian.PutUint32(raw[16:], root.stateMax)
	return l.db.Put(accountKey(acct), raw)
}

func (l *Ledger) BalanceDrops(acct hookapi.AccountID) uint64 {
	root, _ := l.getAccount(acct)
	return root.balance
}

func (l *Ledger) OwnerCount(acct hookapi.AccountID) uint32 {
	root, _ := l.getAccount(acct)
	return root.ownerCount
}

func (l *Ledger) AdjustOwnerCount(acct hookapi.AccountID, delta int32) {
	root, ok := l.getAccount(acct)
	if !ok {
		return
	}
	if delta < 0 && root.ownerCount < uint32(-delta) {
		root.ownerCount = 0
	} else {
		root.ownerCount = uint32(int64(root.ownerCount) + int64(delta))
	}
	_ = l.putAccount(acct, root)
}

func (l *Ledger) HookStateDataMaxSize(acct hookapi.AccountID) uint32 {
	root, _ := l.getAccount(acct)
	return root.stateMax
}

func (l *Ledger) HookStateCount(acct hookapi.AccountID) uint32 {
	root, _ := l.getAccount(acct)
	return root.stateCount
}

func (l *Ledger) SetHookStateCount(acct hookapi.AccountID, count uint32) {
	root, ok := l.getAccount(acct)
	if !ok {
		return
	}
	root.stateCount = count
	_ = l.putAccount(acct, root)
}

func (l *Ledger) StateGet(acct hookapi.AccountID, key hookapi.Hash) ([]byte, bool) {
	value, err := l.db.Get(stateKey(acct, key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (l *Ledger) StateInsert(acct hookapi.AccountID, key hookapi.Hash, value []byte) error {
	return l.db.Put(stateKey(acct, key), value)
}

func (l *Ledger) StateErase(acct hookapi.AccountID, key hookapi.Hash) error {
	has, err := l.db.Has(stateKey(acct, key))
	if err != nil {
		return err
	}
	if !has {
		return hook.ErrNotFound
	}
	return l.db.Delete(stateKey(acct, key))
}

func (l *Ledger) EmittedInsert(id hookapi.Hash, tx []byte) error {
	emittedKey := append([]byte{prefixEmitted}, id[:]...)
	has, err := l.db.Has(emittedKey)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	if l.emittedCount >= emittedDirCapacity {
		return hook.ErrDirFull
	}
	if err := l.db.Put(emittedKey, tx); err != nil {
		return err
	}
	l.emittedCount++
	return nil
}

func (l *Ledger) EmittedErase(id hookapi.Hash) error {
	emittedKey := append([]byte{prefixEmitted}, id[:]...)
	has, err := l.db.Has(emittedKey)
	if err != nil {
		return err
	}
	if !has {
		return hook.ErrNotFound
	}
	if err := l.db.Delete(emittedKey); err != nil {
		return err
	}
	if l.emittedCount > 0 {
		l.emittedCount--
	}
	return nil
}

// EmittedGet exposes a queued emission for inspection.
func (l *Ledger) EmittedGet(id hookapi.Hash) ([]byte, bool) {
	tx, err := l.db.Get(append([]byte{prefixEmitted}, id[:]...))
	if err != nil {
		return nil, false
	}
	return tx, true
}

func (l *Ledger) NextHookExecutionIndex() uint16 {
	idx := l.execIndex
	l.execIndex++
	return idx
}

func (l *Ledger) AddHookMeta(meta hook.ExecMeta) {
	l.metas = append(l.metas, meta)
}

// Metas returns the execution records appended so far.
func (l *Ledger) Metas() []hook.ExecMeta { return l.metas }

// IsNotFound reports whether err is the database's missing-key error.
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
