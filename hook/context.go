// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import (
	"encoding/binary"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/keylet"
	"github.com/eatozee/xrpld-hooks/sto"
)

// ExitType classifies how an invocation ended.
type ExitType uint8

const (
	ExitAccept ExitType = iota
	ExitRollback
	ExitWasmError
)

func (e ExitType) String() string {
	switch e {
	case ExitAccept:
		return "ACCEPT"
	case ExitRollback:
		return "ROLLBACK"
	default:
		return "WASM_ERROR"
	}
}

// stateEntry is one cached hook-state value. Dirty entries are staged
// writes; clean entries are read-through cache fills.
type stateEntry struct {
	dirty bool
	value []byte
}

// Result carries everything the commit step needs once the guest has
// returned.
type Result struct {
	HookSetTxnID hookapi.Hash
	HookHash     hookapi.Hash
	Account      hookapi.AccountID
	OtxnAccount  hookapi.AccountID

	AccountKeylet  keylet.Keylet
	OwnerDirKeylet keylet.Keylet
	HookKeylet     keylet.Keylet

	ExitType         ExitType
	ExitReason       string
	ExitCode         int64
	InstructionCount uint64

	emittedTxn   [][]byte
	changedState map[hookapi.Hash]*stateEntry
	stateOrder   []hookapi.Hash
}

// EmittedCount reports how many transactions the run queued.
func (r *Result) EmittedCount() int { return len(r.emittedTxn) }

// Context is the per-invocation working set. Every host function sees
// exactly one Context, captured by the registration closure.
type Context struct {
	log  logging.Logger
	view LedgerView

	Result Result

	otxn   []byte
	otxnID hookapi.Hash

	slots       map[int32]*slotEntry
	slotFree    []int32
	slotCounter int32

	expectedEtxnCount int64
	nonceCounter      uint32
	nonces            set.Set[hookapi.Hash]
	feeBase           uint64
	burden            uint64
	generation        uint32

	guards map[uint32]uint32

	terminated bool
}

// NewContext builds a fresh working set for one invocation.
func NewContext(
	log logging.Logger,
	view LedgerView,
	hookSetTxnID hookapi.Hash,
	hookHash hookapi.Hash,
	account hookapi.AccountID,
	otxn []byte,
	otxnID hookapi.Hash,
) *Context {
	ctx := &Context{
		log:  log,
		view: view,
		Result: Result{
			HookSetTxnID:   hookSetTxnID,
			HookHash:       hookHash,
			Account:        account,
			AccountKeylet:  keylet.Account(account),
			OwnerDirKeylet: keylet.OwnerDir(account),
			HookKeylet:     keylet.Hook(account),
			ExitType:       ExitRollback,
			ExitCode:       -1,
			changedState:   map[hookapi.Hash]*stateEntry{},
		},
		otxn:              otxn,
		otxnID:            otxnID,
		slots:             map[int32]*slotEntry{},
		slotCounter:       1,
		expectedEtxnCount: -1,
		nonces:            set.NewSet[hookapi.Hash](4),
		guards:            map[uint32]uint32{},
	}
	if acct, code := ctx.OtxnField(hookapi.SfAccount); code > 0 {
		ctx.Result.OtxnAccount, _ = hookapi.AccountIDFromBytes(acct)
	}
	return ctx
}

// Terminated reports whether accept, rollback or a guard violation
// already ended the run.
func (c *Context) Terminated() bool { return c.terminated }

// View exposes the ledger window (read-only use by the host surface).
func (c *Context) View() LedgerView { return c.view }

// Log is the invocation logger.
func (c *Context) Log() logging.Logger { return c.log }

// HookAccount is the account the hook is installed on.
func (c *Context) HookAccount() hookapi.AccountID { return c.Result.Account }

// HookHash is the content hash of the running hook.
func (c *Context) HookHash() hookapi.Hash { return c.Result.HookHash }

// LedgerSeq is the sequence the originating transaction executes in.
func (c *Context) LedgerSeq() int64 { return int64(c.view.Seq()) }

// FeeBase is the ledger's reference fee scaled by the hook margin.
func (c *Context) FeeBase() int64 {
	return int64(c.view.BaseFeeDrops() * hookapi.FeeBaseMulNum / hookapi.FeeBaseMulDen)
}

// Exit records the terminal state and returns the terminal code the
// host function hands back to the guest.
func (c *Context) Exit(reason string, code int64, exit ExitType) int64 {
	if len(reason) > 64 {
		reason = reason[:64]
	}
	c.Result.ExitReason = reason
	c.Result.ExitCode = code
	c.Result.ExitType = exit
	c.terminated = true
	if exit == ExitAccept {
		return hookapi.RC_ACCEPT
	}
	return hookapi.RC_ROLLBACK
}

// Guard meters a loop back-edge: the (maxItr+1)-th visit of id forces
// a rollback.
func (c *Context) Guard(id, maxItr uint32) int64 {
	c.guards[id]++
	if c.guards[id] <= maxItr {
		return 1
	}
	if id > 0xFFFF {
		c.log.Debug("guard violation",
			zap.Uint32("srcLine", id&0xFFFF),
			zap.Uint32("macroLine", id>>16),
			zap.Uint32("iterations", c.guards[id]),
		)
	} else {
		c.log.Debug("guard violation",
			zap.Uint32("srcLine", id),
			zap.Uint32("iterations", c.guards[id]),
		)
	}
	c.Result.ExitType = ExitRollback
	c.Result.ExitCode = hookapi.GUARD_VIOLATION
	c.terminated = true
	return hookapi.RC_ROLLBACK
}

// OtxnID returns the originating transaction's id.
func (c *Context) OtxnID() hookapi.Hash { return c.otxnID }

// OtxnBytes is the originating transaction's serialized form.
func (c *Context) OtxnBytes() []byte { return c.otxn }

// OtxnType reads the transaction type field.
func (c *Context) OtxnType() int64 {
	payload, code := c.OtxnField(hookapi.SfTransactionType)
	if code < 0 {
		return code
	}
	if len(payload) != 2 {
		return hookapi.INTERNAL_ERROR
	}
	return int64(binary.BigEndian.Uint16(payload))
}

// OtxnField resolves a field of the originating transaction and
// returns its serialized payload (account fields arrive without their
// length prefix). Non-negative return is the payload length.
func (c *Context) OtxnField(fieldID uint32) ([]byte, int64) {
	if fieldID>>16 == 0 || fieldID>>16 > 19 {
		return nil, hookapi.INVALID_FIELD
	}
	cur, code := sto.Root(c.otxn).Descend(fieldID)
	if code != 0 {
		return nil, code
	}
	b := cur.Bytes()
	return b, int64(len(b))
}

// OtxnFieldText renders a field of the originating transaction as
// text.
func (c *Context) OtxnFieldText(fieldID uint32) ([]byte, int64) {
	if fieldID>>16 == 0 || fieldID>>16 > 19 {
		return nil, hookapi.INVALID_FIELD
	}
	cur, code := sto.Root(c.otxn).Descend(fieldID)
	if code != 0 {
		return nil, code
	}
	out := []byte(sto.FieldText(cur.TypeCode(), cur.Bytes()))
	return out, int64(len(out))
}

// OtxnBurden is the burden carried into this invocation: 1 unless the
// originating transaction was itself emitted.
func (c *Context) OtxnBurden() int64 {
	if c.burden != 0 {
		return int64(c.burden)
	}
	details, code := c.otxnEmitDetails()
	if code != 0 {
		return 1
	}
	res := sto.Subfield(details, hookapi.SfEmitBurden)
	if res < 0 {
		c.log.Warn("EmitDetails present without EmitBurden")
		return 1
	}
	off, length := int(res>>32), int(uint32(res))
	if length != 8 {
		return 1
	}
	burden := binary.BigEndian.Uint64(details[off:off+8]) & (1<<63 - 1)
	c.burden = burden
	return int64(burden)
}

// OtxnGeneration is the emission depth of the originating
// transaction, with non-emitted originators at 1.
func (c *Context) OtxnGeneration() int64 {
	if c.generation != 0 {
		return int64(c.generation)
	}
	details, code := c.otxnEmitDetails()
	if code != 0 {
		return 1
	}
	res := sto.Subfield(details, hookapi.SfEmitGeneration)
	if res < 0 {
		c.log.Warn("EmitDetails present without EmitGeneration")
		return 1
	}
	off, length := int(res>>32), int(uint32(res))
	if length != 4 {
		return 1
	}
	gen := binary.BigEndian.Uint32(details[off : off+4])
	if gen+1 > gen {
		gen++
	}
	c.generation = gen
	return int64(gen)
}

func (c *Context) otxnEmitDetails() ([]byte, int64) {
	res := sto.Subfield(c.otxn, hookapi.SfEmitDetails)
	if res < 0 {
		return nil, res
	}
	off, length := int(res>>32), int(uint32(res))
	return c.otxn[off : off+length], 0
}

// IsEmittedTxn reports whether the originating transaction carries
// emit details.
func (c *Context) IsEmittedTxn() bool {
	_, code := c.otxnEmitDetails()
	return code == 0
}

// DataAsInt64 interprets up to eight bytes as a big-endian integer
// the way host functions do when handed a zero-length destination.
func DataAsInt64(data []byte) int64 {
	if len(data) > 8 {
		return hookapi.TOO_BIG
	}
	var out uint64
	for _, b := range data {
		out = out<<8 | uint64(b)
	}
	if out&(1<<63) != 0 {
		return hookapi.TOO_BIG
	}
	return int64(out)
}
