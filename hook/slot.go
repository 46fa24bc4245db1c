// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hook

import (
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/hookfloat"
	"github.com/eatozee/xrpld-hooks/keylet"
	"github.com/eatozee/xrpld-hooks/sto"
)

// slotEntry holds a loaded object plus a path of descents into it.
// The path is re-walked on access so a sub-cursor can never dangle.
type slotEntry struct {
	id   []byte
	root []byte
	path []sto.Step
}

func (s *slotEntry) cursor() (sto.Cursor, int64) {
	return sto.Root(s.root).Walk(s.path)
}

func (s *slotEntry) clone() *slotEntry {
	cp := &slotEntry{id: s.id, root: s.root}
	cp.path = append([]sto.Step{}, s.path...)
	return cp
}

func (c *Context) noFreeSlots() bool {
	return c.slotCounter > hookapi.MaxSlots && len(c.slotFree) == 0
}

func (c *Context) freeSlot() int32 {
	if len(c.slotFree) > 0 {
		n := c.slotFree[0]
		c.slotFree = c.slotFree[1:]
		return n
	}
	n := c.slotCounter
	c.slotCounter++
	return n
}

// SlotSet loads a ledger object (34-byte keylet) or a transaction
// (32-byte id) into a slot. A zero slot number allocates one.
func (c *Context) SlotSet(id []byte, slotInto int32) int64 {
	if (len(id) != 32 && len(id) != 34) || slotInto < 0 || slotInto > hookapi.MaxSlots {
		return hookapi.INVALID_ARGUMENT
	}
	if slotInto == 0 && c.noFreeSlots() {
		return hookapi.NO_FREE_SLOTS
	}

	var root []byte
	switch len(id) {
	case 34:
		kl, ok := keylet.Parse(id)
		if !ok {
			return hookapi.DOESNT_EXIST
		}
		obj, ok := c.view.Peek(kl)
		if !ok {
			return hookapi.DOESNT_EXIST
		}
		root = obj
	case 32:
		hash, _ := hookapi.HashFromBytes(id)
		tx, ok := c.view.FetchTx(hash)
		if !ok {
			return hookapi.DOESNT_EXIST
		}
		root = tx
	}

	if slotInto == 0 {
		slotInto = c.freeSlot()
	}
	c.slots[slotInto] = &slotEntry{
		id:   append([]byte{}, id...),
		root: root,
	}
	return int64(slotInto)
}

// OtxnSlot places the originating transaction into a slot.
func (c *Context) OtxnSlot(slotInto int32) int64 {
	if slotInto < 0 || slotInto > hookapi.MaxSlots {
		return hookapi.INVALID_ARGUMENT
	}
	if slotInto == 0 && c.noFreeSlots() {
		return hookapi.NO_FREE_SLOTS
	}
	if slotInto == 0 {
		slotInto = c.freeSlot()
	}
	c.slots[slotInto] = &slotEntry{
		id:   append([]byte{}, c.otxnID[:]...),
		root: c.otxn,
	}
	return int64(slotInto)
}

// SlotBytes serializes the slotted node.
func (c *Context) SlotBytes(slotNo int32) ([]byte, int64) {
	entry, ok := c.slots[slotNo]
	if !ok {
		return nil, hookapi.DOESNT_EXIST
	}
	cur, code := entry.cursor()
	if code != 0 {
		return nil, hookapi.INTERNAL_ERROR
	}
	b := cur.Bytes()
	return b, int64(len(b))
}

// SlotSize reports the serialized length without serializing.
func (c *Context) SlotSize(slotNo int32) int64 {
	entry, ok := c.slots[slotNo]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	cur, code := entry.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	return cur.Size()
}

// SlotID returns the identifier bytes the slot was loaded by.
func (c *Context) SlotID(slotNo int32) ([]byte, int64) {
	entry, ok := c.slots[slotNo]
	if !ok {
		return nil, hookapi.DOESNT_EXIST
	}
	return entry.id, int64(len(entry.id))
}

// SlotClear drops a slot and recycles its number.
func (c *Context) SlotClear(slotNo int32) int64 {
	if _, ok := c.slots[slotNo]; !ok {
		return hookapi.DOESNT_EXIST
	}
	delete(c.slots, slotNo)
	c.slotFree = append(c.slotFree, slotNo)
	return 1
}

// SlotCount returns the element count of a slotted array.
func (c *Context) SlotCount(slotNo int32) int64 {
	entry, ok := c.slots[slotNo]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	cur, code := entry.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	return cur.Count()
}

// SlotSubfield descends to a named field of the slotted object,
// sharing the parent's underlying object.
func (c *Context) SlotSubfield(parentSlot int32, fieldID uint32, newSlot int32) int64 {
	if newSlot < 0 || newSlot > hookapi.MaxSlots {
		return hookapi.INVALID_ARGUMENT
	}
	parent, ok := c.slots[parentSlot]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	if newSlot == 0 && c.noFreeSlots() {
		return hookapi.NO_FREE_SLOTS
	}
	if fieldID>>16 == 0 || fieldID>>16 > 19 {
		return hookapi.INVALID_FIELD
	}

	cur, code := parent.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	if _, code := cur.Descend(fieldID); code != 0 {
		return code
	}

	if newSlot == 0 {
		newSlot = c.freeSlot()
	}
	entry := parent
	if newSlot != parentSlot {
		entry = parent.clone()
		c.slots[newSlot] = entry
	}
	entry.path = append(entry.path, sto.Step{Field: fieldID})
	return int64(newSlot)
}

// SlotSubarray descends to the index-th element of a slotted array.
func (c *Context) SlotSubarray(parentSlot int32, index uint32, newSlot int32) int64 {
	if newSlot < 0 || newSlot > hookapi.MaxSlots {
		return hookapi.INVALID_ARGUMENT
	}
	parent, ok := c.slots[parentSlot]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	if newSlot == 0 && c.noFreeSlots() {
		return hookapi.NO_FREE_SLOTS
	}

	cur, code := parent.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	if !cur.IsArray() {
		return hookapi.NOT_AN_ARRAY
	}
	if _, code := cur.DescendIndex(index); code != 0 {
		return code
	}

	if newSlot == 0 {
		newSlot = c.freeSlot()
	}
	entry := parent
	if newSlot != parentSlot {
		entry = parent.clone()
		c.slots[newSlot] = entry
	}
	entry.path = append(entry.path, sto.Step{Index: index, IsIndex: true})
	return int64(newSlot)
}

// SlotType reports the field code of the slotted node, or with flag 1
// whether an amount slot holds the native form (1) or an issued one
// (0).
func (c *Context) SlotType(slotNo int32, flags uint32) int64 {
	entry, ok := c.slots[slotNo]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	cur, code := entry.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	switch flags {
	case 0:
		return int64(cur.FieldCode())
	case 1:
		if !cur.IsAmount() {
			return hookapi.NOT_AN_AMOUNT
		}
		if cur.Native() {
			return 1
		}
		return 0
	}
	return hookapi.INVALID_ARGUMENT
}

// SlotFloat converts a slotted amount into the hook float encoding.
func (c *Context) SlotFloat(slotNo int32) int64 {
	entry, ok := c.slots[slotNo]
	if !ok {
		return hookapi.DOESNT_EXIST
	}
	cur, code := entry.cursor()
	if code != 0 {
		return hookapi.INTERNAL_ERROR
	}
	if !cur.IsAmount() {
		return hookapi.NOT_AN_AMOUNT
	}
	b := cur.Bytes()
	if len(b) < 8 {
		return hookapi.NOT_AN_AMOUNT
	}
	// the value always leads; issued amounts carry currency and
	// issuer after it
	return hookfloat.StoSet(b[:8])
}
