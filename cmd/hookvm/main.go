// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// hookvm runs a compiled hook program against a throwaway in-memory
// ledger. It exists for developing and debugging hook programs
// without a network.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/eatozee/xrpld-hooks/hook"
	"github.com/eatozee/xrpld-hooks/hookapi"
	"github.com/eatozee/xrpld-hooks/ledger"
	"github.com/eatozee/xrpld-hooks/runtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hookvm:", err)
		os.Exit(1)
	}
}

func run() error {
	parser := argparse.NewParser("hookvm", "run a hook program against a fresh ledger")
	hookPath := parser.String("w", "wasm", &argparse.Options{
		Required: true,
		Help:     "path to the compiled hook program",
	})
	txnPath := parser.String("t", "txn", &argparse.Options{
		Help: "path to a serialized originating transaction; a minimal payment is synthesized when omitted",
	})
	accountHex := parser.String("a", "account", &argparse.Options{
		Default: "a1a2a3a4a5a6a7a8a9aaabacadaeafb0b1b2b3b4",
		Help:    "hex account id the hook is installed on",
	})
	callback := parser.Flag("c", "callback", &argparse.Options{
		Help: "invoke the cbak entry point instead of hook",
	})
	verbose := parser.Flag("v", "verbose", &argparse.Options{
		Help: "log at debug level (shows guest trace output)",
	})
	if err := parser.Parse(os.Args); err != nil {
		return err
	}

	level := logging.Info
	if *verbose {
		level = logging.Debug
	}
	logFactory := logging.NewFactory(logging.Config{
		DisplayLevel: level,
		LogLevel:     level,
	})
	log, err := logFactory.Make("hookvm")
	if err != nil {
		return err
	}
	defer logFactory.Close()

	code, err := os.ReadFile(*hookPath)
	if err != nil {
		return err
	}

	acctBytes, err := hex.DecodeString(*accountHex)
	if err != nil {
		return fmt.Errorf("bad account id: %w", err)
	}
	account, ok := hookapi.AccountIDFromBytes(acctBytes)
	if !ok {
		return fmt.Errorf("account id must be 20 bytes")
	}

	var otxn []byte
	if *txnPath != "" {
		otxn, err = os.ReadFile(*txnPath)
		if err != nil {
			return err
		}
	} else {
		otxn = synthesizedPayment(account)
	}

	l := ledger.New(memdb.New(), ledger.DefaultConfig())
	if err := l.CreateAccount(account, 100_000_000, hookapi.MaxStateDataSize); err != nil {
		return err
	}

	cfg, err := runtime.NewConfigBuilder().Build()
	if err != nil {
		return err
	}
	vm, err := runtime.New(cfg, log, nil)
	if err != nil {
		return err
	}

	res := hook.Apply(log, l, vm, hook.ApplyParams{
		HookHash: hookapi.Sha512Half(code),
		Code:     code,
		Account:  account,
		Otxn:     otxn,
		OtxnID:   hook.TxID(otxn),
		Callback: *callback,
	})

	if !*callback {
		mode := hook.CommitRemove
		if res.ExitType == hook.ExitAccept {
			mode |= hook.CommitApply
		}
		hook.Commit(log, l, res, otxn, hook.TxID(otxn), mode)
	}

	fmt.Printf("exit:         %s\n", res.ExitType)
	fmt.Printf("code:         %d\n", res.ExitCode)
	fmt.Printf("reason:       %q\n", res.ExitReason)
	fmt.Printf("instructions: %d\n", res.InstructionCount)
	for _, meta := range l.Metas() {
		fmt.Printf("meta: exec=%d emits=%d stateChanges=%d\n",
			meta.ExecutionIndex, meta.EmitCount, meta.StateChangeCount)
	}
	return nil
}

// synthesizedPayment is the default originating transaction: an
// outgoing payment from the hook account.
func synthesizedPayment(account hookapi.AccountID) []byte {
	var out []byte
	out = append(out, 0x12, 0, 0) // TransactionType: payment
	seq := make([]byte, 5)
	seq[0] = 0x24
	binary.BigEndian.PutUint32(seq[1:], 1)
	out = append(out, seq...)
	fee := make([]byte, 9)
	fee[0] = 0x68
	binary.BigEndian.PutUint64(fee[1:], 10|1<<62)
	out = append(out, fee...)
	out = append(out, 0x73, 0) // empty SigningPubKey
	out = append(out, 0x81, 20)
	out = append(out, account[:]...)
	return out
}
