// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/bytecodealliance/wasmtime-go/v14"
	"golang.org/x/exp/maps"

	"github.com/eatozee/xrpld-hooks/hook"
)

const hostModuleName = "env"

// hostImports assembles the full host surface for one invocation.
// Every function closes over the same context.
func (r *WasmRuntime) hostImports(ctx *hook.Context) map[string]interface{} {
	all := map[string]interface{}{}
	for _, group := range []map[string]interface{}{
		controlImports(ctx),
		traceImports(ctx, r.log),
		otxnImports(ctx),
		stateImports(ctx, r.metrics),
		slotImports(ctx),
		stoImports(ctx),
		emitImports(ctx, r.metrics),
		floatImports(ctx),
		keyletImports(ctx),
		utilImports(ctx),
	} {
		maps.Copy(all, group)
	}
	return all
}

// newLinker binds the host surface into a linker for one store.
func (r *WasmRuntime) newLinker(store *wasmtime.Store, ctx *hook.Context) (*wasmtime.Linker, error) {
	linker := wasmtime.NewLinker(r.engine)
	for name, fn := range r.hostImports(ctx) {
		if err := linker.DefineFunc(store, hostModuleName, name, fn); err != nil {
			return nil, err
		}
	}
	return linker, nil
}
