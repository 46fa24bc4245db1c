// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime hosts hook programs in a wasmtime engine and wires
// the host-call surface they import. Each invocation gets its own
// store, fuel budget and linker; host functions close over the
// invocation's context so no state leaks between runs.
package runtime

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/bytecodealliance/wasmtime-go/v14"
	"go.uber.org/zap"

	"github.com/eatozee/xrpld-hooks/hook"
)

var (
	ErrMissingExportedFunction = errors.New("failed to find hook entry point")

	_ hook.VM = (*WasmRuntime)(nil)
)

// WasmRuntime compiles and runs hook programs.
type WasmRuntime struct {
	log     logging.Logger
	cfg     *Config
	engine  *wasmtime.Engine
	metrics *metrics
}

// New builds a runtime from a Config. reg may be nil to skip metric
// registration.
func New(cfg *Config, log logging.Logger, reg metricsRegisterer) (*WasmRuntime, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &WasmRuntime{
		log:     log,
		cfg:     cfg,
		engine:  wasmtime.NewEngineWithConfig(cfg.wasmConfig),
		metrics: m,
	}, nil
}

// Execute runs the named entry point ("hook" or "cbak") of a compiled
// program against one invocation context and reports the metered
// instruction count.
func (r *WasmRuntime) Execute(ctx *hook.Context, code []byte, entry string) (uint64, error) {
	module, err := wasmtime.NewModule(r.engine, code)
	if err != nil {
		return 0, fmt.Errorf("compiling wasm module: %w", err)
	}

	store := wasmtime.NewStore(r.engine)
	store.Limiter(r.cfg.limitMaxMemory, -1, -1, -1, -1)
	if err := store.AddFuel(r.cfg.meterMaxUnits); err != nil {
		return 0, err
	}

	linker, err := r.newLinker(store, ctx)
	if err != nil {
		return 0, err
	}

	inst, err := linker.Instantiate(store, module)
	if err != nil {
		return 0, fmt.Errorf("instantiating wasm module: %w", err)
	}

	fn := inst.GetFunc(store, entry)
	if fn == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingExportedFunction, entry)
	}

	r.metrics.executions.Inc()
	_, callErr := fn.Call(store, int64(0))
	consumed, _ := store.FuelConsumed()
	r.metrics.fuelConsumed.Add(float64(consumed))
	if callErr != nil {
		r.metrics.traps.Inc()
		r.log.Debug("guest call returned error",
			zap.String("entry", entry),
			zap.Error(callErr),
		)
	}
	return consumed, callErr
}
