// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "github.com/bytecodealliance/wasmtime-go/v14"

const (
	defaultMaxWasmStack   = 256 * 1024 * 1024 // 256 MiB
	defaultFuelMetering   = true
	defaultLimitMaxMemory = 16 * 64 * 1024 // 16 pages
	defaultMeterMaxUnits  = 10_000_000
)

// NewConfigBuilder starts a Config with the defaults the hook engine
// runs under.
func NewConfigBuilder() *builder {
	return &builder{
		maxWasmStack:   defaultMaxWasmStack,
		limitMaxMemory: defaultLimitMaxMemory,
		meterMaxUnits:  defaultMeterMaxUnits,
	}
}

type builder struct {
	maxWasmStack   int
	limitMaxMemory int64
	meterMaxUnits  uint64
	defaultCache   bool
}

// Config carries the engine settings plus store limits.
type Config struct {
	wasmConfig *wasmtime.Config

	limitMaxMemory int64
	meterMaxUnits  uint64
}

// WithMaxWasmStack defines the maximum amount of stack space available
// for executing WebAssembly code.
//
// Default is 256 MiB.
func (b *builder) WithMaxWasmStack(max int) *builder {
	b.maxWasmStack = max
	return b
}

// WithLimitMaxMemory defines the maximum number of bytes of linear
// memory a guest may use. Each page represents 64KiB of memory.
func (b *builder) WithLimitMaxMemory(max int64) *builder {
	b.limitMaxMemory = max
	return b
}

// WithMeterMaxUnits defines the fuel budget for one invocation.
func (b *builder) WithMeterMaxUnits(max uint64) *builder {
	b.meterMaxUnits = max
	return b
}

// WithDefaultCache enables the default module caching strategy.
func (b *builder) WithDefaultCache(enabled bool) *builder {
	b.defaultCache = enabled
	return b
}

func (b *builder) Build() (*Config, error) {
	cfg := defaultWasmtimeConfig()
	cfg.SetMaxWasmStack(b.maxWasmStack)
	if b.defaultCache {
		if err := cfg.CacheConfigLoadDefault(); err != nil {
			return nil, err
		}
	}
	return &Config{
		wasmConfig:     cfg,
		limitMaxMemory: b.limitMaxMemory,
		meterMaxUnits:  b.meterMaxUnits,
	}, nil
}

// non-configurable defaults
func defaultWasmtimeConfig() *wasmtime.Config {
	cfg := wasmtime.NewConfig()
	cfg.SetCraneliftOptLevel(wasmtime.OptLevelSpeedAndSize)
	cfg.SetConsumeFuel(defaultFuelMetering)
	cfg.SetWasmThreads(false)
	cfg.SetWasmMultiMemory(false)
	cfg.SetWasmMemory64(false)
	cfg.SetStrategy(wasmtime.StrategyCranelift)
	cfg.SetCraneliftFlag("enable_nan_canonicalization", "true")
	return cfg
}
