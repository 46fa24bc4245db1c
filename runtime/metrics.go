// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "github.com/prometheus/client_golang/prometheus"

type metricsRegisterer = prometheus.Registerer

type metrics struct {
	executions   prometheus.Counter
	traps        prometheus.Counter
	fuelConsumed prometheus.Counter
	emitted      prometheus.Counter
	stateWrites  prometheus.Counter
}

func newMetrics(reg metricsRegisterer) (*metrics, error) {
	m := &metrics{
		executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hooks",
			Name:      "executions",
			Help:      "number of hook invocations started",
		}),
		traps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hooks",
			Name:      "traps",
			Help:      "number of invocations that ended in an engine trap",
		}),
		fuelConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hooks",
			Name:      "fuel_consumed",
			Help:      "total fuel units metered across invocations",
		}),
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hooks",
			Name:      "emitted_txns",
			Help:      "transactions accepted by the emit host call",
		}),
		stateWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hooks",
			Name:      "state_writes",
			Help:      "state writes staged by the state_set host call",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.executions, m.traps, m.fuelConsumed, m.emitted, m.stateWrites,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
