// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package compiler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespaceQuill     = "quill"
	subsystemCompiler  = "compiler"
	programKindNote    = "note"
	programKindScript  = "tx_script"
	labelKind          = "kind"
	labelResult        = "result"
	labelReason        = "reason"
	resultCompatible   = "compatible"
	resultIncompatible = "incompatible"
)

// Metrics observes the work of a transaction compiler.
type Metrics interface {
	// ProgramVerified tracks the outcome of a compatibility check.
	ProgramVerified(kind string, compatible bool)
	// CompatibilityAnalysis tracks whether the result of a compatibility
	// check was served from the cache.
	CompatibilityAnalysis(cached bool)
	// TransactionCompiled tracks a successfully compiled transaction.
	TransactionCompiled(duration time.Duration, notes int)
	// TransactionRejected tracks a transaction failing to compile.
	TransactionRejected(reason string)
}

type NoopMetrics struct{}

func (NoopMetrics) ProgramVerified(string, bool)           {}
func (NoopMetrics) CompatibilityAnalysis(bool)             {}
func (NoopMetrics) TransactionCompiled(time.Duration, int) {}
func (NoopMetrics) TransactionRejected(string)             {}

// Collector reports compiler metrics to prometheus.
type Collector struct {
	verifications   *prometheus.CounterVec
	verifyCacheHits prometheus.Counter
	verifyAnalyses  prometheus.Counter
	compiled        prometheus.Counter
	rejected        *prometheus.CounterVec
	duration        prometheus.Histogram
	notes           prometheus.Histogram
}

var _ Metrics = (*Collector)(nil)

// NewCollector creates a collector registering its metrics with the given
// registerer.
func NewCollector(registerer prometheus.Registerer) *Collector {
	factory := promauto.With(registerer)
	return &Collector{
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "program_verifications_total",
			Help:      "number of compatibility checks of programs against account interfaces",
		}, []string{labelKind, labelResult}),
		verifyCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "compatibility_cache_hits_total",
			Help:      "number of compatibility checks served from the cache",
		}),
		verifyAnalyses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "compatibility_analyses_total",
			Help:      "number of requested compatibility checks",
		}),
		compiled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "transactions_compiled_total",
			Help:      "number of successfully compiled transactions",
		}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "transactions_rejected_total",
			Help:      "number of transactions failing to compile",
		}, []string{labelReason}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "transaction_compile_seconds",
			Help:      "time spent compiling a transaction",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		notes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceQuill,
			Subsystem: subsystemCompiler,
			Name:      "transaction_notes",
			Help:      "number of notes consumed per compiled transaction",
			Buckets:   prometheus.LinearBuckets(0, 4, 8),
		}),
	}
}

func (c *Collector) ProgramVerified(kind string, compatible bool) {
	result := resultCompatible
	if !compatible {
		result = resultIncompatible
	}
	c.verifications.WithLabelValues(kind, result).Inc()
}

func (c *Collector) CompatibilityAnalysis(cached bool) {
	c.verifyAnalyses.Inc()
	if cached {
		c.verifyCacheHits.Inc()
	}
}

func (c *Collector) TransactionCompiled(duration time.Duration, notes int) {
	c.compiled.Inc()
	c.duration.Observe(duration.Seconds())
	c.notes.Observe(float64(notes))
}

func (c *Collector) TransactionRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}
