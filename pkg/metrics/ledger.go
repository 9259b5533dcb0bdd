package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records counters for work order lifecycle and ledger activity.
type LedgerMetrics struct {
	transitions  *prometheus.CounterVec
	movements    *prometheus.CounterVec
	txDuration   *prometheus.HistogramVec
	conflicts    prometheus.Counter
	insufficient prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "work_order_transitions_total",
		Help: "Work order status transitions by from/to status.",
	}, []string{"from", "to"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock movements recorded by direction.",
	}, []string{"direction"})
	txDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_tx_duration_seconds",
		Help:    "Duration of ledger transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "work_order_version_conflicts_total",
		Help: "Optimistic concurrency conflicts on work order writes.",
	})
	insufficient := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_insufficient_total",
		Help: "Stock movements rejected for insufficient quantity.",
	})
	reg.MustRegister(transitions, movements, txDuration, conflicts, insufficient)
	return &LedgerMetrics{
		transitions:  transitions,
		movements:    movements,
		txDuration:   txDuration,
		conflicts:    conflicts,
		insufficient: insufficient,
	}
}

// IncTransition increments the transition counter for a from/to status pair.
func (m *LedgerMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncMovement increments the stock movement counter for the direction.
func (m *LedgerMetrics) IncMovement(direction string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(direction)).Inc()
}

// ObserveTxDuration records how long a named ledger transaction took.
func (m *LedgerMetrics) ObserveTxDuration(operation string, duration time.Duration) {
	if m == nil || m.txDuration == nil {
		return
	}
	m.txDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncConflict increments the optimistic concurrency conflict counter.
func (m *LedgerMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

// IncInsufficientStock increments the rejected movement counter.
func (m *LedgerMetrics) IncInsufficientStock() {
	if m == nil || m.insufficient == nil {
		return
	}
	m.insufficient.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
