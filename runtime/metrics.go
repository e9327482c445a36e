package runtime

import (
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/swap/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments a ledger. A nil *Metrics records nothing.
type Metrics struct {
	transactions *prometheus.CounterVec
	instructions *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics creates the ledger collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swap",
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Transactions executed by the ledger, by result code.",
		}, []string{"code"}),
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swap",
			Subsystem: "ledger",
			Name:      "instructions_total",
			Help:      "Instructions processed, including cross program calls, by program.",
		}, []string{"program"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "swap",
			Subsystem: "ledger",
			Name:      "transaction_duration_seconds",
			Help:      "Time spent executing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	reg.MustRegister(m.transactions, m.instructions, m.duration)
	return m
}

func (m *Metrics) transaction(d time.Duration, err error) {
	if m == nil {
		return
	}
	code := errors.Code(err)
	m.transactions.WithLabelValues(codeLabel(code)).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) instruction(programID solana.PublicKey) {
	if m == nil {
		return
	}
	m.instructions.WithLabelValues(programID.String()).Inc()
}

func codeLabel(code uint32) string {
	if code == errors.SuccessCode {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
