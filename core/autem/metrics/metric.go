package metrics

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/types"
)

const (
	labelStatus = "status"
	labelReason = "reason"
	labelMethod = "method"

	statusSuccess = "success"
	statusFailed  = "failed"

	reasonOther = "other"
)

type Collector struct {
	txCounter      *prometheus.CounterVec
	revertCounter  *prometheus.CounterVec
	createdCounter prometheus.Counter
	pingCounter    prometheus.Counter
	apiLatency     *prometheus.HistogramVec
}

func NewCollector(prom prometheus.Registerer) (*Collector, error) {
	txCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autem_transactions_total",
			Help: "A counter for transactions sealed by the chain.",
		},
		[]string{labelStatus},
	)

	revertCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autem_reverts_total",
			Help: "A counter for reverted transactions by revert reason.",
		},
		[]string{labelReason},
	)

	createdCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autem_trusts_created_total",
			Help: "A counter for trusts created by the factory.",
		},
	)

	pingCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "autem_pings_total",
			Help: "A counter for timer renewals of trusts.",
		},
	)

	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autem_api_latency_seconds",
		Help:    "Latency of the autem API methods",
		Buckets: prometheus.DefBuckets,
	}, []string{labelMethod, labelStatus})

	// Register the collectors
	var err error
	if txCounter, err = registerCollector(prom, txCounter); err != nil {
		return nil, err
	}
	if revertCounter, err = registerCollector(prom, revertCounter); err != nil {
		return nil, err
	}
	if createdCounter, err = registerCollector(prom, createdCounter); err != nil {
		return nil, err
	}
	if pingCounter, err = registerCollector(prom, pingCounter); err != nil {
		return nil, err
	}
	if apiLatency, err = registerCollector(prom, apiLatency); err != nil {
		return nil, err
	}

	return &Collector{
		txCounter:      txCounter,
		revertCounter:  revertCounter,
		createdCounter: createdCounter,
		pingCounter:    pingCounter,
		apiLatency:     apiLatency,
	}, nil
}

// Observe accounts for a sealed transaction. factory is the address whose
// Created logs count as trust creations.
func (c *Collector) Observe(receipt *types.Receipt, factory common.Address) {
	if !receipt.Succeeded() {
		c.txCounter.With(prometheus.Labels{labelStatus: statusFailed}).Inc()
		reason, ok := contracts.Reason(contracts.ErrorFromRevert(receipt.RevertData))
		if !ok {
			reason = reasonOther
		}
		c.revertCounter.With(prometheus.Labels{labelReason: reason}).Inc()
		return
	}
	c.txCounter.With(prometheus.Labels{labelStatus: statusSuccess}).Inc()
	for _, l := range receipt.Logs {
		if len(l.Topics) == 0 {
			continue
		}
		switch {
		case l.Topics[0] == contracts.CreatedEventID && l.Address == factory:
			c.createdCounter.Inc()
		case l.Topics[0] == contracts.PingEventID:
			c.pingCounter.Inc()
		}
	}
}

// ObserveCall records the latency of an API method.
func (c *Collector) ObserveCall(method string, started time.Time, err error) {
	status := statusSuccess
	if err != nil {
		status = statusFailed
	}
	c.apiLatency.With(prometheus.Labels{labelMethod: method, labelStatus: status}).Observe(time.Since(started).Seconds())
}

var ErrWrongMetricType = errors.New("collector already registered with different type")

// registerCollector registers a Prometheus collector and returns the registered collector or an error
func registerCollector[T prometheus.Collector](prom prometheus.Registerer, c T) (T, error) {
	err := prom.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, err
	}

	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, ErrWrongMetricType
	}

	return existing, nil
}
