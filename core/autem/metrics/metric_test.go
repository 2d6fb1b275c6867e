package metrics

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/types"
)

var factory = common.HexToAddress("0xB7e495092749dE8D30CA30B91e437E15e399Ef69")

func TestObserve(t *testing.T) {
	t.Parallel()

	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	c.Observe(&types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		Logs: []*types.Log{
			{Address: common.Address{0x1}, Topics: []common.Hash{contracts.SetupEventID}},
			{Address: factory, Topics: []common.Hash{contracts.CreatedEventID, {}, {}, {}}},
			// Created from anything but the factory is not a trust creation.
			{Address: common.Address{0x2}, Topics: []common.Hash{contracts.CreatedEventID}},
			{Address: common.Address{0x1}, Topics: []common.Hash{contracts.PingEventID}},
			{Address: common.Address{0x1}},
		},
	}, factory)
	c.Observe(&types.Receipt{Status: types.ReceiptStatusFailed, RevertData: contracts.EncodeReason(contracts.ReasonStillLocked)}, factory)
	c.Observe(&types.Receipt{Status: types.ReceiptStatusFailed, RevertData: contracts.EncodeReason(contracts.ReasonStillLocked)}, factory)
	c.Observe(&types.Receipt{Status: types.ReceiptStatusFailed}, factory)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.txCounter.WithLabelValues(statusSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.txCounter.WithLabelValues(statusFailed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.revertCounter.WithLabelValues(contracts.ReasonStillLocked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.revertCounter.WithLabelValues(reasonOther)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.createdCounter))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pingCounter))
}

func TestObserveCall(t *testing.T) {
	t.Parallel()

	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	c.ObserveCall("autem_create", time.Now(), nil)
	c.ObserveCall("autem_create", time.Now(), assert.AnError)

	assert.Equal(t, 2, testutil.CollectAndCount(c.apiLatency))
}

func TestRegisterCollectorTwice(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	assert.Same(t, first.createdCounter, second.createdCounter)
}

func TestRegisterCollectorWrongType(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autem_transactions_total",
		Help: "A counter for transactions sealed by the chain.",
	}, []string{labelStatus})))

	_, err := NewCollector(reg)
	assert.ErrorIs(t, err, ErrWrongMetricType)
}
