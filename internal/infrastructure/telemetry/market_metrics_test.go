package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*MarketMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMarketMetrics(provider.Meter(meterName))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByOutcome(t *testing.T, m metricdata.Metrics) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outcome"))
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestMarketMetrics_RecordPriceListImport(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordPriceListImport(ctx, 14, nil)
	m.RecordPriceListImport(ctx, 3, nil)
	m.RecordPriceListImport(ctx, 0, errors.New("fetch failed"))

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"success": 2, "failure": 1}, sumByOutcome(t, metrics["market.pricelist.imports"]))

	goods := metrics["market.pricelist.goods"].Data.(metricdata.Sum[int64])
	require.Len(t, goods.DataPoints, 1)
	assert.Equal(t, int64(17), goods.DataPoints[0].Value)
}

func TestMarketMetrics_RecordOrderPlaced(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOrderPlaced(ctx, decimal.NewFromInt(350))
	m.RecordOrderPlaced(ctx, decimal.RequireFromString("99.50"))

	metrics := collect(t, reader)
	placed := metrics["market.orders.placed"].Data.(metricdata.Sum[int64])
	require.Len(t, placed.DataPoints, 1)
	assert.Equal(t, int64(2), placed.DataPoints[0].Value)

	value := metrics["market.orders.value"].Data.(metricdata.Histogram[float64])
	require.Len(t, value.DataPoints, 1)
	assert.Equal(t, uint64(2), value.DataPoints[0].Count)
	assert.InDelta(t, 449.5, value.DataPoints[0].Sum, 0.001)
}

func TestMarketMetrics_RecordEmail(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordEmail(ctx, "order_status", nil)
	m.RecordEmail(ctx, "confirm_email", errors.New("smtp down"))

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"success": 1, "failure": 1}, sumByOutcome(t, metrics["market.emails"]))
}
