package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/marketplace/backend"

// MarketMetrics records marketplace business events: price-list imports,
// placed orders and email deliveries.
type MarketMetrics struct {
	imports     metric.Int64Counter
	goods       metric.Int64Counter
	ordersCount metric.Int64Counter
	orderValue  metric.Float64Histogram
	emails      metric.Int64Counter
}

// NewMarketMetrics creates the instruments on the given meter
func NewMarketMetrics(meter metric.Meter) (*MarketMetrics, error) {
	m := &MarketMetrics{}
	var err error

	if m.imports, err = meter.Int64Counter("market.pricelist.imports",
		metric.WithDescription("Price-list import attempts"),
		metric.WithUnit("{import}")); err != nil {
		return nil, fmt.Errorf("failed to create imports counter: %w", err)
	}
	if m.goods, err = meter.Int64Counter("market.pricelist.goods",
		metric.WithDescription("Goods loaded by successful imports"),
		metric.WithUnit("{good}")); err != nil {
		return nil, fmt.Errorf("failed to create goods counter: %w", err)
	}
	if m.ordersCount, err = meter.Int64Counter("market.orders.placed",
		metric.WithDescription("Orders moved out of the basket"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	if m.orderValue, err = meter.Float64Histogram("market.orders.value",
		metric.WithDescription("Total of placed orders"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 5000, 10000, 50000, 100000, 500000)); err != nil {
		return nil, fmt.Errorf("failed to create order value histogram: %w", err)
	}
	if m.emails, err = meter.Int64Counter("market.emails",
		metric.WithDescription("Email send attempts"),
		metric.WithUnit("{email}")); err != nil {
		return nil, fmt.Errorf("failed to create emails counter: %w", err)
	}
	return m, nil
}

// RecordPriceListImport counts one import attempt
func (m *MarketMetrics) RecordPriceListImport(ctx context.Context, goods int, err error) {
	m.imports.Add(ctx, 1, metric.WithAttributes(outcome(err)))
	if err == nil {
		m.goods.Add(ctx, int64(goods))
	}
}

// RecordOrderPlaced counts a checkout and records its total
func (m *MarketMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal) {
	m.ordersCount.Add(ctx, 1)
	m.orderValue.Record(ctx, total.InexactFloat64())
}

// RecordEmail counts one send attempt by task kind
func (m *MarketMetrics) RecordEmail(ctx context.Context, kind string, err error) {
	m.emails.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind), outcome(err)))
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "failure")
	}
	return attribute.String("outcome", "success")
}
