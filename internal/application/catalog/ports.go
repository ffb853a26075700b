package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// PriceListFetcher downloads a price-list document
type PriceListFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// PriceListParser decodes a downloaded document
type PriceListParser interface {
	Parse(data []byte) (*catalog.PriceList, error)
}

// PriceListArchiver keeps a copy of each fetched document
type PriceListArchiver interface {
	Archive(ctx context.Context, shopName string, data []byte) (string, error)
}

// IngestionMetrics records price-list import outcomes
type IngestionMetrics interface {
	RecordPriceListImport(ctx context.Context, goods int, err error)
}
