package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
// All repository operations inside Execute are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error from fn
	// rolls the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the catalog repositories bound to one transaction.
type TransactionalRepositories interface {
	ShopRepo() catalog.ShopRepository
	CategoryRepo() catalog.CategoryRepository
	ProductRepo() catalog.ProductRepository
	ProductInfoRepo() catalog.ProductInfoRepository
	ParameterRepo() catalog.ParameterRepository
	ProductParameterRepo() catalog.ProductParameterRepository
}
