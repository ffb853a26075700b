package persistence

import (
	"context"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements the catalog TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ShopRepo() catalog.ShopRepository {
	return NewGormShopRepository(r.tx)
}

func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductInfoRepo() catalog.ProductInfoRepository {
	return NewGormProductInfoRepository(r.tx)
}

func (r *gormTransactionalRepositories) ParameterRepo() catalog.ParameterRepository {
	return NewGormParameterRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductParameterRepo() catalog.ProductParameterRepository {
	return NewGormProductParameterRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appcatalog.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appcatalog.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
