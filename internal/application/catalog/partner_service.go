package catalog

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PartnerService handles the seller side of the catalog: price-list
// ingestion and the shop's order intake switch
type PartnerService struct {
	userRepo  identity.UserRepository
	shopRepo  catalog.ShopRepository
	txScope   TransactionScope
	fetcher   PriceListFetcher
	parser    PriceListParser
	archiver  PriceListArchiver
	publisher shared.EventPublisher
	metrics   IngestionMetrics
	logger    *zap.Logger
}

// PartnerServiceOption configures optional collaborators
type PartnerServiceOption func(*PartnerService)

// WithArchiver stores every fetched document before it is imported
func WithArchiver(a PriceListArchiver) PartnerServiceOption {
	return func(s *PartnerService) { s.archiver = a }
}

// WithIngestionMetrics records import outcomes
func WithIngestionMetrics(m IngestionMetrics) PartnerServiceOption {
	return func(s *PartnerService) { s.metrics = m }
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	userRepo identity.UserRepository,
	shopRepo catalog.ShopRepository,
	txScope TransactionScope,
	fetcher PriceListFetcher,
	parser PriceListParser,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...PartnerServiceOption,
) *PartnerService {
	s := &PartnerService{
		userRepo:  userRepo,
		shopRepo:  shopRepo,
		txScope:   txScope,
		fetcher:   fetcher,
		parser:    parser,
		publisher: publisher,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdatePriceList downloads the document at rawURL and replaces the
// caller's shop catalog with it. The whole replacement runs in one
// transaction; a failure leaves the previous catalog in place.
func (s *PartnerService) UpdatePriceList(ctx context.Context, userID shared.ID, rawURL string) (*IngestResult, error) {
	if _, err := s.requireShop(ctx, userID); err != nil {
		return nil, err
	}

	result, err := s.ingest(ctx, userID, rawURL)
	if s.metrics != nil {
		goods := 0
		if result != nil {
			goods = result.Goods
		}
		s.metrics.RecordPriceListImport(ctx, goods, err)
	}
	return result, err
}

func (s *PartnerService) ingest(ctx context.Context, userID shared.ID, rawURL string) (*IngestResult, error) {
	data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	s.archive(ctx, doc.Shop, data)

	var shop *catalog.Shop
	result := &IngestResult{Categories: len(doc.Categories), Goods: len(doc.Goods), Parameters: doc.ParameterCount()}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		shop, txErr = replaceCatalog(ctx, repos, userID, rawURL, doc)
		return txErr
	})
	if err != nil {
		s.logger.Warn("price list import failed",
			zap.Uint64("user_id", userID),
			zap.String("url", rawURL),
			zap.Error(err))
		return nil, err
	}
	result.ShopID = shop.ID

	event := catalog.NewPriceListImportedEvent(shop, result.Categories, result.Goods, result.Parameters)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish price list event", zap.Uint64("shop_id", shop.ID), zap.Error(err))
	}
	s.logger.Info("price list imported",
		zap.Uint64("shop_id", shop.ID),
		zap.String("shop", shop.Name),
		zap.Int("categories", result.Categories),
		zap.Int("goods", result.Goods),
		zap.Int("parameters", result.Parameters))
	return result, nil
}

// replaceCatalog applies a parsed document inside a transaction
func replaceCatalog(ctx context.Context, repos TransactionalRepositories, userID shared.ID, rawURL string, doc *catalog.PriceList) (*catalog.Shop, error) {
	shop, err := repos.ShopRepo().GetOrCreate(ctx, doc.Shop, userID)
	if err != nil {
		return nil, err
	}
	if err := repos.ShopRepo().LockForUpdate(ctx, shop.ID); err != nil {
		return nil, err
	}
	shop.SetURL(rawURL)
	if err := repos.ShopRepo().Save(ctx, shop); err != nil {
		return nil, err
	}

	for _, c := range doc.Categories {
		category, err := repos.CategoryRepo().GetOrCreate(ctx, c.ID, c.Name)
		if err != nil {
			return nil, err
		}
		if err := repos.CategoryRepo().AddShop(ctx, category.ID, shop.ID); err != nil {
			return nil, err
		}
	}

	if _, err := repos.ProductInfoRepo().DeleteByShop(ctx, shop.ID); err != nil {
		return nil, err
	}

	for _, g := range doc.Goods {
		product, err := repos.ProductRepo().GetOrCreate(ctx, g.Name, g.Category)
		if err != nil {
			return nil, err
		}
		info, err := catalog.NewProductInfo(product.ID, shop.ID, g.ExternalID, g.Model, g.Quantity, g.Price, g.PriceRRC)
		if err != nil {
			return nil, err
		}
		if err := repos.ProductInfoRepo().Create(ctx, info); err != nil {
			return nil, err
		}
		for _, p := range g.Parameters {
			param, err := repos.ParameterRepo().GetOrCreate(ctx, p.Name)
			if err != nil {
				return nil, err
			}
			pp := &catalog.ProductParameter{ProductInfoID: info.ID, ParameterID: param.ID, Value: p.Value}
			if err := repos.ProductParameterRepo().Create(ctx, pp); err != nil {
				return nil, err
			}
		}
	}
	return shop, nil
}

func (s *PartnerService) archive(ctx context.Context, shopName string, data []byte) {
	if s.archiver == nil {
		return
	}
	key, err := s.archiver.Archive(ctx, shopName, data)
	if err != nil {
		s.logger.Warn("failed to archive price list", zap.String("shop", shopName), zap.Error(err))
		return
	}
	s.logger.Debug("price list archived", zap.String("key", key))
}

// GetState returns the caller's shop
func (s *PartnerService) GetState(ctx context.Context, userID shared.ID) (*ShopResponse, error) {
	if _, err := s.requireShop(ctx, userID); err != nil {
		return nil, err
	}
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// SetState switches order intake of the caller's shop. raw accepts the
// usual boolean spellings (yes/no, on/off, 1/0, ...).
func (s *PartnerService) SetState(ctx context.Context, userID shared.ID, raw string) error {
	if _, err := s.requireShop(ctx, userID); err != nil {
		return err
	}
	state, err := catalog.ParseStateFlag(raw)
	if err != nil {
		return err
	}
	shop, err := s.shopRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	shop.SetState(state)
	if err := s.shopRepo.Save(ctx, shop); err != nil {
		return err
	}
	if events := shop.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish shop events", zap.Uint64("shop_id", shop.ID), zap.Error(err))
		}
		shop.ClearDomainEvents()
	}
	return nil
}

func (s *PartnerService) requireShop(ctx context.Context, userID shared.ID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsShop() {
		return nil, identity.ErrShopsOnly
	}
	return user, nil
}
