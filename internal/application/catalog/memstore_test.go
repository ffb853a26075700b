package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory catalog whose Execute discards every write of
// a failed callback.
type memStore struct {
	mu     sync.Mutex
	nextID shared.ID

	shops         map[shared.ID]catalog.Shop
	categories    map[shared.ID]catalog.Category
	products      map[shared.ID]catalog.Product
	infos         map[shared.ID]catalog.ProductInfo
	params        map[shared.ID]catalog.Parameter
	productParams map[shared.ID]catalog.ProductParameter

	failInfoModel string
}

func newMemStore() *memStore {
	return &memStore{
		shops:         map[shared.ID]catalog.Shop{},
		categories:    map[shared.ID]catalog.Category{},
		products:      map[shared.ID]catalog.Product{},
		infos:         map[shared.ID]catalog.ProductInfo{},
		params:        map[shared.ID]catalog.Parameter{},
		productParams: map[shared.ID]catalog.ProductParameter{},
	}
}

func (s *memStore) id() shared.ID {
	s.nextID++
	return s.nextID
}

func cloneMap[V any](m map[shared.ID]V) map[shared.ID]V {
	out := make(map[shared.ID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shops, categories, products := cloneMap(s.shops), cloneMap(s.categories), cloneMap(s.products)
	infos, params, productParams := cloneMap(s.infos), cloneMap(s.params), cloneMap(s.productParams)
	nextID := s.nextID

	if err := fn(memRepos{s}); err != nil {
		s.shops, s.categories, s.products = shops, categories, products
		s.infos, s.params, s.productParams = infos, params, productParams
		s.nextID = nextID
		return err
	}
	return nil
}

type memRepos struct{ s *memStore }

func (r memRepos) ShopRepo() catalog.ShopRepository         { return memShops{r.s} }
func (r memRepos) CategoryRepo() catalog.CategoryRepository { return memCategories{r.s} }
func (r memRepos) ProductRepo() catalog.ProductRepository   { return memProducts{r.s} }
func (r memRepos) ProductInfoRepo() catalog.ProductInfoRepository {
	return memInfos{r.s}
}
func (r memRepos) ParameterRepo() catalog.ParameterRepository { return memParams{r.s} }
func (r memRepos) ProductParameterRepo() catalog.ProductParameterRepository {
	return memProductParams{r.s}
}

type memShops struct{ s *memStore }

func (r memShops) FindByUserID(_ context.Context, userID shared.ID) (*catalog.Shop, error) {
	for _, shop := range r.s.shops {
		if shop.IsOwnedBy(userID) {
			return &shop, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memShops) ListActive(_ context.Context, _ shared.Page) ([]catalog.Shop, error) {
	var out []catalog.Shop
	for _, shop := range r.s.shops {
		if shop.State {
			out = append(out, shop)
		}
	}
	return out, nil
}

func (r memShops) GetOrCreate(_ context.Context, name string, userID shared.ID) (*catalog.Shop, error) {
	for id, shop := range r.s.shops {
		if shop.Name == name {
			shop.UserID = &userID
			r.s.shops[id] = shop
			return &shop, nil
		}
	}
	shop, err := catalog.NewShop(name, &userID)
	if err != nil {
		return nil, err
	}
	shop.ID = r.s.id()
	stored := *shop
	stored.ClearDomainEvents()
	r.s.shops[shop.ID] = stored
	return shop, nil
}

func (r memShops) LockForUpdate(_ context.Context, _ shared.ID) error { return nil }

// Save stores a copy without the pending events, as a database row would
func (r memShops) Save(_ context.Context, shop *catalog.Shop) error {
	stored := *shop
	stored.ClearDomainEvents()
	r.s.shops[shop.ID] = stored
	return nil
}

type memCategories struct{ s *memStore }

func (r memCategories) List(_ context.Context, _ shared.Page) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r memCategories) GetOrCreate(_ context.Context, id shared.ID, name string) (*catalog.Category, error) {
	if c, ok := r.s.categories[id]; ok && c.Name == name {
		return &c, nil
	}
	c, err := catalog.NewCategory(id, name)
	if err != nil {
		return nil, err
	}
	r.s.categories[id] = *c
	return c, nil
}

func (r memCategories) AddShop(_ context.Context, categoryID, shopID shared.ID) error {
	c := r.s.categories[categoryID]
	if !c.HasShop(shopID) {
		c.ShopIDs = append(append([]shared.ID(nil), c.ShopIDs...), shopID)
	}
	r.s.categories[categoryID] = c
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) GetOrCreate(_ context.Context, name string, categoryID shared.ID) (*catalog.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name && p.CategoryID == categoryID {
			return &p, nil
		}
	}
	p, err := catalog.NewProduct(name, categoryID)
	if err != nil {
		return nil, err
	}
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return p, nil
}

type memInfos struct{ s *memStore }

func (r memInfos) Create(_ context.Context, info *catalog.ProductInfo) error {
	if r.s.failInfoModel != "" && info.Model == r.s.failInfoModel {
		return errInjected
	}
	info.ID = r.s.id()
	r.s.infos[info.ID] = *info
	return nil
}

func (r memInfos) DeleteByShop(_ context.Context, shopID shared.ID) (int64, error) {
	var n int64
	for id, info := range r.s.infos {
		if info.ShopID != shopID {
			continue
		}
		for ppID, pp := range r.s.productParams {
			if pp.ProductInfoID == id {
				delete(r.s.productParams, ppID)
			}
		}
		delete(r.s.infos, id)
		n++
	}
	return n, nil
}

func (r memInfos) List(_ context.Context, filter catalog.ProductInfoFilter) ([]catalog.ProductInfo, error) {
	var out []catalog.ProductInfo
	for _, info := range r.s.infos {
		if filter.ShopID != nil && info.ShopID != *filter.ShopID {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

type memParams struct{ s *memStore }

func (r memParams) GetOrCreate(_ context.Context, name string) (*catalog.Parameter, error) {
	for _, p := range r.s.params {
		if p.Name == name {
			return &p, nil
		}
	}
	p := catalog.Parameter{ID: r.s.id(), Name: name}
	r.s.params[p.ID] = p
	return &p, nil
}

type memProductParams struct{ s *memStore }

func (r memProductParams) Create(_ context.Context, pp *catalog.ProductParameter) error {
	pp.ID = r.s.id()
	r.s.productParams[pp.ID] = *pp
	return nil
}

// memUsers is a read-mostly identity.UserRepository
type memUsers map[shared.ID]*identity.User

func (m memUsers) Create(_ context.Context, u *identity.User) error { m[u.ID] = u; return nil }
func (m memUsers) Update(_ context.Context, u *identity.User) error { m[u.ID] = u; return nil }

func (m memUsers) FindByID(_ context.Context, id shared.ID) (*identity.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}
