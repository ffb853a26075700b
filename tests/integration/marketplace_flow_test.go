package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	notificationapp "github.com/marketplace/backend/internal/application/notification"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/pricelist"
	"github.com/marketplace/backend/internal/infrastructure/queue"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/marketplace/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const priceListYAML = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": 6.5
      "Цвет": золотистый
  - id: 4672670
    category: 15
    model: apple/case
    name: Чехол
    price: 1500
    price_rrc: 1990
    quantity: 3
`

type testApp struct {
	handler http.Handler
	queue   *queue.MemoryTaskQueue
}

// newTestApp wires the HTTP API the way the server does, with the
// in-memory email queue left undrained so tests can read the mail.
func newTestApp(t *testing.T, tdb *TestDB) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(tdb.DB)
	contactRepo := persistence.NewGormContactRepository(tdb.DB)
	shopRepo := persistence.NewGormShopRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)

	taskQueue := queue.NewMemoryTaskQueue(3)
	t.Cleanup(taskQueue.Close)

	bus := event.NewInMemoryEventBus(log)
	dispatcher := notificationapp.NewDispatcher(userRepo, taskQueue, log)
	bus.Subscribe(dispatcher, dispatcher.EventTypes()...)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	jwt := auth.NewJWTService(config.JWTConfig{Secret: "integration-secret", AccessTokenExpiration: time.Hour, Issuer: "market-test"})
	accounts := identityapp.NewAccountService(userRepo,
		persistence.NewGormConfirmEmailTokenRepository(tdb.DB),
		persistence.NewGormPasswordResetTokenRepository(tdb.DB),
		contactRepo, jwt, bus, identityapp.DefaultAccountServiceConfig(), log)
	partners := catalogapp.NewPartnerService(userRepo, shopRepo, persistence.NewGormTransactionScope(tdb.DB),
		pricelist.NewHTTPFetcher(config.PriceListConfig{FetchTimeout: 5 * time.Second}), pricelist.NewYAMLParser(), bus, log)
	orders := tradeapp.NewOrderService(orderRepo, contactRepo, userRepo, shopRepo, bus, nil, log)

	engine := gin.New()
	engine.Use(middleware.Authenticate(jwt))
	router.NewRouter(engine).Register(router.Marketplace(router.Handlers{
		User:    handler.NewUserHandler(accounts),
		Contact: handler.NewContactHandler(identityapp.NewContactService(contactRepo)),
		Partner: handler.NewPartnerHandler(partners, orders),
		Catalog: handler.NewCatalogHandler(catalogapp.NewQueryService(shopRepo,
			persistence.NewGormCategoryRepository(tdb.DB), persistence.NewGormProductInfoRepository(tdb.DB))),
		Basket: handler.NewBasketHandler(tradeapp.NewBasketService(orderRepo, persistence.NewGormOrderItemRepository(tdb.DB), log)),
		Order:  handler.NewOrderHandler(orders),
	}, router.Guards{
		Auth: middleware.RequireAuth(),
		Shop: middleware.RequireShop(),
	})...).Setup()

	return &testApp{handler: engine, queue: taskQueue}
}

// nextMail waits for the next queued email
func (a *testApp) nextMail(t *testing.T) notification.Task {
	t.Helper()
	d, err := a.queue.Receive(testutil.ContextWithTimeout(t, 5*time.Second))
	require.NoError(t, err, "no email was queued")
	require.NoError(t, a.queue.Ack(context.Background(), d))
	return d.Task
}

// signUp registers, confirms and logs in an account
func (a *testApp) signUp(t *testing.T, email, userType string) *testutil.APIClient {
	t.Helper()
	client := testutil.NewAPIClient(t, a.handler)

	testutil.AssertOK(t, client.JSON(http.MethodPost, "/api/v1/user/register", map[string]string{
		"first_name": "Анна", "last_name": "Петрова", "email": email, "password": testPassword,
		"company": "Ромашка", "position": "менеджер", "type": userType,
	}))

	mail := a.nextMail(t)
	require.Equal(t, notification.TaskKindConfirmEmail, mail.Kind)
	require.Equal(t, email, mail.To)
	key := mail.Body[strings.LastIndex(mail.Body, " ")+1:]

	testutil.AssertFail(t, client.JSON(http.MethodPost, "/api/v1/user/login",
		map[string]string{"email": email, "password": testPassword}), http.StatusBadRequest)

	testutil.AssertOK(t, client.JSON(http.MethodPost, "/api/v1/user/register/confirm",
		map[string]string{"email": email, "token": key}))

	resp := testutil.AssertOK(t, client.JSON(http.MethodPost, "/api/v1/user/login",
		map[string]string{"email": email, "password": testPassword}))
	require.NotEmpty(t, resp.Token)
	client.Token = resp.Token
	return client
}

func TestMarketplaceFlow(t *testing.T) {
	tdb := NewTestDB(t)
	app := newTestApp(t, tdb)

	priceList := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(priceListYAML))
	}))
	defer priceList.Close()

	shop := app.signUp(t, "shop@example.com", "shop")
	buyer := app.signUp(t, "buyer@example.com", "buyer")

	// Partner uploads a price list
	testutil.AssertOK(t, shop.JSON(http.MethodPost, "/api/v1/partner/update", map[string]string{"url": priceList.URL + "/shop.yaml"}))
	resp := testutil.AssertFail(t, buyer.JSON(http.MethodPost, "/api/v1/partner/update", map[string]string{"url": priceList.URL}), http.StatusForbidden)
	assert.Equal(t, "Только для магазинов", resp.Error)

	state := testutil.DecodeJSON[map[string]any](t, shop.JSON(http.MethodGet, "/api/v1/partner/state", nil))
	assert.Equal(t, "Связной", state["name"])
	assert.Equal(t, true, state["state"])

	// Public catalog
	anon := testutil.NewAPIClient(t, app.handler)
	categories := testutil.DecodeJSON[[]map[string]any](t, anon.JSON(http.MethodGet, "/api/v1/categories", nil))
	assert.Len(t, categories, 2)
	products := testutil.DecodeJSON[[]map[string]any](t, anon.JSON(http.MethodGet, "/api/v1/products?category_id=224", nil))
	require.Len(t, products, 1)
	phoneID := products[0]["id"]
	assert.Len(t, products[0]["product_parameters"], 2)

	// Buyer adds a contact and fills the basket
	testutil.AssertFail(t, anon.JSON(http.MethodGet, "/api/v1/basket", nil), http.StatusForbidden)
	testutil.AssertOK(t, buyer.JSON(http.MethodPost, "/api/v1/user/contact", map[string]string{
		"city": "Москва", "street": "Тверская", "house": "1", "phone": "+79990001122",
	}))
	contacts := testutil.DecodeJSON[[]map[string]any](t, buyer.JSON(http.MethodGet, "/api/v1/user/contact", nil))
	require.Len(t, contacts, 1)

	added := testutil.DecodeJSON[map[string]any](t, buyer.JSON(http.MethodPost, "/api/v1/basket", map[string]any{
		"items": []map[string]any{{"product_info": phoneID, "quantity": 2}},
	}))
	assert.Equal(t, float64(1), added[dto.KeyCreated])

	dup := buyer.JSON(http.MethodPost, "/api/v1/basket", map[string]any{
		"items": []map[string]any{{"product_info": phoneID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, dup.Code)

	baskets := testutil.DecodeJSON[[]map[string]any](t, buyer.JSON(http.MethodGet, "/api/v1/basket", nil))
	require.Len(t, baskets, 1)
	assert.Equal(t, "220000", baskets[0]["total_sum"])

	// Checkout
	order := map[string]any{"id": baskets[0]["id"], "contact": contacts[0]["id"]}
	testutil.AssertOK(t, buyer.JSON(http.MethodPost, "/api/v1/order", order))

	mail := app.nextMail(t)
	assert.Equal(t, notification.TaskKindOrderStatus, mail.Kind)
	assert.Equal(t, "buyer@example.com", mail.To)
	assert.Equal(t, fmt.Sprintf("Обновление статуса заказа №%v", baskets[0]["id"]), mail.Subject)

	placed := testutil.DecodeJSON[[]map[string]any](t, buyer.JSON(http.MethodGet, "/api/v1/order", nil))
	require.Len(t, placed, 1)
	assert.Equal(t, "new", placed[0]["state"])

	shopOrders := testutil.DecodeJSON[[]map[string]any](t, shop.JSON(http.MethodGet, "/api/v1/partner/orders", nil))
	assert.Len(t, shopOrders, 1)

	// The basket is gone and placing it again fails
	emptied := testutil.DecodeJSON[[]map[string]any](t, buyer.JSON(http.MethodGet, "/api/v1/basket", nil))
	assert.Empty(t, emptied)
	testutil.AssertFail(t, buyer.JSON(http.MethodPost, "/api/v1/order", order), http.StatusBadRequest)
}

func TestRejectedPriceListKeepsCatalog(t *testing.T) {
	tdb := NewTestDB(t)
	app := newTestApp(t, tdb)

	served := priceListYAML
	priceList := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(served))
	}))
	defer priceList.Close()

	shop := app.signUp(t, "shop@example.com", "shop")
	testutil.AssertOK(t, shop.JSON(http.MethodPost, "/api/v1/partner/update", map[string]string{"url": priceList.URL}))

	served = "shop: Связной\ngoods: [{id: 1, category: 0, name: broken}]\n"
	w := shop.JSON(http.MethodPost, "/api/v1/partner/update", map[string]string{"url": priceList.URL})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	anon := testutil.NewAPIClient(t, app.handler)
	products := testutil.DecodeJSON[[]map[string]any](t, anon.JSON(http.MethodGet, "/api/v1/products", nil))
	assert.Len(t, products, 2, "a rejected document leaves the previous catalog")
}
