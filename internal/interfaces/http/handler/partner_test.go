package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func partnerRouter(partners PartnerService, orders OrderService) *gin.Engine {
	h := NewPartnerHandler(partners, orders)
	r := gin.New()
	g := r.Group("/partner", asUser(21, identity.UserTypeShop))
	g.POST("/update", h.UpdatePriceList)
	g.GET("/state", h.GetState)
	g.POST("/state", h.SetState)
	g.GET("/orders", h.ListOrders)
	return r
}

func TestPartnerHandler_UpdatePriceList(t *testing.T) {
	t.Run("imported", func(t *testing.T) {
		partners := new(mockPartners)
		partners.On("UpdatePriceList", mock.Anything, shared.ID(21), "https://example.com/shop1.yaml").
			Return(&catalogapp.IngestResult{ShopID: 1, Categories: 3, Goods: 4}, nil)

		w := doJSON(partnerRouter(partners, new(mockOrders)), http.MethodPost, "/partner/update", `{"url":"https://example.com/shop1.yaml"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"Status":true}`, w.Body.String())
	})

	t.Run("bad url", func(t *testing.T) {
		partners := new(mockPartners)

		w := doJSON(partnerRouter(partners, new(mockOrders)), http.MethodPost, "/partner/update", `{"url":"ftp://example.com/shop1.yaml"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"Status":false,"Error":"Введите правильный URL."}`, w.Body.String())
		partners.AssertNotCalled(t, "UpdatePriceList", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing url", func(t *testing.T) {
		partners := new(mockPartners)

		w := doJSON(partnerRouter(partners, new(mockOrders)), http.MethodPost, "/partner/update", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"Status":false,"Errors":"Не указаны все необходимые аргументы"}`, w.Body.String())
		partners.AssertNotCalled(t, "UpdatePriceList", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("buyer account", func(t *testing.T) {
		partners := new(mockPartners)
		partners.On("UpdatePriceList", mock.Anything, shared.ID(21), mock.Anything).Return(nil, identity.ErrShopsOnly)

		w := doJSON(partnerRouter(partners, new(mockOrders)), http.MethodPost, "/partner/update", `{"url":"https://example.com/a.yaml"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"Status":false,"Error":"Только для магазинов"}`, w.Body.String())
	})
}

func TestPartnerHandler_State(t *testing.T) {
	partners := new(mockPartners)
	partners.On("GetState", mock.Anything, shared.ID(21)).
		Return(&catalogapp.ShopResponse{ID: 1, Name: "Связной", State: true}, nil)
	partners.On("SetState", mock.Anything, shared.ID(21), "off").Return(nil)
	partners.On("SetState", mock.Anything, shared.ID(21), "maybe").
		Return(shared.NewDomainError(shared.CodeInvalidInput, `invalid truth value "maybe"`))
	router := partnerRouter(partners, new(mockOrders))

	w := doJSON(router, http.MethodGet, "/partner/state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Связной","state":true}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/partner/state", `{"state":"off"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/partner/state", `{"state":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `invalid truth value "maybe"`, decodeResponse(t, w).Errors)
}

func TestPartnerHandler_ListOrders(t *testing.T) {
	orders := new(mockOrders)
	orders.On("ListShopOrders", mock.Anything, shared.ID(21)).
		Return([]tradeapp.OrderResponse{{ID: 8, State: trade.OrderStateNew, OrderedItems: []tradeapp.OrderItemResponse{}}}, nil)

	w := doJSON(partnerRouter(new(mockPartners), orders), http.MethodGet, "/partner/orders", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"new"`)
	orders.AssertExpectations(t)
}
