package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PartnerHandler handles the shop-facing endpoints. Routes are mounted
// behind RequireShop; the services check the role again.
type PartnerHandler struct {
	BaseHandler
	partners PartnerService
	orders   OrderService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners PartnerService, orders OrderService) *PartnerHandler {
	return &PartnerHandler{partners: partners, orders: orders}
}

// UpdatePriceList godoc
// @Summary      Import a price list
// @Description  Fetches the YAML price list at url and replaces the shop's listings
// @Tags         partner
// @Param        request body dto.PartnerUpdateRequest true "Price list URL"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /partner/update [post]
func (h *PartnerHandler) UpdatePriceList(c *gin.Context) {
	var req dto.PartnerUpdateRequest
	if !h.Bind(c, &req) {
		return
	}
	result, err := h.partners.UpdatePriceList(c.Request.Context(), userID(c), req.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Price list imported",
		zap.Uint64("shop_id", result.ShopID),
		zap.Int("goods", result.Goods))
	h.OK(c)
}

// GetState returns the caller's shop
func (h *PartnerHandler) GetState(c *gin.Context) {
	shop, err := h.partners.GetState(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

// SetState switches order intake on or off
func (h *PartnerHandler) SetState(c *gin.Context) {
	var req dto.PartnerStateRequest
	if !h.Bind(c, &req) {
		return
	}
	if err := h.partners.SetState(c.Request.Context(), userID(c), req.State); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// ListOrders returns placed orders containing the shop's listings
func (h *PartnerHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListShopOrders(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, orders)
}
