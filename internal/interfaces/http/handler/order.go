package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// OrderHandler handles /order
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List returns the caller's placed orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, orders)
}

// Place godoc
// @Summary      Check out the basket
// @Description  Moves the basket to state "new" with a delivery contact and emails the buyer
// @Tags         order
// @Param        request body dto.OrderRequest true "Order and contact ids"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /order [post]
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.OrderRequest
	if !h.Bind(c, &req) {
		return
	}
	if err := h.orders.PlaceOrder(c.Request.Context(), userID(c), shared.ID(req.ID), shared.ID(req.Contact)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}
