package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// BasketHandler handles /basket
type BasketHandler struct {
	BaseHandler
	baskets BasketService
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(baskets BasketService) *BasketHandler {
	return &BasketHandler{baskets: baskets}
}

// Get returns the caller's basket as a one-element list, or [] when there
// is none
func (h *BasketHandler) Get(c *gin.Context) {
	basket, err := h.baskets.GetBasket(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, basket)
}

// Add godoc
// @Summary      Add listings to the basket
// @Description  items is a JSON array of {product_info, quantity}, inline or JSON-encoded.
// @Description  Lines are created one by one; on failure the lines created so far stay.
// @Tags         basket
// @Param        request body dto.BasketAddRequest true "Items"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /basket [post]
func (h *BasketHandler) Add(c *gin.Context) {
	var req dto.BasketAddRequest
	if !h.Bind(c, &req) {
		return
	}
	created, err := h.baskets.AddItems(c.Request.Context(), userID(c), req.Items.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreatedCount(int64(created)))
}

// Update changes quantities of basket lines given as {id, quantity}
func (h *BasketHandler) Update(c *gin.Context) {
	var req dto.BasketUpdateRequest
	if !h.Bind(c, &req) {
		return
	}
	updated, err := h.baskets.UpdateItems(c.Request.Context(), userID(c), req.Items.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Respond(c, dto.UpdatedCount(updated))
}

// Delete removes basket lines listed in items
func (h *BasketHandler) Delete(c *gin.Context) {
	deleted, err := h.baskets.RemoveItems(c.Request.Context(), userID(c), deleteIDs(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Respond(c, dto.DeletedCount(deleted))
}
