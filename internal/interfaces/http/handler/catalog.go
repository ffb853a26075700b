package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

const integerRequiredMessage = "Введите целое число."

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	BaseHandler
	queries CatalogQueries
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(queries CatalogQueries) *CatalogHandler {
	return &CatalogHandler{queries: queries}
}

// ListCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Param        limit  query int false "Page size (default 40, max 100)"
// @Param        offset query int false "Offset"
// @Success      200 {array} catalog.CategoryResponse
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	categories, err := h.queries.ListCategories(c.Request.Context(), q.Page())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, categories)
}

// ListShops returns shops that accept orders
func (h *CatalogHandler) ListShops(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	shops, err := h.queries.ListShops(c.Request.Context(), q.Page())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, shops)
}

// ListProducts returns listings of active shops, optionally filtered by
// shop_id and category_id
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	verr := &shared.ValidationError{}
	shopID := optionalID(c, "shop_id", verr)
	categoryID := optionalID(c, "category_id", verr)
	if verr.HasErrors() {
		h.HandleError(c, verr)
		return
	}

	page := q.Page()
	products, err := h.queries.ListProducts(c.Request.Context(), catalogapp.ProductListQuery{
		ShopID:     shopID,
		CategoryID: categoryID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, products)
}

// optionalID parses an id filter. Absent or blank means no filter.
func optionalID(c *gin.Context, key string, verr *shared.ValidationError) *shared.ID {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		verr.Add(key, integerRequiredMessage)
		return nil
	}
	return &id
}
