package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// InternalErrorMessage is returned for failures that are not the caller's fault
const InternalErrorMessage = "Internal server error"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// OK sends {"Status": true}
func (h *BaseHandler) OK(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK())
}

// Respond sends a 200 with an envelope
func (h *BaseHandler) Respond(c *gin.Context, resp dto.Response) {
	c.JSON(http.StatusOK, resp)
}

// List sends a bare JSON array. A nil slice is sent as [].
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

// Bind decodes the request body (JSON or form) into obj. On failure the
// error response is written and false is returned.
func (h *BaseHandler) Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		h.HandleError(c, middleware.BindError(err))
		return false
	}
	return true
}

// BindQuery decodes query parameters into obj
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.HandleError(c, middleware.BindError(err))
		return false
	}
	return true
}

// HandleError renders err with the status its category maps to. Field
// errors go under Errors as a map. Anything that is not a domain error is
// logged and reported as a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, dto.FailErrors(verr.Fields))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.FromDomainError(domainErr))
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.Fail(InternalErrorMessage))
}

// userID returns the authenticated caller. Routes are guarded by
// RequireAuth, so 0 only shows up when a handler is mounted without it.
func userID(c *gin.Context) shared.ID {
	return middleware.GetUserID(c)
}

// deleteIDs reads the comma-joined ids of a DELETE request from the body or
// the query string
func deleteIDs(c *gin.Context) []shared.ID {
	var req dto.DeleteRequest
	_ = c.ShouldBind(&req)
	raw := req.Items
	if raw == "" {
		raw = c.Query("items")
	}
	return dto.ParseIDList(raw)
}
