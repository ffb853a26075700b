package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is rejected before any handler runs; bodies sent without one are
// cut off while binding, and BindError reports that as the same 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWith(c, shared.ErrRequestTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func abortWith(c *gin.Context, err *shared.DomainError) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(err.Code), dto.FromDomainError(err))
}
