package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared length exceeds maxSize and caps
// the body reader so chunked requests cannot exceed it either.
func BodyLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("PAYLOAD_TOO_LARGE", "request body exceeds the allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
