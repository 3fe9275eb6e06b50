package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// ErrorBody carries the client-facing message of a failed request
type ErrorBody struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope of every non-2xx response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds the error envelope for message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: message}}
}

// ErrorHandler renders the last error recorded with c.Error as a JSON envelope.
// The status comes from the error kind, anything unclassified is a 500 with the error text unchanged.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		status := apperrors.HTTPStatus(err)

		l := logger.WithContext(c.Request.Context(), log)
		if status >= http.StatusInternalServerError {
			l.Error("request failed", zap.Int("status", status), zap.Error(err))
		} else {
			l.Debug("request rejected", zap.Int("status", status), zap.String("kind", apperrors.KindOf(err).String()), zap.Error(err))
		}

		c.JSON(status, NewErrorResponse(err.Error()))
	}
}

// NoRoute answers unknown paths with the standard envelope
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NewErrorResponse("route not found"))
	}
}
