package middleware

import (
	"errors"
	"net/http"

	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/internal/domain"
	"github.com/vineshkkmr/job-board/pkg/apperror"
	"github.com/vineshkkmr/job-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, isAppErr := apperror.As(err)
		switch {
		case isAppErr:
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Errorw("request failed", "request_id", GetRequestID(c), "error", err, "cause", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
		case errors.Is(err, domain.ErrNotFound):
			response.Error(c, http.StatusNotFound, "Resource not found", nil)
		default:
			// Internal details stay in the log
			logger.Log.Errorw("unhandled error", "request_id", GetRequestID(c), "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
