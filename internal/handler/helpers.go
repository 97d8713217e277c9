package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
	"github.com/casestudyai/casestudyai/internal/pkg/response"
)

func statusFor(err error) int {
	switch {
	case appErr.IsInvalid(err):
		return http.StatusBadRequest
	case appErr.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(c *gin.Context, err error) {
	requestID, _ := c.Get("request_id")
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	// Malformed client input is expected traffic, not a failure.
	if appErr.IsInvalid(err) {
		logger.Warn("request rejected", zap.Error(err))
		return
	}
	logger.Error("request failed", zap.Error(err))
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logError(c, err)
	switch {
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, "invalid", appErr.Message(err))
	case appErr.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "unavailable", appErr.Message(err))
	case appErr.IsUpstream(err):
		response.Error(c, http.StatusInternalServerError, "upstream", "query failed, please try again later")
	default:
		response.Error(c, http.StatusInternalServerError, "internal", "internal error")
	}
}
