package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/licx/authgate/internal/middleware"
	appErr "github.com/licx/authgate/internal/pkg/errors"
	"github.com/licx/authgate/internal/pkg/response"
)

func getAccountID(c *gin.Context) int64 {
	value, _ := c.Get(middleware.ContextAccountIDKey)
	id, _ := value.(int64)
	return id
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if msg, ok := appErr.UserMessage(err); ok {
		response.Error(c, http.StatusBadRequest, msg)
		return
	}
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid request")
	case appErr.IsConflict(err):
		response.Error(c, http.StatusConflict, "conflict")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}
