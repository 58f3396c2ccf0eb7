package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/licx/authgate/internal/pkg/response"
	"github.com/licx/authgate/internal/service"
)

type AccountHandler struct {
	auth *service.AuthService
}

func NewAccountHandler(auth *service.AuthService) *AccountHandler {
	return &AccountHandler{auth: auth}
}

// Me returns the account behind the resolved token.
func (h *AccountHandler) Me(c *gin.Context) {
	account, err := h.auth.GetAccount(c.Request.Context(), getAccountID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, account)
}
