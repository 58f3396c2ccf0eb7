package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appErr "github.com/licx/authgate/internal/pkg/errors"
	"github.com/licx/authgate/internal/pkg/response"
	"github.com/licx/authgate/internal/service"
)

type AuthHandler struct {
	auth  *service.AuthService
	codes *service.VerifyCodeService
}

func NewAuthHandler(auth *service.AuthService, codes *service.VerifyCodeService) *AuthHandler {
	return &AuthHandler{auth: auth, codes: codes}
}

type askCodeQuery struct {
	Email string `form:"email" binding:"required,email"`
	Type  string `form:"type" binding:"required,oneof=register reset"`
}

func (h *AuthHandler) AskCode(c *gin.Context) {
	var query askCodeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.codes.IssueCode(c.Request.Context(), query.Type, query.Email, c.ClientIP()); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "verification code sent")
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=1,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	err := h.auth.Register(c.Request.Context(), service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Code:     req.Code,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "registered")
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		response.Success(c, result)
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "username or password incorrect")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, "login requests are too frequent, please try again later")
	default:
		handleError(c, err)
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetHeader("Authorization")); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "logout succeeded")
}

type verifyAccountQuery struct {
	Email string `form:"email" binding:"required,email"`
}

func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var query verifyAccountQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.auth.VerifyAccount(c.Request.Context(), query.Email); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "account exists")
}

type resetConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.auth.ResetConfirm(c.Request.Context(), req.Email, req.Code); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "code confirmed")
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=6,max=20"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.Password); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessMsg(c, "password reset")
}
