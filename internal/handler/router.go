package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/licx/authgate/internal/middleware"
	"github.com/licx/authgate/internal/pkg/jwt"
	"github.com/licx/authgate/internal/service"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Account     *AccountHandler
	Codec       *jwt.Codec
	Revocations *service.RevocationRegistry
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/auth/ask-code", deps.Auth.AskCode)
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/logout", deps.Auth.Logout)
	api.GET("/auth/verify-account", deps.Auth.VerifyAccount)
	api.POST("/auth/reset-confirm", deps.Auth.ResetConfirm)
	api.POST("/auth/reset-password", deps.Auth.ResetPassword)

	authGroup := api.Group("")
	authGroup.Use(middleware.Auth(deps.Codec, deps.Revocations))
	authGroup.GET("/user/me", deps.Account.Me)
}
