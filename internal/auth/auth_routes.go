package auth

import (
	"rollcall/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), h.Login)
		auth.POST("/register", middleware.RateLimitByIP(0.1, 3), h.Register)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", middleware.RateLimitByUser(2, 5), h.Logout)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), h.Me)
	}
}
