package session

import (
	"rollcall/internal/middleware"
	"rollcall/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("/open", middleware.RBACAuthorize(rbacService, "session", "create"), h.Open)
		sessions.GET("/active", h.GetActive)
		sessions.PATCH("/:id/reverify", middleware.RBACAuthorize(rbacService, "session", "update"), h.ToggleReverify)
	}
}
