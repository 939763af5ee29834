package finalizer

import (
	"rollcall/internal/middleware"
	"rollcall/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("/:id/finalize", middleware.RBACAuthorize(rbacService, "session", "finalize"), h.Finalize)
	}
}
