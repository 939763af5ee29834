package classroom

import (
	"rollcall/internal/middleware"
	"rollcall/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	classes := r.Group("/classes")
	classes.Use(middleware.AuthMiddleware())
	{
		classes.POST("", middleware.RBACAuthorize(rbacService, "class", "create"), h.Create)
		classes.GET("", middleware.RBACAuthorize(rbacService, "class", "read"), h.GetAll)
		classes.POST("/:id/students", middleware.RBACAuthorize(rbacService, "class", "update"), h.Enroll)
	}
}
