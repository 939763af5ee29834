package attendance

import (
	"rollcall/internal/middleware"
	"rollcall/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	group := r.Group("/attendance")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/check-in",
			middleware.RateLimitByUser(rate.Limit(1), 3),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)
		group.POST("/reverify",
			middleware.RateLimitByUser(rate.Limit(1), 3),
			h.Reverify,
		)
		group.POST("/override",
			middleware.RBACAuthorize(rbacService, "attendance", "override"),
			h.Override,
		)
		group.GET("/sessions/:id",
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			h.ListBySession,
		)
	}
}
