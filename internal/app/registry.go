package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"rollcall/internal/attendance"
	"rollcall/internal/auth"
	"rollcall/internal/classroom"
	"rollcall/internal/face"
	"rollcall/internal/finalizer"
	"rollcall/internal/messaging/kafka"
	"rollcall/internal/middleware"
	"rollcall/internal/rbac"
	"rollcall/internal/rbac/infra"
	"rollcall/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	classRepo := classroom.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	faceSampleRepo := face.NewSampleRepository(gormDB)
	attendanceRepo := attendance.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	faceClient := face.NewClient(os.Getenv("FACE_SERVICE_URL"), os.Getenv("FACE_SERVICE_SKIP") == "true")
	faceGateway := face.NewGateway(faceClient, faceSampleRepo, face.DefaultTolerance)
	faceService := face.NewService(faceClient, faceSampleRepo, rbacService)

	authService := auth.NewService(authRepo, rbacService)
	classService := classroom.NewService(classRepo)
	sessionService := session.NewService(sessionRepo, classService, rbacService, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, sessionRepo, faceGateway, classService, rbacService, outboxRepo)
	finalizerService := finalizer.NewService(db, attendanceRepo, sessionRepo, classService, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	classHandler := classroom.NewHandler(classService)
	sessionHandler := session.NewHandler(sessionService)
	faceHandler := face.NewHandler(faceService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	finalizerHandler := finalizer.NewHandler(finalizerService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		classroom.RegisterRoutes(api, classHandler, rbacService)
		session.RegisterRoutes(api, sessionHandler, rbacService)
		face.RegisterRoutes(api, faceHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		finalizer.RegisterRoutes(api, finalizerHandler, rbacService)
	}

	return nil
}
