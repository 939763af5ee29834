package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/classroom"
	"rollcall/internal/finalizer"
	"rollcall/internal/messaging/kafka"
	"rollcall/internal/messaging/kafka/producer"
	"rollcall/internal/session"
	"rollcall/internal/shared/connection"

	"go.uber.org/zap"
)

const (
	outboxPollInterval = 3 * time.Second
	sweepInterval      = 30 * time.Second
	sweepBatchSize     = 50
)

// RunWorker hosts the two background loops: the outbox producer draining
// pending events to Kafka, and the finalization sweep closing sessions whose
// window expired without an explicit finalize call.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	sessionRepo := session.NewRepository(gormDB)
	classService := classroom.NewService(classroom.NewRepository(gormDB))
	attendanceRepo := attendance.NewRepository(sqlDB)
	finalizerService := finalizer.NewService(sqlDB, attendanceRepo, sessionRepo, classService, outboxRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		outboxPollInterval,
	)

	go runFinalizeSweep(ctx, finalizerService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func runFinalizeSweep(ctx context.Context, svc finalizer.Service, logger *zap.Logger) {
	log := logger.Named("finalize.sweep")
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Info("finalize sweep started", zap.Duration("interval", sweepInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("finalize sweep stopped")
			return
		case <-ticker.C:
			done, err := svc.FinalizeExpired(ctx, sweepBatchSize)
			if err != nil {
				log.Error("finalize sweep failed", zap.Error(err))
				continue
			}
			if done > 0 {
				log.Info("expired sessions finalized", zap.Int("count", done))
			}
		}
	}
}
