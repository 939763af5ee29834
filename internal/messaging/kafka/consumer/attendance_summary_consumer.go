package consumer

import (
	"context"
	"encoding/json"
	"time"

	"rollcall/internal/events"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const summaryTTL = 24 * time.Hour

func summaryKey(sessionID string) string {
	return "attendance:summary:" + sessionID
}

// ConsumeAttendanceRecorded maintains a per-session status tally in redis.
// Dashboards read the hash directly instead of counting rows in Postgres on
// every refresh. HIncrBy keeps the update atomic per field, and redelivered
// messages at worst bump a counter twice; the hash is a cache, the
// attendances table stays the source of truth.
func ConsumeAttendanceRecorded(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_summary")
	log.Info("attendance summary consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance summary consumer stopped")
				return
			}
			log.Error("fetch attendance message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance_recorded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		key := summaryKey(event.SessionID)
		pipe := rdb.Pipeline()
		pipe.HIncrBy(ctx, key, event.Status, 1)
		pipe.Expire(ctx, key, summaryTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Error("update attendance summary failed",
				zap.String("session_id", event.SessionID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance message failed", zap.Error(err))
			continue
		}

		log.Debug("attendance summary updated",
			zap.String("session_id", event.SessionID),
			zap.String("status", event.Status),
		)
	}
}

// ConsumeSessionFinalized drops the live tally once a session is closed and
// replaces it with the final counts carried on the event.
func ConsumeSessionFinalized(
	ctx context.Context,
	reader *kafkago.Reader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.session_finalized")
	log.Info("session finalized consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("session finalized consumer stopped")
				return
			}
			log.Error("fetch session finalized message failed", zap.Error(err))
			continue
		}

		var event events.SessionFinalizedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode session_finalized event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		key := summaryKey(event.SessionID)
		pipe := rdb.Pipeline()
		pipe.HIncrBy(ctx, key, "Absent", event.AbsentCreated)
		pipe.HSet(ctx, key, "finalized", 1)
		pipe.Expire(ctx, key, summaryTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Error("finalize attendance summary failed",
				zap.String("session_id", event.SessionID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit session finalized message failed", zap.Error(err))
			continue
		}

		log.Info("attendance summary finalized",
			zap.String("session_id", event.SessionID),
			zap.Int64("absent_created", event.AbsentCreated),
		)
	}
}
