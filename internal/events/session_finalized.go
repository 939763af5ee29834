package events

import "time"

const SessionFinalizedTopic = "attendance.session.v1"

type SessionFinalizedEvent struct {
	EventType     string    `json:"event_type"`
	SessionID     string    `json:"session_id"`
	ClassID       string    `json:"class_id"`
	AbsentCreated int64     `json:"absent_created"`
	OccurredAt    time.Time `json:"occurred_at"`
}
