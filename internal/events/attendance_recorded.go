package events

import "time"

const AttendanceRecordedTopic = "attendance.record.v1"

type AttendanceRecordedEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	SessionID    string    `json:"session_id"`
	ClassID      string    `json:"class_id"`
	StudentID    string    `json:"student_id"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
