package attendance

import (
	"time"
)

// Record is one attendance row. At most one exists per (session, student);
// the uq_attendance_session_student constraint is the source of truth for
// that, not application code.
type Record struct {
	ID               string
	SessionID        string
	ClassID          string
	StudentID        string
	CheckInTime      *time.Time
	CheckInLat       *float64
	CheckInLon       *float64
	Status           Status
	IsReverified     bool
	IsManualOverride bool
	RecordedBy       *string
	CreatedAt        time.Time
}
