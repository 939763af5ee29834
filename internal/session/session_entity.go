package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is one time-boxed roll-call window. The anchor coordinates are
// captured at open time and never change afterward; students are always
// judged against them, not against wherever the teacher walked later.
type Session struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassID         uuid.UUID  `gorm:"column:class_id;type:uuid;not null;index"`
	TeacherID       uuid.UUID  `gorm:"column:teacher_id;type:uuid;not null"`
	StartTime       time.Time  `gorm:"column:start_time;type:timestamptz;not null"`
	LateCutoffTime  time.Time  `gorm:"column:late_cutoff_time;type:timestamptz;not null"`
	EndTime         time.Time  `gorm:"column:end_time;type:timestamptz;not null"`
	AnchorLat       float64    `gorm:"column:anchor_lat;type:numeric(9,6);not null"`
	AnchorLon       float64    `gorm:"column:anchor_lon;type:numeric(9,6);not null"`
	RadiusMeters    int        `gorm:"column:radius_meters;not null"`
	ReverifyEnabled bool       `gorm:"column:reverify_enabled;not null;default:false"`
	Closed          bool       `gorm:"column:closed;not null;default:false"`
	ClosedAt        *time.Time `gorm:"column:closed_at;type:timestamptz"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (Session) TableName() string {
	return "attendance_sessions"
}

// ActiveAt reports whether now falls inside the session window, with the
// end instant excluded. Drives the active listing and the reverify toggle;
// check-in admission only cares about the end of the window.
func (s *Session) ActiveAt(now time.Time) bool {
	return !now.Before(s.StartTime) && now.Before(s.EndTime)
}
