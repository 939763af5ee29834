package attendance

import "time"

// CheckInRequest and ReverifyRequest arrive as multipart forms because the
// probe image rides along with the coordinates.
type CheckInRequest struct {
	SessionID string   `form:"session_id" binding:"required,uuid"`
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
}

type ReverifyRequest struct {
	SessionID string   `form:"session_id" binding:"required,uuid"`
	Latitude  *float64 `form:"latitude" binding:"required"`
	Longitude *float64 `form:"longitude" binding:"required"`
}

type OverrideRequest struct {
	AttendanceID string `json:"attendance_id" binding:"required,uuid"`
	Status       string `json:"status" binding:"required"`
}

type RecordResponse struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"session_id"`
	ClassID          string     `json:"class_id"`
	StudentID        string     `json:"student_id"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckInLat       *float64   `json:"check_in_lat,omitempty"`
	CheckInLon       *float64   `json:"check_in_lon,omitempty"`
	Status           string     `json:"status"`
	IsReverified     bool       `json:"is_reverified"`
	IsManualOverride bool       `json:"is_manual_override"`
	RecordedBy       *string    `json:"recorded_by,omitempty"`
}

func mapToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		SessionID:        r.SessionID,
		ClassID:          r.ClassID,
		StudentID:        r.StudentID,
		CheckInTime:      r.CheckInTime,
		CheckInLat:       r.CheckInLat,
		CheckInLon:       r.CheckInLon,
		Status:           r.Status.String(),
		IsReverified:     r.IsReverified,
		IsManualOverride: r.IsManualOverride,
		RecordedBy:       r.RecordedBy,
	}
}
