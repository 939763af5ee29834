package session

import "time"

type OpenSessionRequest struct {
	ClassID        string     `json:"class_id" binding:"required,uuid"`
	Latitude       *float64   `json:"latitude" binding:"required"`
	Longitude      *float64   `json:"longitude" binding:"required"`
	RadiusMeters   int        `json:"radius_meters"`
	StartTime      *time.Time `json:"start_time"`
	LateCutoffTime *time.Time `json:"late_cutoff_time"`
	EndTime        *time.Time `json:"end_time"`
}

type ToggleReverifyRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type SessionResponse struct {
	ID              string     `json:"id"`
	ClassID         string     `json:"class_id"`
	TeacherID       string     `json:"teacher_id"`
	StartTime       time.Time  `json:"start_time"`
	LateCutoffTime  time.Time  `json:"late_cutoff_time"`
	EndTime         time.Time  `json:"end_time"`
	AnchorLat       float64    `json:"anchor_lat"`
	AnchorLon       float64    `json:"anchor_lon"`
	RadiusMeters    int        `json:"radius_meters"`
	ReverifyEnabled bool       `json:"reverify_enabled"`
	Closed          bool       `json:"closed"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

func mapToResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID.String(),
		ClassID:         s.ClassID.String(),
		TeacherID:       s.TeacherID.String(),
		StartTime:       s.StartTime,
		LateCutoffTime:  s.LateCutoffTime,
		EndTime:         s.EndTime,
		AnchorLat:       s.AnchorLat,
		AnchorLon:       s.AnchorLon,
		RadiusMeters:    s.RadiusMeters,
		ReverifyEnabled: s.ReverifyEnabled,
		Closed:          s.Closed,
		ClosedAt:        s.ClosedAt,
	}
}
