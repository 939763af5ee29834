package sessionerrors

import (
	"net/http"

	"rollcall/internal/shared/apperror"
)

var (
	ErrSessionNotFound = apperror.New(
		"SESSION_NOT_FOUND",
		"attendance session not found",
		http.StatusNotFound,
	)
	ErrInvalidWindow = apperror.New(
		"INVALID_WINDOW",
		"invalid time window: must satisfy start_time <= late_cutoff_time <= end_time",
		http.StatusBadRequest,
	)
	ErrInvalidRadius = apperror.New(
		"INVALID_RADIUS",
		"radius_meters must be between 10 and 2000",
		http.StatusBadRequest,
	)
	ErrSessionNotActive = apperror.New(
		"SESSION_NOT_ACTIVE",
		"re-verification can only be enabled while the session window is open",
		http.StatusConflict,
	)
	ErrSessionClosed = apperror.New(
		"WINDOW_CLOSED",
		"the session window has already closed",
		http.StatusConflict,
	)
)
