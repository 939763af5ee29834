package attendanceerrors

import (
	"net/http"

	"rollcall/internal/shared/apperror"
)

var (
	ErrWindowClosed = apperror.New(
		"WINDOW_CLOSED",
		"the session window has already closed",
		http.StatusConflict,
	)
	ErrTooFar = apperror.New(
		"TOO_FAR",
		"location check failed: you are too far from the session anchor",
		http.StatusForbidden,
	)
	ErrAlreadyCheckedIn = apperror.New(
		"ALREADY_CHECKED_IN",
		"attendance already recorded for this session",
		http.StatusConflict,
	)
	ErrNothingToReverify = apperror.New(
		"NOTHING_TO_REVERIFY",
		"no eligible attendance record to re-verify; check in first",
		http.StatusBadRequest,
	)
	ErrReverifyDisabled = apperror.New(
		"REVERIFY_DISABLED",
		"re-verification is not enabled for this session",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		"RECORD_NOT_FOUND",
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance status",
		http.StatusBadRequest,
	)
	ErrSessionStillOpen = apperror.New(
		"SESSION_STILL_OPEN",
		"the session window has not ended yet",
		http.StatusConflict,
	)
)
