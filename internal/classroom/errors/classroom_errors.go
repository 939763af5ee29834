package classroomerrors

import (
	"net/http"

	"rollcall/internal/shared/apperror"
)

var (
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"classroom not found",
		http.StatusNotFound,
	)
	ErrInvalidClassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid class id",
		http.StatusBadRequest,
	)
)
