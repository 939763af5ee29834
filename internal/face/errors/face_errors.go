package faceerrors

import (
	"net/http"

	"rollcall/internal/shared/apperror"
)

var (
	ErrNoFaceDetected = apperror.New(
		"NO_FACE_DETECTED",
		"no face detected in the submitted image",
		http.StatusBadRequest,
	)
	ErrMultipleFacesDetected = apperror.New(
		"MULTIPLE_FACES_DETECTED",
		"please submit an image with exactly one face",
		http.StatusBadRequest,
	)
	ErrNoEnrolledSamples = apperror.New(
		"NO_ENROLLED_SAMPLES",
		"no enrolled face samples for this user",
		http.StatusConflict,
	)
	ErrSampleNotFound = apperror.New(
		apperror.CodeNotFound,
		"face sample not found",
		http.StatusNotFound,
	)
	ErrEmptyImage = apperror.New(
		apperror.CodeInvalidInput,
		"image file is required",
		http.StatusBadRequest,
	)
	ErrEmbedServiceUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"face embedding service is unavailable",
		http.StatusServiceUnavailable,
	)
)
