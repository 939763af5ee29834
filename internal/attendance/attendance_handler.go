package attendance

import (
	"io"
	"net/http"

	faceerrors "rollcall/internal/face/errors"
	"rollcall/internal/shared/apperror"
	"rollcall/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func readImageFile(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, faceerrors.ErrEmptyImage
	}
	f, err := fh.Open()
	if err != nil {
		return nil, faceerrors.ErrEmptyImage
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return nil, faceerrors.ErrEmptyImage
	}
	return data, nil
}

func (h *Handler) CheckIn(c *gin.Context) {
	studentID := c.GetString("user_id")

	var req CheckInRequest
	if err := c.ShouldBind(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}
	image, err := readImageFile(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), studentID, req, image)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Reverify(c *gin.Context) {
	studentID := c.GetString("user_id")

	var req ReverifyRequest
	if err := c.ShouldBind(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}
	image, err := readImageFile(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.Reverify(c.Request.Context(), studentID, req, image)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Override(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Override(c.Request.Context(), actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListBySession(c *gin.Context) {
	actorID := c.GetString("user_id")
	sessionID := c.Param("id")

	resp, err := h.service.ListBySession(c.Request.Context(), actorID, sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
