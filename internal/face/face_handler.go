package face

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

func (h *Handler) Enroll(c *gin.Context) {
	userID := c.GetString("user_id")

	image, err := readImageFile(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.EnrollSample(c.Request.Context(), userID, image)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	resp, err := h.service.ListSamples(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID := c.GetString("user_id")
	sampleID := c.Param("id")

	if err := h.service.DeleteSample(c.Request.Context(), sampleID, actorID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
