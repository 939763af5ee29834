package attendance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rollcall/internal/attendance"
	attendanceerrors "rollcall/internal/attendance/errors"
	"rollcall/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeService struct {
	checkInFn  func(ctx context.Context, studentID string, req attendance.CheckInRequest, image []byte) (attendance.RecordResponse, error)
	reverifyFn func(ctx context.Context, studentID string, req attendance.ReverifyRequest, image []byte) (attendance.RecordResponse, error)
	overrideFn func(ctx context.Context, actorID string, req attendance.OverrideRequest) (attendance.RecordResponse, error)
	listFn     func(ctx context.Context, actorID, sessionID string) ([]attendance.RecordResponse, error)
}

func (f *fakeService) CheckIn(ctx context.Context, studentID string, req attendance.CheckInRequest, image []byte) (attendance.RecordResponse, error) {
	return f.checkInFn(ctx, studentID, req, image)
}
func (f *fakeService) Reverify(ctx context.Context, studentID string, req attendance.ReverifyRequest, image []byte) (attendance.RecordResponse, error) {
	return f.reverifyFn(ctx, studentID, req, image)
}
func (f *fakeService) Override(ctx context.Context, actorID string, req attendance.OverrideRequest) (attendance.RecordResponse, error) {
	return f.overrideFn(ctx, actorID, req)
}
func (f *fakeService) ListBySession(ctx context.Context, actorID, sessionID string) ([]attendance.RecordResponse, error) {
	return f.listFn(ctx, actorID, sessionID)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func multipartCheckIn(t *testing.T, sessionID string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	assert.NoError(t, mw.WriteField("session_id", sessionID))
	assert.NoError(t, mw.WriteField("latitude", "52.2297"))
	assert.NoError(t, mw.WriteField("longitude", "21.0122"))
	fw, err := mw.CreateFormFile("file", "probe.jpg")
	assert.NoError(t, err)
	_, err = fw.Write([]byte("jpeg-bytes"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	apperror.Init()

	t.Run("success", func(t *testing.T) {
		sessionID := uuid.NewString()
		studentID := uuid.NewString()

		svc := &fakeService{
			checkInFn: func(ctx context.Context, gotStudent string, req attendance.CheckInRequest, image []byte) (attendance.RecordResponse, error) {
				assert.Equal(t, studentID, gotStudent)
				assert.Equal(t, sessionID, req.SessionID)
				assert.Equal(t, []byte("jpeg-bytes"), image)
				return attendance.RecordResponse{
					ID:        uuid.NewString(),
					SessionID: sessionID,
					StudentID: studentID,
					Status:    attendance.StatusPresent.String(),
				}, nil
			},
		}
		h := attendance.NewHandler(svc)

		c, w := newTestContext(t)
		body, contentType := multipartCheckIn(t, sessionID)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", body)
		c.Request.Header.Set("Content-Type", contentType)
		c.Set("user_id", studentID)

		h.CheckIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp attendance.RecordResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, attendance.StatusPresent.String(), resp.Status)
	})

	t.Run("duplicate maps to conflict", func(t *testing.T) {
		svc := &fakeService{
			checkInFn: func(ctx context.Context, studentID string, req attendance.CheckInRequest, image []byte) (attendance.RecordResponse, error) {
				return attendance.RecordResponse{}, attendanceerrors.ErrAlreadyCheckedIn
			},
		}
		h := attendance.NewHandler(svc)

		c, w := newTestContext(t)
		body, contentType := multipartCheckIn(t, uuid.NewString())
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", body)
		c.Request.Header.Set("Content-Type", contentType)
		c.Set("user_id", uuid.NewString())

		h.CheckIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "ALREADY_CHECKED_IN", env.Error.Code)
	})

	t.Run("missing image rejected", func(t *testing.T) {
		svc := &fakeService{}
		h := attendance.NewHandler(svc)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		assert.NoError(t, mw.WriteField("session_id", uuid.NewString()))
		assert.NoError(t, mw.WriteField("latitude", "52.0"))
		assert.NoError(t, mw.WriteField("longitude", "21.0"))
		assert.NoError(t, mw.Close())

		c, w := newTestContext(t)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", &body)
		c.Request.Header.Set("Content-Type", mw.FormDataContentType())
		c.Set("user_id", uuid.NewString())

		h.CheckIn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttendanceHandler_Override(t *testing.T) {
	apperror.Init()

	t.Run("success", func(t *testing.T) {
		actorID := uuid.NewString()
		reqBody := attendance.OverrideRequest{
			AttendanceID: uuid.NewString(),
			Status:       attendance.StatusPresent.String(),
		}

		svc := &fakeService{
			overrideFn: func(ctx context.Context, gotActor string, req attendance.OverrideRequest) (attendance.RecordResponse, error) {
				assert.Equal(t, actorID, gotActor)
				assert.Equal(t, reqBody.AttendanceID, req.AttendanceID)
				return attendance.RecordResponse{
					ID:               req.AttendanceID,
					Status:           req.Status,
					IsManualOverride: true,
					RecordedBy:       &gotActor,
				}, nil
			},
		}
		h := attendance.NewHandler(svc)

		payload, _ := json.Marshal(reqBody)
		c, w := newTestContext(t)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/override", bytes.NewReader(payload))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Override(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp attendance.RecordResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.True(t, resp.IsManualOverride)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		h := attendance.NewHandler(&fakeService{})

		c, w := newTestContext(t)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/override", strings.NewReader(`{"status":`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.NewString())

		h.Override(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttendanceHandler_ListBySession(t *testing.T) {
	apperror.Init()

	sessionID := uuid.NewString()
	svc := &fakeService{
		listFn: func(ctx context.Context, actorID, gotSession string) ([]attendance.RecordResponse, error) {
			assert.Equal(t, sessionID, gotSession)
			return []attendance.RecordResponse{
				{ID: uuid.NewString(), Status: attendance.StatusPresent.String()},
				{ID: uuid.NewString(), Status: attendance.StatusAbsent.String()},
			}, nil
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newTestContext(t)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/sessions/"+sessionID, nil)
	c.Params = gin.Params{{Key: "id", Value: sessionID}}
	c.Set("user_id", uuid.NewString())

	h.ListBySession(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp []attendance.RecordResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp, 2)
}
