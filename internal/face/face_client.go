package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	faceerrors "rollcall/internal/face/errors"
	"rollcall/internal/shared/apperror"
)

// Embedder turns an image into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float32, error)
}

// Client calls the face-recognition microservice. The core never sees the
// recognition technique, only the vector that comes back.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// NewClient builds a client. Skip short-circuits the remote call with a
// fixed vector for local development without the face service.
func NewClient(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			// Face processing can take a while.
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Embed(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, faceerrors.ErrEmptyImage
	}
	if c.Skip {
		return []float32{0.1, 0.2, 0.3}, nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "probe.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embed", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeServiceUnavailable,
			"face service request failed", http.StatusServiceUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, apperror.Wrap(
			fmt.Errorf("face service error %s: %s", resp.Status, string(respBody)),
			apperror.CodeServiceUnavailable,
			"face embedding service is unavailable",
			http.StatusServiceUnavailable,
		)
	}

	var out struct {
		Embedding     []float32 `json:"embedding"`
		FacesDetected int       `json:"faces_detected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode face service response: %w", err)
	}

	switch {
	case out.FacesDetected == 0 || len(out.Embedding) == 0:
		return nil, faceerrors.ErrNoFaceDetected
	case out.FacesDetected > 1:
		return nil, faceerrors.ErrMultipleFacesDetected
	}
	return out.Embedding, nil
}

// Health checks whether the face service answers at all.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("face service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("face service unhealthy: %s", resp.Status)
	}
	return nil
}
