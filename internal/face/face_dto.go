package face

import "time"

type SampleResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func mapToResponse(s Sample) SampleResponse {
	return SampleResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
	}
}
