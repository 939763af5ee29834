package face

import (
	"time"

	"github.com/google/uuid"
)

// Sample is one enrolled reference image for a user. A user may have many;
// matching takes the best (lowest-distance) sample.
type Sample struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ImageURL  *string   `gorm:"column:image_url;type:varchar(255)"`
	Embedding []byte    `gorm:"column:embedding;type:bytea;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Sample) TableName() string {
	return "user_face_samples"
}
