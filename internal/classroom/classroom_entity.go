package classroom

import (
	"time"

	"github.com/google/uuid"
)

type Class struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"column:name;type:varchar(150);not null"`
	TeacherID uuid.UUID `gorm:"column:teacher_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Class) TableName() string {
	return "classes"
}

// Enrollment is the class/student association row.
type Enrollment struct {
	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;primaryKey"`
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Enrollment) TableName() string {
	return "class_students"
}
