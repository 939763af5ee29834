package classroom

import "time"

type CreateClassRequest struct {
	Name string `json:"name" binding:"required"`
}

type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
}

type ClassResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

func mapToResponse(c Class) ClassResponse {
	return ClassResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		TeacherID: c.TeacherID.String(),
		CreatedAt: c.CreatedAt,
	}
}
