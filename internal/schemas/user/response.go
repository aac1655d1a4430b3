package user

import (
	"time"

	"github.com/Rana718/forge/internal/models"
)

type Response struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(m *models.User) Response {
	return Response{
		ID:          m.ID,
		Email:       m.Email,
		FullName:    m.FullName,
		IsActive:    m.IsActive,
		IsSuperuser: m.IsSuperuser,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(ms []models.User) []Response {
	out := make([]Response, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
