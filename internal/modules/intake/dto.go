package intake

import (
	"time"

	"github.com/solsticehq/solstice-api/internal/models"
)

// SubmitDTO is the request body shared by the contact, careers and media
// forms. Link carries a portfolio or outlet URL where the form has one.
type SubmitDTO struct {
	Name    string `json:"name"    binding:"required"`
	Email   string `json:"email"   binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
	Link    string `json:"link"`
}

// ListQuery filters the admin inbox listing.
type ListQuery struct {
	Kind   string `form:"kind"`
	Unread bool   `form:"unread"`
}

type inquiryResponse struct {
	ID      string             `json:"id"`
	Kind    models.InquiryKind `json:"kind"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Subject string             `json:"subject"`
	Message string             `json:"message"`
	Link    string             `json:"link,omitempty"`
	Read    bool               `json:"read"`
	Created time.Time          `json:"created"`
}

func toResponse(m *models.InquiryModel) inquiryResponse {
	return inquiryResponse{
		ID:      m.ID,
		Kind:    m.Kind,
		Name:    m.Name,
		Email:   m.Email,
		Subject: m.Subject,
		Message: m.Message,
		Link:    m.Link,
		Read:    m.Read,
		Created: m.CreatedAt,
	}
}
