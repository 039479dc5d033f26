package post

import (
	"time"

	"github.com/solsticehq/solstice-api/internal/models"
)

// CreatePostDTO is the request body for creating a post.
type CreatePostDTO struct {
	Slug        string         `json:"slug"    binding:"required"`
	Title       string         `json:"title"   binding:"required"`
	Text        string         `json:"text"    binding:"required"`
	Summary     string         `json:"summary"`
	Tags        []string       `json:"tags"`
	Images      []models.Image `json:"images"`
	IsPublished *bool          `json:"isPublished"`
}

// UpdatePostDTO is the request body for updating a post (all fields optional).
type UpdatePostDTO struct {
	Slug    *string        `json:"slug"`
	Title   *string        `json:"title"`
	Text    *string        `json:"text"`
	Summary *string        `json:"summary"`
	Tags    []string       `json:"tags"`
	Images  []models.Image `json:"images"`
}

// ListQuery holds query params for listing posts.
type ListQuery struct {
	Tag *string `form:"tag"`
}

// postResponse is the API response shape for a post.
type postResponse struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Text        string         `json:"text"`
	Summary     string         `json:"summary"`
	Tags        []string       `json:"tags"`
	Images      []models.Image `json:"images"`
	IsPublished bool           `json:"isPublished"`
	PublishedAt *time.Time     `json:"publishedAt"`
	Created     time.Time      `json:"created"`
	Modified    *time.Time     `json:"modified"`
}

func toResponse(p *models.PostModel) postResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	images := p.Images
	if images == nil {
		images = []models.Image{}
	}
	var modified *time.Time
	if !p.UpdatedAt.IsZero() && p.UpdatedAt.After(p.CreatedAt) {
		m := p.UpdatedAt
		modified = &m
	}
	return postResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Text:        p.Text,
		Summary:     p.Summary,
		Tags:        tags,
		Images:      images,
		IsPublished: p.IsPublished,
		PublishedAt: p.PublishedAt,
		Created:     p.CreatedAt,
		Modified:    modified,
	}
}
