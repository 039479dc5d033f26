package post

import (
	"errors"
	"fmt"
	"time"

	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"gorm.io/gorm"
)

// ErrSlugTaken is returned when a create or slug change collides with an
// existing post.
var ErrSlugTaken = errors.New("slug already exists")

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns a paginated list of posts. Unauthenticated callers only see
// published posts, newest publication first.
func (s *Service) List(q pagination.Query, lq ListQuery, isAdmin bool) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{})
	if isAdmin {
		tx = tx.Order("created_at DESC")
	} else {
		tx = tx.Where("is_published = ?", true).Order("published_at DESC")
	}
	if lq.Tag != nil {
		tx = tx.Where("tags LIKE ?", fmt.Sprintf("%%%q%%", *lq.Tag))
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetBySlug fetches a single post by slug, or (nil, nil).
func (s *Service) GetBySlug(slug string, isAdmin bool) (*models.PostModel, error) {
	var post models.PostModel
	tx := s.db.Where("slug = ?", slug)
	if !isAdmin {
		tx = tx.Where("is_published = ?", true)
	}
	if err := tx.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID fetches a single post by ID, or (nil, nil).
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post. Posts start unpublished unless the DTO says
// otherwise; publishing at creation sets PublishedAt.
func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	post := models.PostModel{
		Slug:    dto.Slug,
		Title:   dto.Title,
		Text:    dto.Text,
		Summary: dto.Summary,
		Tags:    models.StringArray(dto.Tags),
		Images:  dto.Images,
	}
	if dto.IsPublished != nil && *dto.IsPublished {
		now := time.Now()
		post.IsPublished = true
		post.PublishedAt = &now
	}

	if err := s.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return &post, nil
}

// Update patches a post by ID. Returns (nil, nil) when the post does not
// exist. Publication state is changed through Publish/Unpublish, not here.
func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		updates["slug"] = *dto.Slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(dto.Tags)
	}
	if dto.Images != nil {
		updates["images"] = dto.Images
	}

	if len(updates) > 0 {
		if err := s.db.Model(post).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSlugTaken
			}
			return nil, err
		}
	}
	return post, nil
}

// Publish marks a post published. The returned firstPublish is true only on
// the transition from never-published, which is the trigger for subscriber
// fan-out; re-publishing after an unpublish stays quiet.
func (s *Service) Publish(id string) (post *models.PostModel, firstPublish bool, err error) {
	post, err = s.GetByID(id)
	if err != nil || post == nil {
		return post, false, err
	}
	if post.IsPublished {
		return post, false, nil
	}

	firstPublish = post.PublishedAt == nil
	updates := map[string]interface{}{"is_published": true}
	if firstPublish {
		now := time.Now()
		updates["published_at"] = now
		post.PublishedAt = &now
	}
	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, false, err
	}
	post.IsPublished = true
	return post, firstPublish, nil
}

// Unpublish pulls a post from the public listing. PublishedAt is kept so a
// later re-publish does not re-notify subscribers.
func (s *Service) Unpublish(id string) (*models.PostModel, error) {
	post, err := s.GetByID(id)
	if err != nil || post == nil {
		return post, err
	}
	if !post.IsPublished {
		return post, nil
	}
	if err := s.db.Model(post).Update("is_published", false).Error; err != nil {
		return nil, err
	}
	post.IsPublished = false
	return post, nil
}

// Delete soft-deletes a post by ID.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PostModel{}, "id = ?", id).Error
}
