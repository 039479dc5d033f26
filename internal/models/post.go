package models

import "time"

// PostModel is a blog post.
type PostModel struct {
	Base
	Slug        string      `json:"slug"         gorm:"uniqueIndex;not null"`
	Title       string      `json:"title"        gorm:"not null"`
	Text        string      `json:"text"         gorm:"type:longtext"`
	Summary     string      `json:"summary"`
	Tags        StringArray `json:"tags"         gorm:"type:longtext"`
	Images      []Image     `json:"images"       gorm:"type:longtext;serializer:json"`
	IsPublished bool        `json:"is_published" gorm:"default:false;index"`
	PublishedAt *time.Time  `json:"published_at"`
}

func (PostModel) TableName() string { return "posts" }
