package models

import (
	"time"

	"gorm.io/datatypes"
)

// LocalizedText carries the english and spanish copy for a display field.
// Both languages are required before a project is publishable.
type LocalizedText struct {
	En string `json:"en"`
	Es string `json:"es"`
}

// Origin marks a project as derived from a course, bootcamp or tutorial.
// A nil origin (or IsCourse false) means the project is original work.
type Origin struct {
	IsCourse  bool   `json:"is_course"`
	Name      string `json:"name,omitempty"`
	Author    string `json:"author,omitempty"`
	CourseURL string `json:"course_url,omitempty"`
	AuthorURL string `json:"author_url,omitempty"`
}

// Project represents one showcased repository
type Project struct {
	ID          string                            `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	Title       string                            `json:"title" db:"title" gorm:"type:text;not null"`
	Tagline     datatypes.JSONType[LocalizedText] `json:"tagline" db:"tagline" gorm:"type:jsonb;not null"`
	Description datatypes.JSONType[LocalizedText] `json:"description" db:"description" gorm:"type:jsonb;not null"`
	TechStack   datatypes.JSONSlice[string]       `json:"tech_stack" db:"tech_stack" gorm:"type:jsonb;not null"`
	PrimaryTech string                            `json:"primary_tech" db:"primary_tech" gorm:"type:text;not null;index"`
	ImgURL      *string                           `json:"img_url" db:"img_url" gorm:"type:text"`
	DemoURL     *string                           `json:"demo_url" db:"demo_url" gorm:"type:text"`
	RepoURL     string                            `json:"repo_url" db:"repo_url" gorm:"type:text;not null"`
	Origin      *datatypes.JSONType[Origin]       `json:"origin,omitempty" db:"origin" gorm:"type:jsonb"`
	CreatedAt   time.Time                         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at" db:"updated_at"`
}
