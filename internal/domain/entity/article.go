package entity

import "time"

// Status is the review state of an article. Every article carries exactly
// one status from the moment it is created.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDisapproved Status = "disapproved"
)

// Valid reports whether s is one of the three canonical statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDisapproved:
		return true
	}
	return false
}

// Article is the canonical record every backend variant is normalized into.
// Content fields are owned by the author; Status is owned by admins and
// only changes through an explicit status update.
type Article struct {
	ID               string
	Title            string
	Subtitle         string
	BodyMarkdown     string
	HeroImageURL     string
	HeroThumbnailURL string
	AuthorID         string
	AuthorName       string
	ReadTimeMinutes  int
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ArticleDraft is the author-supplied input for a new article.
type ArticleDraft struct {
	Title        string `validate:"required,max=200"`
	Subtitle     string `validate:"max=300"`
	BodyMarkdown string `validate:"required"`
}

// ArticlePatch is a partial content update. Nil fields are left untouched;
// a non-nil BodyMarkdown triggers a read-time recomputation.
type ArticlePatch struct {
	Title        *string
	Subtitle     *string
	BodyMarkdown *string
}

// HeroImage is an in-memory image payload bound for upload.
type HeroImage struct {
	Filename    string
	ContentType string
	Data        []byte
}
