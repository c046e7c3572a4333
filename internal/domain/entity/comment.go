package entity

import "time"

// CommentAuthor identifies who wrote a comment. May be absent for
// anonymous comments.
type CommentAuthor struct {
	ID   string
	Name string
}

// Comment is attached to exactly one article. Deletable by its author
// or by an admin; the collaborator enforces this, the client mirrors it
// for UI checks.
type Comment struct {
	ID        string
	Body      string
	CreatedBy *CommentAuthor
	CreatedAt time.Time
	UpdatedAt time.Time
}
