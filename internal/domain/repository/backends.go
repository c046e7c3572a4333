// Package repository defines the backend interfaces each persistence
// variant (REST collaborator, local fallback) implements. The stores in
// internal/application only ever see these interfaces; variant selection
// happens once at wiring time.
package repository

import (
	"context"

	"github.com/foliopress/folio/internal/domain/entity"
)

// AuthResult is what an auth backend hands back after a successful
// sign-in or sign-up. Profile may be nil when the variant does not return
// one; the session store then synthesizes it from token claims. Token may
// be empty after SignUp for variants that require a follow-up login.
type AuthResult struct {
	Token    string
	Identity entity.Identity
	Profile  *entity.Profile
	Role     entity.Role
}

// AuthBackend is the authentication collaborator.
type AuthBackend interface {
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignUp(ctx context.Context, email, password, name string) (*AuthResult, error)
	// SignOut notifies the collaborator that the token is no longer in use.
	// Callers treat failures as best-effort.
	SignOut(ctx context.Context, token string) error
	FetchProfile(ctx context.Context, token string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, token string, patch entity.ProfilePatch) (*entity.Profile, error)
}

// ListQuery addresses one page of the article collection. AuthorID, when
// set, restricts results to that author. Status, when set, restricts to
// one canonical status.
type ListQuery struct {
	Page     int
	Limit    int
	Status   entity.Status
	AuthorID string
}

// Page is one page of articles plus the pagination contract shared by
// every backend variant.
type Page struct {
	Items       []entity.Article
	CurrentPage int
	TotalPages  int
	TotalCount  int
	Limit       int
	HasNextPage bool
	HasPrevPage bool
}

// ContentBackend is the article collection collaborator.
type ContentBackend interface {
	List(ctx context.Context, q ListQuery) (*Page, error)
	Create(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error)
	Update(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status entity.Status) error
}

// EngagementBackend owns per-article likes and comments. likerID is the
// authenticated user id or a per-install anonymous identifier.
type EngagementBackend interface {
	AddLike(ctx context.Context, contentID, likerID string) error
	RemoveLike(ctx context.Context, contentID, likerID string) error
	AddComment(ctx context.Context, contentID, body string) (*entity.Comment, error)
	RemoveComment(ctx context.Context, contentID, commentID string) error
}
