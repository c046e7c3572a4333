package restapi

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliopress/folio/internal/domain/entity"
)

func origin(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://api.example.com")
	require.NoError(t, err)
	return u
}

func TestStatusVocabularyTranslation(t *testing.T) {
	assert.Equal(t, "online", wireStatus(entity.StatusApproved))
	assert.Equal(t, "archived", wireStatus(entity.StatusDisapproved))
	assert.Equal(t, "pending", wireStatus(entity.StatusPending))

	assert.Equal(t, entity.StatusApproved, canonicalStatus("online"))
	assert.Equal(t, entity.StatusApproved, canonicalStatus("Approved"))
	assert.Equal(t, entity.StatusDisapproved, canonicalStatus("archived"))
	assert.Equal(t, entity.StatusDisapproved, canonicalStatus("rejected"))
	assert.Equal(t, entity.StatusPending, canonicalStatus("pending"))
	// unknown vocabulary falls back to pending, never an empty status
	assert.Equal(t, entity.StatusPending, canonicalStatus("whatever"))
}

func TestResolveURL(t *testing.T) {
	o := origin(t)
	assert.Equal(t, "https://api.example.com/uploads/a.png", resolveURL(o, "/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", resolveURL(o, "https://cdn.example.com/a.png"))
	assert.Equal(t, "data:image/png;base64,xyz", resolveURL(o, "data:image/png;base64,xyz"))
	assert.Equal(t, "", resolveURL(o, ""))
}

func TestNormalizeArticleCamelCaseVariant(t *testing.T) {
	raw := map[string]any{
		"contentId": "m1",
		"name":      "Autumn Issue",
		"content":   "# body",
		"imageUrl":  "/uploads/hero.jpg",
		"userId":    "u1",
		"authorName": "Ann",
		"readTime":  float64(4),
		"status":    "online",
		"createdAt": "2025-03-01T10:00:00Z",
	}
	a := normalizeArticle(raw, origin(t))
	assert.Equal(t, "m1", a.ID)
	assert.Equal(t, "Autumn Issue", a.Title)
	assert.Equal(t, "# body", a.BodyMarkdown)
	assert.Equal(t, "https://api.example.com/uploads/hero.jpg", a.HeroImageURL)
	assert.Equal(t, "u1", a.AuthorID)
	assert.Equal(t, "Ann", a.AuthorName)
	assert.Equal(t, 4, a.ReadTimeMinutes)
	assert.Equal(t, entity.StatusApproved, a.Status)
	assert.Equal(t, 2025, a.CreatedAt.Year())
}

func TestNormalizeArticleSnakeCaseVariant(t *testing.T) {
	raw := map[string]any{
		"_id":        "m2",
		"title":      "Winter Issue",
		"body":       "text",
		"image_url":  "https://cdn.example.com/x.png",
		"author_id":  "u2",
		"read_time":  "7",
		"state":      "archived",
		"updated_at": "2025-04-01T00:00:00Z",
	}
	a := normalizeArticle(raw, origin(t))
	assert.Equal(t, "m2", a.ID)
	assert.Equal(t, "Winter Issue", a.Title)
	assert.Equal(t, "https://cdn.example.com/x.png", a.HeroImageURL)
	assert.Equal(t, "u2", a.AuthorID)
	assert.Equal(t, 7, a.ReadTimeMinutes)
	assert.Equal(t, entity.StatusDisapproved, a.Status)
}

func TestNormalizeArticleNestedAuthor(t *testing.T) {
	raw := map[string]any{
		"id":      "m3",
		"title":   "T",
		"content": "b",
		"createdBy": map[string]any{
			"_id":  "u3",
			"name": "Bob",
		},
	}
	a := normalizeArticle(raw, origin(t))
	assert.Equal(t, "u3", a.AuthorID)
	assert.Equal(t, "Bob", a.AuthorName)
	// absent read time clamps, never zero
	assert.Equal(t, 1, a.ReadTimeMinutes)
	// absent status defaults to pending
	assert.Equal(t, entity.StatusPending, a.Status)
}

func TestNormalizeProfileAliases(t *testing.T) {
	p := normalizeProfile(map[string]any{
		"_id":       "p1",
		"fullName":  "Ann Example",
		"email":     "ann@example.com",
		"avatarUrl": "https://cdn/a.png",
	})
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "p1", p.UserID) // falls back to id
	assert.Equal(t, "Ann Example", p.Name)
	assert.Equal(t, "ann@example.com", p.Email)
}

func TestNormalizeCommentNestedAuthor(t *testing.T) {
	c := normalizeComment(map[string]any{
		"commentId": "c1",
		"comment":   "nice read",
		"user":      map[string]any{"id": "u1", "name": "Ann"},
	})
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "nice read", c.Body)
	require.NotNil(t, c.CreatedBy)
	assert.Equal(t, "u1", c.CreatedBy.ID)
}

func TestPickToken(t *testing.T) {
	assert.Equal(t, "t", pickToken(map[string]any{"token": "t"}))
	assert.Equal(t, "t", pickToken(map[string]any{"accessToken": "t"}))
	assert.Equal(t, "t", pickToken(map[string]any{"jwt": "t"}))
	assert.Equal(t, "", pickToken(map[string]any{"other": "t"}))
}

func TestNormalizeRole(t *testing.T) {
	role, ok := normalizeRole(map[string]any{"role": "admin"})
	assert.True(t, ok)
	assert.Equal(t, entity.RoleAdmin, role)

	role, ok = normalizeRole(map[string]any{"isAdmin": true})
	assert.True(t, ok)
	assert.Equal(t, entity.RoleAdmin, role)

	role, ok = normalizeRole(map[string]any{"isAdmin": false})
	assert.True(t, ok)
	assert.Equal(t, entity.RoleUser, role)

	_, ok = normalizeRole(map[string]any{})
	assert.False(t, ok)
}
