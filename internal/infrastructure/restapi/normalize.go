package restapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foliopress/folio/internal/domain/entity"
)

// The collaborator has gone through several field-naming conventions.
// All aliasing lives in these tables so the store logic only ever sees
// canonical names; first alias present wins.

var articleAliases = map[string][]string{
	"id":         {"id", "_id", "contentId", "content_id"},
	"title":      {"title", "name", "heading"},
	"subtitle":   {"subtitle", "subHeading", "description"},
	"body":       {"content", "body", "markdown", "bodyMarkdown", "text"},
	"hero":       {"image", "imageUrl", "image_url", "heroImage", "cover"},
	"thumbnail":  {"thumbnail", "thumbnailUrl", "thumbnail_url", "thumb"},
	"authorID":   {"userId", "user_id", "authorId", "author_id"},
	"authorName": {"authorName", "author_name", "author", "userName"},
	"readTime":   {"readTime", "read_time", "readingTime", "readTimeMinutes"},
	"status":     {"status", "state"},
	"createdAt":  {"createdAt", "created_at", "createdOn"},
	"updatedAt":  {"updatedAt", "updated_at", "modifiedOn"},
}

var profileAliases = map[string][]string{
	"id":        {"id", "_id", "profileId"},
	"userID":    {"userId", "user_id", "uid"},
	"name":      {"name", "fullName", "username"},
	"email":     {"email"},
	"avatar":    {"avatarUrl", "avatar_url", "avatar", "photo"},
	"createdAt": {"createdAt", "created_at"},
	"updatedAt": {"updatedAt", "updated_at"},
}

var commentAliases = map[string][]string{
	"id":        {"id", "_id", "commentId"},
	"body":      {"comment", "body", "text"},
	"createdAt": {"createdAt", "created_at"},
	"updatedAt": {"updatedAt", "updated_at"},
}

// tokenKeys are the places a login/register response may carry the JWT.
var tokenKeys = []string{"token", "accessToken", "access_token", "jwt"}

// Status vocabulary translation: the wire says online/archived where the
// canonical model says approved/disapproved.
var statusToWire = map[entity.Status]string{
	entity.StatusPending:     "pending",
	entity.StatusApproved:    "online",
	entity.StatusDisapproved: "archived",
}

var statusFromWire = map[string]entity.Status{
	"pending":     entity.StatusPending,
	"online":      entity.StatusApproved,
	"approved":    entity.StatusApproved,
	"archived":    entity.StatusDisapproved,
	"disapproved": entity.StatusDisapproved,
	"rejected":    entity.StatusDisapproved,
}

func wireStatus(s entity.Status) string {
	if w, ok := statusToWire[s]; ok {
		return w
	}
	return string(s)
}

func canonicalStatus(s string) entity.Status {
	if c, ok := statusFromWire[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return entity.StatusPending
}

func pickString(m map[string]any, canonical string, aliases map[string][]string) string {
	for _, key := range aliases[canonical] {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func pickInt(m map[string]any, canonical string, aliases map[string][]string) int {
	for _, key := range aliases[canonical] {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), " min")); err == nil {
				return n
			}
		}
	}
	return 0
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func pickTime(m map[string]any, canonical string, aliases map[string][]string) time.Time {
	for _, key := range aliases[canonical] {
		switch v := m[key].(type) {
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
		case float64:
			// epoch millis
			return time.UnixMilli(int64(v)).UTC()
		}
	}
	return time.Time{}
}

// resolveURL turns the wire's relative image paths into absolute URLs
// against the API origin. Absolute URLs and data URLs pass through.
func resolveURL(origin *url.URL, ref string) string {
	if ref == "" || origin == nil {
		return ref
	}
	if strings.HasPrefix(ref, "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	return origin.ResolveReference(u).String()
}

// normalizeArticle maps one raw wire object onto the canonical Article.
func normalizeArticle(raw map[string]any, origin *url.URL) entity.Article {
	a := entity.Article{
		ID:               pickString(raw, "id", articleAliases),
		Title:            pickString(raw, "title", articleAliases),
		Subtitle:         pickString(raw, "subtitle", articleAliases),
		BodyMarkdown:     pickString(raw, "body", articleAliases),
		HeroImageURL:     resolveURL(origin, pickString(raw, "hero", articleAliases)),
		HeroThumbnailURL: resolveURL(origin, pickString(raw, "thumbnail", articleAliases)),
		AuthorID:         pickString(raw, "authorID", articleAliases),
		AuthorName:       pickString(raw, "authorName", articleAliases),
		ReadTimeMinutes:  pickInt(raw, "readTime", articleAliases),
		Status:           canonicalStatus(pickString(raw, "status", articleAliases)),
		CreatedAt:        pickTime(raw, "createdAt", articleAliases),
		UpdatedAt:        pickTime(raw, "updatedAt", articleAliases),
	}
	// Some variants nest the author as createdBy/author objects.
	for _, key := range []string{"createdBy", "author", "user"} {
		if nested, ok := raw[key].(map[string]any); ok {
			if a.AuthorID == "" {
				a.AuthorID = pickString(nested, "id", profileAliases)
			}
			if a.AuthorName == "" {
				a.AuthorName = pickString(nested, "name", profileAliases)
			}
		}
	}
	if a.ReadTimeMinutes < 1 {
		a.ReadTimeMinutes = 1
	}
	return a
}

func normalizeProfile(raw map[string]any) *entity.Profile {
	p := &entity.Profile{
		ID:        pickString(raw, "id", profileAliases),
		UserID:    pickString(raw, "userID", profileAliases),
		Name:      pickString(raw, "name", profileAliases),
		Email:     pickString(raw, "email", profileAliases),
		AvatarURL: pickString(raw, "avatar", profileAliases),
		CreatedAt: pickTime(raw, "createdAt", profileAliases),
		UpdatedAt: pickTime(raw, "updatedAt", profileAliases),
	}
	if p.UserID == "" {
		p.UserID = p.ID
	}
	return p
}

func normalizeComment(raw map[string]any) *entity.Comment {
	c := &entity.Comment{
		ID:        pickString(raw, "id", commentAliases),
		Body:      pickString(raw, "body", commentAliases),
		CreatedAt: pickTime(raw, "createdAt", commentAliases),
		UpdatedAt: pickTime(raw, "updatedAt", commentAliases),
	}
	for _, key := range []string{"createdBy", "author", "user"} {
		if nested, ok := raw[key].(map[string]any); ok {
			c.CreatedBy = &entity.CommentAuthor{
				ID:   pickString(nested, "id", profileAliases),
				Name: pickString(nested, "name", profileAliases),
			}
			break
		}
	}
	return c
}

func pickToken(raw map[string]any) string {
	for _, key := range tokenKeys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// normalizeRole reads the role however the variant spells it, including
// the boolean isAdmin form.
func normalizeRole(raw map[string]any) (entity.Role, bool) {
	if s, ok := raw["role"].(string); ok && s != "" {
		return entity.ParseRole(s), true
	}
	if b, ok := raw["isAdmin"].(bool); ok {
		if b {
			return entity.RoleAdmin, true
		}
		return entity.RoleUser, true
	}
	return entity.RoleUser, false
}
