package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
)

var _ repository.EngagementBackend = (*EngagementBackend)(nil)

// EngagementBackend drives likes and comments. The bearer token is
// optional on these endpoints; anonymous callers are identified by the
// likerId the engagement store persists per install.
type EngagementBackend struct {
	c *Client
}

func NewEngagementBackend(c *Client) *EngagementBackend {
	return &EngagementBackend{c: c}
}

func (b *EngagementBackend) likePayload(contentID, likerID string) map[string]string {
	payload := map[string]string{"contentId": contentID}
	if b.c.token() == "" && likerID != "" {
		payload["likerId"] = likerID
	}
	return payload
}

func (b *EngagementBackend) AddLike(ctx context.Context, contentID, likerID string) error {
	_, err := b.c.doJSON(ctx, http.MethodPost, "/api/content/like", b.likePayload(contentID, likerID))
	return err
}

func (b *EngagementBackend) RemoveLike(ctx context.Context, contentID, likerID string) error {
	_, err := b.c.doJSON(ctx, http.MethodPost, "/api/content/dislike", b.likePayload(contentID, likerID))
	return err
}

func (b *EngagementBackend) AddComment(ctx context.Context, contentID, body string) (*entity.Comment, error) {
	env, err := b.c.doJSON(ctx, http.MethodPost, "/api/content/comment", map[string]string{
		"contentId": contentID,
		"comment":   body,
	})
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decoding comment payload: %v", entity.ErrRemote, err)
		}
	}
	if nested, ok := raw["comment"].(map[string]any); ok {
		raw = nested
	}
	return normalizeComment(raw), nil
}

func (b *EngagementBackend) RemoveComment(ctx context.Context, contentID, commentID string) error {
	_, err := b.c.doJSON(ctx, http.MethodPost, "/api/content/uncomment", map[string]string{
		"contentId": contentID,
		"commentId": commentID,
	})
	return err
}
