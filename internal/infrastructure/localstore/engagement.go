package localstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
)

var _ repository.EngagementBackend = (*Store)(nil)

func (s *Store) loadLikes(ctx context.Context) (map[string]map[string]bool, error) {
	likes := map[string]map[string]bool{}
	if _, err := getJSON(ctx, s.kv, keyLikes, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// AddLike records the identifier's membership in the article's like set.
// Adding twice is a no-op, which is what keeps the operation idempotent.
func (s *Store) AddLike(ctx context.Context, contentID, likerID string) error {
	if err := s.requireArticle(ctx, contentID); err != nil {
		return err
	}
	likes, err := s.loadLikes(ctx)
	if err != nil {
		return err
	}
	set := likes[contentID]
	if set == nil {
		set = map[string]bool{}
		likes[contentID] = set
	}
	if set[likerID] {
		return nil
	}
	set[likerID] = true
	return setJSON(ctx, s.kv, keyLikes, likes)
}

func (s *Store) RemoveLike(ctx context.Context, contentID, likerID string) error {
	if err := s.requireArticle(ctx, contentID); err != nil {
		return err
	}
	likes, err := s.loadLikes(ctx)
	if err != nil {
		return err
	}
	set := likes[contentID]
	if set == nil || !set[likerID] {
		return nil
	}
	delete(set, likerID)
	return setJSON(ctx, s.kv, keyLikes, likes)
}

func (s *Store) requireArticle(ctx context.Context, contentID string) error {
	articles, err := s.loadArticles(ctx)
	if err != nil {
		return err
	}
	for i := range articles {
		if articles[i].ID == contentID {
			return nil
		}
	}
	return entity.ErrNotFound
}

func (s *Store) loadComments(ctx context.Context) (map[string][]entity.Comment, error) {
	comments := map[string][]entity.Comment{}
	if _, err := getJSON(ctx, s.kv, keyComments, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) AddComment(ctx context.Context, contentID, body string) (*entity.Comment, error) {
	if err := s.requireArticle(ctx, contentID); err != nil {
		return nil, err
	}
	comments, err := s.loadComments(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := entity.Comment{
		ID:        uuid.NewString(),
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if callerID, _ := s.currentCaller(); callerID != "" {
		if u, err := s.findByID(ctx, callerID); err == nil {
			c.CreatedBy = &entity.CommentAuthor{ID: u.ID, Name: u.Name}
		}
	}
	comments[contentID] = append(comments[contentID], c)
	if err := setJSON(ctx, s.kv, keyComments, comments); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) RemoveComment(ctx context.Context, contentID, commentID string) error {
	comments, err := s.loadComments(ctx)
	if err != nil {
		return err
	}
	list := comments[contentID]
	for i := range list {
		if list[i].ID != commentID {
			continue
		}
		callerID, role := s.currentCaller()
		owns := list[i].CreatedBy != nil && list[i].CreatedBy.ID == callerID
		if role != entity.RoleAdmin && !owns {
			return entity.ErrAuthorizationDenied
		}
		comments[contentID] = append(list[:i], list[i+1:]...)
		return setJSON(ctx, s.kv, keyComments, comments)
	}
	return entity.ErrNotFound
}
