package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/internal/infrastructure/keyval"
	"github.com/foliopress/folio/pkg/helpers"
	"github.com/foliopress/folio/pkg/validation"
)

const keyAnonLiker = "engagement:anon-id"

// EngagementService owns per-article likes and comments. The backend is
// the source of truth for membership and counts; this layer never keeps
// a local like tally.
type EngagementService struct {
	session *SessionService
	backend repository.EngagementBackend
	kv      keyval.Store
	logger  *logrus.Logger
}

func NewEngagementService(session *SessionService, backend repository.EngagementBackend, kv keyval.Store, logger *logrus.Logger) *EngagementService {
	return &EngagementService{session: session, backend: backend, kv: kv, logger: logger}
}

// likerID is the signed-in user id, or a per-install identifier for
// anonymous callers so their like/unlike stays idempotent per device.
func (s *EngagementService) likerID(ctx context.Context) string {
	if sess := s.session.Current(); sess.Identity.ID != "" {
		return sess.Identity.ID
	}
	raw, err := s.kv.Get(ctx, keyAnonLiker)
	if err == nil {
		return string(raw)
	}
	if !errors.Is(err, keyval.ErrKeyNotFound) {
		s.logger.WithError(err).Warn("reading anonymous liker id")
	}
	id := "anon-" + uuid.NewString()
	if err := s.kv.Set(ctx, keyAnonLiker, []byte(id)); err != nil {
		s.logger.WithError(err).Warn("persisting anonymous liker id")
	}
	return id
}

// AddLike records a like. Liking twice is the same as liking once; the
// backend enforces set semantics.
func (s *EngagementService) AddLike(ctx context.Context, contentID string) error {
	if err := s.backend.AddLike(ctx, contentID, s.likerID(ctx)); err != nil {
		helpers.LogError(s.logger, "like failed", err, logrus.Fields{"content_id": contentID})
		return err
	}
	return nil
}

func (s *EngagementService) RemoveLike(ctx context.Context, contentID string) error {
	if err := s.backend.RemoveLike(ctx, contentID, s.likerID(ctx)); err != nil {
		helpers.LogError(s.logger, "unlike failed", err, logrus.Fields{"content_id": contentID})
		return err
	}
	return nil
}

// AddComment posts a comment and returns it with the backend-assigned id
// and timestamps.
func (s *EngagementService) AddComment(ctx context.Context, contentID, body string) (*entity.Comment, error) {
	if err := validation.Var("comment", body, "required,max=2000"); err != nil {
		return nil, err
	}
	c, err := s.backend.AddComment(ctx, contentID, body)
	if err != nil {
		helpers.LogError(s.logger, "comment failed", err, logrus.Fields{"content_id": contentID})
		return nil, err
	}
	return c, nil
}

func (s *EngagementService) RemoveComment(ctx context.Context, contentID, commentID string) error {
	if err := s.backend.RemoveComment(ctx, contentID, commentID); err != nil {
		helpers.LogError(s.logger, "uncomment failed", err, logrus.Fields{"content_id": contentID, "comment_id": commentID})
		return err
	}
	return nil
}

// CanDeleteComment mirrors the backend's rule (comment author or any
// admin) for UI-facing checks. The backend remains the authority.
func (s *EngagementService) CanDeleteComment(c *entity.Comment) bool {
	sess := s.session.Current()
	if sess.Role == entity.RoleAdmin {
		return true
	}
	return c.CreatedBy != nil && sess.Identity.ID != "" && c.CreatedBy.ID == sess.Identity.ID
}
