package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/pkg/helpers"
	"github.com/foliopress/folio/pkg/readtime"
	"github.com/foliopress/folio/pkg/validation"
)

// ListOptions scope one page of the article collection. Mine restricts
// to the caller's own articles; admins see everything regardless.
type ListOptions struct {
	Mine   bool
	Status entity.Status
	Page   int
	Limit  int
}

// ContentService is the content repository: list/create/update/delete and
// status transitions against whichever backend variant was wired in. It
// keeps the last loaded page so callers can keep rendering it while the
// next one is in flight.
type ContentService struct {
	session *SessionService
	backend repository.ContentBackend
	logger  *logrus.Logger

	defaultLimit int

	mu       sync.Mutex
	items    []entity.Article
	loading  bool
	epoch    uint64
	lastOpts ListOptions
}

func NewContentService(session *SessionService, backend repository.ContentBackend, logger *logrus.Logger, defaultLimit int) *ContentService {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &ContentService{
		session:      session,
		backend:      backend,
		logger:       logger,
		defaultLimit: defaultLimit,
		lastOpts:     ListOptions{Page: 1, Limit: defaultLimit},
	}
}

// Cached returns the last successfully loaded page's items plus the
// loading flag. The items stay visible while a newer request is in
// flight; loading is the only signal that one is.
func (s *ContentService) Cached() ([]entity.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entity.Article, len(s.items))
	copy(items, s.items)
	return items, s.loading
}

func (s *ContentService) query(opts ListOptions) repository.ListQuery {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = s.defaultLimit
	}
	q := repository.ListQuery{Page: opts.Page, Limit: opts.Limit, Status: opts.Status}
	if opts.Mine {
		sess := s.session.Current()
		if sess.Role != entity.RoleAdmin {
			q.AuthorID = sess.Identity.ID
		}
	}
	return q
}

// List fetches one page. Overlapping calls race by design; an epoch
// counter makes sure only the newest request's result replaces the
// cached items, so a stale response resolving late is discarded.
func (s *ContentService) List(ctx context.Context, opts ListOptions) (*repository.Page, error) {
	q := s.query(opts)

	s.mu.Lock()
	s.epoch++
	e := s.epoch
	s.loading = true
	s.lastOpts = opts
	s.mu.Unlock()

	page, err := s.backend.List(ctx, q)

	s.mu.Lock()
	current := s.epoch == e
	if current {
		s.loading = false
		if err == nil {
			s.items = page.Items
		}
	}
	s.mu.Unlock()

	if err != nil {
		helpers.LogError(s.logger, "listing articles failed", err, logrus.Fields{"page": q.Page})
		return nil, err
	}
	return page, nil
}

// reload restores cache consistency after a mutation. The mutation
// already succeeded, so a reload failure is logged, not surfaced.
func (s *ContentService) reload(ctx context.Context) {
	s.mu.Lock()
	opts := s.lastOpts
	s.mu.Unlock()
	if _, err := s.List(ctx, opts); err != nil {
		s.logger.WithError(err).Warn("post-mutation reload failed")
	}
}

func (s *ContentService) requireIdentity() (Session, error) {
	if s.session.State() != StateAuthenticated {
		return Session{}, entity.ErrAuthenticationRequired
	}
	return s.session.Current(), nil
}

func checkHero(hero *entity.HeroImage) error {
	if hero == nil {
		return nil
	}
	ct, err := validation.HeroImage(hero.Data)
	if err != nil {
		return err
	}
	hero.ContentType = ct
	return nil
}

// Create submits a new article. The caller must be signed in; the draft
// is validated and the hero image checked before anything goes on the
// wire. Status always starts at pending and the author is bound to the
// caller.
func (s *ContentService) Create(ctx context.Context, draft entity.ArticleDraft, hero *entity.HeroImage) (*entity.Article, error) {
	sess, err := s.requireIdentity()
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(draft); err != nil {
		return nil, err
	}
	if err := checkHero(hero); err != nil {
		return nil, err
	}

	authorName := sess.Identity.Email
	if sess.Profile != nil && sess.Profile.Name != "" {
		authorName = sess.Profile.Name
	}
	article := &entity.Article{
		Title:           draft.Title,
		Subtitle:        draft.Subtitle,
		BodyMarkdown:    draft.BodyMarkdown,
		AuthorID:        sess.Identity.ID,
		AuthorName:      authorName,
		ReadTimeMinutes: readtime.EstimateMinutes(draft.BodyMarkdown),
		Status:          entity.StatusPending,
	}
	created, err := s.backend.Create(ctx, article, hero)
	if err != nil {
		helpers.LogError(s.logger, "creating article failed", err, logrus.Fields{"author_id": sess.Identity.ID})
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"id": created.ID, "read_time": created.ReadTimeMinutes}).Info("article submitted")
	s.reload(ctx)
	return created, nil
}

// findArticle resolves an id: the cached page answers first, then the
// backend listing is paged through until the id turns up or the
// collection is exhausted.
func (s *ContentService) findArticle(ctx context.Context, id string) (*entity.Article, error) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			a := s.items[i]
			s.mu.Unlock()
			return &a, nil
		}
	}
	s.mu.Unlock()
	return s.fetchArticle(ctx, id)
}

// fetchArticle walks the full backend listing. There is no
// single-article endpoint on the wire, so the listing is the only
// authoritative lookup; the one-page cache alone must never decide
// that an id does not exist.
func (s *ContentService) fetchArticle(ctx context.Context, id string) (*entity.Article, error) {
	q := repository.ListQuery{Page: 1, Limit: s.defaultLimit}
	for {
		page, err := s.backend.List(ctx, q)
		if err != nil {
			return nil, err
		}
		for i := range page.Items {
			if page.Items[i].ID == id {
				a := page.Items[i]
				return &a, nil
			}
		}
		if !page.HasNextPage || q.Page >= page.TotalPages {
			return nil, entity.ErrNotFound
		}
		q.Page++
	}
}

// Get resolves one article by id. The wire has no single-article
// endpoint, so the answer comes from the cached page or, failing that,
// from paging through the backend listing.
func (s *ContentService) Get(ctx context.Context, id string) (*entity.Article, error) {
	return s.findArticle(ctx, id)
}

// Update applies a partial content update. Read time is recomputed only
// when the body changes; the hero image is replaced only when a new one
// is supplied. Author-or-admin authorization belongs to the backend.
func (s *ContentService) Update(ctx context.Context, id string, patch entity.ArticlePatch, hero *entity.HeroImage) (*entity.Article, error) {
	if _, err := s.requireIdentity(); err != nil {
		return nil, err
	}
	if err := checkHero(hero); err != nil {
		return nil, err
	}
	existing, err := s.findArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		updated.Subtitle = *patch.Subtitle
	}
	if patch.BodyMarkdown != nil {
		updated.BodyMarkdown = *patch.BodyMarkdown
		updated.ReadTimeMinutes = readtime.EstimateMinutes(*patch.BodyMarkdown)
	}
	if updated.Title == "" {
		return nil, &validation.FieldError{Field: "title", Message: "is required"}
	}
	if updated.BodyMarkdown == "" {
		return nil, &validation.FieldError{Field: "body", Message: "is required"}
	}

	res, err := s.backend.Update(ctx, &updated, hero)
	if err != nil {
		helpers.LogError(s.logger, "updating article failed", err, logrus.Fields{"id": id})
		return nil, err
	}
	s.reload(ctx)
	return res, nil
}

// Delete removes an article. Author-or-admin is the backend's call.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	if _, err := s.requireIdentity(); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		helpers.LogError(s.logger, "deleting article failed", err, logrus.Fields{"id": id})
		return err
	}
	s.logger.WithField("id", id).Info("article deleted")
	s.reload(ctx)
	return nil
}

// SetStatus transitions an article's review status. The role check here
// is a fast-fail: a non-admin gets ErrAuthorizationDenied before any
// backend call. The backend stays the authority for the real decision.
func (s *ContentService) SetStatus(ctx context.Context, id string, status entity.Status) error {
	sess, err := s.requireIdentity()
	if err != nil {
		return err
	}
	if sess.Role != entity.RoleAdmin {
		return entity.ErrAuthorizationDenied
	}
	if !status.Valid() {
		return &validation.FieldError{Field: "status", Message: "must be one of: pending approved disapproved"}
	}
	if err := s.backend.SetStatus(ctx, id, status); err != nil {
		helpers.LogError(s.logger, "status update failed", err, logrus.Fields{"id": id, "status": string(status)})
		return err
	}
	s.logger.WithFields(logrus.Fields{"id": id, "status": string(status)}).Info("article status updated")
	s.reload(ctx)
	return nil
}
