package localstore

import (
	"context"
	"encoding/base64"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
)

var _ repository.ContentBackend = (*Store)(nil)

func (s *Store) loadArticles(ctx context.Context) ([]entity.Article, error) {
	var articles []entity.Article
	if _, err := getJSON(ctx, s.kv, keyArticles, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *Store) saveArticles(ctx context.Context, articles []entity.Article) error {
	return setJSON(ctx, s.kv, keyArticles, articles)
}

// inlineHero stores the image as a data URL, the fallback-mode stand-in
// for the collaborator's object storage.
func inlineHero(hero *entity.HeroImage) string {
	return "data:" + hero.ContentType + ";base64," + base64.StdEncoding.EncodeToString(hero.Data)
}

// List paginates the locally held collection client-side under the same
// contract the remote backend returns: newest first, ceil(total/limit)
// pages, has-next/has-prev flags.
func (s *Store) List(ctx context.Context, q repository.ListQuery) (*repository.Page, error) {
	all, err := s.loadArticles(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]entity.Article, 0, len(all))
	for _, a := range all {
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.AuthorID != "" && a.AuthorID != q.AuthorID {
			continue
		}
		filtered = append(filtered, a)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &repository.Page{
		Items:       filtered[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func (s *Store) Create(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	articles, err := s.loadArticles(ctx)
	if err != nil {
		return nil, err
	}
	stored := *a
	stored.ID = uuid.NewString()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if hero != nil {
		stored.HeroImageURL = inlineHero(hero)
		stored.HeroThumbnailURL = stored.HeroImageURL
	}
	articles = append(articles, stored)
	if err := s.saveArticles(ctx, articles); err != nil {
		return nil, err
	}
	return &stored, nil
}

// canMutate is the author-or-admin rule the remote collaborator would
// otherwise enforce; in fallback mode this store is the authority.
func (s *Store) canMutate(a *entity.Article) bool {
	callerID, role := s.currentCaller()
	return role == entity.RoleAdmin || (callerID != "" && callerID == a.AuthorID)
}

func (s *Store) Update(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	articles, err := s.loadArticles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if articles[i].ID != a.ID {
			continue
		}
		if !s.canMutate(&articles[i]) {
			return nil, entity.ErrAuthorizationDenied
		}
		updated := *a
		updated.AuthorID = articles[i].AuthorID
		updated.AuthorName = articles[i].AuthorName
		updated.Status = articles[i].Status
		updated.CreatedAt = articles[i].CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		if hero != nil {
			updated.HeroImageURL = inlineHero(hero)
			updated.HeroThumbnailURL = updated.HeroImageURL
		} else {
			updated.HeroImageURL = articles[i].HeroImageURL
			updated.HeroThumbnailURL = articles[i].HeroThumbnailURL
		}
		articles[i] = updated
		if err := s.saveArticles(ctx, articles); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, entity.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	articles, err := s.loadArticles(ctx)
	if err != nil {
		return err
	}
	for i := range articles {
		if articles[i].ID != id {
			continue
		}
		if !s.canMutate(&articles[i]) {
			return entity.ErrAuthorizationDenied
		}
		articles = append(articles[:i], articles[i+1:]...)
		return s.saveArticles(ctx, articles)
	}
	return entity.ErrNotFound
}

func (s *Store) SetStatus(ctx context.Context, id string, status entity.Status) error {
	_, role := s.currentCaller()
	if role != entity.RoleAdmin {
		return entity.ErrAuthorizationDenied
	}
	articles, err := s.loadArticles(ctx)
	if err != nil {
		return err
	}
	for i := range articles {
		if articles[i].ID != id {
			continue
		}
		articles[i].Status = status
		articles[i].UpdatedAt = time.Now().UTC()
		return s.saveArticles(ctx, articles)
	}
	return entity.ErrNotFound
}
