package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
)

var _ repository.ContentBackend = (*ContentBackend)(nil)

// ContentBackend drives the collaborator's /api/content endpoints.
type ContentBackend struct {
	c *Client
}

func NewContentBackend(c *Client) *ContentBackend {
	return &ContentBackend{c: c}
}

// pagePayload covers the shapes the paginated endpoint has answered
// with: items under one of several keys, pagination nested or flat.
func (b *ContentBackend) decodePage(data json.RawMessage, q repository.ListQuery) (*repository.Page, error) {
	raw := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decoding page payload: %v", entity.ErrRemote, err)
		}
	}

	var rawItems []any
	for _, key := range []string{"items", "magazines", "content", "docs", "articles"} {
		if v, ok := raw[key].([]any); ok {
			rawItems = v
			break
		}
	}

	origin := b.c.Origin()
	items := make([]entity.Article, 0, len(rawItems))
	for _, it := range rawItems {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		a := normalizeArticle(m, origin)
		// The mine view must never leak another author's records, even
		// when the collaborator ignores the author filter.
		if q.AuthorID != "" && a.AuthorID != q.AuthorID {
			continue
		}
		items = append(items, a)
	}

	pg := raw
	for _, key := range []string{"pagination", "meta"} {
		if nested, ok := raw[key].(map[string]any); ok {
			pg = nested
			break
		}
	}
	num := func(keys ...string) int {
		for _, k := range keys {
			if f, ok := pg[k].(float64); ok {
				return int(f)
			}
		}
		return 0
	}
	page := &repository.Page{
		Items:       items,
		CurrentPage: num("currentPage", "page"),
		TotalPages:  num("totalPages", "pages"),
		TotalCount:  num("totalCount", "total", "count"),
		Limit:       num("limit", "pageSize"),
	}
	if page.CurrentPage < 1 {
		page.CurrentPage = q.Page
	}
	if page.Limit < 1 {
		page.Limit = q.Limit
	}
	if page.TotalPages < 1 && page.Limit > 0 {
		page.TotalPages = (page.TotalCount + page.Limit - 1) / page.Limit
	}
	if b, ok := pg["hasNextPage"].(bool); ok {
		page.HasNextPage = b
	} else {
		page.HasNextPage = page.CurrentPage < page.TotalPages
	}
	if b, ok := pg["hasPrevPage"].(bool); ok {
		page.HasPrevPage = b
	} else {
		page.HasPrevPage = page.CurrentPage > 1
	}
	return page, nil
}

func (b *ContentBackend) List(ctx context.Context, q repository.ListQuery) (*repository.Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" {
		params.Set("status", wireStatus(q.Status))
	}
	if q.AuthorID != "" {
		params.Set("author", q.AuthorID)
	}
	env, err := b.c.doJSON(ctx, http.MethodGet, "/api/content/paginated?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return b.decodePage(env.Data, q)
}

func articleFields(a *entity.Article) map[string]string {
	fields := map[string]string{
		"title":    a.Title,
		"content":  a.BodyMarkdown,
		"readTime": strconv.Itoa(a.ReadTimeMinutes),
		"status":   wireStatus(a.Status),
	}
	if a.Subtitle != "" {
		fields["subtitle"] = a.Subtitle
	}
	return fields
}

func (b *ContentBackend) decodeArticle(data json.RawMessage) (*entity.Article, error) {
	raw := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decoding article payload: %v", entity.ErrRemote, err)
		}
	}
	for _, key := range []string{"magazine", "content", "article", "item"} {
		if nested, ok := raw[key].(map[string]any); ok {
			raw = nested
			break
		}
	}
	a := normalizeArticle(raw, b.c.Origin())
	return &a, nil
}

func (b *ContentBackend) Create(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	env, err := b.c.doMultipart(ctx, http.MethodPost, "/api/content", articleFields(a), hero)
	if err != nil {
		return nil, err
	}
	return b.decodeArticle(env.Data)
}

func (b *ContentBackend) Update(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	fields := articleFields(a)
	fields["id"] = a.ID
	env, err := b.c.doMultipart(ctx, http.MethodPut, "/api/content", fields, hero)
	if err != nil {
		return nil, err
	}
	return b.decodeArticle(env.Data)
}

func (b *ContentBackend) Delete(ctx context.Context, id string) error {
	_, err := b.c.doJSON(ctx, http.MethodDelete, "/api/content", map[string]string{"id": id})
	return err
}

func (b *ContentBackend) SetStatus(ctx context.Context, id string, status entity.Status) error {
	_, err := b.c.doJSON(ctx, http.MethodPost, "/api/content/status", map[string]string{
		"contentId": id,
		"status":    wireStatus(status),
	})
	return err
}
