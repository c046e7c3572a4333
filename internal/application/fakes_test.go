package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/internal/infrastructure/keyval"
	"github.com/foliopress/folio/pkg/helpers"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// memKV is an in-memory keyval.Store for tests.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, keyval.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) Close() error { return nil }

var testSecret = []byte("unit-test-signing-secret")

func mintToken(t *testing.T, userID, email, name, role string) string {
	t.Helper()
	tok, err := helpers.MintLocalToken(testSecret, userID, email, name, role, time.Hour)
	require.NoError(t, err)
	return tok
}

// fakeAuth scripts the auth backend and records calls.
type fakeAuth struct {
	signInResult *repository.AuthResult
	signInErr    error
	signUpResult *repository.AuthResult
	signUpErr    error
	updateResult *entity.Profile
	updateErr    error
	signOutErr   error

	signInCalls  int
	signUpCalls  int
	signOutCalls int
	updateCalls  int
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*repository.AuthResult, error) {
	f.signInCalls++
	return f.signInResult, f.signInErr
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, name string) (*repository.AuthResult, error) {
	f.signUpCalls++
	return f.signUpResult, f.signUpErr
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeAuth) FetchProfile(ctx context.Context, token string) (*entity.Profile, error) {
	return nil, entity.ErrNotFound
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, token string, patch entity.ProfilePatch) (*entity.Profile, error) {
	f.updateCalls++
	return f.updateResult, f.updateErr
}

func authResult(t *testing.T, userID, email, name string, role entity.Role) *repository.AuthResult {
	t.Helper()
	return &repository.AuthResult{
		Token:    mintToken(t, userID, email, name, string(role)),
		Identity: entity.Identity{ID: userID, Email: email},
		Profile: &entity.Profile{
			ID:     "profile-" + userID,
			UserID: userID,
			Name:   name,
			Email:  email,
		},
		Role: role,
	}
}

// signedInSession builds an authenticated session over the fake backend.
func signedInSession(t *testing.T, kv keyval.Store, userID string, role entity.Role) *SessionService {
	t.Helper()
	auth := &fakeAuth{signInResult: authResult(t, userID, userID+"@example.com", "Tester", role)}
	sess := NewSessionService(auth, kv, testLogger())
	require.NoError(t, sess.SignIn(context.Background(), userID+"@example.com", "hunter2secret"))
	return sess
}

// fakeContent serves a fixed collection and records every call. With
// paged set it slices the collection like a real backend would;
// otherwise every page carries everything.
type fakeContent struct {
	items []entity.Article
	paged bool

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	statusErr error

	listCalls      int
	createCalls    int
	updateCalls    int
	deleteCalls    int
	setStatusCalls int
	lastQuery      repository.ListQuery
	lastStatus     entity.Status
}

func (f *fakeContent) List(ctx context.Context, q repository.ListQuery) (*repository.Page, error) {
	f.listCalls++
	f.lastQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := append([]entity.Article(nil), f.items...)
	if !f.paged {
		return &repository.Page{
			Items:       items,
			CurrentPage: 1,
			TotalPages:  1,
			TotalCount:  len(items),
			Limit:       q.Limit,
		}, nil
	}
	total := len(items)
	totalPages := (total + q.Limit - 1) / q.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return &repository.Page{
		Items:       items[start:end],
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       q.Limit,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}, nil
}

func (f *fakeContent) Create(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *a
	created.ID = "art-1"
	created.CreatedAt = time.Now().UTC()
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeContent) Update(ctx context.Context, a *entity.Article, hero *entity.HeroImage) (*entity.Article, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == a.ID {
			f.items[i] = *a
		}
	}
	updated := *a
	return &updated, nil
}

func (f *fakeContent) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (f *fakeContent) SetStatus(ctx context.Context, id string, status entity.Status) error {
	f.setStatusCalls++
	f.lastStatus = status
	return f.statusErr
}

// fakeEngagement records like/comment traffic.
type fakeEngagement struct {
	likes   map[string]map[string]bool
	comment *entity.Comment

	addLikeCalls    int
	removeLikeCalls int
	commentCalls    int
	uncommentCalls  int
	lastLikerID     string
}

func newFakeEngagement() *fakeEngagement {
	return &fakeEngagement{likes: map[string]map[string]bool{}}
}

func (f *fakeEngagement) AddLike(ctx context.Context, contentID, likerID string) error {
	f.addLikeCalls++
	f.lastLikerID = likerID
	set := f.likes[contentID]
	if set == nil {
		set = map[string]bool{}
		f.likes[contentID] = set
	}
	set[likerID] = true
	return nil
}

func (f *fakeEngagement) RemoveLike(ctx context.Context, contentID, likerID string) error {
	f.removeLikeCalls++
	f.lastLikerID = likerID
	delete(f.likes[contentID], likerID)
	return nil
}

func (f *fakeEngagement) AddComment(ctx context.Context, contentID, body string) (*entity.Comment, error) {
	f.commentCalls++
	if f.comment != nil {
		return f.comment, nil
	}
	return &entity.Comment{ID: "c-1", Body: body}, nil
}

func (f *fakeEngagement) RemoveComment(ctx context.Context, contentID, commentID string) error {
	f.uncommentCalls++
	return nil
}
