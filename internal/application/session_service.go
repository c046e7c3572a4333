// Package application holds the three stores the UI layer talks to:
// SessionService (identity), ContentService (articles) and
// EngagementService (likes/comments). Stores read identity from the
// session but never mutate it from the outside.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/internal/infrastructure/keyval"
	"github.com/foliopress/folio/pkg/helpers"
	"github.com/foliopress/folio/pkg/validation"
)

// SessionState is the session store's lifecycle state.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
)

const (
	keySessionToken    = "session:token"
	keySessionSnapshot = "session:snapshot"
)

// Session is the in-memory view of the authenticated principal, also the
// JSON shape persisted as the durable snapshot.
type Session struct {
	Identity entity.Identity `json:"identity"`
	Profile  *entity.Profile `json:"profile,omitempty"`
	Role     entity.Role     `json:"role"`
	Token    string          `json:"token"`
}

// SessionService owns the current identity, role and profile, persists
// them across restarts, and exposes sign-in/up/out. It replaces the
// ambient session singleton the stores used to share: construct it, call
// Init, inject it where identity is needed, Close on teardown.
type SessionService struct {
	auth   repository.AuthBackend
	kv     keyval.Store
	logger *logrus.Logger

	mu      sync.RWMutex
	state   SessionState
	current Session
}

func NewSessionService(auth repository.AuthBackend, kv keyval.Store, logger *logrus.Logger) *SessionService {
	return &SessionService{
		auth:   auth,
		kv:     kv,
		logger: logger,
		state:  StateLoading,
	}
}

// Init restores a previously persisted session. An absent, expired or
// undecodable token resolves to unauthenticated and erases the persisted
// artifacts.
func (s *SessionService) Init(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, keySessionToken)
	if errors.Is(err, keyval.ErrKeyNotFound) {
		s.setState(StateUnauthenticated, Session{})
		return nil
	}
	if err != nil {
		s.setState(StateUnauthenticated, Session{})
		return err
	}
	token := string(raw)

	claims, err := helpers.DecodeClaims(token)
	if err != nil || claims.Expired(time.Now()) {
		s.clearPersisted(ctx)
		s.setState(StateUnauthenticated, Session{})
		if err != nil {
			return entity.ErrTokenDecode
		}
		return nil
	}

	sess := Session{Token: token}
	var snap Session
	if rawSnap, err := s.kv.Get(ctx, keySessionSnapshot); err == nil {
		if err := json.Unmarshal(rawSnap, &snap); err == nil && snap.Identity.ID == claims.UserID {
			sess = snap
			sess.Token = token
		}
	}
	if sess.Identity.ID == "" {
		sess.Identity = entity.Identity{ID: claims.UserID, Email: claims.Email}
		sess.Role = entity.ParseRole(claims.Role)
		sess.Profile = profileFromClaims(claims)
	}
	s.setState(StateAuthenticated, sess)
	return nil
}

// Close tears the in-memory session down without touching the persisted
// artifacts, so the next Init can restore it.
func (s *SessionService) Close() {
	s.setState(StateUnauthenticated, Session{})
}

func (s *SessionService) setState(state SessionState, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.current = sess
}

// State reports where the session machine currently is.
func (s *SessionService) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns a copy of the session. Zero-valued when not
// authenticated.
func (s *SessionService) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer token, or "" when unauthenticated. Handed to
// backends as a TokenSource.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

type signUpInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,pwd"`
	Name     string `validate:"required,max=100"`
}

// profileFromClaims synthesizes a profile when the backend returned none;
// the real one replaces it on the next successful fetch.
func profileFromClaims(claims *helpers.TokenClaims) *entity.Profile {
	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	now := time.Now().UTC()
	return &entity.Profile{
		ID:        "profile-" + claims.UserID,
		UserID:    claims.UserID,
		Name:      name,
		Email:     claims.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// persist writes the durable token and snapshot; every successful
// mutating operation goes through here.
func (s *SessionService) persist(ctx context.Context, sess Session) {
	if err := s.kv.Set(ctx, keySessionToken, []byte(sess.Token)); err != nil {
		helpers.LogError(s.logger, "persisting session token", err, nil)
	}
	b, err := json.Marshal(sess)
	if err == nil {
		err = s.kv.Set(ctx, keySessionSnapshot, b)
	}
	if err != nil {
		helpers.LogError(s.logger, "persisting session snapshot", err, nil)
	}
}

func (s *SessionService) clearPersisted(ctx context.Context) {
	if err := s.kv.Delete(ctx, keySessionToken); err != nil {
		s.logger.WithError(err).Warn("clearing session token")
	}
	if err := s.kv.Delete(ctx, keySessionSnapshot); err != nil {
		s.logger.WithError(err).Warn("clearing session snapshot")
	}
}

func (s *SessionService) establish(ctx context.Context, res *repository.AuthResult) Session {
	sess := Session{
		Identity: res.Identity,
		Profile:  res.Profile,
		Role:     res.Role,
		Token:    res.Token,
	}
	if claims, err := helpers.DecodeClaims(res.Token); err == nil {
		if sess.Identity.ID == "" {
			sess.Identity = entity.Identity{ID: claims.UserID, Email: claims.Email}
		}
		if sess.Profile == nil {
			sess.Profile = profileFromClaims(claims)
		}
	}
	if sess.Role == "" {
		sess.Role = entity.RoleUser
	}
	s.setState(StateAuthenticated, sess)
	s.persist(ctx, sess)
	return sess
}

// SignIn authenticates against the backend. On failure the state stays
// unauthenticated and nothing is persisted.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	res, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		helpers.LogError(s.logger, "sign-in failed", err, logrus.Fields{"email": email})
		return err
	}
	s.establish(ctx, res)
	s.logger.WithField("user_id", res.Identity.ID).Info("signed in")
	return nil
}

// SignUp registers the account and establishes a session. Backends that
// issue no token at registration get a transparent follow-up sign-in;
// if that fails even though registration succeeded, the distinct
// ErrRegisteredLoginFailed surfaces.
func (s *SessionService) SignUp(ctx context.Context, email, password, name string) error {
	if err := validation.Struct(signUpInput{Email: email, Password: password, Name: name}); err != nil {
		return err
	}
	res, err := s.auth.SignUp(ctx, email, password, name)
	if err != nil {
		helpers.LogError(s.logger, "sign-up failed", err, logrus.Fields{"email": email})
		return err
	}
	if res.Token == "" {
		res, err = s.auth.SignIn(ctx, email, password)
		if err != nil {
			helpers.LogError(s.logger, "post-registration sign-in failed", err, logrus.Fields{"email": email})
			return entity.ErrRegisteredLoginFailed
		}
	}
	s.establish(ctx, res)
	s.logger.WithField("user_id", res.Identity.ID).Info("signed up")
	return nil
}

// SignOut notifies the backend best-effort, then unconditionally clears
// the identity and every persisted artifact. Never returns an error.
func (s *SessionService) SignOut(ctx context.Context) {
	tok := s.Token()
	if tok != "" {
		if err := s.auth.SignOut(ctx, tok); err != nil {
			// Deliberately swallowed; local teardown happens regardless.
			s.logger.WithError(err).Warn("sign-out notification failed")
		}
	}
	s.clearPersisted(ctx)
	s.setState(StateUnauthenticated, Session{})
	s.logger.Info("signed out")
}

// UpdateProfile sends the partial update and, on success, replaces the
// local profile and re-persists the snapshot. Local state is untouched
// on failure.
func (s *SessionService) UpdateProfile(ctx context.Context, patch entity.ProfilePatch) (*entity.Profile, error) {
	sess := s.Current()
	if s.State() != StateAuthenticated {
		return nil, entity.ErrAuthenticationRequired
	}
	if patch.Email != "" {
		if err := validation.Var("email", patch.Email, "email"); err != nil {
			return nil, err
		}
	}
	updated, err := s.auth.UpdateProfile(ctx, sess.Token, patch)
	if err != nil {
		helpers.LogError(s.logger, "profile update failed", err, logrus.Fields{"user_id": sess.Identity.ID})
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.current.Profile = updated
	if updated.Email != "" {
		s.current.Identity.Email = updated.Email
	}
	sess = s.current
	s.mu.Unlock()

	s.persist(ctx, sess)
	return updated, nil
}

// RefreshProfile re-reads the persisted snapshot's profile. No-op when
// unauthenticated.
func (s *SessionService) RefreshProfile(ctx context.Context) *entity.Profile {
	if s.State() != StateAuthenticated {
		return nil
	}
	raw, err := s.kv.Get(ctx, keySessionSnapshot)
	if err != nil {
		return s.Current().Profile
	}
	var snap Session
	if err := json.Unmarshal(raw, &snap); err != nil || snap.Profile == nil {
		return s.Current().Profile
	}
	s.mu.Lock()
	s.current.Profile = snap.Profile
	p := s.current.Profile
	s.mu.Unlock()
	return p
}
