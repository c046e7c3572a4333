package localstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/pkg/helpers"
)

var _ repository.AuthBackend = (*Store)(nil)

// localUser is one row of the registered-user credential map, keyed by
// email in the store.
type localUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *localUser) profile() *entity.Profile {
	return &entity.Profile{
		ID:        "profile-" + u.ID,
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (s *Store) loadUsers(ctx context.Context) (map[string]localUser, error) {
	users := map[string]localUser{}
	if _, err := getJSON(ctx, s.kv, keyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) result(ctx context.Context, u *localUser) (*repository.AuthResult, error) {
	secret, err := s.secret(ctx)
	if err != nil {
		return nil, err
	}
	token, err := helpers.MintLocalToken(secret, u.ID, u.Email, u.Name, u.Role, s.opts.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &repository.AuthResult{
		Token:    token,
		Identity: entity.Identity{ID: u.ID, Email: u.Email},
		Profile:  u.profile(),
		Role:     entity.ParseRole(u.Role),
	}, nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (*repository.AuthResult, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := users[email]
	if !ok || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, entity.ErrInvalidCredentials
	}
	return s.result(ctx, &u)
}

// SignUp registers and signs the account in directly; unlike the REST
// variant no follow-up login is needed.
func (s *Store) SignUp(ctx context.Context, email, password, name string) (*repository.AuthResult, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := users[email]; ok {
		return nil, entity.ErrUserExists
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	role := string(entity.RoleUser)
	if s.isAdminEmail(email) {
		role = string(entity.RoleAdmin)
	}
	now := time.Now().UTC()
	u := localUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	users[email] = u
	if err := setJSON(ctx, s.kv, keyUsers, users); err != nil {
		return nil, err
	}
	return s.result(ctx, &u)
}

func (s *Store) SignOut(ctx context.Context, token string) error {
	// Nothing to notify; the session store erases its own artifacts.
	return nil
}

func (s *Store) findByID(ctx context.Context, userID string) (*localUser, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *Store) FetchProfile(ctx context.Context, token string) (*entity.Profile, error) {
	claims, err := helpers.DecodeClaims(token)
	if err != nil {
		return nil, entity.ErrTokenDecode
	}
	u, err := s.findByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return u.profile(), nil
}

func (s *Store) UpdateProfile(ctx context.Context, token string, patch entity.ProfilePatch) (*entity.Profile, error) {
	claims, err := helpers.DecodeClaims(token)
	if err != nil {
		return nil, entity.ErrTokenDecode
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for email, u := range users {
		if u.ID != claims.UserID {
			continue
		}
		if patch.Name != "" {
			u.Name = patch.Name
		}
		if patch.AvatarURL != "" {
			u.AvatarURL = patch.AvatarURL
		}
		if patch.Email != "" && patch.Email != email {
			if _, taken := users[patch.Email]; taken {
				return nil, entity.ErrUserExists
			}
			delete(users, email)
			u.Email = patch.Email
			email = patch.Email
		}
		u.UpdatedAt = time.Now().UTC()
		users[email] = u
		if err := setJSON(ctx, s.kv, keyUsers, users); err != nil {
			return nil, err
		}
		return u.profile(), nil
	}
	return nil, entity.ErrNotFound
}
