package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/domain/repository"
	"github.com/foliopress/folio/pkg/helpers"
)

var _ repository.AuthBackend = (*AuthBackend)(nil)

// AuthBackend authenticates against the collaborator's /api/user
// endpoints.
type AuthBackend struct {
	c *Client
}

func NewAuthBackend(c *Client) *AuthBackend {
	return &AuthBackend{c: c}
}

// authPayload is whatever login/register hand back: a token in one of a
// few spellings plus, usually, the user object.
func (b *AuthBackend) decodeAuthData(data json.RawMessage) (*repository.AuthResult, error) {
	raw := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: decoding auth payload: %v", entity.ErrRemote, err)
		}
	}
	res := &repository.AuthResult{Token: pickToken(raw), Role: entity.RoleUser}

	userRaw, _ := raw["user"].(map[string]any)
	if userRaw == nil {
		// Some variants flatten the user into the payload itself.
		userRaw = raw
	}
	if p := normalizeProfile(userRaw); p.UserID != "" || p.Email != "" {
		res.Profile = p
		res.Identity = entity.Identity{ID: p.UserID, Email: p.Email}
	}
	if role, ok := normalizeRole(userRaw); ok {
		res.Role = role
	}

	// Token claims fill whatever the payload did not carry.
	if res.Token != "" {
		if claims, err := helpers.DecodeClaims(res.Token); err == nil {
			if res.Identity.ID == "" {
				res.Identity.ID = claims.UserID
			}
			if res.Identity.Email == "" {
				res.Identity.Email = claims.Email
			}
			if claims.Role != "" {
				res.Role = entity.ParseRole(claims.Role)
			}
		}
	}
	return res, nil
}

func (b *AuthBackend) SignIn(ctx context.Context, email, password string) (*repository.AuthResult, error) {
	env, err := b.c.doJSON(ctx, http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	res, err := b.decodeAuthData(env.Data)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", entity.ErrRemote)
	}
	return res, nil
}

// SignUp registers the account. The collaborator does not issue a token
// at registration, so Token comes back empty and the session store runs
// the follow-up sign-in.
func (b *AuthBackend) SignUp(ctx context.Context, email, password, name string) (*repository.AuthResult, error) {
	env, err := b.c.doJSON(ctx, http.MethodPost, "/api/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return b.decodeAuthData(env.Data)
}

// SignOut is local-only teardown. The collaborator exposes no logout
// endpoint; the bearer token simply falls out of use once the session
// store erases it.
func (b *AuthBackend) SignOut(ctx context.Context, token string) error {
	return nil
}

func (b *AuthBackend) FetchProfile(ctx context.Context, token string) (*entity.Profile, error) {
	env, err := b.c.doJSON(ctx, http.MethodGet, "/api/user/me", nil)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if err := env.DataInto(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRemote, err)
	}
	if nested, ok := raw["user"].(map[string]any); ok {
		raw = nested
	}
	return normalizeProfile(raw), nil
}

func (b *AuthBackend) UpdateProfile(ctx context.Context, token string, patch entity.ProfilePatch) (*entity.Profile, error) {
	payload := map[string]string{}
	if patch.Name != "" {
		payload["name"] = patch.Name
	}
	if patch.Email != "" {
		payload["email"] = patch.Email
	}
	if patch.AvatarURL != "" {
		payload["avatarUrl"] = patch.AvatarURL
	}
	env, err := b.c.doJSON(ctx, http.MethodPut, "/api/user/edit", payload)
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if err := env.DataInto(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRemote, err)
	}
	if nested, ok := raw["user"].(map[string]any); ok {
		raw = nested
	}
	return normalizeProfile(raw), nil
}
