// Package localstore is the fallback backend variant used when no REST
// collaborator is configured: the article collection, the registered-user
// credential map and the profile data all live in the durable keyed
// store as JSON values. In this mode the local store is the authority
// the remote collaborator would otherwise be.
package localstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/internal/infrastructure/keyval"
)

const (
	keyUsers    = "local:users"
	keyArticles = "local:articles"
	keyLikes    = "local:likes"
	keyComments = "local:comments"
	keySecret   = "local:secret"
)

// Caller reports the identity the session store currently holds. Bound
// after construction because the session store itself is built on top of
// this backend.
type Caller func() (userID string, role entity.Role)

// Options tune the fallback backend.
type Options struct {
	// SessionTTL bounds locally minted tokens.
	SessionTTL time.Duration
	// AdminEmails lists accounts that get the admin role at registration,
	// standing in for the server-side role assignment.
	AdminEmails []string
}

// Store implements the auth, content and engagement backends over the
// keyed store.
type Store struct {
	kv     keyval.Store
	logger *logrus.Logger
	opts   Options

	mu     sync.Mutex
	caller Caller
}

func New(kv keyval.Store, logger *logrus.Logger, opts Options) *Store {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 168 * time.Hour
	}
	return &Store{kv: kv, logger: logger, opts: opts}
}

// BindCaller wires the identity source once the session store exists.
func (s *Store) BindCaller(fn Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = fn
}

func (s *Store) currentCaller() (string, entity.Role) {
	s.mu.Lock()
	fn := s.caller
	s.mu.Unlock()
	if fn == nil {
		return "", entity.RoleUser
	}
	return fn()
}

// secret returns the per-install signing secret, generating it on first
// use.
func (s *Store) secret(ctx context.Context) ([]byte, error) {
	raw, err := s.kv.Get(ctx, keySecret)
	if err == nil {
		return base64.StdEncoding.DecodeString(string(raw))
	}
	if !errors.Is(err, keyval.ErrKeyNotFound) {
		return nil, err
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("localstore: generating secret: %w", err)
	}
	enc := []byte(base64.StdEncoding.EncodeToString(b))
	if err := s.kv.Set(ctx, keySecret, enc); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) isAdminEmail(email string) bool {
	for _, e := range s.opts.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}
