package entity

import "errors"

var (
	// ErrAuthenticationRequired is returned when an operation needs a
	// signed-in identity and none exists.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrAuthorizationDenied is returned by client-side role checks, e.g.
	// a non-admin attempting a status change.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrNotFound is returned for mutations addressing an absent id.
	ErrNotFound = errors.New("not found")

	// ErrRemote wraps a non-success collaborator response or a transport
	// failure. The collaborator's message, when present, is carried in the
	// wrapping error text.
	ErrRemote = errors.New("remote request failed")

	// ErrTokenDecode is returned when a persisted or issued session token
	// cannot be decoded.
	ErrTokenDecode = errors.New("malformed session token")

	// ErrUserExists is returned when registration hits an existing account.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned for failed sign-in attempts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRegisteredLoginFailed distinguishes the case where registration
	// succeeded but the transparent follow-up sign-in did not.
	ErrRegisteredLoginFailed = errors.New("account created but sign-in failed")
)
