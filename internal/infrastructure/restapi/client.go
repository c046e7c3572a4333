// Package restapi is the backend variant talking to the remote REST
// collaborator: bearer-token auth, {success,message,data} envelopes, and
// a normalization layer translating the wire's field vocabulary into the
// canonical entities.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foliopress/folio/internal/domain/entity"
	"github.com/foliopress/folio/pkg/response"
)

// TokenSource yields the current bearer token, or "" when no session
// exists. The session store owns the token; backends only read it.
type TokenSource func() string

// Client wraps the HTTP transport shared by the auth, content and
// engagement backends.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *logrus.Logger
	token  TokenSource
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger, token TokenSource) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("restapi: invalid base url %q", baseURL)
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		base:   u,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		token:  token,
	}, nil
}

// Origin returns the scheme://host the relative image paths resolve
// against.
func (c *Client) Origin() *url.URL {
	return &url.URL{Scheme: c.base.Scheme, Host: c.base.Host}
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// do runs one request and decodes the envelope. A non-2xx status or
// success != true both come back as an error wrapping entity.ErrRemote,
// carrying the collaborator's message when it sent one.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader) (*response.Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", entity.ErrRemote, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("collaborator request failed")
		return nil, fmt.Errorf("%w: %v", entity.ErrRemote, err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", entity.ErrRemote, err)
	}

	env, decErr := response.Decode(raw)
	if decErr != nil {
		if res.StatusCode >= 200 && res.StatusCode < 300 {
			return nil, fmt.Errorf("%w: %v", entity.ErrRemote, decErr)
		}
		return nil, fmt.Errorf("%w: status %d", entity.ErrRemote, res.StatusCode)
	}
	if !env.Success || res.StatusCode < 200 || res.StatusCode >= 300 {
		return env, remoteError(res.StatusCode, env.Message)
	}
	return env, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*response.Envelope, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding request: %v", entity.ErrRemote, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, "application/json", body)
}

// doMultipart sends form fields plus an optional hero image under the
// "image" part, matching the collaborator's upload contract.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, hero *entity.HeroImage) (*response.Envelope, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("%w: encoding form: %v", entity.ErrRemote, err)
		}
	}
	if hero != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, hero.Filename))
		h.Set("Content-Type", hero.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding image part: %v", entity.ErrRemote, err)
		}
		if _, err := part.Write(hero.Data); err != nil {
			return nil, fmt.Errorf("%w: writing image part: %v", entity.ErrRemote, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing form: %v", entity.ErrRemote, err)
	}
	return c.do(ctx, method, path, w.FormDataContentType(), &buf)
}

// remoteError maps a failed reply onto the error taxonomy. Status codes
// take precedence; message sniffing covers collaborators that answer 200
// with success=false.
func remoteError(status int, message string) error {
	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusConflict || strings.Contains(lower, "already exists"):
		return entity.ErrUserExists
	case status == http.StatusNotFound || strings.Contains(lower, "not found"):
		return entity.ErrNotFound
	case status == http.StatusUnauthorized:
		if msg != "" {
			return fmt.Errorf("%w: %s", entity.ErrInvalidCredentials, msg)
		}
		return entity.ErrInvalidCredentials
	case status == http.StatusForbidden:
		return entity.ErrAuthorizationDenied
	}
	if msg != "" {
		return fmt.Errorf("%w: %s", entity.ErrRemote, msg)
	}
	return fmt.Errorf("%w: status %d", entity.ErrRemote, status)
}
