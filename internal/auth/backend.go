package auth

import (
	"context"
	"sync"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/persistence"
)

// Backend is the credential backend as seen by session resolution.
type Backend interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns the current session or nil when there is none.
	GetSession(ctx context.Context) (*domain.Session, error)
}

// Authenticator is the server side of the credential backend.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	Verify(ctx context.Context, token string) (*domain.Session, error)
	Revoke(ctx context.Context, token string) error
}

// TokenStore holds the access token of the current backend session.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client binds an Authenticator to a TokenStore and implements Backend.
type Client struct {
	auth   Authenticator
	tokens TokenStore
}

var _ Backend = (*Client)(nil)

// NewClient constructs a client.
func NewClient(authenticator Authenticator, tokens TokenStore) *Client {
	return &Client{auth: authenticator, tokens: tokens}
}

// SignInWithPassword signs in and stores the resulting token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(ctx, session.AccessToken); err != nil {
		_ = c.auth.Revoke(ctx, session.AccessToken)
		return nil, err
	}
	return session, nil
}

// GetSession verifies the stored token. A dead token is dropped from the store.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	session, err := c.auth.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		if err := c.tokens.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return session, nil
}

// SignOut revokes the stored token and always clears it locally.
func (c *Client) SignOut(ctx context.Context) error {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		_ = c.tokens.Clear(ctx)
		return err
	}

	var revokeErr error
	if token != "" {
		revokeErr = c.auth.Revoke(ctx, token)
	}
	if err := c.tokens.Clear(ctx); err != nil {
		return err
	}
	return revokeErr
}

// AccessToken returns the token currently held by the client.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	return c.tokens.Load(ctx)
}

// MemoryTokenStore keeps the token in memory, e.g. for the lifetime of one HTTP request.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore seeds the store with token (may be empty).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileTokenStore keeps the token in a local owner-only file, used by hubctl.
type FileTokenStore struct {
	file *persistence.JSONFile
}

type storedToken struct {
	AccessToken string `json:"access_token"`
}

// NewFileTokenStore opens (or prepares) the token file at path.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	file, err := persistence.NewJSONFile(path)
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{file: file}, nil
}

func (s *FileTokenStore) Load(context.Context) (string, error) {
	var stored storedToken
	if _, err := s.file.Read(&stored); err != nil {
		return "", err
	}
	return stored.AccessToken, nil
}

func (s *FileTokenStore) Save(_ context.Context, token string) error {
	return s.file.Write(storedToken{AccessToken: token})
}

func (s *FileTokenStore) Clear(context.Context) error {
	return s.file.Remove()
}
