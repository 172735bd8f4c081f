package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booknow-hub/internal/domain"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockAuthenticator) Verify(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockAuthenticator) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestClient_SignInStoresToken(t *testing.T) {
	ctx := context.Background()
	authn := new(mockAuthenticator)
	authn.On("SignIn", ctx, "owner@salon.test", "secret-pass").
		Return(&domain.Session{ID: "s1", UserID: "u1", AccessToken: "tok-1"}, nil)

	tokens := NewMemoryTokenStore("")
	client := NewClient(authn, tokens)

	session, err := client.SignInWithPassword(ctx, "owner@salon.test", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)

	stored, _ := tokens.Load(ctx)
	assert.Equal(t, "tok-1", stored)
	authn.AssertExpectations(t)
}

func TestClient_SignInFailureLeavesNoToken(t *testing.T) {
	ctx := context.Background()
	authn := new(mockAuthenticator)
	authn.On("SignIn", ctx, "x@salon.test", "bad").Return(nil, ErrInvalidCredentials)

	tokens := NewMemoryTokenStore("")
	_, err := NewClient(authn, tokens).SignInWithPassword(ctx, "x@salon.test", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	stored, _ := tokens.Load(ctx)
	assert.Empty(t, stored)
}

func TestClient_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no token means no session", func(t *testing.T) {
		authn := new(mockAuthenticator)
		session, err := NewClient(authn, NewMemoryTokenStore("")).GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
		authn.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("revoked token is dropped", func(t *testing.T) {
		authn := new(mockAuthenticator)
		authn.On("Verify", ctx, "stale").Return(nil, nil)
		tokens := NewMemoryTokenStore("stale")

		session, err := NewClient(authn, tokens).GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
		stored, _ := tokens.Load(ctx)
		assert.Empty(t, stored)
	})

	t.Run("backend failure propagates", func(t *testing.T) {
		authn := new(mockAuthenticator)
		authn.On("Verify", ctx, "tok").Return(nil, errors.New("redis down"))

		_, err := NewClient(authn, NewMemoryTokenStore("tok")).GetSession(ctx)
		assert.ErrorContains(t, err, "redis down")
	})
}

func TestClient_SignOutAlwaysClearsToken(t *testing.T) {
	ctx := context.Background()
	authn := new(mockAuthenticator)
	authn.On("Revoke", ctx, "tok").Return(errors.New("redis down"))

	tokens := NewMemoryTokenStore("tok")
	err := NewClient(authn, tokens).SignOut(ctx)
	assert.Error(t, err)

	stored, _ := tokens.Load(ctx)
	assert.Empty(t, stored)
}

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "tok-file"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-file", token)

	require.NoError(t, store.Clear(ctx))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
