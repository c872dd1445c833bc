package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgauth "github.com/Yashjain18111/VMS/pkg/auth"
	"github.com/Yashjain18111/VMS/pkg/config"
	"github.com/Yashjain18111/VMS/pkg/db/models"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserStore struct {
	user *models.User
	err  error

	gotUsername string
}

func (s *stubUserStore) GetOrCreateByUsername(_ context.Context, username string) (*models.User, error) {
	s.gotUsername = username
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubSessionCreator struct {
	err error

	gotAccessID string
	gotUserID   string
	calls       int
}

func (s *stubSessionCreator) Create(_ context.Context, accessID, userID string) error {
	s.calls++
	s.gotAccessID = accessID
	s.gotUserID = userID
	return s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "vms-test",
		ExpirationMinutes: 30,
	}
}

func newTestService(t *testing.T, users *stubUserStore, sessions *stubSessionCreator) *service {
	t.Helper()
	svc, err := NewService(users, sessions, testJWTConfig())
	require.NoError(t, err)
	impl, ok := svc.(*service)
	require.True(t, ok)
	// Frozen but anchored to wall time so minted tokens stay verifiable.
	fixed := time.Now().UTC().Truncate(time.Second)
	impl.now = func() time.Time { return fixed }
	return impl
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := NewService(nil, &stubSessionCreator{}, testJWTConfig())
	assert.Error(t, err)

	_, err = NewService(&stubUserStore{}, nil, testJWTConfig())
	assert.Error(t, err)

	_, err = NewService(&stubUserStore{}, &stubSessionCreator{}, config.JWTConfig{})
	assert.Error(t, err)
}

func TestGenerateTokenMintsVerifiableJWT(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "reviewer"}
	users := &stubUserStore{user: user}
	sessions := &stubSessionCreator{}
	svc := newTestService(t, users, sessions)

	resp, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "reviewer"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "reviewer", claims.Username)
	assert.Equal(t, sessions.gotAccessID, claims.ID)

	assert.Equal(t, 1, sessions.calls)
	assert.Equal(t, user.ID.String(), sessions.gotUserID)
	assert.Equal(t, svc.now().Add(30*time.Minute), resp.ExpiresAt)
}

func TestGenerateTokenTrimsUsername(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "reviewer"}
	users := &stubUserStore{user: user}
	svc := newTestService(t, users, &stubSessionCreator{})

	_, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "  reviewer  "})
	require.NoError(t, err)
	assert.Equal(t, "reviewer", users.gotUsername)
}

func TestGenerateTokenRequiresUsername(t *testing.T) {
	svc := newTestService(t, &stubUserStore{}, &stubSessionCreator{})

	_, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "   "})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestGenerateTokenIssuesFreshTokenPerCall(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "reviewer"}
	sessions := &stubSessionCreator{}
	svc := newTestService(t, &stubUserStore{user: user}, sessions)

	first, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "reviewer"})
	require.NoError(t, err)
	firstAccessID := sessions.gotAccessID

	second, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "reviewer"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.NotEqual(t, firstAccessID, sessions.gotAccessID)
	assert.Equal(t, 2, sessions.calls)
}

func TestGenerateTokenPropagatesStoreFailure(t *testing.T) {
	users := &stubUserStore{err: errors.New("db down")}
	svc := newTestService(t, users, &stubSessionCreator{})

	_, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "reviewer"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}

func TestGenerateTokenPropagatesSessionFailure(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "reviewer"}
	sessions := &stubSessionCreator{err: errors.New("redis down")}
	svc := newTestService(t, &stubUserStore{user: user}, sessions)

	_, err := svc.GenerateToken(context.Background(), GenerateTokenRequest{Username: "reviewer"})
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkgerrors.CodeDependency, appErr.Code())
}
