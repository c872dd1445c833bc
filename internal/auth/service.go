package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Yashjain18111/VMS/pkg/auth"
	"github.com/Yashjain18111/VMS/pkg/auth/session"
	"github.com/Yashjain18111/VMS/pkg/config"
	"github.com/Yashjain18111/VMS/pkg/db/models"
	pkgerrors "github.com/Yashjain18111/VMS/pkg/errors"
)

type userStore interface {
	GetOrCreateByUsername(ctx context.Context, username string) (*models.User, error)
}

type sessionCreator interface {
	Create(ctx context.Context, accessID, userID string) error
}

// Service issues access tokens for API clients.
type Service interface {
	GenerateToken(ctx context.Context, req GenerateTokenRequest) (*TokenResponse, error)
}

type service struct {
	users    userStore
	sessions sessionCreator
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(users userStore, sessions sessionCreator, jwtCfg config.JWTConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session creator required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// GenerateToken resolves (or provisions) the user for the given username and
// mints a fresh JWT backed by a Redis session. Every call returns a new token;
// previously issued tokens stay valid until their own expiry or revocation.
func (s *service) GenerateToken(ctx context.Context, req GenerateTokenRequest) (*TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	user, err := s.users.GetOrCreateByUsername(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve user")
	}

	now := s.now().UTC()
	accessID := session.NewAccessID()

	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.sessions.Create(ctx, accessID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
	}, nil
}
