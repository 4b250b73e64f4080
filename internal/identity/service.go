// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snavia68/coffeademo/internal/core"
	"github.com/snavia68/coffeademo/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type Service struct {
	repo     Repository
	jwt      *JWTManager
	sessions SessionStore
}

func NewService(repo Repository, jwt *JWTManager, sessions SessionStore) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwt,
		sessions: sessions,
	}
}

// Login succeeds only on an exact email+password match against a known
// user. Failures never say which of the two was wrong.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Register rejects duplicate emails without touching the user set or the
// current session; on success the new user is logged in immediately.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	email := strings.ToLower(req.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	user := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      req.Name,
		Password:  req.Password,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

// Logout removes the session pointer and revokes the presented token for
// the remainder of its lifetime.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	if err := s.sessions.RevokeToken(ctx, claims.JTI, s.jwt.AccessTokenTTL()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if err := s.sessions.DeleteSession(ctx, claims.UserID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get current user: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// VerifyAccessToken implements middleware.TokenVerifier: signature and
// claim checks, then the revocation list, then the session pointer — a
// token from a logged-out session is dead even if its jti was never
// individually revoked.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	active, err := s.sessions.HasSession(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !active {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) openSession(
	ctx context.Context,
	user *User,
) (*AuthResponse, error) {
	token, jti, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	ttl := s.jwt.AccessTokenTTL()
	if err := s.sessions.SetSession(ctx, user.ID, jti, ttl); err != nil {
		return nil, fmt.Errorf("persist session pointer: %w", err)
	}

	now := time.Now()
	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl / time.Second),
		ExpiresAt:   now.Add(ttl),
	}, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
