// AngelaMos | 2026
// service_test.go

package identity

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snavia68/coffeademo/internal/config"
	"github.com/snavia68/coffeademo/internal/core"
)

type memoryRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *memoryRepository) Create(_ context.Context, user *User) error {
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	if u, ok := m.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := m.byEmail[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

type memorySessions struct {
	sessions map[string]string
	revoked  map[string]bool
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		sessions: make(map[string]string),
		revoked:  make(map[string]bool),
	}
}

func (m *memorySessions) SetSession(_ context.Context, userID, jti string, _ time.Duration) error {
	m.sessions[userID] = jti
	return nil
}

func (m *memorySessions) DeleteSession(_ context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

func (m *memorySessions) HasSession(_ context.Context, userID string) (bool, error) {
	_, ok := m.sessions[userID]
	return ok, nil
}

func (m *memorySessions) RevokeToken(_ context.Context, jti string, _ time.Duration) error {
	m.revoked[jti] = true
	return nil
}

func (m *memorySessions) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func newTestService(t *testing.T) (*Service, *memoryRepository, *memorySessions) {
	t.Helper()

	dir := t.TempDir()
	privPath := filepath.Join(dir, "jwt_private.pem")
	pubPath := filepath.Join(dir, "jwt_public.pem")
	require.NoError(t, GenerateKeyPair(privPath, pubPath))

	jwtManager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:    privPath,
		PublicKeyPath:     pubPath,
		AccessTokenExpire: time.Hour,
		Issuer:            "coffea",
		Audience:          "coffea-api",
	})
	require.NoError(t, err)

	repo := newMemoryRepository()
	sessions := newMemorySessions()
	return NewService(repo, jwtManager, sessions), repo, sessions
}

func seedBuyer(t *testing.T, repo *memoryRepository) *User {
	t.Helper()

	user := &User{
		ID:       "u2",
		Email:    "juan@example.com",
		Name:     "Juan Pérez",
		Password: "buyer123",
		Role:     RoleBuyer,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginExactMatch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBuyer(t, repo)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "juan@example.com", Password: "buyer123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "juan@example.com", resp.User.Email)
	assert.Equal(t, RoleBuyer, resp.User.Role)
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBuyer(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Juan@Example.com",
		Password: "buyer123",
	})
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBuyer(t, repo)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Email: "juan@example.com", Password: "Buyer123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nadie@example.com", Password: "buyer123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBuyer(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "JUAN@example.com",
		Name:     "Otro Juan",
		Password: "otra123",
		Role:     RoleBuyer,
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	// The stored user is untouched.
	stored, err := repo.GetByEmail(context.Background(), "juan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Juan Pérez", stored.Name)
	assert.Equal(t, "buyer123", stored.Password)
}

func TestRegisterLogsIn(t *testing.T) {
	svc, _, sessions := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Nueva@Example.com",
		Name:     "Nueva Vendedora",
		Password: "seller123",
		Role:     RoleSeller,
	})
	require.NoError(t, err)

	// Email is normalized, the session pointer exists, and the token
	// verifies end to end.
	assert.Equal(t, "nueva@example.com", resp.User.Email)
	assert.Len(t, sessions.sessions, 1)

	claims, err := svc.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, RoleSeller, claims.Role)
}

func TestLogoutKillsToken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedBuyer(t, repo)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "juan@example.com", Password: "buyer123"})
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))

	_, err = svc.VerifyAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.VerifyAccessToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
