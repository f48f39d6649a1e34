package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, models.ErrConflict
	}
	r.nextID++
	user.ID = "user-" + string(rune('0'+r.nextID))
	user.CreatedAt = time.Now()
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func newTestAuthService() *AuthService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm := auth.NewTokenManager("test-secret-32-characters-long!!", 30*time.Minute)
	return NewAuthService(newMemUserRepo(), tm, logger)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must be hashed")

	resp, err := svc.Login(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "different9")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAuthService_RegisterWeakPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), "a@b.com", "short")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "wrongpass1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService()

	// Unknown email maps to the same error as a bad password
	_, err := svc.Login(context.Background(), "nobody@b.com", "secret123")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
