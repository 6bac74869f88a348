package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
)

type fakeUserRepo struct {
	user    *models.User
	exists  bool
	created *models.User
}

func (f *fakeUserRepo) FindByEmail(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakeUserRepo) FindByID(context.Context, string) (*models.User, error) {
	if f.user == nil {
		return nil, sql.ErrNoRows
	}
	return f.user, nil
}

func (f *fakeUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return f.exists, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "u1"
	f.created = user
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "tutor-api"}
}

func TestAuthServiceRegister(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	session, err := svc.Register(context.Background(), models.RegisterRequest{Email: "new@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "new@example.com", session.User.Email)
	assert.Equal(t, int64(3600), session.ExpiresIn)

	require.NotNil(t, repo.created)
	assert.True(t, repo.created.Active)
	assert.NotEqual(t, "supersecret", repo.created.PasswordHash)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{exists: true}, nil, nil, testAuthConfig())
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "dup@example.com", Password: "supersecret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterWeakPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, nil, nil, testAuthConfig())
	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "new@example.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{user: &models.User{ID: "u1", Email: "user@example.com", PasswordHash: string(hash), Active: true}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	session, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{user: &models.User{ID: "u1", Email: "user@example.com", PasswordHash: string(hash), Active: true}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, nil, nil, testAuthConfig())
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{user: &models.User{ID: "u1", Email: "user@example.com", PasswordHash: string(hash), Active: false}}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "supersecret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthService(&fakeUserRepo{}, nil, nil, AuthConfig{TokenSecret: "other-secret", TokenExpiry: time.Hour, Issuer: "tutor-api"})
	session, err := issuer.Register(context.Background(), models.RegisterRequest{Email: "new@example.com", Password: "supersecret"})
	require.NoError(t, err)

	svc := NewAuthService(&fakeUserRepo{}, nil, nil, testAuthConfig())
	_, err = svc.ValidateToken(session.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
