package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"folio/internal/config"
	"folio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type accountRepoStub struct {
	byEmail map[string]*models.Account
}

func (s *accountRepoStub) GetByID(_ context.Context, id uint) (*models.Account, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, models.NewNotFoundError("Account")
}
func (s *accountRepoStub) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return s.byEmail[email], nil
}
func (s *accountRepoStub) Create(_ context.Context, a *models.Account) error {
	s.byEmail[a.Email] = a
	return nil
}
func (s *accountRepoStub) UpdatePassword(_ context.Context, _ uint, _ string) error { return nil }
func (s *accountRepoStub) List(_ context.Context) ([]models.Account, error)         { return nil, nil }

func newAuthFixture(t *testing.T) (*AuthService, *models.Account) {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	account := &models.Account{ID: 7, Name: "Admin", Email: "admin@example.com", PasswordHash: hash}
	repo := &accountRepoStub{byEmail: map[string]*models.Account{account.Email: account}}
	svc := NewAuthService(repo, &config.Config{JWTSecret: testSecret, JWTExpiresIn: time.Hour})
	return svc, account
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	t.Parallel()
	svc, account := newAuthFixture(t)

	token, got, err := svc.Login(context.Background(), "  ADMIN@example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.NotEmpty(t, token)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, id)
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthFixture(t)

	_, _, wrongPassword := svc.Login(context.Background(), "admin@example.com", "nope")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "correct-horse")

	assertCode(t, wrongPassword, models.CodeInvalidCredentials)
	assertCode(t, unknownEmail, models.CodeInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Verify_Rejections(t *testing.T) {
	t.Parallel()
	svc, account := newAuthFixture(t)

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		other := NewAuthService(nil, &config.Config{JWTSecret: strings.Repeat("x", 40)})
		token, err := other.IssueToken(account.ID)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		past := NewAuthService(nil, &config.Config{JWTSecret: testSecret, JWTExpiresIn: time.Minute})
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.IssueToken(account.ID)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.True(t, errors.Is(err, ErrTokenExpired))
	})

	t.Run("wrong audience", func(t *testing.T) {
		t.Parallel()
		claims := jwt.MapClaims{
			"sub": "7",
			"iss": TokenIssuer,
			"aud": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		t.Parallel()
		claims := jwt.MapClaims{
			"sub": "7",
			"iss": TokenIssuer,
			"aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("short")
	assertCode(t, err, models.CodeValidation)

	hash, err := HashPassword("long-enough-password")
	require.NoError(t, err)
	assert.NotEqual(t, "long-enough-password", hash)
}
