// Package service contains the business logic behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token claim values.
const (
	TokenIssuer   = "folio-api"
	TokenAudience = "folio-client"
)

var (
	// ErrTokenInvalid is returned for malformed, forged or mis-addressed tokens.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned when the token's exp is in the past.
	ErrTokenExpired = errors.New("token expired")
)

// AuthService issues and verifies bearer tokens for admin accounts.
type AuthService struct {
	accounts  repository.AccountRepository
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewAuthService builds an AuthService from the JWT settings in cfg.
func NewAuthService(accounts repository.AccountRepository, cfg *config.Config) *AuthService {
	expiresIn := 30 * 24 * time.Hour
	secret := config.DefaultJWTSecret
	if cfg != nil {
		if cfg.JWTExpiresIn > 0 {
			expiresIn = cfg.JWTExpiresIn
		}
		if cfg.JWTSecret != "" {
			secret = cfg.JWTSecret
		}
	}
	return &AuthService{
		accounts:  accounts,
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Login checks the credentials and returns a fresh token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, models.NewInvalidCredentialsError()
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if account == nil {
		return "", nil, models.NewInvalidCredentialsError()
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); cmpErr != nil {
		return "", nil, models.NewInvalidCredentialsError()
	}

	token, err := s.IssueToken(account.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, account, nil
}

// IssueToken signs a token for the given account.
func (s *AuthService) IssueToken(accountID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(accountID), 10),
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": now.Add(s.expiresIn).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the account ID carried by a valid token.
func (s *AuthService) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrTokenInvalid
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

// CurrentAccount loads the account behind a verified token.
func (s *AuthService) CurrentAccount(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", models.NewValidationError("Password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
