package service

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

var errInvalidLogin = apperrors.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized, nil)

// AuthService coordinates registration and login. It is the only place tokens
// are minted; verification lives in the auth gate.
type AuthService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, issuer *auth.Issuer, bcryptCost int) *AuthService {
	return &AuthService{users: users, issuer: issuer, bcryptCost: bcryptCost}
}

// Session is the result of a successful register or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a local account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("Invalid email address", nil)
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("Password must be at least 8 characters", nil)
	}
	if len(password) > auth.MaxPasswordLength {
		return nil, apperrors.NewValidationError("Password must be at most 72 bytes", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		Provider:     domain.AuthProviderLocal,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("User already exists", nil)
		}
		return nil, err
	}
	return s.session(user)
}

// Login checks a password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, errInvalidLogin
	}

	ok, err := auth.PasswordMatches(user.PasswordHash, password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, errInvalidLogin
	}
	return s.session(user)
}

func (s *AuthService) session(user *domain.User) (*Session, error) {
	token, exp, err := s.issuer.Issue(auth.SubjectID(user.ID))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}
