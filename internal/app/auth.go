package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type Session struct {
	UserID  string
	Token   string
	Expires time.Time
}

type AuthService struct {
	users     domain.UserRepository
	tokens    domain.TokenService
	passwords domain.PasswordHasher
}

func NewAuthService(u domain.UserRepository, t domain.TokenService, p domain.PasswordHasher) *AuthService {
	return &AuthService{users: u, tokens: t, passwords: p}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := Validate(in); err != nil {
		return Session{}, err
	}
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return Session{}, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(u.ID)
}

// Login never tells apart an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := Validate(in); err != nil {
		return Session{}, err
	}
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !s.passwords.Compare(u.PasswordHash, in.Password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.issue(u.ID)
}

// Authenticate maps a session token to the user id it was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	id, err := s.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return id, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

func (s *AuthService) issue(userID string) (Session, error) {
	tok, exp, err := s.tokens.Issue(userID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{UserID: userID, Token: tok, Expires: exp}, nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
