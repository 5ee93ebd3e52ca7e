package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mpereira/invoicer/internal/validate"
)

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterParams struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginParams struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, validate.NewError("email", "is already registered")
		}

		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and returns the user together with a signed
// bearer token.
func (s *Service) Login(ctx context.Context, params LoginParams) (*User, string, error) {
	if err := validate.Struct(params); err != nil {
		return nil, "", err
	}

	u, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(params.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// VerifyToken resolves a bearer token to the owning user's id.
func (s *Service) VerifyToken(tokenStr string) (uuid.UUID, error) {
	return s.tokens.Verify(tokenStr)
}

// Lookup fetches a user by email. Used by the TUI to resolve the acting user.
func (s *Service) Lookup(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}
