package admins

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/validation"
	"vet-clinic-api/internal/platform/password"
	"vet-clinic-api/internal/platform/token"
	"vet-clinic-api/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked or unknown")
	ErrAlreadyExists      = errors.New("admin already exists")
)

type Service struct {
	repo   Repository
	tokens *token.Manager
	now    func() time.Time
}

func NewService(repo Repository, tokens *token.Manager) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates an admin account. Used by the startup seed; there is
// no public sign-up endpoint.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Admin, error) {
	errs := validation.FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		errs.Add("username", "username is required")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		errs.Add("email", "email is required")
	} else if !validation.IsEmail(email) {
		errs.Add("email", "email must be a valid email address")
	}

	if len(in.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}

	if err := errs.Err(); err != nil {
		return Admin{}, err
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return Admin{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Admin{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Admin{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Admin{}, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return Admin{}, err
	}

	now := s.now()
	a := Admin{
		ID:           uuid.NewString(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Admin{}, err
	}
	return a, nil
}

// Login accepts a username or an email (detected by format) plus a
// password, and issues a bearer token on success.
func (s *Service) Login(ctx context.Context, login, pw string) (Admin, string, error) {
	errs := validation.FieldErrors{}
	login = strings.TrimSpace(login)
	if login == "" {
		errs.Add("login", "login is required")
	}
	if len(pw) < 6 {
		errs.Add("password", "password must be at least 6 characters")
	}
	if err := errs.Err(); err != nil {
		return Admin{}, "", err
	}

	var (
		a   Admin
		err error
	)
	if validation.IsEmail(login) {
		a, err = s.repo.GetByEmail(ctx, strings.ToLower(login))
	} else {
		a, err = s.repo.GetByUsername(ctx, strings.ToLower(login))
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Admin{}, "", ErrInvalidCredentials
		}
		return Admin{}, "", err
	}

	if err := password.Verify(pw, a.PasswordHash); err != nil {
		return Admin{}, "", ErrInvalidCredentials
	}

	tok, tokenID, err := s.tokens.Issue(a.ID)
	if err != nil {
		return Admin{}, "", err
	}
	if err := s.repo.SaveToken(ctx, tokenID, a.ID); err != nil {
		return Admin{}, "", err
	}

	return a, tok, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	return s.repo.DeleteToken(ctx, tokenID)
}

func (s *Service) Profile(ctx context.Context, adminID string) (Admin, error) {
	return s.repo.GetByID(ctx, adminID)
}

// Verify implements ports/auth.Verifier: the token must parse and its id
// must still be in the store (logout removes it).
func (s *Service) Verify(ctx context.Context, tokenStr string) (auth.Claims, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return auth.Claims{}, err
	}

	adminID, err := s.repo.TokenAdminID(ctx, claims.TokenID)
	if err != nil {
		return auth.Claims{}, ErrTokenRevoked
	}
	if adminID != claims.AdminID {
		return auth.Claims{}, ErrTokenRevoked
	}

	return auth.Claims{AdminID: claims.AdminID, TokenID: claims.TokenID}, nil
}
