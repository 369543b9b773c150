package admins

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-clinic-api/internal/platform/token"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID   map[string]Admin
	tokens map[string]string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Admin{}, tokens: map[string]string{}}
}

func (r *testRepo) Create(ctx context.Context, a Admin) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Admin, error) {
	a, ok := r.byID[id]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByUsername(ctx context.Context, username string) (Admin, error) {
	for _, a := range r.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Admin, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (r *testRepo) SaveToken(ctx context.Context, tokenID, adminID string) error {
	r.tokens[tokenID] = adminID
	return nil
}

func (r *testRepo) DeleteToken(ctx context.Context, tokenID string) error {
	delete(r.tokens, tokenID)
	return nil
}

func (r *testRepo) TokenAdminID(ctx context.Context, tokenID string) (string, error) {
	adminID, ok := r.tokens[tokenID]
	if !ok {
		return "", ErrTokenRevoked
	}
	return adminID, nil
}

// -------------------------
// Tests
// -------------------------

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()

	tokens, err := token.New("", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	repo := newTestRepo()
	return NewService(repo, tokens), repo
}

func register(t *testing.T, svc *Service) Admin {
	t.Helper()

	a, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Clinic Admin",
		Username: "Admin",
		Email:    "Admin@Clinic.Test",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return a
}

func TestRegister_NormalizesAndHashes(t *testing.T) {
	svc, _ := newTestService(t)

	a := register(t, svc)
	if a.Username != "admin" || a.Email != "admin@clinic.test" {
		t.Fatalf("expected lowercased identity, got %q / %q", a.Username, a.Email)
	}
	if a.PasswordHash == "" || a.PasswordHash == "admin123" {
		t.Fatalf("expected hashed password, got %q", a.PasswordHash)
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Username: "admin",
		Email:    "other@clinic.test",
		Password: "secret1",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for username, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Username: "other",
		Email:    "admin@clinic.test",
		Password: "secret1",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for email, got %v", err)
	}
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	svc, _ := newTestService(t)
	a := register(t, svc)

	for _, login := range []string{"admin", "admin@clinic.test", "Admin@Clinic.Test"} {
		got, tok, err := svc.Login(context.Background(), login, "admin123")
		if err != nil {
			t.Fatalf("login %q: %v", login, err)
		}
		if got.ID != a.ID || tok == "" {
			t.Fatalf("login %q: unexpected result", login)
		}
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc)

	_, _, err := svc.Login(context.Background(), "admin", "wrongpw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.Login(context.Background(), "nobody", "admin123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestVerify_LogoutRevokes(t *testing.T) {
	svc, _ := newTestService(t)
	a := register(t, svc)

	_, tok, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.AdminID != a.ID {
		t.Fatalf("expected admin id %s, got %s", a.ID, claims.AdminID)
	}

	if err := svc.Logout(context.Background(), claims.TokenID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.Verify(context.Background(), tok); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Verify(context.Background(), "not-a-token"); err == nil {
		t.Fatalf("expected error for garbage token")
	}
}
