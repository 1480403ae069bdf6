package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medicompare/medicompare/internal/platform/auth"
)

type mockUserRepo struct {
	byEmail map[string]*User
	created []*User
	failErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]*User{}}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return ErrDuplicateEmail
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.byEmail[u.Email] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

type mockGate struct {
	verified bool
	err      error
	calls    int
}

func (m *mockGate) IsVerified(_ context.Context, _ uuid.UUID) (bool, error) {
	m.calls++
	return m.verified, m.err
}

func newTestService(repo UserRepository, gate HospitalGate) *Service {
	return NewService(repo, auth.NewTokenIssuer("test-secret", time.Hour), gate)
}

func seedUser(t *testing.T, repo *mockUserRepo, email, password, role string, active bool) *User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &User{
		ID:           uuid.New(),
		Name:         "Seeded",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	repo.byEmail[email] = u
	return u
}

func TestRegisterCreatesUserRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)

	u, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  Asha Rao  ",
		Email:    "Asha@Example.COM",
		Password: "secret123",
		Phone:    "9876543210",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.Role != auth.RoleUser {
		t.Errorf("role = %q, want %q", u.Role, auth.RoleUser)
	}
	if u.Email != "asha@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Name != "Asha Rao" {
		t.Errorf("name not trimmed: %q", u.Name)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if !auth.CheckPassword(u.PasswordHash, "secret123") {
		t.Error("stored hash does not verify the password")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMockUserRepo(), nil)

	cases := []RegisterInput{
		{Email: "a@b.com", Password: "x"},
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@b.com"},
		{Name: "   ", Email: "a@b.com", Password: "x"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Errorf("Register(%+v) err = %v, want ErrValidation", in, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)
	seedUser(t, repo, "taken@example.com", "pw", auth.RoleUser, true)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "B", Email: "Taken@Example.com", Password: "pw2",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)
	seeded := seedUser(t, repo, "user@example.com", "correct horse", auth.RoleUser, true)

	u, token, err := svc.Login(context.Background(), "USER@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != seeded.ID {
		t.Error("returned wrong user")
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)
	seedUser(t, repo, "user@example.com", "right", auth.RoleUser, true)

	cases := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "right"},
		{"wrong password", "user@example.com", "wrong"},
		{"empty password", "user@example.com", ""},
		{"empty email", "", "right"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)
	seedUser(t, repo, "gone@example.com", "pw", auth.RoleUser, false)

	if _, _, err := svc.Login(context.Background(), "gone@example.com", "pw"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestLoginHospitalGating(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "clinic@example.com", "pw", auth.RoleHospital, true)

	t.Run("pending hospital is rejected", func(t *testing.T) {
		gate := &mockGate{verified: false}
		svc := newTestService(repo, gate)
		if _, _, err := svc.Login(context.Background(), "clinic@example.com", "pw"); !errors.Is(err, ErrHospitalNotVerified) {
			t.Fatalf("err = %v, want ErrHospitalNotVerified", err)
		}
		if gate.calls != 1 {
			t.Errorf("gate calls = %d, want 1", gate.calls)
		}
	})

	t.Run("verified hospital logs in", func(t *testing.T) {
		svc := newTestService(repo, &mockGate{verified: true})
		if _, _, err := svc.Login(context.Background(), "clinic@example.com", "pw"); err != nil {
			t.Fatalf("Login: %v", err)
		}
	})

	t.Run("gate error propagates", func(t *testing.T) {
		svc := newTestService(repo, &mockGate{err: errors.New("db down")})
		if _, _, err := svc.Login(context.Background(), "clinic@example.com", "pw"); err == nil || errors.Is(err, ErrHospitalNotVerified) {
			t.Fatalf("err = %v, want the gate error", err)
		}
	})

	t.Run("gate is not consulted for plain users", func(t *testing.T) {
		gate := &mockGate{verified: false}
		svc := newTestService(repo, gate)
		seedUser(t, repo, "plain@example.com", "pw", auth.RoleUser, true)
		if _, _, err := svc.Login(context.Background(), "plain@example.com", "pw"); err != nil {
			t.Fatalf("Login: %v", err)
		}
		if gate.calls != 0 {
			t.Errorf("gate calls = %d, want 0", gate.calls)
		}
	})
}

func TestCreateAccountSetsRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(repo, nil)

	u, err := svc.CreateAccount(context.Background(), "City Care", "city@example.com", "pw", "", auth.RoleHospital)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if u.Role != auth.RoleHospital {
		t.Errorf("role = %q, want %q", u.Role, auth.RoleHospital)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Mixed.Case@Example.COM  "); got != "mixed.case@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
