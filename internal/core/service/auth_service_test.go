package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.CooldownUntil != nil {
		until := *u.CooldownUntil
		clone.CooldownUntil = &until
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateLoginState(_ context.Context, username string, attempts int, cooldownUntil *time.Time) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = attempts
	u.CooldownUntil = cooldownUntil
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, username string, passwordHash string) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.LoginAttempts = 0
	u.CooldownUntil = nil
	return nil
}

func (r *stubUserRepo) ListByRoles(_ context.Context, roles []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		for _, role := range roles {
			if u.HasRole(role) {
				out = append(out, cloneUser(u))
				break
			}
		}
	}
	return out, nil
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Put(_ context.Context, session *domain.Session, _ time.Duration) error {
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newTestAuthService(repo ports.UserRepository, store ports.SessionStore) *AuthService {
	return NewAuthService(repo, store, time.Hour, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthenticate_UnknownUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())

	for _, password := range []string{"", "guess", "anything-at-all"} {
		if _, err := svc.Authenticate(context.Background(), "ghost", password); err != domain.ErrInvalidCredentials {
			t.Fatalf("password %q: expected ErrInvalidCredentials, got %v", password, err)
		}
	}
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "alice", "s3cret-pw", domain.RoleStaff)

	user, err := svc.Authenticate(context.Background(), "alice", "s3cret-pw")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected sanitized user, got hash %q", user.PasswordHash)
	}
}

func TestAuthenticate_LockoutProgression(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "bob", "correct-pw", domain.RoleStaff)

	// 1st and 2nd failures: generic rejection, counter incremented.
	for i := 1; i <= 2; i++ {
		if _, err := svc.Authenticate(context.Background(), "bob", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("failure %d: expected ErrInvalidCredentials, got %v", i, err)
		}
		if got := repo.users["bob"].LoginAttempts; got != i {
			t.Fatalf("failure %d: expected %d attempts, got %d", i, i, got)
		}
	}

	// 3rd failure: lock triggered, cooldown about five minutes out.
	before := time.Now().UTC()
	_, err := svc.Authenticate(context.Background(), "bob", "wrong")
	var locked *domain.AccountLockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected AccountLockedError, got %v", err)
	}
	if locked.Until.IsZero() {
		t.Fatalf("lock trigger must carry the cooldown timestamp")
	}
	want := before.Add(domain.CooldownDuration)
	if locked.Until.Before(want.Add(-time.Second)) || locked.Until.After(want.Add(2*time.Second)) {
		t.Fatalf("cooldown %v not about 5 minutes from %v", locked.Until, before)
	}
	if repo.users["bob"].LoginAttempts != 3 {
		t.Fatalf("expected 3 attempts recorded, got %d", repo.users["bob"].LoginAttempts)
	}

	// 4th attempt with the CORRECT password: still locked, password not
	// consulted, counter untouched.
	_, err = svc.Authenticate(context.Background(), "bob", "correct-pw")
	locked = nil
	if !errors.As(err, &locked) {
		t.Fatalf("expected AccountLockedError during cooldown, got %v", err)
	}
	if locked.RemainingSeconds <= 0 || locked.RemainingSeconds > int64(domain.CooldownDuration/time.Second) {
		t.Fatalf("unexpected remaining seconds: %d", locked.RemainingSeconds)
	}
	if repo.users["bob"].LoginAttempts != 3 {
		t.Fatalf("cooldown attempt must not touch the counter, got %d", repo.users["bob"].LoginAttempts)
	}
}

func TestAuthenticate_SuccessResetsCounter(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "carol", "good-pw", domain.RoleStaff)

	for i := 0; i < 2; i++ {
		_, _ = svc.Authenticate(context.Background(), "carol", "bad")
	}
	if repo.users["carol"].LoginAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", repo.users["carol"].LoginAttempts)
	}

	if _, err := svc.Authenticate(context.Background(), "carol", "good-pw"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if repo.users["carol"].LoginAttempts != 0 {
		t.Fatalf("expected counter reset, got %d", repo.users["carol"].LoginAttempts)
	}
}

func TestAuthenticate_ExpiredCooldown(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "dave", "good-pw", domain.RoleStaff)

	past := time.Now().UTC().Add(-time.Minute)
	repo.users["dave"].LoginAttempts = 3
	repo.users["dave"].CooldownUntil = &past

	user, err := svc.Authenticate(context.Background(), "dave", "good-pw")
	if err != nil {
		t.Fatalf("expected login after cooldown expiry, got %v", err)
	}
	if user == nil || repo.users["dave"].LoginAttempts != 0 {
		t.Fatalf("expected counter reset after expired cooldown")
	}
}

func TestRegister(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Password: "longenough", Role: "Supplier"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatalf("registered user must not expose the hash")
	}
	if user.Role != domain.RoleSupplier {
		t.Fatalf("expected role normalized to %q, got %q", domain.RoleSupplier, user.Role)
	}
	stored := repo.users["erin"]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "erin", Password: "otherpass1"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegister_DefaultRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "frank", Password: "longenough"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleStaff {
		t.Fatalf("expected default role %q, got %q", domain.RoleStaff, user.Role)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := newStubUserRepo()
	store := newStubSessionStore()
	svc := newTestAuthService(repo, store)
	seeded := seedUser(t, repo, "gina", "good-pw1", domain.RoleStaff)

	session, err := svc.IssueSession(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if len(session.ID) != 64 {
		t.Fatalf("expected 64-char hex token, got %q", session.ID)
	}

	actor, err := svc.ResolveActor(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("resolve actor: %v", err)
	}
	if actor.Username != "gina" {
		t.Fatalf("resolved wrong user: %+v", actor)
	}

	if err := svc.EndSession(context.Background(), session.ID); err != nil {
		t.Fatalf("end session: %v", err)
	}
	if _, err := svc.ResolveActor(context.Background(), session.ID); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized after revocation, got %v", err)
	}

	// Revoking again is not an error.
	if err := svc.EndSession(context.Background(), session.ID); err != nil {
		t.Fatalf("second revocation should be idempotent: %v", err)
	}
}

func TestResolveActor_Empty(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())
	if _, err := svc.ResolveActor(context.Background(), ""); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for empty id, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "hank", "oldsecret1", domain.RoleStaff)

	until := time.Now().UTC().Add(time.Minute)
	repo.users["hank"].LoginAttempts = 3
	repo.users["hank"].CooldownUntil = &until

	if err := svc.ResetPassword(context.Background(), "hank", "newsecret1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	stored := repo.users["hank"]
	if stored.LoginAttempts != 0 || stored.CooldownUntil != nil {
		t.Fatalf("reset must clear lockout state: %+v", stored)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret1")); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "nobody", "whatever12"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListAccounts(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubSessionStore())
	seedUser(t, repo, "root", "admin-pw12", domain.RoleAdmin)
	seedUser(t, repo, "staffer", "staff-pw12", "Staff")
	seedUser(t, repo, "vendor", "vendor-pw1", domain.RoleSupplier)

	accounts, err := svc.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	for _, a := range accounts {
		if a.HasRole(domain.RoleAdmin) {
			t.Fatalf("admin account leaked into listing: %+v", a)
		}
		if a.PasswordHash != "" {
			t.Fatalf("password hash leaked into listing: %+v", a)
		}
	}
}
