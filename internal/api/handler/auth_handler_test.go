package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimart/pos-api/internal/api/middleware"
	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

type stubAuthService struct {
	authenticateFn func(ctx context.Context, username, password string) (*domain.User, error)
	issueFn        func(ctx context.Context, userID string) (*domain.Session, error)
	endFn          func(ctx context.Context, sessionID string) error
	registerFn     func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	resetFn        func(ctx context.Context, username, newPassword string) error
	listFn         func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubAuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *stubAuthService) IssueSession(ctx context.Context, userID string) (*domain.Session, error) {
	return s.issueFn(ctx, userID)
}

func (s *stubAuthService) EndSession(ctx context.Context, sessionID string) error {
	return s.endFn(ctx, sessionID)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) ResolveActor(context.Context, string) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	return s.resetFn(ctx, username, newPassword)
}

func (s *stubAuthService) ListAccounts(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

type stubRecorder struct {
	attempts []domain.LoginAttempt
}

func (r *stubRecorder) Record(attempt domain.LoginAttempt) {
	r.attempts = append(r.attempts, attempt)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	user := &domain.User{ID: "u1", Username: "alice", Role: domain.RoleStaff}
	session := &domain.Session{ID: "tok123", UserID: "u1", CreatedAt: time.Now().UTC()}
	recorder := &stubRecorder{}
	h := NewAuthHandler(&stubAuthService{
		authenticateFn: func(_ context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "s3cret-pw" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return user, nil
		},
		issueFn: func(_ context.Context, userID string) (*domain.Session, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id %q", userID)
			}
			return session, nil
		},
	}, recorder, time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/login", `{"username":"alice","password":"s3cret-pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	u, _ := resp["user"].(map[string]any)
	if u["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := u["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %+v", u)
	}
	s, _ := resp["session"].(map[string]any)
	if s["id"] != "tok123" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != middleware.SessionCookieName || cookie.Value != "tok123" {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteNoneMode {
		t.Fatalf("cookie must be http-only and same-site none: %+v", cookie)
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("unexpected max-age %d", cookie.MaxAge)
	}
	if cookie.Secure {
		t.Fatalf("secure flag must follow the production setting")
	}

	if len(recorder.attempts) != 1 || !recorder.attempts[0].Success {
		t.Fatalf("expected one successful audit record, got %+v", recorder.attempts)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	recorder := &stubRecorder{}
	h := NewAuthHandler(&stubAuthService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}, recorder, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/login", `{"username":"alice","password":"bad-guess"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(recorder.attempts) != 1 || recorder.attempts[0].Success || recorder.attempts[0].Reason != "invalid" {
		t.Fatalf("expected one failed audit record, got %+v", recorder.attempts)
	}
}

func TestAuthHandler_Login_Locked(t *testing.T) {
	recorder := &stubRecorder{}
	h := NewAuthHandler(&stubAuthService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, &domain.AccountLockedError{RemainingSeconds: 120}
		},
	}, recorder, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/login", `{"username":"alice","password":"bad-guess"}`)
	err := h.Login(c)
	var locked *domain.AccountLockedError
	if !errors.As(err, &locked) || locked.RemainingSeconds != 120 {
		t.Fatalf("expected lock error, got %v", err)
	}
	if recorder.attempts[0].Reason != "locked" {
		t.Fatalf("expected locked audit reason, got %+v", recorder.attempts)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		authenticateFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatalf("service must not run on invalid payload")
			return nil, nil
		},
	}, nil, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/login", `{"username":"alice"}`)
	err := h.Login(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "newbie" || input.Role != "supplier" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "u9", Username: input.Username, Role: input.Role}, nil
		},
	}, nil, time.Hour, false)

	body := `{"username":"newbie","password":"longenough","confirmPassword":"longenough","role":"supplier"}`
	c, rec := newJSONContext(t, http.MethodPost, "/api/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not run on mismatched passwords")
			return nil, nil
		},
	}, nil, time.Hour, false)

	body := `{"username":"newbie","password":"longenough","confirmPassword":"different1"}`
	c, _ := newJSONContext(t, http.MethodPost, "/api/register", body)
	err := h.Register(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, nil, time.Hour, false)

	body := `{"username":"newbie","password":"longenough","confirmPassword":"longenough"}`
	c, _ := newJSONContext(t, http.MethodPost, "/api/register", body)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var ended string
	h := NewAuthHandler(&stubAuthService{
		endFn: func(_ context.Context, sessionID string) error {
			ended = sessionID
			return nil
		},
	}, nil, time.Hour, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ended != "tok123" {
		t.Fatalf("expected session tok123 ended, got %q", ended)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		endFn: func(context.Context, string) error {
			t.Fatalf("no session to end")
			return nil
		},
	}, nil, time.Hour, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
