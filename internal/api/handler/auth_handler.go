package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimart/pos-api/internal/api/metrics"
	"github.com/minimart/pos-api/internal/api/middleware"
	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	authService   ports.AuthService
	audit         ports.LoginAuditRecorder
	sessionTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, audit ports.LoginAuditRecorder, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = domain.SessionTTL
	}
	return &AuthHandler{
		authService:   authService,
		audit:         audit,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

// Login authenticates a user and issues a cookie-borne session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]any
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		var locked *domain.AccountLockedError
		switch {
		case errors.As(err, &locked):
			h.recordAttempt(c, req.Username, false, "locked")
			metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
			if !locked.Until.IsZero() {
				metrics.LockoutsTotal.Inc()
			}
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.recordAttempt(c, req.Username, false, "invalid")
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	session, err := h.authService.IssueSession(ctx, user.ID)
	if err != nil {
		return err
	}

	h.recordAttempt(c, req.Username, true, "")
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.Inc()

	c.SetCookie(h.sessionCookie(session.ID, int(h.sessionTTL.Seconds())))

	return c.JSON(http.StatusOK, loginResponse{
		User: user,
		Session: sessionResponse{
			ID:        session.ID,
			UserID:    session.UserID,
			CreatedAt: session.CreatedAt,
		},
	})
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Logout revokes the session named by the cookie. Always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.EndSession(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
		metrics.SessionsRevokedTotal.Inc()
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   h.secureCookies,
	}
}

func (h *AuthHandler) recordAttempt(c echo.Context, username string, success bool, reason string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(domain.LoginAttempt{
		Username:  username,
		Success:   success,
		Reason:    reason,
		RemoteIP:  c.RealIP(),
		CreatedAt: time.Now().UTC(),
	})
}
