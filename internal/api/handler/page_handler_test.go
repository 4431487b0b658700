package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api/middleware"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

func newTestPageHandler(users *stubUserService, sessions *stubSessionService) *PageHandler {
	return NewPageHandler(users, sessions, SessionCookie{Name: testCookieName}, "/check", zerolog.Nop())
}

func TestPageHandler_Main(t *testing.T) {
	e := newTestEcho(t)
	h := newTestPageHandler(&stubUserService{}, &stubSessionService{})

	c, rec := newContext(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if err := h.Main(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Fatalf("unexpected page: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPageHandler_Login_SuccessRedirects303(t *testing.T) {
	e := newTestEcho(t)
	sessions := &stubSessionService{
		loginFn: func(_ context.Context, cr domain.Credentials) (*domain.Session, error) {
			if cr.Email != "a@b.com" {
				t.Fatalf("unexpected email %q", cr.Email)
			}
			return &domain.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := newTestPageHandler(&stubUserService{}, sessions)

	c, rec := newContext(e, formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"pw"},
	}))
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/check" {
		t.Fatalf("expected 303 to /check, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if c := findCookie(rec, testCookieName); c == nil || c.Value != "tok" {
		t.Fatalf("expected session cookie, got %+v", c)
	}
}

func TestPageHandler_Login_FailureRedirects302(t *testing.T) {
	e := newTestEcho(t)
	sessions := &stubSessionService{
		loginFn: func(context.Context, domain.Credentials) (*domain.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := newTestPageHandler(&stubUserService{}, sessions)

	c, rec := newContext(e, formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"a@b.com"},
		"password": {"bad"},
	}))
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 302 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if findCookie(rec, testCookieName) != nil {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestPageHandler_Register_Success(t *testing.T) {
	e := newTestEcho(t)
	users := &stubUserService{
		createFn: func(_ context.Context, in ports.CreateUserInput, role domain.Role) (*domain.UserView, error) {
			return testUserView(1, in.Email, role), nil
		},
	}
	h := newTestPageHandler(users, &stubSessionService{})

	c, rec := newContext(e, formRequest(http.MethodPost, "/register", url.Values{
		"name": {"Ann"}, "surname": {"Lee"}, "email": {"a@b.com"}, "password": {"pw"},
	}))
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d", rec.Code)
	}
}

func TestPageHandler_Register_RerendersWithError(t *testing.T) {
	e := newTestEcho(t)
	users := &stubUserService{
		createFn: func(context.Context, ports.CreateUserInput, domain.Role) (*domain.UserView, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := newTestPageHandler(users, &stubSessionService{})

	c, rec := newContext(e, formRequest(http.MethodPost, "/register", url.Values{
		"name": {"Ann"}, "surname": {"Lee"}, "email": {"a@b.com"}, "password": {"pw"},
	}))
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	if rec.Code != http.StatusBadRequest || !strings.Contains(body, "Email already exists") || !strings.Contains(body, `value="a@b.com"`) {
		t.Fatalf("unexpected page: %d %s", rec.Code, body)
	}
}

func TestPageHandler_Register_UnexpectedErrorBubbles(t *testing.T) {
	e := newTestEcho(t)
	boom := errors.New("db down")
	users := &stubUserService{
		createFn: func(context.Context, ports.CreateUserInput, domain.Role) (*domain.UserView, error) {
			return nil, boom
		},
	}
	h := newTestPageHandler(users, &stubSessionService{})

	c, _ := newContext(e, formRequest(http.MethodPost, "/register", url.Values{"name": {"Ann"}}))
	if err := h.Register(c); !errors.Is(err, boom) {
		t.Fatalf("expected raw error, got %v", err)
	}
}

func TestPageHandler_Check(t *testing.T) {
	e := newTestEcho(t)
	users := &stubUserService{
		getByIDFn: func(_ context.Context, id int64) (*domain.UserView, error) {
			return testUserView(id, "a@b.com", domain.RoleUser), nil
		},
	}
	h := newTestPageHandler(users, &stubSessionService{})

	c, rec := newContext(e, httptest.NewRequest(http.MethodGet, "/check", nil))
	middleware.SetIdentity(c, &domain.Identity{UserID: 1, Role: domain.RoleUser})
	if err := h.Check(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "a@b.com") {
		t.Fatalf("unexpected page: %s", rec.Body.String())
	}
}

func TestPageHandler_Logout(t *testing.T) {
	e := newTestEcho(t)
	var revoked string
	sessions := &stubSessionService{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := newTestPageHandler(&stubUserService{}, sessions)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "tok"})
	c, rec := newContext(e, req)

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "tok" || rec.Code != http.StatusSeeOther {
		t.Fatalf("unexpected result: revoked=%q code=%d", revoked, rec.Code)
	}
}
