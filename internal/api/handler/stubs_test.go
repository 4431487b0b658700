package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/goplay/staff-portal/internal/api/view"
	"github.com/goplay/staff-portal/internal/core/domain"
	"github.com/goplay/staff-portal/internal/core/ports"
)

var errNotStubbed = errors.New("not stubbed")

type stubUserService struct {
	createFn         func(ctx context.Context, input ports.CreateUserInput, role domain.Role) (*domain.UserView, error)
	getByIDFn        func(ctx context.Context, id int64) (*domain.UserView, error)
	getByEmailFn     func(ctx context.Context, email string) (*domain.UserView, error)
	listFn           func(ctx context.Context, limit, offset int) ([]*domain.UserView, error)
	updateNameFn     func(ctx context.Context, userID int64, input ports.UpdateNameInput) (*domain.UserView, error)
	updatePasswordFn func(ctx context.Context, userID int64, input ports.UpdatePasswordInput) error
	resetPasswordFn  func(ctx context.Context, email string) error
	deleteFn         func(ctx context.Context, id int64) error
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput, role domain.Role) (*domain.UserView, error) {
	if s.createFn == nil {
		return nil, errNotStubbed
	}
	return s.createFn(ctx, input, role)
}

func (s *stubUserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.UserView, error) {
	return s.Create(ctx, input, domain.RoleUser)
}

func (s *stubUserService) CreateAdmin(ctx context.Context, input ports.CreateUserInput) (*domain.UserView, error) {
	return s.Create(ctx, input, domain.RoleAdmin)
}

func (s *stubUserService) GetByID(ctx context.Context, id int64) (*domain.UserView, error) {
	if s.getByIDFn == nil {
		return nil, errNotStubbed
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubUserService) GetByEmail(ctx context.Context, email string) (*domain.UserView, error) {
	if s.getByEmailFn == nil {
		return nil, errNotStubbed
	}
	return s.getByEmailFn(ctx, email)
}

func (s *stubUserService) List(ctx context.Context, limit, offset int) ([]*domain.UserView, error) {
	if s.listFn == nil {
		return nil, errNotStubbed
	}
	return s.listFn(ctx, limit, offset)
}

func (s *stubUserService) UpdateName(ctx context.Context, userID int64, input ports.UpdateNameInput) (*domain.UserView, error) {
	if s.updateNameFn == nil {
		return nil, errNotStubbed
	}
	return s.updateNameFn(ctx, userID, input)
}

func (s *stubUserService) UpdatePassword(ctx context.Context, userID int64, input ports.UpdatePasswordInput) error {
	if s.updatePasswordFn == nil {
		return errNotStubbed
	}
	return s.updatePasswordFn(ctx, userID, input)
}

func (s *stubUserService) ResetPassword(ctx context.Context, email string) error {
	if s.resetPasswordFn == nil {
		return errNotStubbed
	}
	return s.resetPasswordFn(ctx, email)
}

func (s *stubUserService) Delete(ctx context.Context, id int64) error {
	if s.deleteFn == nil {
		return errNotStubbed
	}
	return s.deleteFn(ctx, id)
}

type stubSessionService struct {
	loginFn    func(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
	validateFn func(ctx context.Context, token string) (*domain.Identity, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubSessionService) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	if s.loginFn == nil {
		return nil, errNotStubbed
	}
	return s.loginFn(ctx, credentials)
}

func (s *stubSessionService) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	if s.validateFn == nil {
		return nil, errNotStubbed
	}
	return s.validateFn(ctx, token)
}

func (s *stubSessionService) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

func (s *stubSessionService) TTL() time.Duration { return time.Hour }

type stubEmployeeService struct {
	getByUserIDFn func(ctx context.Context, userID int64) (*domain.Employee, error)
	listSkillsFn  func(ctx context.Context) ([]*domain.Skill, error)
}

func (s *stubEmployeeService) EnsureSkill(context.Context, string, string) (*domain.Skill, error) {
	return nil, errNotStubbed
}

func (s *stubEmployeeService) CreateEmployee(context.Context, ports.CreateEmployeeInput) (*domain.Employee, error) {
	return nil, errNotStubbed
}

func (s *stubEmployeeService) GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	if s.getByUserIDFn == nil {
		return nil, errNotStubbed
	}
	return s.getByUserIDFn(ctx, userID)
}

func (s *stubEmployeeService) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	if s.listSkillsFn == nil {
		return nil, errNotStubbed
	}
	return s.listSkillsFn(ctx)
}

const testCookieName = "session_token"

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	return e
}

func newContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testUserView(id int64, email string, role domain.Role) *domain.UserView {
	return &domain.UserView{ID: id, Name: "Ann", Surname: "Lee", Email: email, Role: role}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
