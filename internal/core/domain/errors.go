package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a domain failure.
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindAuthentication
	KindInvalidSession
	KindNotFound
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindInvalidSession:
		return "invalid_session"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is the single family of expected business failures. It carries the
// user-facing message and the HTTP status the boundary should answer with.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Payload    any

	origin *Error
}

func (e *Error) Error() string {
	return e.Message
}

// WithPayload returns a copy of e carrying payload. The copy still matches e
// under errors.Is.
func (e *Error) WithPayload(payload any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, StatusCode: e.StatusCode, Payload: payload, origin: e.root()}
}

// Is matches copies produced by WithPayload against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.origin != nil {
		return e.origin
	}
	return e
}

func newError(kind ErrorKind, status int, msg string) *Error {
	return &Error{Kind: kind, Message: msg, StatusCode: status}
}

// Every failure answers 400 except bad credentials, bad sessions and
// missing privileges.
var (
	ErrNameInvalid    = newError(KindValidation, http.StatusBadRequest, "Name is not valid")
	ErrSurnameInvalid = newError(KindValidation, http.StatusBadRequest, "Surname is not valid")
	ErrEmailInvalid   = newError(KindValidation, http.StatusBadRequest, "Email is not valid")
	ErrPasswordEmpty  = newError(KindValidation, http.StatusBadRequest, "Password is not valid")

	ErrEmailExists = newError(KindConflict, http.StatusBadRequest, "Email already exists")

	ErrInvalidCredentials = newError(KindAuthentication, http.StatusUnauthorized, "Incorrect email or password")
	ErrIncorrectPassword  = newError(KindAuthentication, http.StatusBadRequest, "Incorrect password")

	ErrInvalidSession = newError(KindInvalidSession, http.StatusUnauthorized, "Invalid or expired session")
	ErrNotLoggedIn    = newError(KindInvalidSession, http.StatusUnauthorized, "Not authenticated")

	ErrUserNotFound = newError(KindNotFound, http.StatusBadRequest, "User not found")

	ErrForbidden = newError(KindForbidden, http.StatusForbidden, "Access forbidden")
)

// AsError extracts the domain error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == kind
}
