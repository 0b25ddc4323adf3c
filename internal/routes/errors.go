package routes

import (
	"errors"
	"net/http"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/editrequest"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/jwt"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly message
	Internal   bool   // Whether this is an internal error (hide details from user)
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Internal:   statusCode >= 500,
	}
}

// Routes-specific errors (that don't conflict with the domain packages)
var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrInvalidToken            = errors.New("invalid or expired token")

	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrInternalServer = errors.New("internal server error")
)

// errorStatusMap maps domain errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request - malformed or incomplete input
	ErrInvalidRequest:                     http.StatusBadRequest,
	ErrInvalidParameter:                   http.StatusBadRequest,
	attendance.ErrAgendaRequired:          http.StatusBadRequest,
	attendance.ErrReferenceLinkRequired:   http.StatusBadRequest,
	attendance.ErrAgendaCompletionMissing: http.StatusBadRequest,

	// 401 Unauthorized
	ErrUnauthorized:      http.StatusUnauthorized,
	ErrInvalidToken:      http.StatusUnauthorized,
	jwt.ErrNonValidToken: http.StatusUnauthorized,

	// 403 Forbidden
	ErrForbidden:                   http.StatusForbidden,
	ErrInsufficientPermissions:     http.StatusForbidden,
	attendance.ErrEmployeeInactive: http.StatusForbidden,

	// 404 Not Found
	employee.ErrNotFound:              http.StatusNotFound,
	attendance.ErrAttendanceNotFound:  http.StatusNotFound,
	attendance.ErrAgendaNotFound:      http.StatusNotFound,
	editrequest.ErrRequestNotFound:    http.StatusNotFound,
	editrequest.ErrAttendanceNotFound: http.StatusNotFound,

	// 409 Conflict - business-rule violations
	attendance.ErrAlreadyCheckedIn:  http.StatusConflict,
	attendance.ErrNoActiveSession:   http.StatusConflict,
	attendance.ErrDailyLimitReached: http.StatusConflict,
	editrequest.ErrFutureDate:       http.StatusConflict,
	editrequest.ErrTimeOrder:        http.StatusConflict,
	editrequest.ErrOverlap:          http.StatusConflict,
	editrequest.ErrAlreadyReviewed:  http.StatusConflict,
	employee.ErrEmailExists:         http.StatusConflict,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	// Check if it's already an HTTPError
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	// Check direct match
	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	// Default to 500 Internal Server Error
	return http.StatusInternalServerError
}

// GetErrorMessage returns a user-facing message for an error. Internal
// errors keep their details out of the response.
func GetErrorMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	if GetErrorStatus(err) >= 500 {
		return "An internal error occurred"
	}
	return err.Error()
}
