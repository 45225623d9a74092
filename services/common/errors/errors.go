package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an API error. It renders as HTTP Code with body {"detail": Detail}.
type Error struct {
	Code   int    `json:"-"`
	Detail string `json:"detail"`
	Err    error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code int, detail string, err error) *Error {
	return &Error{Code: code, Detail: detail, Err: err}
}

func NotFound(detail string) *Error {
	return New(http.StatusNotFound, detail, nil)
}

func BadRequest(detail string) *Error {
	return New(http.StatusBadRequest, detail, nil)
}

func Conflict(detail string) *Error {
	return New(http.StatusConflict, detail, nil)
}

func Unavailable(detail string) *Error {
	return New(http.StatusServiceUnavailable, detail, nil)
}

// Internal wraps an unexpected failure. The wrapped error text is embedded in the
// response detail.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", err), err)
}

// Respond writes err as a JSON error response and aborts the chain. Errors that
// are not *Error become 500.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if !stderrors.As(err, &apiErr) {
		apiErr = Internal(err)
	}
	if apiErr.Code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(apiErr.Code, gin.H{"detail": apiErr.Detail})
}

// Is reports whether err carries an *Error with the given HTTP code.
func Is(err error, code int) bool {
	var apiErr *Error
	return stderrors.As(err, &apiErr) && apiErr.Code == code
}
