// Package apperr carries status-coded application errors from handlers to
// the terminal error middleware.
package apperr

import "github.com/gin-gonic/gin"

// Error is an application error with the HTTP status it should render with.
type Error struct {
	Status  int
	Message string
}

// New returns an Error with the given status code and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Abort records err on the gin context and stops the handler chain. The
// terminal error middleware renders the response.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
