package helper

import "errors"

var (
	// ErrTokenExpired reports a well-formed token whose lifetime has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other token failure: bad signature, bad
	// shape, wrong signing method, empty input.
	ErrTokenInvalid = errors.New("invalid token")
)

// ApiError is a domain error that knows which HTTP status it should surface
// with. Handlers unwrap it with errors.As and emit Status/Message verbatim.
type ApiError struct {
	Status  int
	Message string
}

func NewApiError(status int, message string) *ApiError {
	return &ApiError{Status: status, Message: message}
}

func (e *ApiError) Error() string {
	return e.Message
}
