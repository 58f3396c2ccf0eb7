package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid")
	ErrConflict     = errors.New("conflict")
	ErrTooMany      = errors.New("too many requests")
	ErrInternal     = errors.New("internal")
)

// messageError carries a human-readable failure reason that is surfaced
// to the client verbatim as a 400-class response.
type messageError struct {
	msg string
}

func (e *messageError) Error() string {
	return e.msg
}

func Message(msg string) error {
	return &messageError{msg: msg}
}

// UserMessage reports whether err carries a client-facing message.
func UserMessage(err error) (string, bool) {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
