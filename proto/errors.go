package proto

import (
	"errors"
	"strconv"
)

// decode error kinds, match with errors.Is
var (
	ErrUnknownCommand = errors.New(`unknown command`)
	ErrBadNumber      = errors.New(`bad number`)
	ErrBadHex         = errors.New(`bad hex payload`)
	ErrMalformedLine  = errors.New(`malformed line`)
)

// DecodeError reports why a line was rejected.
type DecodeError struct {
	Line  string
	Kind  error  // one of the Err* kinds above
	Field string // offending token, if any
	Err   error  // underlying parse error, if any
}

func (e *DecodeError) Error() string {
	if e == nil {
		return `<nil>`
	}
	msg := `decode ` + strconv.Quote(e.Line) + `: ` + e.Kind.Error()
	if len(e.Field) > 0 {
		msg += ` ` + strconv.Quote(e.Field)
	}
	if e.Err != nil {
		msg += `: ` + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorKind returns a short label for the decode error kind of err,
// suitable for metrics, or `other`.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return `unknown_command`
	case errors.Is(err, ErrBadNumber):
		return `bad_number`
	case errors.Is(err, ErrBadHex):
		return `bad_hex`
	case errors.Is(err, ErrMalformedLine):
		return `malformed_line`
	default:
		return `other`
	}
}

func decodeErr(line string, kind error, field string, err error) error {
	return &DecodeError{Line: line, Kind: kind, Field: field, Err: err}
}
