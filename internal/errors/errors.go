// Package errors wraps github.com/go-errors/errors so that errors leaving
// a component carry the stack of their origin.
package errors

import (
	"errors"
	"runtime"

	errorsGo "github.com/go-errors/errors"
)

type Error = errorsGo.Error

func As(err error, target any) bool { return errorsGo.As(err, target) }

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func Unwrap(err error) error { return errorsGo.Unwrap(err) }

// Join returns nil if every err is nil.
func Join(errs ...error) error {
	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	return errorsGo.Wrap(err, 1)
}

// New wraps obj with the caller's stack. Unlike errorsGo.New it returns nil
// for nil and keeps the origin of an error that already carries a stack.
func New(obj any) error {
	if obj == nil {
		return nil
	}
	if err, ok := obj.(error); ok && err == nil {
		return nil
	}
	if errGo, okErrGo := obj.(*errorsGo.Error); okErrGo {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

func Errorf(format string, a ...any) error { return errorsGo.Errorf(format, a...) }

func Wrap(e any, skip int) error { return errorsGo.Wrap(e, skip+1) }

func WrapPrefix(e any, prefix string, skip int) error {
	return errorsGo.WrapPrefix(e, prefix, skip+1)
}

// Stack returns the stack trace of err, or an empty string.
func Stack(err error) string {
	var errGo *errorsGo.Error
	if errorsGo.As(err, &errGo) {
		return errGo.ErrorStack()
	}
	return ``
}

// NilReceiver returns an error with the function name if any of the arguments are nil
func NilReceiver(args ...any) error {
	return errMsgNilTester(`nil receiver or struct field`, 3, args...)
}

// NilParam returns an error with the function name if any of the arguments are nil
func NilParam(args ...any) error {
	return errMsgNilTester(`nil parameter`, 3, args...)
}

func errMsgNilTester(msg string, skip int, args ...any) error {
	if len(args) == 0 {
		return errMsg(msg, skip)
	}
	for i := range args {
		if args[i] == nil {
			return errMsg(msg, skip)
		}
	}
	return nil
}

func errMsg(msg string, skip int) error {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return errorsGo.Wrap(msg, skip)
	}
	return errorsGo.Wrap(msg+`: `+runtime.FuncForPC(pc).Name()+`()`, skip)
}
