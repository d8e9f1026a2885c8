package common

import (
	"encoding/json"
	"fmt"

	"golang.org/x/xerrors"
)

type ErrorCode uint

// Error is the coded error. The value returned by NewError is the error kind;
// New and Newf derive instances of the same kind, which still match the kind
// with xerrors.Is.
type Error struct {
	id      string
	code    ErrorCode
	message string
	parent  *Error
	err     error
	frame   xerrors.Frame
}

func NewError(id string, code ErrorCode, message string) Error {
	return Error{id: id, code: code, message: message}
}

// Under makes the kind a sub kind of parent; xerrors.Is(sub, parent) is true.
func (e Error) Under(parent Error) Error {
	p := parent
	e.parent = &p

	return e
}

func (e Error) ID() string {
	return e.id
}

func (e Error) Code() string {
	return fmt.Sprintf("%s-%d", e.id, e.code)
}

func (e Error) Message() string {
	return e.message
}

func (e Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s; %s: %v", e.Code(), e.message, e.err)
	}

	return fmt.Sprintf("%s; %s", e.Code(), e.message)
}

func (e Error) Newf(format string, args ...interface{}) Error {
	n := e
	n.message = fmt.Sprintf("%s; %s", e.message, fmt.Sprintf(format, args...))
	n.err = nil
	n.frame = xerrors.Caller(1)

	return n
}

func (e Error) New(err error) Error {
	n := e
	n.err = err
	n.frame = xerrors.Caller(1)

	return n
}

func (e Error) Unwrap() error {
	return e.err
}

func (e Error) Is(err error) bool {
	var target Error
	switch t := err.(type) {
	case Error:
		target = t
	case *Error:
		if t == nil {
			return false
		}
		target = *t
	default:
		return false
	}

	for k := &e; k != nil; k = k.parent {
		if k.id == target.id && k.code == target.code {
			return true
		}
	}

	return false
}

func (e Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Code(), "; ", e.message)
	e.frame.Format(p)

	return e.err
}

func (e Error) Format(s fmt.State, v rune) {
	xerrors.FormatError(e, s, v)
}

func (e Error) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"code":    e.Code(),
		"message": e.message,
	}
	if e.err != nil {
		m["error"] = e.err.Error()
	}

	return json.Marshal(m)
}
