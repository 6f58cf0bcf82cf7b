package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable reason of a conversion failure.
type ErrorKind string

const (
	KindFileNotFound      ErrorKind = "FileNotFoundError"
	KindRead              ErrorKind = "ReadError"
	KindEncoding          ErrorKind = "EncodingError"
	KindEmptyInput        ErrorKind = "EmptyInputError"
	KindParse             ErrorKind = "ParseError"
	KindRowLength         ErrorKind = "RowLengthError"
	KindUnsupportedFormat ErrorKind = "UnsupportedFormatError"
	KindWrite             ErrorKind = "WriteError"
	KindDirectoryNotFound ErrorKind = "DirectoryNotFoundError"
	KindInvalidRequest    ErrorKind = "InvalidRequestError"
	KindUnknown           ErrorKind = "UnknownError"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrFileNotFound      = &Error{Kind: KindFileNotFound}
	ErrRead              = &Error{Kind: KindRead}
	ErrEncoding          = &Error{Kind: KindEncoding}
	ErrEmptyInput        = &Error{Kind: KindEmptyInput}
	ErrParse             = &Error{Kind: KindParse}
	ErrRowLength         = &Error{Kind: KindRowLength}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrWrite             = &Error{Kind: KindWrite}
	ErrDirectoryNotFound = &Error{Kind: KindDirectoryNotFound}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
)

// Error is a conversion error with a kind and the path it concerns.
type Error struct {
	Kind ErrorKind

	// Path is the file or directory the error is about. May be empty.
	Path string

	// Err is the underlying cause. May be nil.
	Err error
}

// NewError builds an *Error. msg is formatted with args and becomes the cause.
func NewError(kind ErrorKind, path string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// WrapError attaches a kind and path to err.
func WrapError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels above work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
