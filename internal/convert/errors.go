package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure
type Kind int

const (
	// KindNoFileSelected means the caller supplied no source path; nothing was decoded
	KindNoFileSelected Kind = iota + 1
	// KindInvalidRequest means dimensions or format are outside what the converter accepts
	KindInvalidRequest
	// KindDecode means the source is missing, unreadable or not a recognised image
	KindDecode
	// KindEncode means the bitmap could not be encoded in the requested format
	KindEncode
	// KindIO means the destination could not be written
	KindIO
	// KindCanceled means the caller gave up before decoding started
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNoFileSelected:
		return "no file selected"
	case KindInvalidRequest:
		return "invalid request"
	case KindDecode:
		return "decode error"
	case KindEncode:
		return "encode error"
	case KindIO:
		return "io error"
	case KindCanceled:
		return "canceled"
	default:
		return "conversion error"
	}
}

// Error is returned for every failed conversion
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same Kind
var (
	ErrNoFileSelected = &Error{Kind: KindNoFileSelected}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrEncode         = &Error{Kind: KindEncode}
	ErrIO             = &Error{Kind: KindIO}
	ErrCanceled       = &Error{Kind: KindCanceled}
)

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Kind.String()
	case e.Path == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Path == "" && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or 0 when err is not a conversion error
func KindOf(err error) Kind {
	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return 0
}

// Message renders err for display to the user as "category: detail"
func Message(err error) string {
	if err == nil {
		return ""
	}
	var convErr *Error
	if !errors.As(err, &convErr) {
		return fmt.Sprintf("%s: %v", Kind(0), err)
	}
	if convErr.Kind == KindNoFileSelected {
		return "no file selected: choose an image file first"
	}
	if convErr.Err == nil {
		return convErr.Kind.String()
	}
	return fmt.Sprintf("%s: %v", convErr.Kind, convErr.Err)
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
