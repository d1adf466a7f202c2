package apperrors

import (
	"errors"
	"strings"
)

// appError implements the apperrors.Error interface.
type appError struct {
	msg        string  // primary error message
	kind       Kind    // classification inherited by derived errors
	base       error   // template error for errors.Is/As compatibility
	causes     []error // underlying errors attached with Err or MsgErr
	statuscode int     // HTTP status code
	prefix     string  // optional message prefix
}

// Error returns the message with its prefix and the messages of attached causes.
func (e *appError) Error() string {
	var b strings.Builder
	if e.prefix != "" {
		b.WriteString(e.prefix)
		b.WriteString(": ")
	}
	b.WriteString(e.msg)
	for _, err := range e.causes {
		if err == nil {
			continue
		}
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the template followed by the causes.
func (e *appError) Unwrap() []error {
	all := make([]error, 0, len(e.causes)+1)
	if e.base != nil {
		all = append(all, e.base)
	}
	for _, err := range e.causes {
		if err != nil {
			all = append(all, err)
		}
	}
	return all
}

// Msg creates a new error with a new message derived from the current one.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		kind:       e.kind,
		base:       e,
		statuscode: e.statuscode,
	}
}

// New creates a fresh error using the current error as a template.
func (e *appError) New(msg string) Error {
	return e.Msg(msg)
}

// MsgErr creates a new error with a message and attaches causes.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		kind:       e.kind,
		base:       e,
		causes:     errs,
		statuscode: e.statuscode,
	}
}

// Err attaches causes while keeping the current message.
func (e *appError) Err(errs ...error) Error {
	return e.MsgErr(e.msg, errs...)
}

// Prefix derives an error from e that shows p before the message.
// The result still matches e with errors.Is.
func (e *appError) Prefix(p string) Error {
	return &appError{
		msg:        e.msg,
		kind:       e.kind,
		base:       e,
		causes:     e.causes,
		statuscode: e.statuscode,
		prefix:     p,
	}
}

// SetStatusCode returns a shallow copy with an updated status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

func (e *appError) Kind() Kind {
	return e.kind
}

// New creates a root-level error of the given kind.
func New(kind Kind, msg string) Error {
	return &appError{
		msg:  msg,
		kind: kind,
	}
}

// KindOf returns the kind of the outermost Error in err's chain,
// or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var ae Error
	if errors.As(err, &ae) {
		return ae.Kind()
	}
	return KindUnknown
}

// StatusCodeOf returns the status code of the outermost Error in err's chain.
func StatusCodeOf(err error) int {
	var ae Error
	if errors.As(err, &ae) {
		return ae.StatusCode()
	}
	return 0
}
