// Package apperrors provides a flexible error handling system that supports error wrapping,
// status codes, and a machine-checkable Kind. Errors are built from templates: a package
// declares a sentinel with New, and call sites derive errors from it with Msg, MsgErr or Err
// so that errors.Is on the sentinel and KindOf keep working on the derived error.
package apperrors

// Kind classifies an error so that callers can branch on the failure type.
type Kind int

const (
	KindUnknown        Kind = iota
	KindAuthentication      // credentials rejected by the server
	KindTransport           // network or connection failure
	KindDecoding            // response body is not the expected JSON
	KindFilesystem          // local file could not be read
	KindValidation          // caller supplied an unusable argument
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindAuthentication: "authentication",
	KindTransport:      "transport",
	KindDecoding:       "decoding",
	KindFilesystem:     "filesystem",
	KindValidation:     "validation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error defines the interface for application errors. It extends the standard error
// interface with methods for wrapping, message manipulation, and kind and status code
// management. All derive methods return Error to support method chaining.
type Error interface {
	error
	Unwrap() []error // support for errors.Is / errors.As

	New(msg string) Error                  // creates a new error using current as template
	Msg(msg string) Error                  // creates a new error with message and wraps original
	MsgErr(msg string, err ...error) Error // creates error with message and wraps extra errors
	Err(err ...error) Error                // attaches causes to current error
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	Kind() Kind                            // returns the error kind
	Prefix(string) Error                   // adds a prefix to the error message
}
