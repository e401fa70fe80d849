package mustache

import "fmt"

// ErrorKind describes the type of render-side error. Compile errors
// are reported as *parser.Error by the parser package.
type ErrorKind int

const (
	ErrTemplateNotFound ErrorKind = iota
	ErrHandlerFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTemplateNotFound:
		return "template not found"
	case ErrHandlerFailure:
		return "handler failure"
	default:
		return "error"
	}
}

// Error represents an error that occurred while resolving or rendering
// a template.
type Error struct {
	Kind    ErrorKind
	Message string
	Name    string // template name
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithName adds the template name to an error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}
