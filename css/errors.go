package css

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongNodeKind indicates a selector operation invoked on a node of
	// unexpected kind.
	ErrWrongNodeKind = errors.New("wrong node kind")

	// ErrInvalidArgument indicates an argument that is not acceptable for
	// the operation, for example a missing selector fragment.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError describes malformed stylesheet text.
type ParseError struct {
	Source  string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}
