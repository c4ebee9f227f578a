package mapcycle

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("mapcycle parse error")

// ParseError reports a mapcycle line that cannot be decoded into an entry.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the offending line, trimmed.
	Text string
	// Reason describes what is wrong with the token.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("mapcycle line %d %q: %s", e.Line, e.Text, e.Reason)
}

// Is implements errors.Is support.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
