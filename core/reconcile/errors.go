package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is matched by every *InvalidFilterError.
var ErrInvalidFilter = errors.New("invalid tag filter")

// InvalidFilterError reports tags that are both included and excluded.
type InvalidFilterError struct {
	// Tags are the conflicting tags, sorted.
	Tags []string
}

// Error implements the error interface.
func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("tags both included and excluded: %s", strings.Join(e.Tags, ", "))
}

// Is implements errors.Is support.
func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}
