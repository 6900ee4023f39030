package document

import (
	"errors"
	"strings"
)

// ErrAuthentication means the payload's security key did not match.
var ErrAuthentication = errors.New("invalid security key")

// ValidationError aggregates every problem found in a rejected document.
// Nothing is persisted or forwarded when validation fails.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
