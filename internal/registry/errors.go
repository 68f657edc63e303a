package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched when no item name contains the query.
	ErrNotFound = errors.New("registry: not found")

	// ErrAmbiguous is matched when more than one item name contains the query.
	ErrAmbiguous = errors.New("registry: ambiguous name")
)

// ResolveError reports a failed name lookup together with the names a
// caller can retry with.
type ResolveError struct {
	Kind       error
	Label      string
	Query      string
	Candidates []string
}

func (e *ResolveError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	if e.Kind == ErrAmbiguous {
		return fmt.Sprintf("multiple %ss match %q: %s", e.Label, e.Query, names)
	}
	return fmt.Sprintf("%s %q not found; available %ss: %s", e.Label, e.Query, e.Label, names)
}

func (e *ResolveError) Unwrap() error { return e.Kind }
