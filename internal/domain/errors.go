package domain

import "errors"

// Storage errors shared by every repository. Anything that is neither of
// these is treated as KindUnknown.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Kind is the closed set of failure classes a repository can report.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is reported as KindUnknown.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindUnknown
	}
}
