package interfaces

import "context"

// SequenceRepository issues unique, monotonically increasing numbers per
// prefix via a single atomic read-and-increment. Two concurrent callers
// never receive the same number; numbers need not be contiguous under
// failure.
type SequenceRepository interface {
	Allocate(ctx context.Context, prefix string) (int64, error)
}
