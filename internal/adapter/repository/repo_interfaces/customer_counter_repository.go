package repo_interfaces

import "context"

type CustomerCounterRepository interface {
	// Next atomically increments the singleton counter and returns the new
	// value. The first call on an empty store returns 1.
	Next(ctx context.Context) (int64, error)
}
