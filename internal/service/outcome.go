package service

// Outcome wraps a feature result. Degraded is set when the store was
// unconfigured or unreachable and Value carries the documented safe
// default instead of live data. Handlers serve the value either way;
// the flag exists so callers and tests can tell the two apart.
type Outcome[T any] struct {
	Value    T
	Degraded bool
}

func ok[T any](v T) Outcome[T] { return Outcome[T]{Value: v} }

func degraded[T any](v T) Outcome[T] { return Outcome[T]{Value: v, Degraded: true} }
