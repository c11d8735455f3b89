package pkg

// Option is a functional option that transforms a value of type T.
type Option[T any] func(T) T

// Apply returns v after applying each of opts in order. Nil options are
// skipped.
func Apply[T any](v T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			v = opt(v)
		}
	}

	return v
}
