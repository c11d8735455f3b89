package repl

import "github.com/ardnew/ftl/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrEditor       = pkg.NewError("run editor")
)
