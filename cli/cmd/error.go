package cmd

import "github.com/ardnew/ftl/pkg"

var (
	ErrEngine      = pkg.NewError("configure engine")
	ErrMarshal     = pkg.NewError("marshal output")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrReadData    = pkg.NewError("read data model")
	ErrNoInput     = pkg.NewError("no input")
)
