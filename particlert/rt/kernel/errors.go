package kernel

import "errors"

var (
	ErrInvalidShape = errors.New("invalid spawner shape")
	ErrNilKernel    = errors.New("nil control kernel")
)
