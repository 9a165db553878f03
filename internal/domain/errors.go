package domain

import "errors"

var (
	ErrInvalidObjective = errors.New("unrecognized objective")
	ErrEmptyCatalog     = errors.New("no catalog model matches any capability tier")
	ErrRateLimited      = errors.New("rate limit exceeded")
)
