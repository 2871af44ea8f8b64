package model

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrInvalidWorkSegments = errors.New("invalid work segments")
)
