package service

import "errors"

// Sentinel error; dibungkus dengan fmt.Errorf("%w: ...") dan dicek via errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
