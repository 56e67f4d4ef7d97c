package model

import "errors"

// User-facing sentinel errors. Handlers map these onto HTTP status codes;
// everything else is treated as an internal error.
var (
	ErrInvalidSourceReference = errors.New("invalid YouTube URL or video id")
	ErrQuotaExceeded          = errors.New("plan quota exceeded")
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
)
