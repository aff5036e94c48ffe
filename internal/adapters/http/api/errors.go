package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUnknownDataset = errors.New("unknown dataset")
	ErrPanic          = errors.New("handler panicked")
)
