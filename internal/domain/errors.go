package domain

import "errors"

var (
	// ErrInvalidRequest signals a missing or malformed required field.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrForbidden signals a wrong or missing access secret.
	ErrForbidden = errors.New("access denied")
	// ErrRender signals that the document could not be completed.
	ErrRender = errors.New("render failed")
)
