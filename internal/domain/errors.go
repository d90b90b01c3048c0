package domain

import "errors"

var (
	ErrIdentityMissing    = errors.New("identity missing")
	ErrEmptySubmission    = errors.New("empty submission")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrTurnNotFound       = errors.New("turn not found")
	ErrMaterialNotFound   = errors.New("material not found")
)
