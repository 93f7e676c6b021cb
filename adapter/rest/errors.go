package rest

import "errors"

var (
	errMissingSurveyor = errors.New("surveyor code is required")
	errInvalidSortBy   = errors.New("sort_by must be one of ref, created, updated")
	errInvalidOrder    = errors.New("order must be asc or desc")
)
