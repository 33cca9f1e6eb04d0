package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUpstream indicates that the external rate source answered with a non-success status.
var ErrUpstream = errors.New("upstream request failed")

// ErrEmptyResponse indicates that the external rate source returned no data for the requested range.
var ErrEmptyResponse = errors.New("upstream returned no data")

// ErrParse indicates that the external rate source returned a body that could not be decoded.
var ErrParse = errors.New("upstream response malformed")
