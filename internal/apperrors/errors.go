package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidRange indicates that a date range is structurally invalid
// (date_from after date_to).
var ErrInvalidRange = errors.New("invalid date range")

// ErrUnknownCurrency indicates that a currency code is not registered or is inactive.
var ErrUnknownCurrency = errors.New("unknown currency")
