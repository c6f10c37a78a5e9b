package domain

import "errors"

// ErrUnknownVariant is returned when a test result names a variant that has
// no backing table.
var ErrUnknownVariant = errors.New("unknown test variant")
