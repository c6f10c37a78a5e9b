// Package userdata is the data-access facade of the vision screening
// application. It exposes account management and test result persistence as
// single-call operations, each running in its own transaction, and reports
// outcomes as Status strings, booleans or zero values rather than errors.
//
// Callers that need to tell "absent" apart from "failed" should use the
// stores in internal/platform/database directly.
package userdata
