// Package errs holds the error taxonomy of the settlement engine.
//
// Every kind follows the same shape: a sentinel (ErrObjectNotFound,
// ErrConflict, ...), a struct carrying the details, a constructor with and
// without a cause, and an Unwrap that returns the sentinel so that
// errors.Is works across layers.
//
// Input errors (ValueIsRequiredError, ValueIsInvalidError,
// ValueIsOutOfRangeError) additionally match ErrValidation. The HTTP adapter
// maps the four kinds to 400, 404, 409 and 422.
package errs
