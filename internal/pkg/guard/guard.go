// Package guard marks values as built by their constructor so that zero values
// of commands, queries and aggregates are rejected before they reach the store.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no
// error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through a
// NewX/RestoreX function. Its zero value is "not constructed".
//
// Example:
//
//	type CompleteBundleCommand struct {
//	    bundleID kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c CompleteBundleCommand) Validate() error {
//	    return c.guard.Validate(ErrCompleteBundleCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard flagged as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is
// nil) if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
