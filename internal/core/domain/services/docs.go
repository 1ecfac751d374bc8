// Package services holds domain services that coordinate more than one
// aggregate. BundleBuilder checks a selection of freight orders against the
// bundle rules and assembles the draft bundle.
package services
