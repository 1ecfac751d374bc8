// Package kernel holds the value objects shared by every settlement
// aggregate: UUID identifiers and non-negative monetary Amounts backed by
// shopspring/decimal. Floating point is never used for money.
package kernel
