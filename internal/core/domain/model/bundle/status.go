package bundle

import (
	"fmt"

	"settlement/internal/pkg/errs"
)

// Status is the bundle lifecycle state. Draft is initial, Paid and Canceled
// are terminal.
type Status int

const (
	UnknownStatus Status = iota
	Draft
	Issued
	Paid
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Draft:    "draft",
		Issued:   "issued",
		Paid:     "paid",
		Canceled: "canceled",
	}
}

// ParseStatus converts the wire name (draft, issued, paid, canceled) to a
// Status. Unknown names are a ValueIsInvalidError.
func ParseStatus(s string) (Status, error) {
	for st, str := range getStatusStrings() {
		if str == s {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects UnknownStatus and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsMutable reports whether the bundle and its children may still change.
func (s Status) IsMutable() bool {
	return s == Draft || s == Issued
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Paid || s == Canceled
}

// ValidateMutation returns an InvalidStateError naming action unless the
// status is mutable.
func (s Status) ValidateMutation(action string) error {
	if !s.IsMutable() {
		return errs.NewInvalidStateError(action, s.String())
	}
	return nil
}

// Issue moves draft to issued. Issued stays issued.
func (s Status) Issue() (Status, error) {
	if err := s.ValidateMutation("issue"); err != nil {
		return UnknownStatus, err
	}
	return Issued, nil
}

// Pay moves issued to paid. Any other status is an InvalidStateError;
// a draft must be issued first.
func (s Status) Pay() (Status, error) {
	if s != Issued {
		return UnknownStatus, errs.NewInvalidStateError("complete", s.String())
	}
	return Paid, nil
}

// Cancel moves draft or issued to canceled.
func (s Status) Cancel() (Status, error) {
	if err := s.ValidateMutation("cancel"); err != nil {
		return UnknownStatus, err
	}
	return Canceled, nil
}
