package bundle

import (
	"errors"
	"strings"

	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrCounterpartySnapshotIsNotConstructed is returned by Validate on a zero
// snapshot.
var ErrCounterpartySnapshotIsNotConstructed = errors.New("CounterpartySnapshot must be created via NewCounterpartySnapshot")

// CounterpartySnapshot freezes the counterparty's billing facts at the time a
// bundle is created or edited. Later changes to the directory never leak
// into an existing bundle.
type CounterpartySnapshot struct {
	name              string
	taxID             string
	bankCode          string
	bankAccount       string
	bankAccountHolder string
	managerName       string
	managerContact    string

	guard guard.ConstructorGuard
}

// NewCounterpartySnapshot trims every field. Name and tax id are required.
func NewCounterpartySnapshot(
	name, taxID, bankCode, bankAccount, bankAccountHolder, managerName, managerContact string,
) (CounterpartySnapshot, error) {
	s := CounterpartySnapshot{
		name:              strings.TrimSpace(name),
		taxID:             strings.TrimSpace(taxID),
		bankCode:          strings.TrimSpace(bankCode),
		bankAccount:       strings.TrimSpace(bankAccount),
		bankAccountHolder: strings.TrimSpace(bankAccountHolder),
		managerName:       strings.TrimSpace(managerName),
		managerContact:    strings.TrimSpace(managerContact),
		guard:             guard.NewConstructorGuard(),
	}

	var nameErr, taxIDErr error
	if s.name == "" {
		nameErr = errs.NewValueIsRequiredError("counterparty.name")
	}
	if s.taxID == "" {
		taxIDErr = errs.NewValueIsRequiredError("counterparty.taxId")
	}
	if err := errors.Join(nameErr, taxIDErr); err != nil {
		return CounterpartySnapshot{}, err
	}

	return s, nil
}

// Validate reports whether the snapshot was built by its constructor.
func (s CounterpartySnapshot) Validate() error {
	return s.guard.Validate(ErrCounterpartySnapshotIsNotConstructed)
}

// Name is the counterparty's registered name.
func (s CounterpartySnapshot) Name() string { return s.name }

// TaxID is the business registration number.
func (s CounterpartySnapshot) TaxID() string { return s.taxID }

// BankCode identifies the settlement bank.
func (s CounterpartySnapshot) BankCode() string { return s.bankCode }

// BankAccount is the account number payments go to.
func (s CounterpartySnapshot) BankAccount() string { return s.bankAccount }

// BankAccountHolder is the name on the account.
func (s CounterpartySnapshot) BankAccountHolder() string { return s.bankAccountHolder }

// ManagerName is the contact person.
func (s CounterpartySnapshot) ManagerName() string { return s.managerName }

// ManagerContact is the contact person's phone or email.
func (s CounterpartySnapshot) ManagerContact() string { return s.managerContact }
