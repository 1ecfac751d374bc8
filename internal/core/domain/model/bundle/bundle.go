package bundle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"
	"settlement/internal/pkg/guard"
)

// ErrBundleIsNotConstructed is returned by Validate on a zero Bundle.
var ErrBundleIsNotConstructed = errors.New("Bundle must be created via NewBundle or RestoreBundle")

// PaymentInfo groups the invoice and payment fields an operator edits on a
// bundle. Both dates must be set before the bundle can be completed.
type PaymentInfo struct {
	InvoiceIssuedAt   *time.Time
	DepositReceivedAt *time.Time
	TaxFree           bool
	Memo              string
}

// Header carries everything NewBundle needs besides the items.
//
// PeriodFrom and PeriodTo override the derived settlement period. A nil bound
// is derived from the items' anchors.
type Header struct {
	Side           kernel.Side
	CounterpartyID kernel.UUID
	Counterparty   CounterpartySnapshot
	PeriodType     kernel.PeriodType
	PeriodFrom     *time.Time
	PeriodTo       *time.Time
	Payment        PaymentInfo
	Policy         Policy
	CreatedBy      string
}

// Changes is the full set of fields UpdateBundle may replace. PeriodType
// UnknownPeriodType keeps the current type; nil period bounds are derived
// again from the items.
type Changes struct {
	Counterparty CounterpartySnapshot
	PeriodType   kernel.PeriodType
	PeriodFrom   *time.Time
	PeriodTo     *time.Time
	Payment      PaymentInfo
	Issue        bool
}

// State is the persisted form of a bundle, used by RestoreBundle.
type State struct {
	ID               kernel.UUID
	Side             kernel.Side
	CounterpartyID   kernel.UUID
	Counterparty     CounterpartySnapshot
	PeriodType       kernel.PeriodType
	PeriodFrom       time.Time
	PeriodTo         time.Time
	PeriodOverridden bool
	Status           Status
	Payment          PaymentInfo
	Policy           Policy
	Items            []*Item
	Adjustments      []*Adjustment
	Totals           Totals
	Version          int
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	CanceledAt       *time.Time
	CancelReason     string
}

// Bundle is the settlement aggregate root. It groups the freight orders of
// one counterparty over a period, for either the sales or the purchase side,
// together with bundle-level and item-level adjustments.
//
// Bundle maintains these invariants:
//   - it holds at least one item and no order twice
//   - the cached totals equal what TotalsCalculator derives from the items
//     and adjustments after every mutation
//   - the period spans the items' anchors unless explicitly overridden
//   - once paid or canceled, nothing in the aggregate changes
//
// Exclusive membership of an order across bundles is enforced by the
// persistence layer, not here.
type Bundle struct {
	id               kernel.UUID
	side             kernel.Side
	counterpartyID   kernel.UUID
	counterparty     CounterpartySnapshot
	periodType       kernel.PeriodType
	periodFrom       time.Time
	periodTo         time.Time
	periodOverridden bool
	status           Status
	payment          PaymentInfo
	policy           Policy
	items            []*Item
	adjustments      []*Adjustment
	totals           Totals

	// version is the value read from storage; repositories write version+1
	// guarded by it.
	version int

	createdBy    string
	createdAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time
	canceledAt   *time.Time
	cancelReason string

	guard guard.ConstructorGuard
}

// NewBundle creates a draft bundle from already snapshotted items and
// computes its period and totals.
//
// Example:
//
//	item, _ := bundle.NewItem(order.ID(), amount, order.PickupDate(), order.DeliveryDate())
//	b, err := bundle.NewBundle(bundle.Header{
//	    Side:           kernel.Sales,
//	    CounterpartyID: shipperID,
//	    Counterparty:   snapshot,
//	    PeriodType:     kernel.Departure,
//	    Policy:         bundle.DefaultPolicy(),
//	}, []*bundle.Item{item}, time.Now())
func NewBundle(header Header, items []*Item, now time.Time) (*Bundle, error) {
	b := &Bundle{
		id:        kernel.NewUUID(),
		status:    Draft,
		createdBy: header.CreatedBy,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		b.setSide(header.Side, header.CounterpartyID),
		b.setCounterparty(header.Counterparty),
		b.setPolicy(header.Policy),
		b.setItems(items),
		b.setPayment(header.Payment),
	); err != nil {
		return nil, err
	}

	if err := b.setPeriod(header.PeriodType, header.PeriodFrom, header.PeriodTo); err != nil {
		return nil, err
	}

	b.recalculate()
	return b, nil
}

// RestoreBundle rebuilds a bundle from storage. Cached totals are taken as
// stored so that drift against a fresh calculation stays observable.
func RestoreBundle(s State) (*Bundle, error) {
	b := &Bundle{
		id:               s.ID,
		periodFrom:       s.PeriodFrom,
		periodTo:         s.PeriodTo,
		periodOverridden: s.PeriodOverridden,
		periodType:       s.PeriodType,
		status:           s.Status,
		totals:           s.Totals,
		version:          s.Version,
		createdBy:        s.CreatedBy,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		completedAt:      s.CompletedAt,
		canceledAt:       s.CanceledAt,
		cancelReason:     s.CancelReason,
		guard:            guard.NewConstructorGuard(),
	}

	adjErrs := make([]error, 0, len(s.Adjustments))
	for _, adj := range s.Adjustments {
		adjErrs = append(adjErrs, adj.Validate())
	}

	if err := errors.Join(
		s.ID.Validate(),
		s.Status.Validate(),
		s.PeriodType.Validate(),
		b.setSide(s.Side, s.CounterpartyID),
		b.setCounterparty(s.Counterparty),
		b.setPolicy(s.Policy),
		b.setItems(s.Items),
		b.setPayment(s.Payment),
		errors.Join(adjErrs...),
	); err != nil {
		return nil, err
	}
	b.adjustments = append([]*Adjustment(nil), s.Adjustments...)

	return b, nil
}

// Validate reports ErrBundleIsNotConstructed for bundles not built by
// NewBundle or RestoreBundle. Repositories call it before every write.
func (b *Bundle) Validate() error {
	if b == nil {
		return ErrBundleIsNotConstructed
	}
	return b.guard.Validate(ErrBundleIsNotConstructed)
}

// ID returns the bundle id.
func (b *Bundle) ID() kernel.UUID { return b.id }

// Side tells whether the bundle bills a shipper or pays a carrier.
func (b *Bundle) Side() kernel.Side { return b.side }

// CounterpartyID is the shipper or carrier the bundle settles with.
func (b *Bundle) CounterpartyID() kernel.UUID { return b.counterpartyID }

// Counterparty returns the frozen snapshot of the counterparty.
func (b *Bundle) Counterparty() CounterpartySnapshot { return b.counterparty }

// PeriodType selects which order date anchors the period.
func (b *Bundle) PeriodType() kernel.PeriodType { return b.periodType }

// PeriodFrom is the first day of the settlement period.
func (b *Bundle) PeriodFrom() time.Time { return b.periodFrom }

// PeriodTo is the last day of the settlement period.
func (b *Bundle) PeriodTo() time.Time { return b.periodTo }

// PeriodOverridden reports whether the period was set explicitly rather
// than derived from item anchors.
func (b *Bundle) PeriodOverridden() bool { return b.periodOverridden }

// Status returns the current lifecycle state.
func (b *Bundle) Status() Status { return b.status }

// Payment returns invoice and deposit dates, tax-free flag and memo.
func (b *Bundle) Payment() PaymentInfo { return b.payment }

// TaxFree reports whether base tax is waived.
func (b *Bundle) TaxFree() bool { return b.payment.TaxFree }

// Policy is the tax policy captured at creation.
func (b *Bundle) Policy() Policy { return b.policy }

// Totals returns the cached totals, kept current by every mutation.
func (b *Bundle) Totals() Totals { return b.totals }

// Version is the optimistic concurrency counter the bundle was loaded with.
func (b *Bundle) Version() int { return b.version }

// CreatedBy names who created the bundle.
func (b *Bundle) CreatedBy() string { return b.createdBy }

// CreatedAt is when the bundle was created.
func (b *Bundle) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt is when the bundle last changed.
func (b *Bundle) UpdatedAt() time.Time { return b.updatedAt }

// CompletedAt is set once the bundle is paid.
func (b *Bundle) CompletedAt() *time.Time { return b.completedAt }

// CanceledAt is set once the bundle is canceled.
func (b *Bundle) CanceledAt() *time.Time { return b.canceledAt }

// CancelReason is the optional reason given on cancel.
func (b *Bundle) CancelReason() string { return b.cancelReason }

// OrderCount is always the number of items.
func (b *Bundle) OrderCount() int {
	return len(b.items)
}

// Items returns the membership rows in attach order.
func (b *Bundle) Items() []*Item {
	return append([]*Item(nil), b.items...)
}

// Adjustments returns the bundle-level adjustments only.
func (b *Bundle) Adjustments() []*Adjustment {
	return append([]*Adjustment(nil), b.adjustments...)
}

// Item looks up a member item by id.
func (b *Bundle) Item(id kernel.UUID) (*Item, bool) {
	for _, item := range b.items {
		if item.ID().IsEqual(id) {
			return item, true
		}
	}
	return nil, false
}

// OrderIDs lists the member orders in item order.
func (b *Bundle) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(b.items))
	for _, item := range b.items {
		ids = append(ids, item.OrderID())
	}
	return ids
}

// RecalculatedTotals computes totals from the current children without
// changing the cached ones.
func (b *Bundle) RecalculatedTotals() Totals {
	return NewTotalsCalculator(b.policy).Calculate(b.payment.TaxFree, b.items, b.adjustments)
}

// HasTotalsDrift reports whether the cached totals differ from a fresh
// calculation, which only happens if storage was edited behind the engine.
func (b *Bundle) HasTotalsDrift() bool {
	return !b.totals.Equal(b.RecalculatedTotals())
}

// Update replaces the editable header fields, re-snapshots the counterparty
// and recomputes totals. With Issue set a draft bundle becomes issued.
//
// Returns an InvalidStateError for paid or canceled bundles.
func (b *Bundle) Update(changes Changes, now time.Time) error {
	if err := b.status.ValidateMutation("update"); err != nil {
		return err
	}

	periodType := changes.PeriodType
	if periodType == kernel.UnknownPeriodType {
		periodType = b.periodType
	}

	updated := *b
	if err := errors.Join(
		updated.setCounterparty(changes.Counterparty),
		updated.setPayment(changes.Payment),
	); err != nil {
		return err
	}
	if err := updated.setPeriod(periodType, changes.PeriodFrom, changes.PeriodTo); err != nil {
		return err
	}

	if changes.Issue {
		status, err := updated.status.Issue()
		if err != nil {
			return err
		}
		updated.status = status
	}

	updated.updatedAt = now
	updated.recalculate()
	*b = updated
	return nil
}

// Complete marks the bundle as paid. Both payment dates must be set. A draft
// bundle is issued and completed in one step.
func (b *Bundle) Complete(now time.Time) error {
	if err := b.status.ValidateMutation("complete"); err != nil {
		return err
	}

	if b.payment.InvoiceIssuedAt == nil || b.payment.DepositReceivedAt == nil {
		return errs.NewInvalidStateErrorWithCause("complete", b.status.String(),
			errors.New("invoiceIssuedAt and depositReceivedAt must both be set"))
	}

	status := b.status
	if status == Draft {
		var err error
		if status, err = status.Issue(); err != nil {
			return err
		}
	}

	status, err := status.Pay()
	if err != nil {
		return err
	}

	b.recalculate()
	b.status = status
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel moves a draft or issued bundle to canceled. Items stay for audit but
// stop counting as active memberships, which returns their orders to the
// waiting pool.
func (b *Bundle) Cancel(reason string, now time.Time) error {
	status, err := b.status.Cancel()
	if err != nil {
		return err
	}

	b.recalculate()
	b.status = status
	b.canceledAt = &now
	b.cancelReason = strings.TrimSpace(reason)
	b.updatedAt = now
	return nil
}

// ValidateDelete returns an InvalidStateError unless the bundle may be hard
// deleted.
func (b *Bundle) ValidateDelete() error {
	return b.status.ValidateMutation("delete")
}

// AddAdjustment attaches a bundle-level adjustment.
func (b *Bundle) AddAdjustment(adj *Adjustment, now time.Time) error {
	if err := b.status.ValidateMutation("add adjustment"); err != nil {
		return err
	}
	if err := adj.Validate(); err != nil {
		return err
	}

	b.adjustments = append(b.adjustments, adj)
	b.updatedAt = now
	b.recalculate()
	return nil
}

// AddItemAdjustment attaches an adjustment to one member item.
func (b *Bundle) AddItemAdjustment(itemID kernel.UUID, adj *Adjustment, now time.Time) error {
	if err := b.status.ValidateMutation("add item adjustment"); err != nil {
		return err
	}
	if err := adj.Validate(); err != nil {
		return err
	}

	item, ok := b.Item(itemID)
	if !ok {
		return errs.NewObjectNotFoundError("bundleItem", itemID.String())
	}

	item.addAdjustment(adj)
	b.updatedAt = now
	b.recalculate()
	return nil
}

// RemoveAdjustment deletes an adjustment of either level by id.
func (b *Bundle) RemoveAdjustment(id kernel.UUID, now time.Time) error {
	if err := b.status.ValidateMutation("remove adjustment"); err != nil {
		return err
	}

	if !b.removeAdjustment(id) {
		return errs.NewObjectNotFoundError("adjustment", id.String())
	}

	b.updatedAt = now
	b.recalculate()
	return nil
}

// HasAdjustment reports whether id names an adjustment at either level.
func (b *Bundle) HasAdjustment(id kernel.UUID) bool {
	for _, adj := range b.adjustments {
		if adj.ID().IsEqual(id) {
			return true
		}
	}
	for _, item := range b.items {
		for _, adj := range item.adjustments {
			if adj.ID().IsEqual(id) {
				return true
			}
		}
	}
	return false
}

func (b *Bundle) removeAdjustment(id kernel.UUID) bool {
	for idx, adj := range b.adjustments {
		if adj.ID().IsEqual(id) {
			b.adjustments = append(b.adjustments[:idx], b.adjustments[idx+1:]...)
			return true
		}
	}
	for _, item := range b.items {
		if item.removeAdjustment(id) {
			return true
		}
	}
	return false
}

func (b *Bundle) recalculate() {
	b.totals = b.RecalculatedTotals()
}

func (b *Bundle) setSide(side kernel.Side, counterpartyID kernel.UUID) error {
	if err := side.Validate(); err != nil {
		return err
	}
	if err := counterpartyID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("counterpartyId", err)
	}
	b.side = side
	b.counterpartyID = counterpartyID
	return nil
}

func (b *Bundle) setCounterparty(snapshot CounterpartySnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("counterparty", err)
	}
	b.counterparty = snapshot
	return nil
}

func (b *Bundle) setPolicy(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	b.policy = policy
	return nil
}

func (b *Bundle) setPayment(payment PaymentInfo) error {
	payment.Memo = strings.TrimSpace(payment.Memo)
	b.payment = payment
	return nil
}

func (b *Bundle) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("orderIds")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.OrderID()]; dup {
			return errs.NewValueIsInvalidErrorWithCause("orderIds",
				fmt.Errorf("order %s is listed more than once", item.OrderID()))
		}
		seen[item.OrderID()] = struct{}{}
	}

	b.items = append([]*Item(nil), items...)
	return nil
}

// setPeriod derives the period from the items' anchors and applies any
// explicit bound on top of it.
func (b *Bundle) setPeriod(periodType kernel.PeriodType, from, to *time.Time) error {
	if err := periodType.Validate(); err != nil {
		return err
	}

	var derivedFrom, derivedTo time.Time
	for idx, item := range b.items {
		anchor := item.PeriodAnchor(periodType)
		if idx == 0 || anchor.Before(derivedFrom) {
			derivedFrom = anchor
		}
		if idx == 0 || anchor.After(derivedTo) {
			derivedTo = anchor
		}
	}

	overridden := false
	if from != nil {
		derivedFrom = *from
		overridden = true
	}
	if to != nil {
		derivedTo = *to
		overridden = true
	}

	if derivedTo.Before(derivedFrom) {
		return errs.NewValueIsInvalidErrorWithCause("period",
			fmt.Errorf("periodFrom %s is after periodTo %s",
				derivedFrom.Format(time.DateOnly), derivedTo.Format(time.DateOnly)))
	}

	b.periodType = periodType
	b.periodFrom = derivedFrom
	b.periodTo = derivedTo
	b.periodOverridden = overridden
	return nil
}
