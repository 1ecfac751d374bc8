package bundle

import (
	"fmt"

	"settlement/internal/core/domain/model/kernel"
	"settlement/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the value-added tax applied to the freight subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.10")

const maxTaxRateScale int32 = 4

// Policy is the tax policy captured on a bundle when it is created, so that
// recomputing totals later gives the same result even if the configured
// defaults change.
type Policy struct {
	TaxRate       decimal.Decimal
	CurrencyScale int32
}

// DefaultPolicy is a 10% rate rounded to whole currency units.
func DefaultPolicy() Policy {
	return Policy{TaxRate: DefaultTaxRate, CurrencyScale: kernel.DefaultCurrencyScale}
}

// Validate checks that the rate lies in [0, 1] with at most four decimal
// places and that the currency scale fits the stored amounts.
func (p Policy) Validate() error {
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError("taxRate", p.TaxRate.String(), "0", "1")
	}
	if !p.TaxRate.Equal(p.TaxRate.Truncate(maxTaxRateScale)) {
		return errs.NewValueIsInvalidErrorWithCause("taxRate",
			fmt.Errorf("%s has more than %d decimal places", p.TaxRate, maxTaxRateScale))
	}
	if p.CurrencyScale < 0 || p.CurrencyScale > kernel.MaxAmountScale {
		return errs.NewValueIsOutOfRangeError("currencyScale", p.CurrencyScale, 0, kernel.MaxAmountScale)
	}
	return nil
}

// Totals are the cached monetary outputs of a bundle. Extra amounts are
// signed: surcharges add, discounts subtract.
type Totals struct {
	TotalAmount          decimal.Decimal
	TotalTaxAmount       decimal.Decimal
	TotalAmountWithTax   decimal.Decimal
	ItemExtraAmount      decimal.Decimal
	ItemExtraAmountTax   decimal.Decimal
	BundleExtraAmount    decimal.Decimal
	BundleExtraAmountTax decimal.Decimal
}

// Equal compares numerically, so "450000" equals "450000.00".
func (t Totals) Equal(other Totals) bool {
	return t.TotalAmount.Equal(other.TotalAmount) &&
		t.TotalTaxAmount.Equal(other.TotalTaxAmount) &&
		t.TotalAmountWithTax.Equal(other.TotalAmountWithTax) &&
		t.ItemExtraAmount.Equal(other.ItemExtraAmount) &&
		t.ItemExtraAmountTax.Equal(other.ItemExtraAmountTax) &&
		t.BundleExtraAmount.Equal(other.BundleExtraAmount) &&
		t.BundleExtraAmountTax.Equal(other.BundleExtraAmountTax)
}

// String renders every field for test and log output.
func (t Totals) String() string {
	return fmt.Sprintf("total=%s tax=%s withTax=%s itemExtra=%s/%s bundleExtra=%s/%s",
		t.TotalAmount, t.TotalTaxAmount, t.TotalAmountWithTax,
		t.ItemExtraAmount, t.ItemExtraAmountTax,
		t.BundleExtraAmount, t.BundleExtraAmountTax)
}

// TotalsCalculator derives totals from items and adjustments. It holds no
// state besides the policy and never touches storage.
//
//	baseSubtotal = Σ item.baseAmount
//	baseTax      = taxFree ? 0 : round(baseSubtotal × taxRate)
//	totalAmount  = baseSubtotal + Σ signed(itemAdj.amount) + Σ signed(bundleAdj.amount)
//	totalTax     = baseTax + Σ signed(itemAdj.tax) + Σ signed(bundleAdj.tax)
//	withTax      = totalAmount + totalTax
//
// baseTax is rounded once, half-up, to the policy's currency scale.
// Adjustment taxes are used as given.
type TotalsCalculator struct {
	policy Policy
}

// NewTotalsCalculator returns a calculator bound to policy.
func NewTotalsCalculator(policy Policy) TotalsCalculator {
	return TotalsCalculator{policy: policy}
}

// Calculate derives every total from items, their adjustments and the
// bundle-level adjustments.
//
// Example:
//
//	totals := bundle.NewTotalsCalculator(b.Policy()).Calculate(b.TaxFree(), b.Items(), b.Adjustments())
func (c TotalsCalculator) Calculate(taxFree bool, items []*Item, bundleAdjustments []*Adjustment) Totals {
	baseSubtotal := decimal.Zero
	itemExtra, itemExtraTax := decimal.Zero, decimal.Zero
	for _, item := range items {
		baseSubtotal = baseSubtotal.Add(item.BaseAmount().Decimal())
		amount, tax := signedSum(item.adjustments)
		itemExtra = itemExtra.Add(amount)
		itemExtraTax = itemExtraTax.Add(tax)
	}

	bundleExtra, bundleExtraTax := signedSum(bundleAdjustments)

	baseTax := decimal.Zero
	if !taxFree {
		baseTax = kernel.RoundHalfUp(baseSubtotal.Mul(c.policy.TaxRate), c.policy.CurrencyScale)
	}

	totalAmount := baseSubtotal.Add(itemExtra).Add(bundleExtra)
	totalTax := baseTax.Add(itemExtraTax).Add(bundleExtraTax)

	return Totals{
		TotalAmount:          totalAmount,
		TotalTaxAmount:       totalTax,
		TotalAmountWithTax:   totalAmount.Add(totalTax),
		ItemExtraAmount:      itemExtra,
		ItemExtraAmountTax:   itemExtraTax,
		BundleExtraAmount:    bundleExtra,
		BundleExtraAmountTax: bundleExtraTax,
	}
}

func signedSum(adjustments []*Adjustment) (amount, tax decimal.Decimal) {
	amount, tax = decimal.Zero, decimal.Zero
	for _, adj := range adjustments {
		amount = amount.Add(adj.SignedAmount())
		tax = tax.Add(adj.SignedTaxAmount())
	}
	return amount, tax
}
