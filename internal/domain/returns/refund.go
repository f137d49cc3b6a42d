package returns

import "github.com/shopspring/decimal"

// Financials is the monetary breakdown of a return. All fields derive from the
// lines and the refund policy; nothing here touches storage.
type Financials struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	RefundAmount  decimal.Decimal
}

// Calculate maps line items and a refund policy to the return's financials.
//
// subtotal   = sum of quantity * unit price
// discount   = sum of per-line discounts
// tax        = sum of quantity * unit price * tax rate / 100
// total      = subtotal - discount + tax
//
// Sale returns refund nothing under NONE, the full total under FULL, and the
// sum of GOOD-condition line totals under PARTIAL. Purchase returns have no
// refund: the debit note reduces the payable by the total unconditionally, so
// RefundAmount mirrors Total for the note regardless of line conditions.
//
// Rounding happens once, at the total level, never per line, so long returns
// do not accumulate per-line rounding drift.
func Calculate(lines []ReturnLine, kind Kind, refundType RefundType) Financials {
	subtotal := decimal.Zero
	discountTotal := decimal.Zero
	taxTotal := decimal.Zero
	eligibleTotal := decimal.Zero

	for _, line := range lines {
		subtotal = subtotal.Add(line.Quantity.Mul(line.UnitPrice))
		discountTotal = discountTotal.Add(line.Discount)
		taxTotal = taxTotal.Add(line.TaxAmount)
		if line.Condition.RefundEligible() {
			eligibleTotal = eligibleTotal.Add(line.LineTotal)
		}
	}

	total := subtotal.Sub(discountTotal).Add(taxTotal).Round(2)

	var refund decimal.Decimal
	switch kind {
	case KindPurchase:
		refund = total
	case KindSale:
		switch refundType {
		case RefundFull:
			refund = total
		case RefundPartial:
			refund = eligibleTotal.Round(2)
		default: // RefundNone
			refund = decimal.Zero
		}
	}

	return Financials{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		TaxTotal:      taxTotal,
		Total:         total,
		RefundAmount:  refund,
	}
}
