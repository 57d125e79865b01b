// Package pricing turns a cart snapshot plus tax/service/discount inputs
// into order totals. All arithmetic runs on decimals; results are rounded
// to 2 decimal places, half away from zero.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pos-system/internal/cart"
)

const PaymentCash = "Cash"

type Inputs struct {
	TaxRate  float64 // fraction in [0,1], e.g. 0.13
	Service  float64 // absolute charge, >= 0
	Discount float64 // absolute discount, >= 0
}

type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Service    float64 `json:"service"`
	Discount   float64 `json:"discount"`
	GrandTotal float64 `json:"grand_total"`
}

// Compute derives totals from the cart lines. The grand total saturates at
// zero: a discount larger than subtotal+tax+service is not an error, it
// just yields 0.00.
func Compute(lines []cart.Line, in Inputs) (Totals, error) {
	if in.TaxRate < 0 || in.TaxRate > 1 {
		return Totals{}, fmt.Errorf("tax rate %v out of range [0,1]", in.TaxRate)
	}
	if in.Service < 0 {
		return Totals{}, fmt.Errorf("service charge %v must not be negative", in.Service)
	}
	if in.Discount < 0 {
		return Totals{}, fmt.Errorf("discount %v must not be negative", in.Discount)
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(
			decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(in.TaxRate)).Round(2)
	service := decimal.NewFromFloat(in.Service)
	discount := decimal.NewFromFloat(in.Discount)

	grand := subtotal.Add(tax).Add(service).Sub(discount).Round(2)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:   f(subtotal),
		Tax:        f(tax),
		Service:    f(service.Round(2)),
		Discount:   f(discount.Round(2)),
		GrandTotal: f(grand),
	}, nil
}

// ChangeDue is only meaningful for cash payments; any other method reports
// 0.00 by contract.
func ChangeDue(paymentMethod string, tendered, grandTotal float64) float64 {
	if paymentMethod != PaymentCash {
		return 0
	}
	change := decimal.NewFromFloat(tendered).Sub(decimal.NewFromFloat(grandTotal)).Round(2)
	if change.IsNegative() {
		return 0
	}
	return f(change)
}

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return f(decimal.NewFromFloat(v).Round(2))
}

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
