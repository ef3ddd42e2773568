package billing

import (
	"fmt"
	"math"

	"go-clinic-billing/models"
)

// LineInput is one cart entry. ProductID nil means a service line that never
// touches stock.
type LineInput struct {
	ProductID     *uint               `json:"product_id"`
	Name          string              `json:"name"`
	Quantity      float64             `json:"quantity"`
	Unit          string              `json:"unit"`
	UnitPrice     float64             `json:"unit_price"`
	DiscountType  models.DiscountType `json:"discount_type"`
	DiscountValue float64             `json:"discount_value"`
	TaxRate       float64             `json:"tax_rate"`
}

// LineAmounts are the computed money fields of one line.
type LineAmounts struct {
	Subtotal       float64
	DiscountAmount float64
	TaxableAmount  float64
	TaxAmount      float64
	Total          float64
}

// ComputeLine turns one cart line into its amounts. Pure; bad input returns a
// ValidationError and is never silently clamped (except the fixed-discount cap,
// which is the documented rule, not a clamp of bad input).
func ComputeLine(in LineInput) (LineAmounts, error) {
	if in.Name == "" {
		return LineAmounts{}, &ValidationError{Field: "name", Message: "item name is required"}
	}
	if in.Quantity <= 0 {
		return LineAmounts{}, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	if in.UnitPrice < 0 {
		return LineAmounts{}, &ValidationError{Field: "unit_price", Message: "unit price cannot be negative"}
	}
	if in.TaxRate < 0 || in.TaxRate > 100 {
		return LineAmounts{}, &ValidationError{Field: "tax_rate", Message: "tax rate must be between 0 and 100"}
	}

	subtotal := round2(in.Quantity * in.UnitPrice)

	discount, err := discountAmount(subtotal, in.DiscountValue, in.DiscountType)
	if err != nil {
		return LineAmounts{}, err
	}

	taxable := round2(subtotal - discount)
	tax := round2(taxable * in.TaxRate / 100)

	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		Total:          round2(taxable + tax),
	}, nil
}

// discountAmount resolves a discount against a base amount. A fixed discount
// larger than the base is capped at the base, never driving the result
// negative. An empty type with a zero value means no discount.
func discountAmount(base, value float64, kind models.DiscountType) (float64, error) {
	if value == 0 {
		return 0, nil
	}
	if value < 0 {
		return 0, &ValidationError{Field: "discount_value", Message: "discount cannot be negative"}
	}
	switch kind {
	case models.DiscountPercentage:
		if value > 100 {
			return 0, &ValidationError{Field: "discount_value", Message: "percentage discount cannot exceed 100"}
		}
		return round2(base * value / 100), nil
	case models.DiscountFixed:
		if value > base {
			return base, nil
		}
		return round2(value), nil
	}
	return 0, &ValidationError{Field: "discount_type", Message: fmt.Sprintf("unknown discount type %q", kind)}
}

// round2 rounds to two decimal places (paise).
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
