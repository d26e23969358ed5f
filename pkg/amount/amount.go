// Package amount holds the money arithmetic shared by shopping lists and
// transactions. Every total is rounded half away from zero to two places.
package amount

import "github.com/shopspring/decimal"

const (
	// Places is the number of decimal places money values are stored with.
	Places = 2
	// QuantityPlaces is the number of decimal places quantities are stored with.
	QuantityPlaces = 3
)

// LineTotal returns quantity x price rounded to Places, or zero when the price is absent.
func LineTotal(quantity decimal.Decimal, price decimal.NullDecimal) decimal.Decimal {
	if !price.Valid {
		return decimal.Zero
	}
	return quantity.Mul(price.Decimal).Round(Places)
}

// Aggregate sums pick(item) over items. An empty slice totals zero.
func Aggregate[T any](items []T, pick func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(pick(item))
	}
	return total.Round(Places)
}

// Money rounds d to Places.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Quantity rounds d to QuantityPlaces.
func Quantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}
