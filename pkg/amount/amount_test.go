package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type line struct {
	qty   string
	price string
}

func (l line) total() decimal.Decimal {
	price := decimal.NullDecimal{}
	if l.price != "" {
		price = decimal.NewNullDecimal(decimal.RequireFromString(l.price))
	}
	return LineTotal(decimal.RequireFromString(l.qty), price)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		in   line
		want string
	}{
		{"whole", line{"2.0", "3.50"}, "7"},
		{"rounds half up", line{"1.5", "4.99"}, "7.49"},
		{"missing price", line{"3", ""}, "0"},
		{"three place quantity", line{"0.125", "2.00"}, "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.in.total().Equal(decimal.RequireFromString(tt.want)), "got %s", tt.in.total())
		})
	}
}

func TestAggregate(t *testing.T) {
	items := []line{{"2.0", "3.50"}, {"1.5", "4.99"}}

	got := Aggregate(items, line.total)

	assert.Equal(t, "14.49", got.StringFixed(2))
}

func TestAggregateUnroundedSum(t *testing.T) {
	raw := []decimal.Decimal{
		decimal.RequireFromString("7.000"),
		decimal.RequireFromString("7.485"),
	}

	got := Aggregate(raw, func(d decimal.Decimal) decimal.Decimal { return d })

	assert.Equal(t, "14.49", got.StringFixed(2))
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate([]line{}, line.total)

	assert.True(t, got.IsZero())
}

func TestAggregateIgnoresMissingPrices(t *testing.T) {
	items := []line{{"2", "1.25"}, {"4", ""}}

	got := Aggregate(items, line.total)

	assert.Equal(t, "2.50", got.StringFixed(2))
}

func TestQuantityRoundsBeforeLineTotal(t *testing.T) {
	q := Quantity(decimal.RequireFromString("1.2346"))
	assert.Equal(t, "1.235", q.String())

	price := decimal.NewNullDecimal(decimal.NewFromInt(5))
	assert.Equal(t, "6.18", LineTotal(q, price).StringFixed(2))
}
