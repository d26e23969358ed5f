package transaction

import (
	"context"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/pkg/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estimator predicts what a user would have bought on a date they did not
// record. The result maps product ids to quantities; an empty map is valid.
type Estimator interface {
	Estimate(ctx context.Context, userID uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error)
}

// EstimatorFunc adapts a plain function to Estimator.
type EstimatorFunc func(ctx context.Context, userID uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error)

func (f EstimatorFunc) Estimate(ctx context.Context, userID uuid.UUID, date time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	return f(ctx, userID, date)
}

type catalogEstimator struct {
	productRepository product.ProductRepository
}

// NewCatalogEstimator returns the stand-in estimator used until purchase
// frequencies are tracked: 1.5 Apples and 2 Milk when the catalog has them,
// otherwise one of each of the first two products by name.
func NewCatalogEstimator(productRepository product.ProductRepository) Estimator {
	return &catalogEstimator{productRepository: productRepository}
}

func (e *catalogEstimator) Estimate(ctx context.Context, _ uuid.UUID, _ time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	catalog, err := e.productRepository.GetProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}

	staples := map[string]decimal.Decimal{
		"Apples": decimal.RequireFromString("1.5"),
		"Milk":   decimal.RequireFromString("2.0"),
	}

	estimate := make(map[uuid.UUID]decimal.Decimal)
	for _, p := range catalog {
		if qty, ok := staples[p.Name]; ok {
			estimate[p.ID] = qty
		}
	}
	if len(estimate) > 0 {
		return estimate, nil
	}

	for i, p := range catalog {
		if i == 2 {
			break
		}
		estimate[p.ID] = decimal.NewFromInt(1)
	}
	return estimate, nil
}
