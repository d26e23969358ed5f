package shoppinglist

import (
	"context"
	"math/rand"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/utils/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	generatorInterval = 7 * 24 * time.Hour
	minItemsPerList   = 3
	maxItemsPerList   = 8
)

func (s *shoppingListService) validateBatch(numLists int, start time.Time) error {
	if numLists < domain.MinGeneratedLists || numLists > domain.MaxGeneratedLists {
		return domain.NewFieldError("num_lists", "must be between 1 and 12")
	}
	if start.Before(s.today()) {
		return domain.NewFieldError("start_date", "cannot be in the past")
	}
	return nil
}

func (s *shoppingListService) GenerateShoppingLists(ctx context.Context, req domain.GenerateShoppingListsRequest, userID string) (domain.GenerateShoppingListsResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.GenerateShoppingListsResponse{}, domain.ErrParseUUID
	}

	start := s.today().Add(generatorInterval)
	if req.StartDate != "" {
		if start, err = domain.ParseDate("start_date", req.StartDate); err != nil {
			return domain.GenerateShoppingListsResponse{}, err
		}
	}
	if err := s.validateBatch(req.NumLists, start); err != nil {
		return domain.GenerateShoppingListsResponse{}, err
	}

	lists, err := s.generate(ctx, userUUID, req.NumLists, start, s.newRand())
	if err != nil {
		return domain.GenerateShoppingListsResponse{}, err
	}

	response := domain.GenerateShoppingListsResponse{
		CreatedLists: len(lists),
		Lists:        make([]domain.ShoppingListResponse, 0, len(lists)),
	}
	for _, list := range lists {
		resp, err := s.reload(ctx, list.ID.String())
		if err != nil {
			return domain.GenerateShoppingListsResponse{}, err
		}
		response.Lists = append(response.Lists, resp)
	}
	return response, nil
}

// generate creates up to count IN_PROGRESS lists one week apart from start.
// Dates the user already has a list for are skipped, so fewer lists may come back.
func (s *shoppingListService) generate(ctx context.Context, userID uuid.UUID, count int, start time.Time, rng *rand.Rand) ([]*entities.ShoppingList, error) {
	catalog, err := s.productRepository.GetProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}

	created := make([]*entities.ShoppingList, 0, count)
	for i := 0; i < count; i++ {
		date := domain.DateOnly(start.Add(time.Duration(i) * generatorInterval))

		exists, err := s.shoppingListRepository.ExistsForDate(ctx, userID.String(), date)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		list := &entities.ShoppingList{
			ID:            uuid.New(),
			UserID:        userID,
			ScheduledDate: date,
			Status:        entities.ListStatusInProgress,
			Items:         randomItems(rng, catalog),
		}
		if err := s.shoppingListRepository.CreateShoppingList(ctx, list); err != nil {
			return nil, err
		}
		created = append(created, list)
	}

	metrics.ListsGenerated.Add(float64(len(created)))
	return created, nil
}

// randomItems picks 3 to 8 distinct catalog products with a quantity in [1, 5]
// and a price in [1, 20], both to two places.
func randomItems(rng *rand.Rand, catalog []*entities.Product) []entities.ShoppingListItem {
	if len(catalog) == 0 {
		return nil
	}

	n := minItemsPerList + rng.Intn(maxItemsPerList-minItemsPerList+1)
	if n > len(catalog) {
		n = len(catalog)
	}

	items := make([]entities.ShoppingListItem, 0, n)
	for pos, idx := range rng.Perm(len(catalog))[:n] {
		items = append(items, entities.ShoppingListItem{
			ID:                uuid.New(),
			ProductID:         catalog[idx].ID,
			Position:          pos,
			PredictedQuantity: uniform(rng, 1, 5),
			PredictedPrice:    decimal.NewNullDecimal(uniform(rng, 1, 20)),
		})
	}
	return items
}

func uniform(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
}
