package shoppinglist

import (
	"context"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/utils/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SimulateShoppingLists generates lists and plays out what happened to each:
// pattern[i] (or a coin flip) decides whether list i was completed. Completed
// lists get a random subset of items bought at their predicted values; the
// rest end up EXPIRED or PENDING. Nothing is booked as a transaction.
func (s *shoppingListService) SimulateShoppingLists(ctx context.Context, req domain.SimulateRequest, userID string) (domain.SimulateResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SimulateResponse{}, domain.ErrParseUUID
	}

	start, err := domain.ParseDate("start_date", req.StartDate)
	if err != nil {
		return domain.SimulateResponse{}, err
	}
	if err := s.validateBatch(req.NumLists, start); err != nil {
		return domain.SimulateResponse{}, err
	}
	if req.CompletionPattern != nil && len(req.CompletionPattern) != req.NumLists {
		return domain.SimulateResponse{}, domain.NewFieldError("completion_pattern", "length must match num_lists")
	}

	rng := s.newRand()
	lists, err := s.generate(ctx, userUUID, req.NumLists, start, rng)
	if err != nil {
		return domain.SimulateResponse{}, err
	}

	response := domain.SimulateResponse{SimulatedLists: make([]domain.SimulatedList, 0, len(lists))}
	completed := 0

	for i, list := range lists {
		complete := rng.Intn(2) == 1
		if req.CompletionPattern != nil {
			complete = req.CompletionPattern[i]
		}

		from := list.Status
		var touched []*entities.ShoppingListItem
		if complete {
			for j := range list.Items {
				item := &list.Items[j]
				if rng.Intn(2) == 1 {
					item.IsPurchased = true
					item.ActualQuantity = decimal.NewNullDecimal(item.PredictedQuantity)
					item.UnitPrice = item.PredictedPrice
					touched = append(touched, item)
				}
			}
			markCompleted(list, s.now())
			completed++
		} else if rng.Intn(2) == 1 {
			list.Status = entities.ListStatusExpired
		} else {
			list.Status = entities.ListStatusPending
		}

		if err := s.shoppingListRepository.SaveOutcome(ctx, list, from, touched); err != nil {
			return domain.SimulateResponse{}, err
		}

		if list.Status == entities.ListStatusPending || list.Status == entities.ListStatusExpired {
			for _, item := range list.Items {
				if !item.IsPurchased {
					response.FinalPendingProducts++
				}
			}
		}

		response.SimulatedLists = append(response.SimulatedLists, domain.SimulatedList{
			ID:            list.ID.String(),
			ScheduledDate: list.ScheduledDate.Format(domain.DateFormat),
			Status:        string(list.Status),
		})
	}

	if len(lists) > 0 {
		response.CompletionRate = float64(completed) / float64(len(lists))
	}

	metrics.Simulations.Inc()
	s.logger.Info("shopping simulation finished",
		zap.String("user_id", userID),
		zap.Int("lists", len(lists)),
		zap.Int("completed", completed),
		zap.Int("final_pending_products", response.FinalPendingProducts),
	)
	return response, nil
}
