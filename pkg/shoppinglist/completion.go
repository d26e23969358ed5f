package shoppinglist

import (
	"context"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/utils/metrics"
	"Grocery-Tracker/pkg/amount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CompleteShoppingList records what was bought from a TRIAGED or PENDING list
// and books it as an ACTUAL transaction dated today. Updates naming items
// that are not on the list are ignored. Purchased items without both an
// actual quantity and a unit price count toward nothing and get no
// transaction product.
func (s *shoppingListService) CompleteShoppingList(ctx context.Context, id string, req domain.CompleteShoppingListRequest, userID string) (domain.CompleteShoppingListResponse, error) {
	if len(req.Items) == 0 {
		return domain.CompleteShoppingListResponse{}, domain.NewFieldError("items", "at least one item update is required")
	}

	list, err := s.getOwnedList(ctx, id, userID)
	if err != nil {
		return domain.CompleteShoppingListResponse{}, err
	}
	if !list.CanBeCompleted() {
		return domain.CompleteShoppingListResponse{}, domain.ErrListNotCompletable
	}

	updates := make(map[uuid.UUID]domain.CompletionItemRequest, len(req.Items))
	for _, u := range req.Items {
		itemID, err := uuid.Parse(u.ItemID)
		if err != nil {
			return domain.CompleteShoppingListResponse{}, domain.NewFieldError("items.item_id", "must be a valid UUID")
		}
		updates[itemID] = u
	}

	touched := make([]*entities.ShoppingListItem, 0, len(updates))
	for i := range list.Items {
		item := &list.Items[i]
		u, ok := updates[item.ID]
		if !ok {
			continue
		}
		item.IsPurchased = u.IsPurchased
		if u.ActualQuantity.Valid {
			item.ActualQuantity = decimal.NewNullDecimal(amount.Quantity(u.ActualQuantity.Decimal))
		}
		if u.UnitPrice.Valid {
			item.UnitPrice = decimal.NewNullDecimal(u.UnitPrice.Decimal.Round(2))
		}
		touched = append(touched, item)
	}

	now := s.now()
	markCompleted(list, now)

	purchased := make([]entities.ShoppingListItem, 0, len(list.Items))
	for _, item := range list.Items {
		if item.IsPurchased {
			purchased = append(purchased, item)
		}
	}

	total := amount.Aggregate(purchased, entities.ShoppingListItem.ActualTotal)
	if req.TotalAmount.Valid {
		total = amount.Money(req.TotalAmount.Decimal)
	}

	listID := list.ID
	transaction := &entities.Transaction{
		ID:              uuid.New(),
		UserID:          list.UserID,
		TransactionDate: domain.DateOnly(now),
		TransactionType: entities.TransactionTypeActual,
		TotalAmount:     total,
		ShoppingListID:  &listID,
	}
	for _, item := range purchased {
		if !item.ActualQuantity.Valid || !item.UnitPrice.Valid {
			continue
		}
		transaction.Products = append(transaction.Products, entities.TransactionProduct{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Position:  len(transaction.Products),
			Quantity:  item.ActualQuantity.Decimal,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.shoppingListRepository.CompleteShoppingList(ctx, list, touched, transaction); err != nil {
		return domain.CompleteShoppingListResponse{}, err
	}

	metrics.ListsCompleted.Inc()
	metrics.TransactionsCreated.WithLabelValues(string(entities.TransactionTypeActual)).Inc()
	s.logger.Info("shopping list completed",
		zap.String("shopping_list_id", list.ID.String()),
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("total_amount", transaction.TotalAmount.StringFixed(amount.Places)),
		zap.Int("products", len(transaction.Products)),
	)

	resp, err := s.reload(ctx, list.ID.String())
	if err != nil {
		return domain.CompleteShoppingListResponse{}, err
	}
	return domain.CompleteShoppingListResponse{
		ShoppingList:  resp,
		TransactionID: transaction.ID.String(),
	}, nil
}

// ConvertExpiredShoppingList books an EXPIRED list as an ESTIMATED
// transaction on its scheduled date, priced from the predicted values.
// The list itself is left as it is.
func (s *shoppingListService) ConvertExpiredShoppingList(ctx context.Context, id string, userID string) (domain.ConvertShoppingListResponse, error) {
	list, err := s.getOwnedList(ctx, id, userID)
	if err != nil {
		return domain.ConvertShoppingListResponse{}, err
	}
	if list.Status != entities.ListStatusExpired {
		return domain.ConvertShoppingListResponse{}, domain.ErrListNotExpired
	}
	if list.Transaction != nil {
		return domain.ConvertShoppingListResponse{}, domain.ErrListAlreadyConverted
	}

	priced := make([]entities.ShoppingListItem, 0, len(list.Items))
	for _, item := range list.Items {
		if item.PredictedPrice.Valid {
			priced = append(priced, item)
		}
	}

	listID := list.ID
	transaction := &entities.Transaction{
		ID:              uuid.New(),
		UserID:          list.UserID,
		TransactionDate: domain.DateOnly(list.ScheduledDate),
		TransactionType: entities.TransactionTypeEstimated,
		TotalAmount:     amount.Aggregate(priced, entities.ShoppingListItem.PredictedTotal),
		ShoppingListID:  &listID,
	}
	for i, item := range priced {
		transaction.Products = append(transaction.Products, entities.TransactionProduct{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Position:  i,
			Quantity:  item.PredictedQuantity,
			UnitPrice: item.PredictedPrice,
		})
	}

	if err := s.shoppingListRepository.ConvertShoppingList(ctx, list, transaction); err != nil {
		return domain.ConvertShoppingListResponse{}, err
	}

	metrics.ListsConverted.Inc()
	metrics.TransactionsCreated.WithLabelValues(string(entities.TransactionTypeEstimated)).Inc()
	s.logger.Info("expired shopping list converted",
		zap.String("shopping_list_id", list.ID.String()),
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("total_amount", transaction.TotalAmount.StringFixed(amount.Places)),
	)

	return domain.ConvertShoppingListResponse{
		ShoppingListID: list.ID.String(),
		TransactionID:  transaction.ID.String(),
	}, nil
}
