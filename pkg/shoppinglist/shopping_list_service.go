package shoppinglist

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/pkg/amount"
	"Grocery-Tracker/pkg/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	ShoppingListService interface {
		CreateShoppingList(ctx context.Context, req domain.CreateShoppingListRequest, userID string) (domain.ShoppingListResponse, error)
		GetShoppingLists(ctx context.Context, userID string, filter domain.ShoppingListFilter) ([]domain.ShoppingListResponse, int64, error)
		GetShoppingListByID(ctx context.Context, id string, userID string) (domain.ShoppingListResponse, error)
		UpdateShoppingList(ctx context.Context, id string, req domain.UpdateShoppingListRequest, userID string) (domain.ShoppingListResponse, error)
		DeleteShoppingList(ctx context.Context, id string, userID string) error

		CompleteShoppingList(ctx context.Context, id string, req domain.CompleteShoppingListRequest, userID string) (domain.CompleteShoppingListResponse, error)
		ConvertExpiredShoppingList(ctx context.Context, id string, userID string) (domain.ConvertShoppingListResponse, error)

		GenerateShoppingLists(ctx context.Context, req domain.GenerateShoppingListsRequest, userID string) (domain.GenerateShoppingListsResponse, error)
		SimulateShoppingLists(ctx context.Context, req domain.SimulateRequest, userID string) (domain.SimulateResponse, error)
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
		productRepository      product.ProductRepository
		logger                 *zap.Logger
		now                    func() time.Time
		newRand                func() *rand.Rand
	}

	Option func(*shoppingListService)
)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *shoppingListService) { s.now = now }
}

// WithRand sets the source of randomness for the generator and simulator.
// The factory is called once per request.
func WithRand(newRand func() *rand.Rand) Option {
	return func(s *shoppingListService) { s.newRand = newRand }
}

func NewShoppingListService(
	shoppingListRepository ShoppingListRepository,
	productRepository product.ProductRepository,
	logger *zap.Logger,
	opts ...Option,
) ShoppingListService {
	s := &shoppingListService{
		shoppingListRepository: shoppingListRepository,
		productRepository:      productRepository,
		logger:                 logger,
		now:                    time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *shoppingListService) today() time.Time {
	return domain.DateOnly(s.now())
}

// getOwnedList loads a list for userID. Missing lists and lists owned by
// someone else are reported the same way.
func (s *shoppingListService) getOwnedList(ctx context.Context, id string, userID string) (*entities.ShoppingList, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrShoppingListNotFound
	}

	list, err := s.shoppingListRepository.GetShoppingListByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingListNotFound
		}
		return nil, err
	}

	if list.UserID.String() != userID {
		return nil, domain.ErrShoppingListNotFound
	}
	return list, nil
}

// buildItems validates an item set against the catalog and turns it into
// entities in request order.
func (s *shoppingListService) buildItems(ctx context.Context, reqs []domain.ShoppingListItemRequest) ([]entities.ShoppingListItem, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, req := range reqs {
		pid, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, domain.NewFieldError("items.product_id", "must be a valid UUID")
		}
		if seen[pid] {
			return nil, domain.NewFieldError("items", "each product may appear only once per shopping list")
		}
		if !req.PredictedQuantity.IsPositive() {
			return nil, domain.NewFieldError("items.predicted_quantity", "must be greater than 0")
		}
		if req.PredictedPrice.Valid && req.PredictedPrice.Decimal.IsNegative() {
			return nil, domain.NewFieldError("items.predicted_price", "must be greater than or equal to 0")
		}
		seen[pid] = true
		ids = append(ids, pid)
	}

	products, err := s.productRepository.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]entities.ShoppingListItem, 0, len(reqs))
	for i, req := range reqs {
		p, ok := products[ids[i]]
		if !ok {
			return nil, domain.ErrUnknownProduct("items.product_id")
		}
		price := req.PredictedPrice
		if price.Valid {
			price.Decimal = price.Decimal.Round(2)
		}
		items = append(items, entities.ShoppingListItem{
			ID:                uuid.New(),
			ProductID:         p.ID,
			Position:          i,
			PredictedQuantity: amount.Quantity(req.PredictedQuantity),
			PredictedPrice:    price,
		})
	}
	return items, nil
}

func (s *shoppingListService) CreateShoppingList(ctx context.Context, req domain.CreateShoppingListRequest, userID string) (domain.ShoppingListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.ErrParseUUID
	}

	scheduled, err := domain.ParseDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	list := &entities.ShoppingList{
		ID:            uuid.New(),
		UserID:        userUUID,
		ScheduledDate: scheduled,
		Status:        entities.ListStatusInProgress,
		Items:         items,
	}

	if err := s.shoppingListRepository.CreateShoppingList(ctx, list); err != nil {
		return domain.ShoppingListResponse{}, err
	}

	return s.reload(ctx, list.ID.String())
}

func (s *shoppingListService) GetShoppingLists(ctx context.Context, userID string, filter domain.ShoppingListFilter) ([]domain.ShoppingListResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = domain.DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultLimit
	}
	if filter.Status != "" && !entities.ListStatus(filter.Status).Valid() {
		return nil, 0, domain.NewFieldError("status", "unknown shopping list status")
	}

	lists, count, err := s.shoppingListRepository.GetShoppingLists(ctx, userID, filter, s.today())
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ShoppingListResponse, 0, len(lists))
	for _, list := range lists {
		response = append(response, ToShoppingListResponse(list))
	}
	return response, count, nil
}

func (s *shoppingListService) GetShoppingListByID(ctx context.Context, id string, userID string) (domain.ShoppingListResponse, error) {
	list, err := s.getOwnedList(ctx, id, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return ToShoppingListResponse(list), nil
}

// UpdateShoppingList applies a partial update. Status changes go through the
// state machine; the date and items may only change while the list is not
// terminal.
func (s *shoppingListService) UpdateShoppingList(ctx context.Context, id string, req domain.UpdateShoppingListRequest, userID string) (domain.ShoppingListResponse, error) {
	list, err := s.getOwnedList(ctx, id, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	from := list.Status
	if from.IsTerminal() && (req.ScheduledDate != nil || req.Items != nil) {
		return domain.ShoppingListResponse{}, domain.ErrListReadOnly
	}

	if req.Status != nil {
		target := entities.ListStatus(*req.Status)
		if !target.Valid() {
			return domain.ShoppingListResponse{}, domain.NewFieldError("status", "unknown shopping list status")
		}
		if from.IsTerminal() && target != from {
			return domain.ShoppingListResponse{}, domain.ErrListReadOnly
		}
		if err := Transition(list, target, s.now()); err != nil {
			return domain.ShoppingListResponse{}, err
		}
	}

	if req.ScheduledDate != nil {
		scheduled, err := domain.ParseDate("scheduled_date", *req.ScheduledDate)
		if err != nil {
			return domain.ShoppingListResponse{}, err
		}
		list.ScheduledDate = scheduled
	}

	replaceItems := req.Items != nil
	if replaceItems {
		items, err := s.buildItems(ctx, req.Items)
		if err != nil {
			return domain.ShoppingListResponse{}, err
		}
		list.Items = items
	}

	if err := s.shoppingListRepository.UpdateShoppingList(ctx, list, from, replaceItems); err != nil {
		return domain.ShoppingListResponse{}, err
	}

	return s.reload(ctx, list.ID.String())
}

func (s *shoppingListService) DeleteShoppingList(ctx context.Context, id string, userID string) error {
	list, err := s.getOwnedList(ctx, id, userID)
	if err != nil {
		return err
	}

	if !list.CanBeDeleted() {
		return domain.ErrListNotDeletable
	}

	return s.shoppingListRepository.DeleteShoppingList(ctx, list.ID.String())
}

func (s *shoppingListService) reload(ctx context.Context, id string) (domain.ShoppingListResponse, error) {
	list, err := s.shoppingListRepository.GetShoppingListByID(ctx, id)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return ToShoppingListResponse(list), nil
}

func ToShoppingListResponse(list *entities.ShoppingList) domain.ShoppingListResponse {
	items := make([]domain.ShoppingListItemResponse, 0, len(list.Items))
	for _, item := range list.Items {
		resp := domain.ShoppingListItemResponse{
			ID:                item.ID.String(),
			ProductID:         item.ProductID.String(),
			PredictedQuantity: item.PredictedQuantity,
			PredictedPrice:    item.PredictedPrice,
			ActualQuantity:    item.ActualQuantity,
			UnitPrice:         item.UnitPrice,
			IsPurchased:       item.IsPurchased,
			PredictedTotal:    item.PredictedTotal(),
			ActualTotal:       item.ActualTotal(),
		}
		if item.Product != nil {
			resp.ProductName = item.Product.Name
			resp.ProductCategory = item.Product.Category
		}
		items = append(items, resp)
	}

	var transactionID *string
	if list.Transaction != nil {
		id := list.Transaction.ID.String()
		transactionID = &id
	}

	return domain.ShoppingListResponse{
		ID:                   list.ID.String(),
		ScheduledDate:        list.ScheduledDate.Format(domain.DateFormat),
		Status:               string(list.Status),
		CompletedAt:          list.CompletedAt,
		CanBeDeleted:         list.CanBeDeleted(),
		ItemCount:            len(list.Items),
		TotalPredictedAmount: list.PredictedTotal(),
		TotalActualAmount:    list.ActualTotal(),
		TransactionID:        transactionID,
		Items:                items,
		CreatedAt:            list.CreatedAt,
		UpdatedAt:            list.UpdatedAt,
	}
}
