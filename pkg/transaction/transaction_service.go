package transaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/utils/metrics"
	"Grocery-Tracker/internal/utils/storage"
	"Grocery-Tracker/pkg/amount"
	"Grocery-Tracker/pkg/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	TransactionService interface {
		CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest, userID string) (domain.TransactionResponse, error)
		GetTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionResponse, int64, error)
		GetTransactionByID(ctx context.Context, id string, userID string) (domain.TransactionResponse, error)
		UpdateTransaction(ctx context.Context, id string, req domain.UpdateTransactionRequest, userID string) (domain.TransactionResponse, error)
		DeleteTransaction(ctx context.Context, id string, userID string) error
		UploadReceipt(ctx context.Context, id string, req domain.UploadReceiptRequest, userID string) (domain.TransactionResponse, error)
		EstimateMissedPurchase(ctx context.Context, req domain.EstimateMissedRequest, userID string) (domain.TransactionResponse, error)
	}

	transactionService struct {
		transactionRepository TransactionRepository
		productRepository     product.ProductRepository
		estimator             Estimator
		s3                    storage.AwsS3
		logger                *zap.Logger
		now                   func() time.Time
	}

	Option func(*transactionService)
)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *transactionService) { s.now = now }
}

func NewTransactionService(
	transactionRepository TransactionRepository,
	productRepository product.ProductRepository,
	estimator Estimator,
	s3 storage.AwsS3,
	logger *zap.Logger,
	opts ...Option,
) TransactionService {
	s := &transactionService{
		transactionRepository: transactionRepository,
		productRepository:     productRepository,
		estimator:             estimator,
		s3:                    s3,
		logger:                logger,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getOwnedTransaction treats a transaction of another user as missing.
func (s *transactionService) getOwnedTransaction(ctx context.Context, id string, userID string) (*entities.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTransactionNotFound
	}

	transaction, err := s.transactionRepository.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if transaction.UserID.String() != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// checkProducts confirms every id exists in the catalog.
func (s *transactionService) checkProducts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.productRepository.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return domain.ErrUnknownProduct("products.product_id")
		}
	}
	return nil
}

func roundPrice(price decimal.NullDecimal) decimal.NullDecimal {
	if price.Valid {
		price.Decimal = amount.Money(price.Decimal)
	}
	return price
}

func productTotal(products []entities.TransactionProduct) decimal.Decimal {
	return amount.Aggregate(products, entities.TransactionProduct.LineTotal)
}

func (s *transactionService) CreateTransaction(ctx context.Context, req domain.CreateTransactionRequest, userID string) (domain.TransactionResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.TransactionResponse{}, domain.ErrParseUUID
	}

	date, err := domain.ParseDate("transaction_date", req.TransactionDate)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if len(req.Products) == 0 {
		return domain.TransactionResponse{}, domain.NewFieldError("products", "at least one product is required")
	}

	transaction := &entities.Transaction{
		ID:              uuid.New(),
		UserID:          userUUID,
		TransactionDate: date,
		TransactionType: entities.TransactionTypeActual,
	}

	ids := make([]uuid.UUID, 0, len(req.Products))
	for i, p := range req.Products {
		productID, err := uuid.Parse(p.ProductID)
		if err != nil {
			return domain.TransactionResponse{}, domain.NewFieldError("products.product_id", "must be a valid UUID")
		}
		if !p.Quantity.IsPositive() {
			return domain.TransactionResponse{}, domain.NewFieldError("products.quantity", "must be greater than 0")
		}
		if p.UnitPrice.Valid && p.UnitPrice.Decimal.IsNegative() {
			return domain.TransactionResponse{}, domain.NewFieldError("products.unit_price", "must be greater than or equal to 0")
		}
		if !p.UnitPrice.Valid && !req.TotalAmount.Valid {
			return domain.TransactionResponse{}, domain.NewFieldError("total_amount", "required when a product has no unit price")
		}
		ids = append(ids, productID)
		transaction.Products = append(transaction.Products, entities.TransactionProduct{
			ID:        uuid.New(),
			ProductID: productID,
			Position:  i,
			Quantity:  p.Quantity,
			UnitPrice: roundPrice(p.UnitPrice),
		})
	}
	if err := s.checkProducts(ctx, ids); err != nil {
		return domain.TransactionResponse{}, err
	}

	if req.TotalAmount.Valid {
		transaction.TotalAmount = amount.Money(req.TotalAmount.Decimal)
	} else {
		transaction.TotalAmount = productTotal(transaction.Products)
	}

	if err := s.transactionRepository.CreateTransaction(ctx, transaction); err != nil {
		return domain.TransactionResponse{}, err
	}
	metrics.TransactionsCreated.WithLabelValues(string(entities.TransactionTypeActual)).Inc()

	return s.reload(ctx, transaction.ID.String())
}

func (s *transactionService) GetTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = domain.DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultLimit
	}
	switch entities.TransactionType(filter.TransactionType) {
	case "", entities.TransactionTypeActual, entities.TransactionTypeEstimated:
	default:
		return nil, 0, domain.NewFieldError("transaction_type", "must be ACTUAL or ESTIMATED")
	}

	transactions, count, err := s.transactionRepository.GetTransactions(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, ToTransactionResponse(t))
	}
	return response, count, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id string, userID string) (domain.TransactionResponse, error) {
	transaction, err := s.getOwnedTransaction(ctx, id, userID)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	return ToTransactionResponse(transaction), nil
}

// UpdateTransaction edits an ACTUAL transaction. Product rows are matched by
// id; rows without an id are added and rows flagged _delete are removed. When
// the products change and no total is given, the total is recomputed from the
// resulting rows.
func (s *transactionService) UpdateTransaction(ctx context.Context, id string, req domain.UpdateTransactionRequest, userID string) (domain.TransactionResponse, error) {
	transaction, err := s.getOwnedTransaction(ctx, id, userID)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if transaction.TransactionType == entities.TransactionTypeEstimated {
		return domain.TransactionResponse{}, domain.ErrEstimatedReadOnly
	}

	if req.TransactionDate != nil {
		date, err := domain.ParseDate("transaction_date", *req.TransactionDate)
		if err != nil {
			return domain.TransactionResponse{}, err
		}
		transaction.TransactionDate = date
	}

	var removed []string
	if req.Products != nil {
		removed, err = s.applyProductChanges(ctx, transaction, req)
		if err != nil {
			return domain.TransactionResponse{}, err
		}
	}

	switch {
	case req.TotalAmount.Valid:
		transaction.TotalAmount = amount.Money(req.TotalAmount.Decimal)
	case req.Products != nil:
		transaction.TotalAmount = productTotal(transaction.Products)
	}

	if err := s.transactionRepository.UpdateTransaction(ctx, transaction, removed); err != nil {
		return domain.TransactionResponse{}, err
	}

	return s.reload(ctx, transaction.ID.String())
}

func (s *transactionService) applyProductChanges(ctx context.Context, transaction *entities.Transaction, req domain.UpdateTransactionRequest) ([]string, error) {
	index := make(map[string]int, len(transaction.Products))
	for i, p := range transaction.Products {
		index[p.ID.String()] = i
	}

	var removed []string
	var added []entities.TransactionProduct
	var newIDs []uuid.UUID
	drop := make(map[int]bool)

	for _, change := range req.Products {
		if change.Quantity.Valid && !change.Quantity.Decimal.IsPositive() {
			return nil, domain.NewFieldError("products.quantity", "must be greater than 0")
		}
		if change.UnitPrice.Valid && change.UnitPrice.Decimal.IsNegative() {
			return nil, domain.NewFieldError("products.unit_price", "must be greater than or equal to 0")
		}

		if change.ID == "" {
			if change.Delete {
				continue
			}
			productID, err := uuid.Parse(change.ProductID)
			if err != nil {
				return nil, domain.NewFieldError("products.product_id", "required for new products")
			}
			if !change.Quantity.Valid {
				return nil, domain.NewFieldError("products.quantity", "required for new products")
			}
			if !change.UnitPrice.Valid && !req.TotalAmount.Valid {
				return nil, domain.NewFieldError("total_amount", "required when a new product has no unit price")
			}
			newIDs = append(newIDs, productID)
			added = append(added, entities.TransactionProduct{
				ProductID: productID,
				Quantity:  change.Quantity.Decimal,
				UnitPrice: roundPrice(change.UnitPrice),
			})
			continue
		}

		i, ok := index[change.ID]
		if !ok {
			return nil, domain.ErrTransactionProductNotFound
		}
		if change.Delete {
			drop[i] = true
			removed = append(removed, change.ID)
			continue
		}
		row := &transaction.Products[i]
		if change.Quantity.Valid {
			row.Quantity = change.Quantity.Decimal
		}
		if change.UnitPrice.Valid {
			row.UnitPrice = roundPrice(change.UnitPrice)
		}
		row.Recalculate()
	}

	if err := s.checkProducts(ctx, newIDs); err != nil {
		return nil, err
	}

	kept := make([]entities.TransactionProduct, 0, len(transaction.Products)+len(added))
	for i, p := range transaction.Products {
		if !drop[i] {
			p.Product = nil
			kept = append(kept, p)
		}
	}
	next := 0
	for _, p := range transaction.Products {
		if p.Position >= next {
			next = p.Position + 1
		}
	}
	for i := range added {
		added[i].Position = next + i
		added[i].Recalculate()
	}
	transaction.Products = append(kept, added...)
	return removed, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id string, userID string) error {
	transaction, err := s.getOwnedTransaction(ctx, id, userID)
	if err != nil {
		return err
	}
	if transaction.TransactionType == entities.TransactionTypeEstimated {
		return domain.ErrEstimatedNotDeletable
	}

	if err := s.transactionRepository.DeleteTransaction(ctx, transaction.ID.String()); err != nil {
		return err
	}

	if transaction.ReceiptImage != "" {
		if key := s.s3.GetObjectKeyFromLink(transaction.ReceiptImage); key != "" {
			if err := s.s3.DeleteFile(key); err != nil {
				s.logger.Warn("failed to delete receipt image", zap.String("transaction_id", id), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *transactionService) UploadReceipt(ctx context.Context, id string, req domain.UploadReceiptRequest, userID string) (domain.TransactionResponse, error) {
	transaction, err := s.getOwnedTransaction(ctx, id, userID)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if req.ReceiptImage == nil {
		return domain.TransactionResponse{}, domain.NewFieldError("receipt_image", "this field is required")
	}

	fileName := fmt.Sprintf("receipt-%s", transaction.ID.String())
	var objectKey string
	if existing := s.s3.GetObjectKeyFromLink(transaction.ReceiptImage); transaction.ReceiptImage != "" && existing != "" {
		objectKey, err = s.s3.UpdateFile(existing, req.ReceiptImage, storage.AllowImage...)
	} else {
		objectKey, err = s.s3.UploadFile(fileName, req.ReceiptImage, "receipts", storage.AllowImage...)
	}
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.TransactionResponse{}, domain.NewFieldError("receipt_image", "must be a jpg, jpeg, png or webp image")
		}
		return domain.TransactionResponse{}, domain.ExternalError("upload receipt", err)
	}

	if err := s.transactionRepository.UpdateReceiptImage(ctx, transaction.ID.String(), s.s3.GetPublicLinkKey(objectKey)); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.TransactionResponse{}, err
	}

	return s.reload(ctx, transaction.ID.String())
}

// EstimateMissedPurchase books an ESTIMATED transaction for a past date the
// user did not record. Products the catalog no longer holds are skipped;
// products without a reference price are booked at zero.
func (s *transactionService) EstimateMissedPurchase(ctx context.Context, req domain.EstimateMissedRequest, userID string) (domain.TransactionResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.TransactionResponse{}, domain.ErrParseUUID
	}

	date, err := domain.ParseDate("missed_date", req.MissedDate)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	if date.After(domain.DateOnly(s.now())) {
		return domain.TransactionResponse{}, domain.NewFieldError("missed_date", "cannot be in the future")
	}

	estimate, err := s.estimator.Estimate(ctx, userUUID, date)
	if err != nil {
		s.logger.Error("missed purchase estimation failed", zap.String("user_id", userID), zap.Error(err))
		return domain.TransactionResponse{}, domain.ExternalError("estimate missed purchase", err)
	}

	ids := make([]uuid.UUID, 0, len(estimate))
	for productID := range estimate {
		ids = append(ids, productID)
	}
	catalog, err := s.productRepository.GetProductsByIDs(ctx, ids)
	if err != nil {
		return domain.TransactionResponse{}, err
	}

	transaction := &entities.Transaction{
		ID:              uuid.New(),
		UserID:          userUUID,
		TransactionDate: date,
		TransactionType: entities.TransactionTypeEstimated,
	}
	for _, productID := range ids {
		p, ok := catalog[productID]
		if !ok {
			s.logger.Warn("estimated product not in catalog, skipping", zap.String("product_id", productID.String()))
			continue
		}
		price := p.ReferencePrice
		if !price.Valid {
			price = decimal.NewNullDecimal(decimal.Zero)
		}
		transaction.Products = append(transaction.Products, entities.TransactionProduct{
			ID:        uuid.New(),
			ProductID: productID,
			Quantity:  estimate[productID],
			UnitPrice: price,
		})
	}
	sortByProductName(transaction.Products, catalog)
	transaction.TotalAmount = productTotal(transaction.Products)

	if err := s.transactionRepository.CreateTransaction(ctx, transaction); err != nil {
		return domain.TransactionResponse{}, err
	}
	metrics.TransactionsCreated.WithLabelValues(string(entities.TransactionTypeEstimated)).Inc()
	s.logger.Info("missed purchase estimated",
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("missed_date", req.MissedDate),
		zap.Int("products", len(transaction.Products)),
	)

	return s.reload(ctx, transaction.ID.String())
}

func (s *transactionService) reload(ctx context.Context, id string) (domain.TransactionResponse, error) {
	transaction, err := s.transactionRepository.GetTransactionByID(ctx, id)
	if err != nil {
		return domain.TransactionResponse{}, err
	}
	return ToTransactionResponse(transaction), nil
}

func ToTransactionResponse(t *entities.Transaction) domain.TransactionResponse {
	products := make([]domain.TransactionProductResponse, 0, len(t.Products))
	for _, p := range t.Products {
		resp := domain.TransactionProductResponse{
			ID:         p.ID.String(),
			ProductID:  p.ProductID.String(),
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
		}
		if p.Product != nil {
			resp.ProductName = p.Product.Name
		}
		products = append(products, resp)
	}

	var shoppingListID *string
	if t.ShoppingListID != nil {
		id := t.ShoppingListID.String()
		shoppingListID = &id
	}

	return domain.TransactionResponse{
		ID:              t.ID.String(),
		TransactionDate: t.TransactionDate.Format(domain.DateFormat),
		TransactionType: string(t.TransactionType),
		TotalAmount:     t.TotalAmount,
		ReceiptImage:    t.ReceiptImage,
		ShoppingListID:  shoppingListID,
		Products:        products,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// sortByProductName orders estimated rows by catalog name so the result does
// not depend on map iteration.
func sortByProductName(products []entities.TransactionProduct, catalog map[uuid.UUID]*entities.Product) {
	sort.Slice(products, func(i, j int) bool {
		return catalog[products[i].ProductID].Name < catalog[products[j].ProductID].Name
	})
	for i := range products {
		products[i].Position = i
	}
}
