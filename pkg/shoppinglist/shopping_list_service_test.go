package shoppinglist

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/testutil"
	"Grocery-Tracker/pkg/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (ShoppingListService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewShoppingListService(
		NewShoppingListRepository(db),
		product.NewProductRepository(db),
		zap.NewNop(),
		WithClock(testutil.FixedClock(testNow)),
		WithRand(func() *rand.Rand { return rand.New(rand.NewSource(42)) }),
	)
	return svc, db
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entities.Transaction{}).Count(&n).Error)
	return n
}

func TestCreateShoppingList(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "2.00")
	bread := testutil.CreateProduct(t, db, "Bread", "")

	resp, err := svc.CreateShoppingList(ctx, domain.CreateShoppingListRequest{
		ScheduledDate: "2026-10-20",
		Items: []domain.ShoppingListItemRequest{
			{ProductID: milk.ID.String(), PredictedQuantity: testutil.Dec("2"), PredictedPrice: testutil.NullDec("1.50")},
			{ProductID: bread.ID.String(), PredictedQuantity: testutil.Dec("1")},
		},
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, string(entities.ListStatusInProgress), resp.Status)
	assert.Equal(t, "2026-10-20", resp.ScheduledDate)
	assert.True(t, resp.CanBeDeleted)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Milk", resp.Items[0].ProductName)
	assert.Equal(t, "Bread", resp.Items[1].ProductName)
	assert.True(t, resp.TotalPredictedAmount.Equal(decimal.NewFromInt(3)))
	assert.Nil(t, resp.CompletedAt)
}

func TestCreateShoppingListRejectsBadItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")

	_, err := svc.CreateShoppingList(ctx, domain.CreateShoppingListRequest{
		ScheduledDate: "2026-10-20",
		Items: []domain.ShoppingListItemRequest{
			{ProductID: milk.ID.String(), PredictedQuantity: testutil.Dec("1")},
			{ProductID: milk.ID.String(), PredictedQuantity: testutil.Dec("2")},
		},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateShoppingList(ctx, domain.CreateShoppingListRequest{
		ScheduledDate: "2026-10-20",
		Items: []domain.ShoppingListItemRequest{
			{ProductID: "7d0c5bb4-6f0e-4b8a-9d35-6a9a0f7f0a11", PredictedQuantity: testutil.Dec("1")},
		},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateShoppingList(ctx, domain.CreateShoppingListRequest{
		ScheduledDate: "2026-10-20",
		Items: []domain.ShoppingListItemRequest{
			{ProductID: milk.ID.String(), PredictedQuantity: testutil.Dec("0")},
		},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	var lists int64
	require.NoError(t, db.Model(&entities.ShoppingList{}).Count(&lists).Error)
	assert.Zero(t, lists)
}

func TestGetShoppingListOtherUserIsNotFound(t *testing.T) {
	svc, db := newTestService(t)
	owner := testutil.CreateUser(t, db, "alice")
	other := testutil.CreateUser(t, db, "bob")
	list := testutil.CreateList(t, db, owner.ID, testutil.Date(t, "2026-10-20"), entities.ListStatusInProgress)

	_, err := svc.GetShoppingListByID(context.Background(), list.ID.String(), other.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetShoppingListByID(context.Background(), "not-a-uuid", owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := svc.GetShoppingListByID(context.Background(), list.ID.String(), owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, list.ID.String(), resp.ID)
}

func TestGetShoppingListsFilters(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-01"), entities.ListStatusPending)
	testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-02"), entities.ListStatusCompleted)
	testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-30"), entities.ListStatusInProgress)

	expired := true
	lists, total, err := svc.GetShoppingLists(context.Background(), user.ID.String(), domain.ShoppingListFilter{IsExpired: &expired})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, lists, 1)
	assert.Equal(t, "2026-10-01", lists[0].ScheduledDate)

	lists, total, err = svc.GetShoppingLists(context.Background(), user.ID.String(), domain.ShoppingListFilter{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, lists, 1)

	_, _, err = svc.GetShoppingLists(context.Background(), user.ID.String(), domain.ShoppingListFilter{Status: "DONE"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateShoppingList(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	list := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-20"), entities.ListStatusInProgress)

	triaged := "TRIAGED"
	resp, err := svc.UpdateShoppingList(ctx, list.ID.String(), domain.UpdateShoppingListRequest{Status: &triaged}, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "TRIAGED", resp.Status)

	completed := "COMPLETED"
	_, err = svc.UpdateShoppingList(ctx, list.ID.String(), domain.UpdateShoppingListRequest{Status: &completed}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	done := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-21"), entities.ListStatusCompleted)
	date := "2026-11-01"
	_, err = svc.UpdateShoppingList(ctx, done.ID.String(), domain.UpdateShoppingListRequest{ScheduledDate: &date}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	pending := "PENDING"
	_, err = svc.UpdateShoppingList(ctx, done.ID.String(), domain.UpdateShoppingListRequest{Status: &pending}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)

	resp, err = svc.UpdateShoppingList(ctx, done.ID.String(), domain.UpdateShoppingListRequest{Status: &completed}, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
}

func TestDeleteShoppingList(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")

	pending := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-20"), entities.ListStatusPending,
		entities.ShoppingListItem{ProductID: milk.ID, PredictedQuantity: testutil.Dec("1")})
	require.NoError(t, svc.DeleteShoppingList(ctx, pending.ID.String(), user.ID.String()))

	var items int64
	require.NoError(t, db.Model(&entities.ShoppingListItem{}).Count(&items).Error)
	assert.Zero(t, items)

	completed := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-21"), entities.ListStatusCompleted)
	err := svc.DeleteShoppingList(ctx, completed.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCompleteShoppingList(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")
	eggs := testutil.CreateProduct(t, db, "Eggs", "")
	list := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-15"), entities.ListStatusPending,
		entities.ShoppingListItem{ProductID: milk.ID, PredictedQuantity: testutil.Dec("2")},
		entities.ShoppingListItem{ProductID: eggs.ID, PredictedQuantity: testutil.Dec("1")},
	)

	resp, err := svc.CompleteShoppingList(ctx, list.ID.String(), domain.CompleteShoppingListRequest{
		Items: []domain.CompletionItemRequest{
			{ItemID: list.Items[0].ID.String(), IsPurchased: true, ActualQuantity: testutil.NullDec("2"), UnitPrice: testutil.NullDec("3.50")},
			{ItemID: list.Items[1].ID.String(), IsPurchased: true},
		},
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.ShoppingList.Status)
	require.NotNil(t, resp.ShoppingList.CompletedAt)
	require.NotNil(t, resp.ShoppingList.TransactionID)
	assert.Equal(t, resp.TransactionID, *resp.ShoppingList.TransactionID)

	var trx entities.Transaction
	require.NoError(t, db.Preload("Products").First(&trx, "id = ?", resp.TransactionID).Error)
	assert.Equal(t, entities.TransactionTypeActual, trx.TransactionType)
	assert.Equal(t, "7.00", trx.TotalAmount.StringFixed(2))
	assert.Equal(t, "2026-10-16", trx.TransactionDate.Format(domain.DateFormat))
	require.Len(t, trx.Products, 1)
	assert.Equal(t, milk.ID, trx.Products[0].ProductID)
	assert.Equal(t, "7.00", trx.Products[0].TotalPrice.Decimal.StringFixed(2))

	_, err = svc.CompleteShoppingList(ctx, list.ID.String(), domain.CompleteShoppingListRequest{
		Items: []domain.CompletionItemRequest{{ItemID: list.Items[0].ID.String(), IsPurchased: true}},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualValues(t, 1, countTransactions(t, db))
}

func TestCompleteShoppingListTotalOverride(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")
	list := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-15"), entities.ListStatusTriaged,
		entities.ShoppingListItem{ProductID: milk.ID, PredictedQuantity: testutil.Dec("1")})

	resp, err := svc.CompleteShoppingList(context.Background(), list.ID.String(), domain.CompleteShoppingListRequest{
		Items: []domain.CompletionItemRequest{
			{ItemID: list.Items[0].ID.String(), IsPurchased: true, ActualQuantity: testutil.NullDec("1"), UnitPrice: testutil.NullDec("4")},
		},
		TotalAmount: testutil.NullDec("5.555"),
	}, user.ID.String())
	require.NoError(t, err)

	var trx entities.Transaction
	require.NoError(t, db.First(&trx, "id = ?", resp.TransactionID).Error)
	assert.Equal(t, "5.56", trx.TotalAmount.StringFixed(2))
}

func TestCompleteShoppingListRejectsInProgress(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")
	list := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-15"), entities.ListStatusInProgress,
		entities.ShoppingListItem{ProductID: milk.ID, PredictedQuantity: testutil.Dec("1")})

	_, err := svc.CompleteShoppingList(context.Background(), list.ID.String(), domain.CompleteShoppingListRequest{
		Items: []domain.CompletionItemRequest{{ItemID: list.Items[0].ID.String(), IsPurchased: true}},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Zero(t, countTransactions(t, db))
}

func TestConvertExpiredShoppingList(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	milk := testutil.CreateProduct(t, db, "Milk", "")
	eggs := testutil.CreateProduct(t, db, "Eggs", "")
	bread := testutil.CreateProduct(t, db, "Bread", "")
	list := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-05"), entities.ListStatusExpired,
		entities.ShoppingListItem{ProductID: milk.ID, PredictedQuantity: testutil.Dec("2"), PredictedPrice: testutil.NullDec("1.25")},
		entities.ShoppingListItem{ProductID: eggs.ID, PredictedQuantity: testutil.Dec("1"), PredictedPrice: testutil.NullDec("3.10")},
		entities.ShoppingListItem{ProductID: bread.ID, PredictedQuantity: testutil.Dec("1")},
	)

	resp, err := svc.ConvertExpiredShoppingList(ctx, list.ID.String(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, list.ID.String(), resp.ShoppingListID)

	var trx entities.Transaction
	require.NoError(t, db.Preload("Products").First(&trx, "id = ?", resp.TransactionID).Error)
	assert.Equal(t, entities.TransactionTypeEstimated, trx.TransactionType)
	assert.Equal(t, "2026-10-05", trx.TransactionDate.Format(domain.DateFormat))
	assert.Equal(t, "5.60", trx.TotalAmount.StringFixed(2))
	assert.Len(t, trx.Products, 2)

	var stored entities.ShoppingList
	require.NoError(t, db.First(&stored, "id = ?", list.ID).Error)
	assert.Equal(t, entities.ListStatusExpired, stored.Status)

	_, err = svc.ConvertExpiredShoppingList(ctx, list.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.EqualValues(t, 1, countTransactions(t, db))

	pending := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-06"), entities.ListStatusPending)
	_, err = svc.ConvertExpiredShoppingList(ctx, pending.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, name := range []string{"Apples", "Bananas", "Bread", "Butter", "Cheese", "Eggs", "Milk", "Rice", "Yogurt", "Coffee"} {
		testutil.CreateProduct(t, db, name, "")
	}
}

func TestGenerateShoppingListsSkipsTakenDates(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	seedCatalog(t, db)
	testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-30"), entities.ListStatusInProgress)

	resp, err := svc.GenerateShoppingLists(context.Background(), domain.GenerateShoppingListsRequest{
		NumLists:  3,
		StartDate: "2026-10-23",
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.CreatedLists)
	require.Len(t, resp.Lists, 2)
	assert.Equal(t, "2026-10-23", resp.Lists[0].ScheduledDate)
	assert.Equal(t, "2026-11-06", resp.Lists[1].ScheduledDate)
	for _, list := range resp.Lists {
		assert.Equal(t, "IN_PROGRESS", list.Status)
		assert.GreaterOrEqual(t, list.ItemCount, 3)
		assert.LessOrEqual(t, list.ItemCount, 8)
	}
}

func TestGenerateShoppingListsDefaultsAndValidation(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	seedCatalog(t, db)

	resp, err := svc.GenerateShoppingLists(context.Background(), domain.GenerateShoppingListsRequest{NumLists: 1}, user.ID.String())
	require.NoError(t, err)
	require.Len(t, resp.Lists, 1)
	assert.Equal(t, "2026-10-23", resp.Lists[0].ScheduledDate)

	_, err = svc.GenerateShoppingLists(context.Background(), domain.GenerateShoppingListsRequest{NumLists: 13}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GenerateShoppingLists(context.Background(), domain.GenerateShoppingListsRequest{NumLists: 2, StartDate: "2026-10-15"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSimulateShoppingListsFollowsPattern(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	seedCatalog(t, db)

	resp, err := svc.SimulateShoppingLists(context.Background(), domain.SimulateRequest{
		NumLists:          3,
		StartDate:         "2026-10-20",
		CompletionPattern: []bool{true, false, true},
	}, user.ID.String())
	require.NoError(t, err)

	require.Len(t, resp.SimulatedLists, 3)
	assert.InDelta(t, 2.0/3.0, resp.CompletionRate, 1e-9)
	assert.Equal(t, "COMPLETED", resp.SimulatedLists[0].Status)
	assert.Contains(t, []string{"EXPIRED", "PENDING"}, resp.SimulatedLists[1].Status)
	assert.Equal(t, "COMPLETED", resp.SimulatedLists[2].Status)

	var middle entities.ShoppingList
	require.NoError(t, db.Preload("Items").First(&middle, "id = ?", resp.SimulatedLists[1].ID).Error)
	assert.Equal(t, len(middle.Items), resp.FinalPendingProducts)

	var completed entities.ShoppingList
	require.NoError(t, db.Preload("Items").First(&completed, "id = ?", resp.SimulatedLists[0].ID).Error)
	assert.NotNil(t, completed.CompletedAt)
	for _, item := range completed.Items {
		if item.IsPurchased {
			assert.True(t, item.ActualQuantity.Decimal.Equal(item.PredictedQuantity))
		}
	}
	assert.Zero(t, countTransactions(t, db))
}

func TestSimulateShoppingListsPatternMismatch(t *testing.T) {
	svc, db := newTestService(t)
	user := testutil.CreateUser(t, db, "alice")
	seedCatalog(t, db)

	_, err := svc.SimulateShoppingLists(context.Background(), domain.SimulateRequest{
		NumLists:          3,
		StartDate:         "2026-10-20",
		CompletionPattern: []bool{true, false},
	}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	var lists int64
	require.NoError(t, db.Model(&entities.ShoppingList{}).Count(&lists).Error)
	assert.Zero(t, lists)
}
