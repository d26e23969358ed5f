package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/testutil"
	"Grocery-Tracker/internal/utils"
	"Grocery-Tracker/pkg/product"
	"Grocery-Tracker/pkg/shoppinglist"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func newShoppingListApp(t *testing.T) (*fiber.App, *gorm.DB, *entities.User) {
	t.Helper()
	utils.InitValidator()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice")

	svc := shoppinglist.NewShoppingListService(
		shoppinglist.NewShoppingListRepository(db),
		product.NewProductRepository(db),
		zap.NewNop(),
		shoppinglist.WithClock(testutil.FixedClock(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))),
		shoppinglist.WithRand(func() *rand.Rand { return rand.New(rand.NewSource(7)) }),
	)
	h := NewShoppingListHandler(svc, utils.Validate)

	app := fiber.New()
	lists := app.Group("/shopping-lists", func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID.String())
		return c.Next()
	})
	lists.Post("", h.CreateShoppingList)
	lists.Get("", h.GetShoppingLists)
	lists.Get("/:id", h.GetShoppingList)
	lists.Delete("/:id", h.DeleteShoppingList)
	lists.Post("/:id/complete", h.CompleteShoppingList)
	lists.Post("/simulate", h.SimulateShoppingLists)
	return app, db, user
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestCreateShoppingListHandler(t *testing.T) {
	app, db, _ := newShoppingListApp(t)
	milk := testutil.CreateProduct(t, db, "Milk", "")

	status, env := doJSON(t, app, http.MethodPost, "/shopping-lists", map[string]interface{}{
		"scheduled_date": "2026-10-20",
		"items": []map[string]interface{}{
			{"product_id": milk.ID.String(), "predicted_quantity": 2, "predicted_price": "1.25"},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)

	var data struct {
		Status               string `json:"status"`
		TotalPredictedAmount string `json:"total_predicted_amount"`
		ItemCount            int    `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "IN_PROGRESS", data.Status)
	assert.Equal(t, "2.5", data.TotalPredictedAmount)
	assert.Equal(t, 1, data.ItemCount)
}

func TestCreateShoppingListHandlerValidation(t *testing.T) {
	app, db, _ := newShoppingListApp(t)
	milk := testutil.CreateProduct(t, db, "Milk", "")

	status, env := doJSON(t, app, http.MethodPost, "/shopping-lists", map[string]interface{}{
		"scheduled_date": "2026-10-20",
		"items": []map[string]interface{}{
			{"product_id": milk.ID.String(), "predicted_quantity": -1},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Contains(t, fields, "items[0].predicted_quantity")
}

func TestShoppingListHandlerStatusMapping(t *testing.T) {
	app, db, user := newShoppingListApp(t)
	other := testutil.CreateUser(t, db, "bob")
	mine := testutil.CreateList(t, db, user.ID, testutil.Date(t, "2026-10-10"), entities.ListStatusCompleted)
	theirs := testutil.CreateList(t, db, other.ID, testutil.Date(t, "2026-10-10"), entities.ListStatusPending)

	status, _ := doJSON(t, app, http.MethodGet, "/shopping-lists/"+theirs.ID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env := doJSON(t, app, http.MethodDelete, "/shopping-lists/"+mine.ID.String(), nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.False(t, env.Success)

	status, _ = doJSON(t, app, http.MethodPost, "/shopping-lists/"+mine.ID.String()+"/complete", map[string]interface{}{
		"items": []map[string]interface{}{{"item_id": "7d0c5bb4-6f0e-4b8a-9d35-6a9a0f7f0a11", "is_purchased": true}},
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestGetShoppingListsHandlerPagination(t *testing.T) {
	app, db, user := newShoppingListApp(t)
	for _, d := range []string{"2026-10-20", "2026-10-27", "2026-11-03"} {
		testutil.CreateList(t, db, user.ID, testutil.Date(t, d), entities.ListStatusInProgress)
	}

	status, env := doJSON(t, app, http.MethodGet, "/shopping-lists?page=2&limit=2", nil)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		ShoppingLists []json.RawMessage `json:"shopping_lists"`
		Pagination    struct {
			Page       int   `json:"page"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.ShoppingLists, 1)
	assert.Equal(t, 2, data.Pagination.Page)
	assert.EqualValues(t, 3, data.Pagination.Total)
	assert.EqualValues(t, 2, data.Pagination.TotalPages)

	status, _ = doJSON(t, app, http.MethodGet, "/shopping-lists?is_expired=maybe", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSimulateHandlerPatternMismatch(t *testing.T) {
	app, _, _ := newShoppingListApp(t)

	status, env := doJSON(t, app, http.MethodPost, "/shopping-lists/simulate", map[string]interface{}{
		"num_lists":          3,
		"start_date":         "2026-10-20",
		"completion_pattern": []bool{true},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Contains(t, fields, "completion_pattern")
}
