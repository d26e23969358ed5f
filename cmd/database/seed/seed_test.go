package seed

import (
	"context"
	"testing"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	created, err := Catalog(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, len(catalog), created)

	created, err = Catalog(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, created)

	var milk entities.Product
	require.NoError(t, db.Where("name = ?", "Milk").First(&milk).Error)
	assert.Equal(t, "1.05", milk.ReferencePrice.Decimal.StringFixed(2))
}

func TestAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, Admin(ctx, db, "root", "root@example.com", "s3cret-pass"))
	require.NoError(t, Admin(ctx, db, "root", "root@example.com", "s3cret-pass"))

	var users []entities.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.NotEqual(t, "s3cret-pass", users[0].Password)
}
