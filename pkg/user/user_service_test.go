package user

import (
	"context"
	"testing"

	"Grocery-Tracker/domain"
	"Grocery-Tracker/entities"
	"Grocery-Tracker/internal/testutil"
	"Grocery-Tracker/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (UserService, *gorm.DB, jwt.JWTService) {
	t.Helper()
	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTService("test-secret")
	return NewUserService(NewUserRepository(db), jwtService, zap.NewNop()), db, jwtService
}

func TestRegisterCreatesProfile(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Username: " alice ",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "WEEKLY", user.Profile.PreferredShoppingFrequency)

	var count int64
	require.NoError(t, db.Model(&entities.UserProfile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored entities.User
	require.NoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
	assert.NotEqual(t, "password123", stored.Password)

	_, err = svc.Register(ctx, domain.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _, jwtService := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, domain.LoginRequest{Username: "bob", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	id, role, err := jwtService.GetUserIDByToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, domain.RoleUser, role)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "bob", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "nobody", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfileCreatedOnRead(t *testing.T) {
	svc, db, _ := newService(t)

	user := &entities.User{Username: "legacy", Email: "legacy@example.com", Password: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(user).Error)

	profile, err := svc.GetProfile(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, profile.PreferredShoppingDay)
	assert.Equal(t, "WEEKLY", profile.PreferredShoppingFrequency)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	day := 5
	profile, err := svc.UpdateProfile(ctx, domain.UpdateProfileRequest{
		PreferredShoppingDay:       &day,
		PreferredShoppingFrequency: "MONTHLY",
	}, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.PreferredShoppingDay)
	assert.Equal(t, 5, *profile.PreferredShoppingDay)
	assert.Equal(t, "MONTHLY", profile.PreferredShoppingFrequency)

	reread, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile, reread)

	bad := 7
	_, err = svc.UpdateProfile(ctx, domain.UpdateProfileRequest{PreferredShoppingDay: &bad}, user.ID)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "preferred_shopping_day", fieldErr.Field)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
