package services

import (
	"context"
	"testing"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/testutil"
	"bazaar_back_end/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "meera", models.RoleCustomer)
	testutil.CreateUser(t, db, "ravi", models.RoleCustomer)

	email, phone, password, role := "MEERA@new.in", "+911111111111", "newpass1", models.RoleAdmin
	updated, err := svc.UpdateProfile(ctx, u.ID, UserUpdate{Email: &email, PhoneNumber: &phone, Password: &password, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "meera@new.in", updated.Email)
	assert.Equal(t, phone, updated.PhoneNumber)
	assert.Equal(t, models.RoleCustomer, updated.Role, "profile updates cannot change the role")

	ok, err := utils.VerifyPassword("newpass1", updated.HashedPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	taken := "ravi@example.com"
	_, err = svc.UpdateProfile(ctx, u.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	short := "123"
	_, err = svc.UpdateProfile(ctx, u.ID, UserUpdate{Password: &short})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminUserManagement(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		testutil.CreateUser(t, db, name, models.RoleCustomer)
	}

	page, err := svc.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalUsers)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "b", page.Users[0].Username)

	_, err = svc.List(ctx, 0, 0)
	assert.ErrorIs(t, err, ErrValidation)

	role := models.RoleVendor
	updated, err := svc.Update(ctx, page.Users[0].ID, UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, updated.Role)

	bogus := "superuser"
	_, err = svc.Update(ctx, page.Users[0].ID, UserUpdate{Role: &bogus})
	assert.ErrorIs(t, err, ErrValidation)

	p := testutil.CreateProduct(t, db, "Kettle", 10, 1)
	require.NoError(t, db.Create(&models.CartItem{UserID: updated.ID, ProductID: p.ID, Quantity: 1}).Error)
	require.NoError(t, svc.Delete(ctx, updated.ID))
	_, err = svc.Get(ctx, updated.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var carts int64
	db.Model(&models.CartItem{}).Count(&carts)
	assert.Zero(t, carts)

	assert.ErrorIs(t, svc.Delete(ctx, updated.ID), ErrNotFound)
}
