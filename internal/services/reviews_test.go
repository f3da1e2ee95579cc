package services

import (
	"context"
	"testing"
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedRating(t *testing.T) {
	assert.Equal(t, 4.6, WeightedRating([]float64{5, 5, 3}))
	assert.Equal(t, 0.0, WeightedRating(nil))
	assert.Equal(t, 2.0, WeightedRating([]float64{1, 3}))
	assert.Equal(t, 3.67, WeightedRating([]float64{4, 3}))
}

func TestCreateReviewUpdatesRating(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Lamp", 100, 5)

	for i, rating := range []float64{5, 5, 3} {
		u := testutil.CreateUser(t, db, "reviewer"+string(rune('a'+i)), models.RoleCustomer)
		_, err := svc.Create(ctx, u.ID, ReviewInput{ProductID: p.ID, Rating: ratingOf(rating), Comment: "ok"})
		require.NoError(t, err)
	}

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 4.6, reloaded.ProductRating)
}

func TestCreateReviewErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "reviewer", models.RoleCustomer)
	p := testutil.CreateProduct(t, db, "Lamp", 100, 5)

	_, err := svc.Create(ctx, u.ID, ReviewInput{ProductID: p.ID, Rating: ratingOf(5.5)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, u.ID, ReviewInput{ProductID: p.ID, Comment: "no score"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, u.ID, ReviewInput{ProductID: 999, Rating: ratingOf(4)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, u.ID, ReviewInput{ProductID: p.ID, Rating: ratingOf(4)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, u.ID, ReviewInput{ProductID: p.ID, Rating: ratingOf(1)})
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	db.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)

	inactive := testutil.CreateProduct(t, db, "Gone", 10, 1)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	_, err = svc.Create(ctx, u.ID, ReviewInput{ProductID: inactive.ID, Rating: ratingOf(3)})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListProductReviews(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()
	p := testutil.CreateProduct(t, db, "Lamp", 100, 5)
	customer := Viewer{Role: models.RoleCustomer}

	empty, err := svc.ForProduct(ctx, customer, p.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Reviews)
	assert.Equal(t, 0.0, empty.WeightedAverageRating)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Review{UserID: 1, ProductID: p.ID, Rating: 3, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Review{UserID: 2, ProductID: p.ID, Rating: 5, CreatedAt: base.Add(time.Hour)}).Error)

	list, err := svc.ForProduct(ctx, customer, p.ID)
	require.NoError(t, err)
	require.Len(t, list.Reviews, 2)
	assert.Equal(t, 5.0, list.Reviews[0].Rating)
	assert.Equal(t, 4.33, list.WeightedAverageRating)

	require.NoError(t, db.Model(p).Update("is_active", false).Error)
	_, err = svc.ForProduct(ctx, customer, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ForProduct(ctx, Viewer{Role: models.RoleAdmin}, p.ID)
	assert.NoError(t, err)

	_, err = svc.ForProduct(ctx, customer, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
