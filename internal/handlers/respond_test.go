package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", services.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	RespondError(c, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	_, ok := ParamID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := ParamID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestProductViewHidesPrivateFields(t *testing.T) {
	vendor := uint(7)
	p := &models.Product{
		ID:                 1,
		Name:               "Lamp",
		ExpenditureCostINR: 40,
		TotalStock:         10,
		ProfitPerItemINR:   60,
		VendorID:           &vendor,
		CreatedAt:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	public := NewProductView(p, services.Viewer{Role: models.RoleCustomer})
	assert.Nil(t, public.ExpenditureCostINR)
	assert.Nil(t, public.TotalStock)
	assert.Nil(t, public.ProfitPerItemINR)
	assert.Nil(t, public.VendorID)
	assert.Equal(t, "IST", public.CreatedAt.Location().String())
	assert.Equal(t, 5, public.CreatedAt.Hour())
	assert.Equal(t, 30, public.CreatedAt.Minute())

	private := NewProductView(p, services.Viewer{UserID: 7, Role: models.RoleVendor})
	require.NotNil(t, private.TotalStock)
	assert.Equal(t, 10, *private.TotalStock)
	assert.Equal(t, &vendor, private.VendorID)
}
