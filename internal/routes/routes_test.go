package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bazaar_back_end/internal/cache"
	"bazaar_back_end/internal/messaging"
	"bazaar_back_end/internal/middleware"
	"bazaar_back_end/internal/models"
	"bazaar_back_end/internal/services"
	"bazaar_back_end/internal/testutil"
	"bazaar_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RoutesSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesSuite))
}

func (s *RoutesSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	t := s.T()

	s.db = testutil.NewTestDB(t)
	_, rc := testutil.NewTestRedis(t)
	store := cache.NewStore(rc)
	productCache := cache.NewProductCache(rc)
	notifier := messaging.NewRedisNotifier(rc)

	auth := services.NewAuthService(s.db, utils.NewTokenManager("test-secret", time.Hour), store)
	s.router = gin.New()
	RegisterRoutes(s.router, Dependencies{
		Auth:    auth,
		Users:   services.NewUserService(s.db),
		Catalog: services.NewCatalogService(s.db, services.CatalogOptions{Cache: productCache}),
		Cart:    services.NewCartService(s.db),
		Orders: services.NewOrderService(s.db, services.OrderOptions{
			Events: messaging.NewDispatcher(messaging.DispatcherOptions{Notifier: notifier}),
			Cache:  productCache,
		}),
		Reviews: services.NewReviewService(s.db, productCache),
		Sales:   services.NewSalesService(s.db),
		Limiter: middleware.NewRateLimiter(store),
		Events:  notifier,
	})
}

func (s *RoutesSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RoutesSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *RoutesSuite) login(username string) string {
	w := s.request(http.MethodPost, "/auth/login", "", gin.H{"username": username, "password": "password123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tok services.TokenResponse
	s.decode(w, &tok)
	s.Equal("bearer", tok.TokenType)
	return tok.AccessToken
}

func (s *RoutesSuite) TestHealth() {
	w := s.request(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(middleware.RequestIDHeader))
}

func (s *RoutesSuite) TestRegisterLoginLogout() {
	w := s.request(http.MethodPost, "/auth/register", "", gin.H{
		"username":     "alice",
		"email":        "alice@example.com",
		"phone_number": "+919999999999",
		"password":     "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.NotContains(w.Body.String(), "hashed_password")

	w = s.request(http.MethodPost, "/auth/register", "", gin.H{
		"username":     "alice",
		"email":        "other@example.com",
		"phone_number": "+918888888888",
		"password":     "password123",
	})
	s.Equal(http.StatusConflict, w.Code)

	token := s.login("alice")

	w = s.request(http.MethodGet, "/user/profile", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var profile models.User
	s.decode(w, &profile)
	s.Equal("alice", profile.Username)
	s.Equal(models.RoleCustomer, profile.Role)

	s.Equal(http.StatusOK, s.request(http.MethodPost, "/auth/logout", token, nil).Code)
	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/user/profile", token, nil).Code)
}

func (s *RoutesSuite) TestBadCredentials() {
	testutil.CreateUser(s.T(), s.db, "bob", models.RoleCustomer)
	w := s.request(http.MethodPost, "/auth/login", "", gin.H{"username": "bob", "password": "nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RoutesSuite) TestCustomerCannotReachAdminRoutes() {
	testutil.CreateUser(s.T(), s.db, "carol", models.RoleCustomer)
	token := s.login("carol")

	for _, path := range []string{"/sales/total-revenue", "/user", "/orders/all", "/product/admin-product-analysis"} {
		s.Equal(http.StatusForbidden, s.request(http.MethodGet, path, token, nil).Code, path)
	}
	s.Equal(http.StatusForbidden, s.request(http.MethodPost, "/product/products", token, gin.H{"name": "x", "category": "y"}).Code)
	s.Equal(http.StatusUnauthorized, s.request(http.MethodGet, "/sales/total-revenue", "", nil).Code)
}

func (s *RoutesSuite) TestGuestSeesPublicProductFields() {
	p := testutil.CreateProduct(s.T(), s.db, "Lamp", 100, 5)
	testutil.CreateUser(s.T(), s.db, "root", models.RoleAdmin)

	w := s.request(http.MethodGet, fmt.Sprintf("/product/products/%d", p.ID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "expenditure_cost_inr")
	s.NotContains(w.Body.String(), "total_stock")

	w = s.request(http.MethodGet, fmt.Sprintf("/product/products/%d", p.ID), s.login("root"), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "expenditure_cost_inr")

	s.Equal(http.StatusBadRequest, s.request(http.MethodGet, "/product/products?limit=0", "", nil).Code)
	s.Equal(http.StatusBadRequest, s.request(http.MethodGet, "/product/products/search", "", nil).Code)
	s.Equal(http.StatusNotFound, s.request(http.MethodGet, "/product/products/search?name=zzz", "", nil).Code)
}

func (s *RoutesSuite) TestOrderLifecycle() {
	t := s.T()
	testutil.CreateUser(t, s.db, "root", models.RoleAdmin)
	customer := testutil.CreateUser(t, s.db, "dave", models.RoleCustomer)
	adminToken := s.login("root")
	token := s.login("dave")

	w := s.request(http.MethodPost, "/product/products", adminToken, gin.H{
		"name":                 "Kettle",
		"price":                200.0,
		"discount_percentage":  10.0,
		"expenditure_cost_inr": 100.0,
		"total_stock":          10,
		"category":             "kitchen",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID                 uint    `json:"id"`
		PriceAfterDiscount float64 `json:"price_after_discount"`
	}
	s.decode(w, &created)
	s.InDelta(180.0, created.PriceAfterDiscount, 1e-9)

	w = s.request(http.MethodPost, "/cart/cart", token, gin.H{"product_id": created.ID, "quantity": 2})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request(http.MethodPost, "/orders/place", token, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	s.decode(w, &order)
	s.InDelta(360.0, order.TotalPrice, 1e-9)
	s.Equal(customer.ID, order.UserID)
	s.Equal(8, testutil.StockOf(t, s.db, created.ID))

	s.Equal(http.StatusNotFound, s.request(http.MethodGet, "/cart/cart", token, nil).Code)

	orderPath := fmt.Sprintf("/orders/%d", order.ID)
	s.Equal(http.StatusBadRequest, s.request(http.MethodGet, orderPath+"/invoice?format=html", token, nil).Code)

	payPath := fmt.Sprintf("/payment/orders/%d/pay", order.ID)
	w = s.request(http.MethodPost, payPath, token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var paid struct {
		TransactionID string `json:"transaction_id"`
		TrackingID    string `json:"tracking_id"`
	}
	s.decode(w, &paid)
	s.Len(paid.TransactionID, utils.TransactionIDLength)
	s.Len(paid.TrackingID, utils.TrackingIDLength)

	w = s.request(http.MethodPost, payPath, token, nil)
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), paid.TransactionID)

	shipPath := fmt.Sprintf("/shipment/orders/%d/shipment", order.ID)
	deliverPath := fmt.Sprintf("/shipment/orders/%d/deliver", order.ID)
	s.Equal(http.StatusForbidden, s.request(http.MethodPut, shipPath, token, nil).Code)
	s.Equal(http.StatusBadRequest, s.request(http.MethodPut, deliverPath, adminToken, nil).Code)
	s.Equal(http.StatusOK, s.request(http.MethodPut, shipPath, adminToken, nil).Code)
	s.Equal(http.StatusOK, s.request(http.MethodPut, deliverPath, adminToken, nil).Code)
	s.Equal(http.StatusConflict, s.request(http.MethodPut, deliverPath, adminToken, nil).Code)
	s.Equal(http.StatusConflict, s.request(http.MethodDelete, orderPath, token, nil).Code)

	w = s.request(http.MethodGet, orderPath+"/invoice?format=html", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), paid.TrackingID)
	s.Contains(w.Body.String(), "Kettle")

	w = s.request(http.MethodGet, fmt.Sprintf("/shipment/orders/%d/label.png", order.ID), adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))

	w = s.request(http.MethodGet, "/sales/total-revenue", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"total_revenue":360}`, w.Body.String())

	w = s.request(http.MethodGet, "/orders/all", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var all []models.Order
	s.decode(w, &all)
	s.Len(all, 1)
}

func (s *RoutesSuite) TestOrderOverStockLeavesStockUntouched() {
	t := s.T()
	testutil.CreateUser(t, s.db, "erin", models.RoleCustomer)
	token := s.login("erin")
	p := testutil.CreateProduct(t, s.db, "Chair", 50, 3)

	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/cart/cart", token, gin.H{"product_id": p.ID, "quantity": 3}).Code)
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("stock_remaining", 2).Error)

	s.Equal(http.StatusBadRequest, s.request(http.MethodPost, "/orders/place", token, nil).Code)
	s.Equal(2, testutil.StockOf(t, s.db, p.ID))
	s.Equal(http.StatusOK, s.request(http.MethodGet, "/cart/cart", token, nil).Code)
}

func (s *RoutesSuite) TestReviewsUpdateRating() {
	t := s.T()
	p := testutil.CreateProduct(t, s.db, "Desk", 500, 5)
	for i, rating := range []float64{5, 5, 3} {
		name := fmt.Sprintf("reviewer%d", i)
		testutil.CreateUser(t, s.db, name, models.RoleCustomer)
		w := s.request(http.MethodPost, "/reviews/reviews", s.login(name), gin.H{"product_id": p.ID, "rating": rating, "comment": "ok"})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.request(http.MethodPost, "/reviews/reviews", s.login("reviewer1"), gin.H{"product_id": p.ID, "comment": "no score"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodPost, "/reviews/reviews", s.login("reviewer0"), gin.H{"product_id": p.ID, "rating": 1, "comment": "again"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.request(http.MethodGet, fmt.Sprintf("/reviews/products/%d/reviews", p.ID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var out services.ProductReviews
	s.decode(w, &out)
	s.InDelta(4.6, out.WeightedAverageRating, 1e-9)
	s.Len(out.Reviews, 3)
}
