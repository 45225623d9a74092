package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"
	"github.com/yashrajoria/shopping-backend/services/common/validation"

	"github.com/yashrajoria/shopping-backend/services/cart-service/controllers"
	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
	"github.com/yashrajoria/shopping-backend/services/cart-service/routes"
)

type stubCartService struct {
	cart       *models.CartResponse
	item       *models.CartItemResponse
	err        error
	gotUser    string
	gotProduct int64
	gotQty     int
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) (*models.CartResponse, error) {
	s.gotUser = userID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartItemResponse, error) {
	s.gotUser, s.gotProduct, s.gotQty = userID, req.ProductID, req.Quantity
	return s.item, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItemResponse, error) {
	s.gotUser, s.gotProduct, s.gotQty = userID, productID, quantity
	return s.item, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID string, productID int64) error {
	s.gotUser, s.gotProduct = userID, productID
	return s.err
}

func (s *stubCartService) ClearCart(ctx context.Context, userID string) error {
	s.gotUser = userID
	return s.err
}

func setupRouter(svc *stubCartService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	r := gin.New()
	routes.RegisterCartRoutes(r, controllers.NewCartController(svc))
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCart_OK(t *testing.T) {
	svc := &stubCartService{cart: &models.CartResponse{UserID: "u1", Items: []models.CartItemResponse{}, TotalPrice: "0.00"}}
	w := do(setupRouter(svc), http.MethodGet, "/cart/u1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u1","items":[],"total_items":0,"total_price":0.00}`, w.Body.String())
	assert.Equal(t, "u1", svc.gotUser)
}

func TestAddItem_Created(t *testing.T) {
	svc := &stubCartService{item: &models.CartItemResponse{ProductID: 3, Quantity: 2, Price: "1.50", Subtotal: "3.00"}}
	w := do(setupRouter(svc), http.MethodPost, "/cart/u1/items", map[string]interface{}{
		"product_id": 3, "product_name": "cup", "quantity": 2, "price": 1.5,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(3), svc.gotProduct)
	assert.Equal(t, 2, svc.gotQty)
}

func TestAddItem_ValidationError(t *testing.T) {
	svc := &stubCartService{}
	w := do(setupRouter(svc), http.MethodPost, "/cart/u1/items", map[string]interface{}{
		"product_id": 0, "product_name": "cup", "quantity": 2, "price": 1.5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"detail"`)
	assert.Empty(t, svc.gotUser)
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc := &stubCartService{err: apperrors.NotFound("Item with product_id 9 not found in cart")}
	w := do(setupRouter(svc), http.MethodPut, "/cart/u1/items/9", map[string]int{"quantity": 4})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Item with product_id 9 not found in cart"}`, w.Body.String())
	assert.Equal(t, 4, svc.gotQty)
}

func TestUpdateItem_BadProductID(t *testing.T) {
	svc := &stubCartService{}
	w := do(setupRouter(svc), http.MethodPut, "/cart/u1/items/abc", map[string]int{"quantity": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveItem_NoContent(t *testing.T) {
	svc := &stubCartService{}
	w := do(setupRouter(svc), http.MethodDelete, "/cart/u1/items/9", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(9), svc.gotProduct)
}

func TestClearCart_NoContent(t *testing.T) {
	svc := &stubCartService{}
	w := do(setupRouter(svc), http.MethodDelete, "/cart/u1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u1", svc.gotUser)
}

func TestUserIDWithSeparatorsRejected(t *testing.T) {
	for _, path := range []string{"/cart/a:ITEM%231", "/cart/a%3Ab", "/cart/a%23b/items/1"} {
		svc := &stubCartService{}
		method := http.MethodGet
		if strings.HasSuffix(path, "/items/1") {
			method = http.MethodDelete
		}
		w := do(setupRouter(svc), method, path, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Empty(t, svc.gotUser, path)
	}
}

func TestAddItem_ZeroPriceRejected(t *testing.T) {
	svc := &stubCartService{}
	w := do(setupRouter(svc), http.MethodPost, "/cart/u1/items", map[string]interface{}{
		"product_id": 3, "product_name": "cup", "quantity": 2, "price": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotUser)
}
