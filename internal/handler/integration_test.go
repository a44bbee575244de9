package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	billRepo := repository.NewBillRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	resolver := auth.NewResolver(roleRepo)
	middleware.InitPermissionMiddleware(resolver)
	middleware.ClearPermissionCache("")

	userService := service.NewUserService(userRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo, resolver, txManager)
	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(orderRepo, billRepo, menuRepo, txManager, nil)
	inventoryService := service.NewInventoryService(inventoryRepo, nil)
	tableService := service.NewTableService(orderRepo, billRepo, nil, 4)

	ctx := context.Background()
	require.NoError(t, roleService.SeedDefaults(ctx))
	require.NoError(t, userService.EnsureBootstrapAdmin(ctx, "admin", "admin123"))

	router := gin.New()
	root := router.Group("")
	NewUserHandler(userService).RegisterRoutes(root)
	NewRoleHandler(roleService).RegisterRoutes(root)
	NewMenuHandler(menuService).RegisterRoutes(root)
	NewOrderHandler(orderService).RegisterRoutes(root)
	NewInventoryHandler(inventoryService).RegisterRoutes(root)
	NewTableHandler(tableService).RegisterRoutes(root)
	NewBillingHandler().RegisterRoutes(root)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, router, "POST", "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func registerStaff(t *testing.T, router *gin.Engine, adminToken, username, role string) {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/users", adminToken, map[string]string{
		"username": username,
		"password": "secret123",
		"role":     role,
		"name":     "Test " + username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestLoginFlow(t *testing.T) {
	router := setupRouter(t)

	token := login(t, router, "admin", "admin123")
	assert.NotEmpty(t, token)

	w := doJSON(t, router, "POST", "/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")
	registerStaff(t, router, adminToken, "cook", "chef")
	registerStaff(t, router, adminToken, "sam", "waiter")
	chefToken := login(t, router, "cook", "secret123")
	waiterToken := login(t, router, "sam", "secret123")

	// Guest places an order without a token.
	w := doJSON(t, router, "POST", "/api/orders", "", map[string]interface{}{
		"table_name": "T1",
		"type":       "DINE_IN",
		"total":      "25",
		"items": []map[string]interface{}{
			{"name": "Pad Thai", "quantity": 2, "price": "10"},
			{"name": "Iced Tea", "quantity": 1, "price": "5"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := int(decodeData(t, w)["id"].(float64))

	// Kitchen runs the lifecycle.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/orders/%d/prepare", orderID), chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/orders/%d/ready", orderID), chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/orders/%d/confirm-delivery", orderID), chefToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	bill, ok := data["bill"].(map[string]interface{})
	require.True(t, ok, "delivery confirmation returns the generated bill")
	assert.NotEmpty(t, bill["bill_number"])

	// Confirming again conflicts with the lifecycle.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/orders/%d/confirm-delivery", orderID), chefToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Waiter settles the payment.
	w = doJSON(t, router, "PUT", fmt.Sprintf("/api/orders/%d/complete-payment", orderID), waiterToken, map[string]string{"payment_method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decodeData(t, w)["status"])

	// Bill is publicly retrievable for the receipt view.
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/orders/%d/bill", orderID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decodeData(t, w)["status"])
}

func TestPermissionEnforcement(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")
	registerStaff(t, router, adminToken, "sam", "waiter")
	waiterToken := login(t, router, "sam", "secret123")

	// Waiters cannot run kitchen transitions.
	w := doJSON(t, router, "PUT", "/api/orders/1/prepare", waiterToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Waiters cannot manage users.
	w = doJSON(t, router, "GET", "/api/users", waiterToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No token at all on a gated route.
	w = doJSON(t, router, "PUT", "/api/orders/1/prepare", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Admin passes everything via the wildcard.
	w = doJSON(t, router, "GET", "/api/my-permissions", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	perms, _ := decodeData(t, w)["permissions"].([]interface{})
	require.Len(t, perms, 1)
	assert.Equal(t, "*", perms[0])
}

func TestSelfDeletionRejectedOverHTTP(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")

	// Find the admin's own id.
	w := doJSON(t, router, "GET", "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users, _ := decodeData(t, w)["users"].([]interface{})
	require.NotEmpty(t, users)
	adminID := int(users[0].(map[string]interface{})["id"].(float64))

	w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/users/%d", adminID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete your own account")
}

func TestMenuCRUDOverHTTP(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")

	w := doJSON(t, router, "POST", "/api/menu", adminToken, map[string]interface{}{
		"name":     "Green Curry",
		"price":    "12.50",
		"category": "Mains",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := int(decodeData(t, w)["id"].(float64))

	// Menu reads are public for the QR ordering page.
	w = doJSON(t, router, "GET", "/api/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Green Curry")

	// Mutations are not.
	w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/menu/%d", itemID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBillingPreviewOverHTTP(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")

	w := doJSON(t, router, "POST", "/api/billing/preview", adminToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"price": "10", "quantity": 2},
			{"price": "5", "quantity": 1},
		},
		"discount":      "10",
		"discount_kind": "percent",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "25", data["subtotal"])
	assert.Equal(t, "23.625", data["total"])
}

func TestTablesOverHTTP(t *testing.T) {
	router := setupRouter(t)
	adminToken := login(t, router, "admin", "admin123")

	w := doJSON(t, router, "GET", "/api/tables", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	tables, _ := resp["data"].([]interface{})
	assert.Len(t, tables, 4)

	w = doJSON(t, router, "PUT", "/api/tables/T1/clean", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cleaning", decodeData(t, w)["status"])
}
