package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/controller"
	"storefront/internal/docstore"
	"storefront/internal/orders"
	"storefront/internal/profile"
	"storefront/internal/session"
)

type testClient struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newTestClient(t *testing.T) (*testClient, *docstore.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemory()
	logger := log.New(io.Discard, "", 0)

	registry := controller.NewRegistry(controller.Deps{
		Catalog: catalog.New(store, nil, logger),
		Orders:  orders.New(store, logger),
		Profile: profile.New(store, logger),
		Auth:    auth.New(store, logger),
		Logger:  logger,
	})
	sessions := session.NewManager(time.Hour)
	sessions.OnEvict(registry.Drop)

	router := buildRouter(logger, nil, Deps{
		Sessions:    sessions,
		Controllers: registry,
		Auth:        auth.New(store, logger),
	})
	return &testClient{t: t, router: router}, store
}

func (c *testClient) do(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie {
			c.cookie = cookie
		}
	}

	var parsed map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
			c.t.Fatalf("invalid json response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, parsed
}

func seedProduct(t *testing.T, store *docstore.Memory, title string, price float64) string {
	t.Helper()
	id, err := store.Create(context.Background(), docstore.Products, map[string]interface{}{
		"title":       title,
		"price":       price,
		"description": "A fine item for testing purposes",
		"category":    "electronics",
		"image":       catalog.PlaceholderImage,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}

func TestProductListReady(t *testing.T) {
	client, store := newTestClient(t)
	seedProduct(t, store, "Widget", 19.99)

	rec, body := client.do(http.MethodGet, "/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["state"] != "ready" {
		t.Fatalf("expected ready, got %v", body["state"])
	}
	products, _ := body["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %v", body)
	}
}

func TestProductDetailUnknownIsErrorState(t *testing.T) {
	client, _ := newTestClient(t)
	rec, body := client.do(http.MethodGet, "/product/missing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["state"] != "error" || body["error"] == "" {
		t.Fatalf("expected error state, got %v", body)
	}
}

func TestCartFlowTotals(t *testing.T) {
	client, store := newTestClient(t)
	id1 := seedProduct(t, store, "Widget", 19.99)
	id2 := seedProduct(t, store, "Gadget", 5.00)

	client.do(http.MethodPost, "/cart/items", `{"productId":"`+id1+`"}`)
	rec, body := client.do(http.MethodPost, "/cart/items", `{"productId":"`+id2+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add to cart: %d %v", rec.Code, body)
	}

	_, body = client.do(http.MethodGet, "/cart", "")
	cart := body["cart"].(map[string]interface{})
	if cart["total"].(float64) != 24.99 {
		t.Fatalf("expected total 24.99, got %v", cart["total"])
	}
	if cart["itemCount"].(float64) != 2 {
		t.Fatalf("expected 2 items, got %v", cart["itemCount"])
	}

	// Removing one line leaves the other untouched.
	_, body = client.do(http.MethodDelete, "/cart/items/"+id1, "")
	cart = body["cart"].(map[string]interface{})
	if cart["total"].(float64) != 5.00 {
		t.Fatalf("expected total 5.00 after remove, got %v", cart["total"])
	}

	_, body = client.do(http.MethodDelete, "/cart", "")
	cart = body["cart"].(map[string]interface{})
	if cart["total"].(float64) != 0 || cart["itemCount"].(float64) != 0 {
		t.Fatalf("expected empty cart, got %v", cart)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	client, _ := newTestClient(t)
	rec, _ := client.do(http.MethodPost, "/cart/items", `{"productId":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCheckoutRequiresSignIn(t *testing.T) {
	client, store := newTestClient(t)
	id := seedProduct(t, store, "Widget", 19.99)
	client.do(http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)

	rec, body := client.do(http.MethodPost, "/checkout", `{"name":"Ann","email":"a@b.com","address":"1 Main St"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %v", rec.Code, body)
	}
	if body["state"] != "signInRequired" {
		t.Fatalf("expected signInRequired, got %v", body["state"])
	}

	records, _ := store.ListAll(context.Background(), docstore.Orders)
	if len(records) != 0 {
		t.Fatalf("signed-out checkout reached the store")
	}
}

func TestRegisterCheckoutAndOrderHistory(t *testing.T) {
	client, store := newTestClient(t)
	id1 := seedProduct(t, store, "Widget", 19.99)
	id2 := seedProduct(t, store, "Gadget", 5.00)

	rec, body := client.do(http.MethodPost, "/register", `{"email":"ann@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %v", rec.Code, body)
	}

	client.do(http.MethodPost, "/cart/items", `{"productId":"`+id1+`"}`)
	client.do(http.MethodPost, "/cart/items", `{"productId":"`+id2+`"}`)

	// Whitespace-only address is rejected before any write.
	rec, body = client.do(http.MethodPost, "/checkout", `{"name":"Ann","email":"ann@example.com","address":"  "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %v", rec.Code, body)
	}
	if records, _ := store.ListAll(context.Background(), docstore.Orders); len(records) != 0 {
		t.Fatalf("invalid checkout reached the store")
	}

	rec, body = client.do(http.MethodPost, "/checkout", `{"name":"Ann","email":"ann@example.com","address":"1 Main St"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %v", rec.Code, body)
	}
	if body["state"] != "placed" {
		t.Fatalf("expected placed, got %v", body["state"])
	}
	cart := body["cart"].(map[string]interface{})
	if cart["itemCount"].(float64) != 0 {
		t.Fatalf("cart not cleared: %v", cart)
	}

	rec, body = client.do(http.MethodGet, "/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("orders: %d", rec.Code)
	}
	if body["state"] != "ready" {
		t.Fatalf("expected ready, got %v", body)
	}
	list, _ := body["orders"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %v", body)
	}
	order := list[0].(map[string]interface{})
	if order["total"].(float64) != 24.99 {
		t.Fatalf("unexpected order total: %v", order["total"])
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	client, store := newTestClient(t)
	client.do(http.MethodPost, "/register", `{"email":"ann@example.com","password":"secret1"}`)

	rec, body := client.do(http.MethodPost, "/checkout", `{"name":"Ann","email":"ann@example.com","address":"1 Main St"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %v", rec.Code, body)
	}
	if records, _ := store.ListAll(context.Background(), docstore.Orders); len(records) != 0 {
		t.Fatalf("empty-cart checkout reached the store")
	}
}

func TestOrderHistoryRequiresSignIn(t *testing.T) {
	client, _ := newTestClient(t)
	rec, body := client.do(http.MethodGet, "/orders", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body["state"] != "signInRequired" {
		t.Fatalf("expected signInRequired, got %v", body)
	}
}

func TestAddProductValidation(t *testing.T) {
	client, _ := newTestClient(t)
	rec, body := client.do(http.MethodPost, "/add-product",
		`{"title":"ab","price":"-5","description":"short","category":"","image":"not a url"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %v", rec.Code, body)
	}
	errs := body["errors"].(map[string]interface{})
	if len(errs) != 5 {
		t.Fatalf("expected 5 field errors, got %v", errs)
	}
}

func TestAddThenEditProduct(t *testing.T) {
	client, _ := newTestClient(t)

	rec, body := client.do(http.MethodPost, "/add-product",
		`{"title":"Widget","price":"9.99","description":"A fine widget indeed.","category":"electronics","image":""}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: %d %v", rec.Code, body)
	}
	id := body["id"].(string)

	rec, body = client.do(http.MethodGet, "/edit-product/"+id, "")
	if body["state"] != "ready" {
		t.Fatalf("edit preload: %v", body)
	}
	product := body["product"].(map[string]interface{})
	if product["image"] != catalog.PlaceholderImage {
		t.Fatalf("placeholder image not applied: %v", product["image"])
	}

	rec, _ = client.do(http.MethodPut, "/edit-product/"+id,
		`{"title":"Bigger Widget","price":"19.99","description":"A fine widget indeed.","category":"electronics","image":""}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("edit submit: %d", rec.Code)
	}

	_, body = client.do(http.MethodGet, "/product/"+id, "")
	product = body["product"].(map[string]interface{})
	if product["title"] != "Bigger Widget" {
		t.Fatalf("edit not applied: %v", product)
	}
}

func TestProfileLifecycle(t *testing.T) {
	client, _ := newTestClient(t)

	rec, _ := client.do(http.MethodGet, "/profile", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 signed out, got %d", rec.Code)
	}

	client.do(http.MethodPost, "/register", `{"email":"ann@example.com","password":"secret1"}`)

	rec, body := client.do(http.MethodGet, "/profile", "")
	if rec.Code != http.StatusOK || body["state"] != "ready" {
		t.Fatalf("profile load: %d %v", rec.Code, body)
	}

	rec, body = client.do(http.MethodPut, "/profile", `{"name":"Ann","address":"1 Main St"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile save: %d %v", rec.Code, body)
	}
	profileBody := body["profile"].(map[string]interface{})
	if profileBody["name"] != "Ann" || profileBody["address"] != "1 Main St" {
		t.Fatalf("profile not updated: %v", profileBody)
	}

	rec, _ = client.do(http.MethodDelete, "/profile", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("profile delete: %d", rec.Code)
	}
	rec, _ = client.do(http.MethodGet, "/profile", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected signed out after deletion, got %d", rec.Code)
	}
}

func TestLoginAndLogout(t *testing.T) {
	client, _ := newTestClient(t)
	client.do(http.MethodPost, "/register", `{"email":"ann@example.com","password":"secret1"}`)
	client.do(http.MethodPost, "/logout", "")

	rec, _ := client.do(http.MethodGet, "/orders", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected signed out after logout, got %d", rec.Code)
	}

	rec, body := client.do(http.MethodPost, "/login", `{"email":"ann@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d %v", rec.Code, body)
	}

	rec, body = client.do(http.MethodPost, "/login", `{"email":"ann@example.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %v", rec.Code, body)
	}
	if body["token"] == "" {
		t.Fatalf("missing token in login response")
	}

	rec, _ = client.do(http.MethodGet, "/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected signed in after login, got %d", rec.Code)
	}
}

func TestHomeContent(t *testing.T) {
	client, _ := newTestClient(t)
	rec, body := client.do(http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("home: %d", rec.Code)
	}
	if body["title"] == "" {
		t.Fatalf("missing home content: %v", body)
	}
}
