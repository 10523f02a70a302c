package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"shopapi/internal/database"
	"shopapi/internal/handlers"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier captures welcome dispatches so tests can assert on
// them; failNext makes the next dispatch fail.
type recordingNotifier struct {
	mu       sync.Mutex
	sent     []string
	failNext bool
}

func (n *recordingNotifier) SendWelcome(email, username string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failNext {
		n.failNext = false
		return fmt.Errorf("smtp unavailable")
	}
	n.sent = append(n.sent, email)
	return nil
}

// setupApp builds the full route surface against an in-memory SQLite
// database, mirroring the wiring in main.go minus middleware.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *recordingNotifier) {
	t.Helper()

	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	logger := zerolog.Nop()
	notifier := &recordingNotifier{}

	productService := services.NewProductService(repositories.NewGORMProductRepository(db))
	userService := services.NewUserService(repositories.NewGORMUserRepository(db), notifier, logger)

	app := fiber.New()
	handlers.NewProductHandler(productService, logger).RegisterRoutes(app)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(app)

	return app, db, notifier
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestProductLifecycle(t *testing.T) {
	app, _, _ := setupApp(t)

	// create
	resp, body := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"title": "Chair",
		"price": 10000,
		"img":   "http://x/c.jpg",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Product created", body["msg"])

	product, ok := body["product"].(map[string]any)
	require.True(t, ok)
	id, _ := product["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, 10000.0, product["price"])
	assert.NotEmpty(t, product["createdAt"])

	// list contains it
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	var list []models.Product
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list, 1)
	assert.Equal(t, "Chair", list[0].Title)

	// get by id round-trips the created record
	resp, _ = doJSON(t, app, http.MethodGet, "/products/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// partial update: only price changes
	resp, body = doJSON(t, app, http.MethodPut, "/products/"+id, map[string]any{
		"price": 500,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product updated", body["msg"])
	updated, ok := body["updated"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 500.0, updated["price"])
	assert.Equal(t, "Chair", updated["title"])
	assert.Equal(t, "http://x/c.jpg", updated["img"])

	// delete
	resp, body = doJSON(t, app, http.MethodDelete, "/products/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product deleted", body["msg"])

	// gone afterwards
	resp, body = doJSON(t, app, http.MethodGet, "/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", body["msg"])
}

func TestProductValidationErrors(t *testing.T) {
	app, _, _ := setupApp(t)

	// empty title
	resp, body := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"title": "",
		"price": 10,
		"img":   "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "title required", body["msg"])

	// missing price
	resp, body = doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"title": "Chair",
		"img":   "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price required", body["msg"])

	// negative price
	resp, body = doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"title": "Chair",
		"price": -5,
		"img":   "x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price invalid", body["msg"])
}

func TestProductMissingAndMalformedIDs(t *testing.T) {
	app, _, _ := setupApp(t)

	// well-formed but unknown id
	missing := uuid.New().String()
	resp, body := doJSON(t, app, http.MethodDelete, "/products/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", body["msg"])

	// malformed id can never match a record
	resp, body = doJSON(t, app, http.MethodGet, "/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "id invalid", body["msg"])
}

func TestSignupFlow(t *testing.T) {
	app, db, notifier := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "pw1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Signup successful", body["msg"])

	// no password material in the response
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)
	_, hasUser := body["user"]
	assert.False(t, hasUser)

	// the stored record carries a hash, not the plaintext
	var stored models.User
	require.NoError(t, db.First(&stored, "username = ?", "alice").Error)
	assert.NotEqual(t, "pw1", stored.Password)

	assert.Equal(t, []string{"alice@x.com"}, notifier.sent)

	// same username, different email
	resp, body = doJSON(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "bob@x.com",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username or email already exists", body["msg"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignupSucceedsWhenNotifierFails(t *testing.T) {
	app, db, notifier := setupApp(t)
	notifier.failNext = true

	resp, body := doJSON(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "bob",
		"email":    "bob@x.com",
		"password": "secret",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Signup successful", body["msg"])

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignupValidation(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/signup", map[string]string{
		"username": "",
		"email":    "a@x.com",
		"password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username required", body["msg"])
}

func TestRateLimiterAndSecurityHeaders(t *testing.T) {
	// middleware wiring mirrors main.go with a small window for the test
	app := fiber.New()
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        3,
		Expiration: time.Minute,
	}))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}
