package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"orders-backend/internal/cache"
	"orders-backend/internal/dal"
	"orders-backend/internal/handlers"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
	"orders-backend/internal/session"
	"orders-backend/internal/store"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

type fakeImages struct {
	uploads map[string][]byte
}

func (f *fakeImages) UploadProductImage(productID, filename, _ string, data []byte) (string, string, error) {
	path := "products/" + productID + "/" + filename
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[path] = data
	return path, "https://cdn.example.com/" + path, nil
}

type testApp struct {
	router *gin.Engine
	mem    *store.Memory
	cache  *cache.Cache
	dal    *dal.DAL
	jwt    *session.JWTResolver
	images *fakeImages
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	c := cache.New(time.Minute)
	d := dal.New(mem, dal.WithCache(c))
	jwt := session.NewJWTResolver(testSecret, time.Hour)
	images := &fakeImages{}

	orders := services.NewOrderService(mem, c, nil)
	users := services.NewUserService(mem, c, nil).WithHashCost(bcrypt.MinCost)

	h := handlers.Handlers{
		Health:    handlers.NewHealthHandler(mem, nil),
		Orders:    handlers.NewOrdersHandler(d, orders),
		Users:     handlers.NewUsersHandler(d, users),
		Products:  handlers.NewProductsHandler(d, services.NewProductService(mem, images, c, nil)),
		Elements:  handlers.NewElementsHandler(d),
		Auth:      handlers.NewAuthHandler(d, services.NewAuthService(d, jwt, nil)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(d)),
		Actions:   handlers.NewActionsHandler(services.NewOrderActions(orders, d)),
	}

	router := gin.New()
	handlers.RegisterRoutes(router, h, jwt, nil)

	return &testApp{router: router, mem: mem, cache: c, dal: d, jwt: jwt, images: images}
}

func (a *testApp) seedUser(t *testing.T, id, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = a.mem.CreateUser(context.Background(), &models.User{ID: id, Email: email, Password: string(hash)})
	require.NoError(t, err)
}

func (a *testApp) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.jwt.Issue(userID, "")
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
