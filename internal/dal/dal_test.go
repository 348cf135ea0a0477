package dal_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orders-backend/internal/cache"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/session"
	"orders-backend/internal/store"
)

var errConnection = errors.New("connection refused")

type countingStore struct {
	*store.Memory
	userLookups atomic.Int32
}

func (s *countingStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.userLookups.Add(1)
	return s.Memory.GetUserByID(ctx, id)
}

type brokenStore struct {
	*store.Memory
}

func (brokenStore) GetUserByID(context.Context, string) (*models.User, error) {
	return nil, errConnection
}

func (brokenStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, errConnection
}

func (brokenStore) GetOrder(context.Context, string) (*models.OrderWithUser, error) {
	return nil, errConnection
}

func (brokenStore) ListOrders(context.Context) ([]models.OrderWithUser, error) {
	return nil, errConnection
}

func (brokenStore) ListProducts(context.Context) ([]models.Product, error) {
	return nil, errConnection
}

func withSession(userID string) context.Context {
	return session.WithSession(context.Background(), &session.Session{UserID: userID})
}

func seedUser(t *testing.T, s store.Store, id string) {
	t.Helper()
	_, err := s.CreateUser(context.Background(), &models.User{ID: id, Email: id + "@example.com"})
	require.NoError(t, err)
}

func TestGetCurrentUser_NoSession(t *testing.T) {
	d := dal.New(store.NewMemory())
	assert.Nil(t, d.GetCurrentUser(context.Background()))
}

func TestGetCurrentUser_Prerendering(t *testing.T) {
	s := &countingStore{Memory: store.NewMemory()}
	seedUser(t, s, "u1")
	d := dal.New(s, dal.WithPrerender(true))

	assert.Nil(t, d.GetCurrentUser(withSession("u1")))
	assert.Equal(t, int32(0), s.userLookups.Load())
}

func TestGetCurrentUser_MemoizedPerRequest(t *testing.T) {
	s := &countingStore{Memory: store.NewMemory()}
	seedUser(t, s, "u1")
	d := dal.New(s)

	ctx := dal.WithRequestScope(withSession("u1"))
	first := d.GetCurrentUser(ctx)
	second := d.GetCurrentUser(ctx)
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), s.userLookups.Load())

	// A new request resolves again.
	other := dal.WithRequestScope(withSession("u1"))
	require.NotNil(t, d.GetCurrentUser(other))
	assert.Equal(t, int32(2), s.userLookups.Load())
}

func TestGetCurrentUser_MemoizesMissingUser(t *testing.T) {
	s := &countingStore{Memory: store.NewMemory()}
	d := dal.New(s)

	ctx := dal.WithRequestScope(withSession("ghost"))
	assert.Nil(t, d.GetCurrentUser(ctx))
	assert.Nil(t, d.GetCurrentUser(ctx))
	assert.Equal(t, int32(1), s.userLookups.Load())
}

func TestGetCurrentUser_WithoutScopeResolvesEachTime(t *testing.T) {
	s := &countingStore{Memory: store.NewMemory()}
	seedUser(t, s, "u1")
	d := dal.New(s)

	ctx := withSession("u1")
	d.GetCurrentUser(ctx)
	d.GetCurrentUser(ctx)
	assert.Equal(t, int32(2), s.userLookups.Load())
}

func TestGetCurrentUser_LookupFailureIsNil(t *testing.T) {
	d := dal.New(brokenStore{store.NewMemory()})
	assert.Nil(t, d.GetCurrentUser(withSession("u1")))
}

func TestGetUserByEmail(t *testing.T) {
	mem := store.NewMemory()
	seedUser(t, mem, "u1")

	user := dal.New(mem).GetUserByEmail(context.Background(), "u1@example.com")
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)

	assert.Nil(t, dal.New(mem).GetUserByEmail(context.Background(), "nobody@example.com"))
	assert.Nil(t, dal.New(brokenStore{mem}).GetUserByEmail(context.Background(), "u1@example.com"))
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedUser(t, mem, "u1")
	_, err := mem.CreateOrder(ctx, &models.Order{ID: "o1", UserID: "u1", TotalAmount: "19.99"})
	require.NoError(t, err)
	mem.AddOrderItem(models.OrderItem{ID: "i1", OrderID: "o1", ProductID: "p1", Quantity: 2, Price: "9.99"})

	d := dal.New(mem)

	order, err := d.GetOrder(ctx, "o1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "u1@example.com", order.User.Email)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	missing, err := d.GetOrder(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetOrder_FailureIsFetchFailed(t *testing.T) {
	_, err := dal.New(brokenStore{store.NewMemory()}).GetOrder(context.Background(), "o1")
	assert.ErrorIs(t, err, dal.ErrFetchFailed)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestGetOrders_CachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mem := store.NewMemory().WithClock(func() time.Time { return now })
	seedUser(t, mem, "u1")
	c := cache.New(time.Minute)
	d := dal.New(mem, dal.WithCache(c))

	_, err := mem.CreateOrder(ctx, &models.Order{ID: "o1", UserID: "u1", TotalAmount: "1.00"})
	require.NoError(t, err)

	orders, err := d.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	now = now.Add(time.Second)
	_, err = mem.CreateOrder(ctx, &models.Order{ID: "o2", UserID: "u1", TotalAmount: "2.00"})
	require.NoError(t, err)

	orders, err = d.GetOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1, "served from cache")

	c.Invalidate(ctx, cache.TagOrders)

	orders, err = d.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
}

func TestGetOrders_EmptyIsNotNil(t *testing.T) {
	orders, err := dal.New(store.NewMemory()).GetOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestGetOrders_FailureIsFetchFailed(t *testing.T) {
	c := cache.New(time.Minute)
	_, err := dal.New(brokenStore{store.NewMemory()}, dal.WithCache(c)).GetOrders(context.Background())
	assert.ErrorIs(t, err, dal.ErrFetchFailed)
	assert.Equal(t, 0, c.Len())
}

func TestGetAllProducts_Normalizes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_, err := mem.CreateProduct(ctx, &models.Product{
		ID:               "p2",
		Name:             "Hoodie",
		Sizes:            json.RawMessage(`"[\"S\",\"M\"]"`),
		Colors:           json.RawMessage(`["Red", 3, null, true]`),
		CareInstructions: json.RawMessage(`null`),
		Price:            decimal.RequireFromString("44.00"),
	})
	require.NoError(t, err)
	_, err = mem.CreateProduct(ctx, &models.Product{
		ID:               "p1",
		Name:             "Tee",
		Sizes:            json.RawMessage(`"S, M, L"`),
		Colors:           json.RawMessage(`["White"]`),
		CareInstructions: json.RawMessage(`["Machine wash cold"]`),
		Price:            decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)

	products, err := dal.New(mem).GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 19.99, products[0].Price)
	assert.Equal(t, []string{"S", "M", "L"}, products[0].Sizes)

	assert.Equal(t, []string{"S", "M"}, products[1].Sizes)
	assert.Equal(t, []string{"Red", "3", "true"}, products[1].Colors)
	assert.NotNil(t, products[1].CareInstructions)
	assert.Empty(t, products[1].CareInstructions)
}

func TestGetAllProducts_FailureIsFetchFailed(t *testing.T) {
	_, err := dal.New(brokenStore{store.NewMemory()}).GetAllProducts(context.Background())
	assert.ErrorIs(t, err, dal.ErrFetchFailed)
}

func TestGetElement(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_, err := mem.CreateElement(ctx, &models.Element{
		ID:           "e1",
		Symbol:       "He",
		AtomicNumber: 2,
		AtomicMass:   decimal.RequireFromString("4.0026"),
		Density:      decimal.NewNullDecimal(decimal.RequireFromString("0.0002")),
	})
	require.NoError(t, err)

	d := dal.New(mem)
	element, err := d.GetElement(ctx, "HE")
	require.NoError(t, err)
	require.NotNil(t, element)
	assert.Equal(t, 4.0026, element.AtomicMass)
	require.NotNil(t, element.Density)
	assert.Equal(t, 0.0002, *element.Density)
	assert.Nil(t, element.MeltingPoint)

	missing, err := d.GetElement(ctx, "Xx")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelay_HonorsCancellation(t *testing.T) {
	d := dal.New(store.NewMemory(), dal.WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetOrders_SharedFillSurvivesCallerCancellation(t *testing.T) {
	mem := store.NewMemory()
	seedUser(t, mem, "u1")
	_, err := mem.CreateOrder(context.Background(), &models.Order{ID: "o1", UserID: "u1", TotalAmount: "1.00"})
	require.NoError(t, err)
	d := dal.New(mem, dal.WithCache(cache.New(time.Minute)), dal.WithDelay(100*time.Millisecond))

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := d.GetOrders(first)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type result struct {
		orders []models.OrderWithUser
		err    error
	}
	second := make(chan result, 1)
	go func() {
		orders, err := d.GetOrders(context.Background())
		second <- result{orders, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.orders, 1)
	assert.Equal(t, "o1", got.orders[0].ID)
}
