package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"orders-backend/internal/cache"
	"orders-backend/internal/dal"
	"orders-backend/internal/models"
	"orders-backend/internal/services"
	"orders-backend/internal/session"
	"orders-backend/internal/store"
)

func newUserService(mem *store.Memory) *services.UserService {
	return services.NewUserService(mem, nil, nil).WithHashCost(bcrypt.MinCost)
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	mem := store.NewMemory()
	user, err := newUserService(mem).Create(context.Background(), models.CreateUserRequest{
		Email:    "a@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter22", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
}

func TestUserService_CreateKeepsProvidedFields(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user, err := newUserService(store.NewMemory()).Create(context.Background(), models.CreateUserRequest{
		ID:        "u9",
		Email:     "a@example.com",
		Password:  "pw",
		CreatedAt: &createdAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc := newUserService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.CreateUserRequest{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.CreateUserRequest{Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUserService_UpdateAndDeleteMissing(t *testing.T) {
	svc := newUserService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", models.UpdateUserRequest{Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAuthService_Login(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	_, err := newUserService(mem).Create(ctx, models.CreateUserRequest{ID: "u1", Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)

	resolver := session.NewJWTResolver("test-secret", time.Hour)
	auth := services.NewAuthService(dal.New(mem), resolver, nil)

	resp, err := auth.Login(ctx, "a@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)

	sess, err := resolver.Resolve(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)

	_, err = auth.Login(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_LoginWithoutSecret(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	_, err := newUserService(mem).Create(ctx, models.CreateUserRequest{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	auth := services.NewAuthService(dal.New(mem), session.NewJWTResolver("", time.Hour), nil)
	_, err = auth.Login(ctx, "a@example.com", "pw")
	assert.ErrorIs(t, err, services.ErrSessionUnavailable)
}

func TestDashboardService_Load(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	_, err := mem.CreateUser(ctx, &models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	_, err = mem.CreateOrder(ctx, &models.Order{ID: "o1", UserID: "u1", TotalAmount: "1.00"})
	require.NoError(t, err)

	svc := services.NewDashboardService(dal.New(mem, dal.WithCache(cache.New(time.Minute))))

	_, err = svc.Load(ctx)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	resp, err := svc.Load(signedIn("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "o1", resp.Orders[0].ID)
}

type slowUserStore struct {
	*store.Memory
}

func (s slowUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(50 * time.Millisecond):
		return s.Memory.GetUserByID(ctx, id)
	}
}

func (slowUserStore) ListOrders(context.Context) ([]models.OrderWithUser, error) {
	return nil, errors.New("connection refused")
}

func TestDashboardService_OrdersFailureKeepsCurrentUser(t *testing.T) {
	mem := store.NewMemory()
	_, err := mem.CreateUser(context.Background(), &models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	d := dal.New(slowUserStore{mem})

	ctx := signedIn("u1")
	_, err = services.NewDashboardService(d).Load(ctx)
	assert.ErrorIs(t, err, dal.ErrFetchFailed)

	user := d.GetCurrentUser(ctx)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}
