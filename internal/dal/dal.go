// Package dal is the single place read queries are issued. It shapes rows
// for callers, caches the aggregate reads under invalidation tags and
// memoizes the current user for the lifetime of a request.
package dal

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"orders-backend/internal/cache"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/session"
	"orders-backend/internal/store"
)

// ErrFetchFailed is returned for any store failure on a read. The cause is
// logged, never returned.
var ErrFetchFailed = errors.New("failed to fetch data")

const (
	keyOrders   = "orders:list"
	keyProducts = "products:list"
	keyElements = "elements:list"
)

type DAL struct {
	store     store.Store
	cache     *cache.Cache
	logger    *zap.Logger
	delay     time.Duration
	prerender bool
}

type Option func(*DAL)

func WithCache(c *cache.Cache) Option {
	return func(d *DAL) { d.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(d *DAL) { d.logger = logging.OrNop(l) }
}

// WithDelay adds artificial latency before every store read.
func WithDelay(delay time.Duration) Option {
	return func(d *DAL) { d.delay = delay }
}

// WithPrerender marks the process as prerendering; GetCurrentUser then
// never touches the store.
func WithPrerender(prerender bool) Option {
	return func(d *DAL) { d.prerender = prerender }
}

func New(s store.Store, opts ...Option) *DAL {
	d := &DAL{store: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cache returns the cache mutations should invalidate. It may be nil.
func (d *DAL) Cache() *cache.Cache {
	return d.cache
}

func (d *DAL) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return nil
	}
	t := time.NewTimer(d.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetCurrentUser resolves the request's session to a user. It returns nil
// when there is no session, while prerendering, when the user no longer
// exists, or when the lookup fails. Within a request scope the first
// result is reused.
func (d *DAL) GetCurrentUser(ctx context.Context) *models.User {
	sess := session.FromContext(ctx)
	if sess == nil || d.prerender {
		return nil
	}

	m := memoFrom(ctx)
	if m == nil {
		return d.loadUser(ctx, sess)
	}
	m.once.Do(func() {
		m.user = d.loadUser(ctx, sess)
	})
	return m.user
}

func (d *DAL) loadUser(ctx context.Context, sess *session.Session) *models.User {
	if err := d.wait(ctx); err != nil {
		return nil
	}
	user, err := d.store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		d.logger.Error("Error getting user by ID", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil
	}
	return user
}

// GetUserByEmail returns nil when no user matches or the lookup fails.
func (d *DAL) GetUserByEmail(ctx context.Context, email string) *models.User {
	user, err := d.store.GetUserByEmail(ctx, email)
	if err != nil {
		d.logger.Error("Error getting user by email", zap.Error(err))
		return nil
	}
	return user
}

func (d *DAL) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	user, err := d.store.GetUserByID(ctx, id)
	if err != nil {
		d.logger.Error("Error fetching user", zap.String("user_id", id), zap.Error(err))
		return nil, ErrFetchFailed
	}
	return user, nil
}

func (d *DAL) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	users, err := d.store.ListUsers(ctx)
	if err != nil {
		d.logger.Error("Error fetching users", zap.Error(err))
		return nil, ErrFetchFailed
	}
	return users, nil
}

// GetOrder returns the order with its owner and items, or (nil, nil) when
// no order has that id.
func (d *DAL) GetOrder(ctx context.Context, id string) (*models.OrderWithUser, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	order, err := d.store.GetOrder(ctx, id)
	if err != nil {
		d.logger.Error("Error fetching order", zap.String("order_id", id), zap.Error(err))
		return nil, ErrFetchFailed
	}
	if order == nil {
		return nil, nil
	}

	items, err := d.store.ListOrderItems(ctx, id)
	if err != nil {
		d.logger.Error("Error fetching order items", zap.String("order_id", id), zap.Error(err))
		return nil, ErrFetchFailed
	}
	order.Items = items
	return order, nil
}

// GetOrders lists every order with its owner, newest first. The result is
// cached under the orders tag.
func (d *DAL) GetOrders(ctx context.Context) ([]models.OrderWithUser, error) {
	orders, err := cache.Remember(ctx, d.cache, keyOrders, []string{cache.TagOrders},
		func(ctx context.Context) ([]models.OrderWithUser, error) {
			if err := d.wait(ctx); err != nil {
				return nil, err
			}
			orders, err := d.store.ListOrders(ctx)
			if err != nil {
				d.logger.Error("Error fetching orders", zap.Error(err))
				return nil, ErrFetchFailed
			}
			if orders == nil {
				orders = []models.OrderWithUser{}
			}
			return orders, nil
		})
	if err != nil {
		return nil, err
	}
	return append([]models.OrderWithUser(nil), orders...), nil
}

// GetAllProducts lists every product by id with numeric prices and list
// fields normalized to arrays. The result is cached under the products tag.
func (d *DAL) GetAllProducts(ctx context.Context) ([]models.ProductView, error) {
	products, err := cache.Remember(ctx, d.cache, keyProducts, []string{cache.TagProducts},
		func(ctx context.Context) ([]models.ProductView, error) {
			if err := d.wait(ctx); err != nil {
				return nil, err
			}
			rows, err := d.store.ListProducts(ctx)
			if err != nil {
				d.logger.Error("Error fetching products", zap.Error(err))
				return nil, ErrFetchFailed
			}
			views := make([]models.ProductView, 0, len(rows))
			for _, p := range rows {
				views = append(views, NormalizeProduct(p))
			}
			return views, nil
		})
	if err != nil {
		return nil, err
	}
	return append([]models.ProductView(nil), products...), nil
}

func (d *DAL) GetProduct(ctx context.Context, id string) (*models.ProductView, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	product, err := d.store.GetProduct(ctx, id)
	if err != nil {
		d.logger.Error("Error fetching product", zap.String("product_id", id), zap.Error(err))
		return nil, ErrFetchFailed
	}
	if product == nil {
		return nil, nil
	}
	view := NormalizeProduct(*product)
	return &view, nil
}

// GetElements lists the element reference table by atomic number.
func (d *DAL) GetElements(ctx context.Context) ([]models.ElementView, error) {
	elements, err := cache.Remember(ctx, d.cache, keyElements, []string{cache.TagElements},
		func(ctx context.Context) ([]models.ElementView, error) {
			if err := d.wait(ctx); err != nil {
				return nil, err
			}
			rows, err := d.store.ListElements(ctx)
			if err != nil {
				d.logger.Error("Error fetching elements", zap.Error(err))
				return nil, ErrFetchFailed
			}
			views := make([]models.ElementView, 0, len(rows))
			for _, e := range rows {
				views = append(views, NormalizeElement(e))
			}
			return views, nil
		})
	if err != nil {
		return nil, err
	}
	return append([]models.ElementView(nil), elements...), nil
}

func (d *DAL) GetElement(ctx context.Context, symbol string) (*models.ElementView, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	element, err := d.store.GetElementBySymbol(ctx, symbol)
	if err != nil {
		d.logger.Error("Error fetching element", zap.String("symbol", symbol), zap.Error(err))
		return nil, ErrFetchFailed
	}
	if element == nil {
		return nil, nil
	}
	view := NormalizeElement(*element)
	return &view, nil
}

// Ping reports whether the store is reachable.
func (d *DAL) Ping(ctx context.Context) error {
	return d.store.Ping(ctx)
}
