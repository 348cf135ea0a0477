package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"orders-backend/internal/models"
)

// Memory is a Store kept in process memory. It backs development runs
// without DATABASE_URL and the package tests.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	orders   map[string]models.Order
	items    map[string]models.OrderItem
	products map[string]models.Product
	elements map[string]models.Element
	now      func() time.Time
}

func NewMemory() *Memory {
	m := &Memory{now: time.Now}
	m.resetLocked()
	return m
}

// WithClock replaces the timestamp source; it is meant for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) resetLocked() {
	m.users = make(map[string]models.User)
	m.orders = make(map[string]models.Order)
	m.items = make(map[string]models.OrderItem)
	m.products = make(map[string]models.Product)
	m.elements = make(map[string]models.Element)
}

func (m *Memory) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListUsers(context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) emailTakenLocked(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTakenLocked(user.Email, "") {
		return nil, ErrDuplicateEmail
	}
	u := *user
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	m.users[u.ID] = u
	return &u, nil
}

func (m *Memory) UpdateUser(_ context.Context, id, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if m.emailTakenLocked(email, id) {
		return nil, ErrDuplicateEmail
	}
	u.Email = email
	u.Password = passwordHash
	m.users[id] = u
	return &u, nil
}

func (m *Memory) DeleteUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	delete(m.users, id)
	for orderID, o := range m.orders {
		if o.UserID != id {
			continue
		}
		delete(m.orders, orderID)
		for itemID, it := range m.items {
			if it.OrderID == orderID {
				delete(m.items, itemID)
			}
		}
	}
	return &u, nil
}

func (m *Memory) withUserLocked(o models.Order) models.OrderWithUser {
	out := models.OrderWithUser{Order: o}
	if u, ok := m.users[o.UserID]; ok {
		out.User = &models.UserSummary{ID: u.ID, Email: u.Email}
	}
	return out
}

func (m *Memory) GetOrder(_ context.Context, id string) (*models.OrderWithUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	out := m.withUserLocked(o)
	return &out, nil
}

func (m *Memory) ListOrders(context.Context) ([]models.OrderWithUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.OrderWithUser, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, m.withUserLocked(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) ListOrderItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.OrderItem
	for _, it := range m.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddOrderItem inserts an item row. Nothing in the service creates items;
// it exists for seeding and tests.
func (m *Memory) AddOrderItem(item models.OrderItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *Memory) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[order.UserID]; !ok {
		return nil, ErrUnknownUser
	}
	o := *order
	now := m.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	m.orders[o.ID] = o
	return &o, nil
}

func (m *Memory) UpdateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[order.ID]
	if !ok {
		return nil, nil
	}
	o.TotalAmount = order.TotalAmount
	o.ShippingAddress = order.ShippingAddress
	o.ShippingStatus = order.ShippingStatus
	o.OrderStatus = order.OrderStatus
	o.UpdatedAt = m.now()
	m.orders[o.ID] = o
	return &o, nil
}

func (m *Memory) DeleteOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	delete(m.orders, id)
	for itemID, it := range m.items {
		if it.OrderID == id {
			delete(m.items, itemID)
		}
	}
	return &o, nil
}

func (m *Memory) ListProducts(context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *product
	now := m.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	m.products[p.ID] = p
	return &p, nil
}

func (m *Memory) SetProductImage(_ context.Context, id, imageURL string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	p.ImageURL.String = imageURL
	p.ImageURL.Valid = imageURL != ""
	p.UpdatedAt = m.now()
	m.products[id] = p
	return &p, nil
}

func (m *Memory) ListElements(context.Context) ([]models.Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Element, 0, len(m.elements))
	for _, e := range m.elements {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AtomicNumber < out[j].AtomicNumber })
	return out, nil
}

func (m *Memory) GetElementBySymbol(_ context.Context, symbol string) (*models.Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.elements {
		if strings.EqualFold(e.Symbol, symbol) {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateElement(_ context.Context, element *models.Element) (*models.Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *element
	now := m.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	m.elements[e.ID] = e
	return &e, nil
}

var _ Store = (*Memory)(nil)
