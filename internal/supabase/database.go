package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"orders-backend/internal/models"
	"orders-backend/internal/store"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an already opened handle.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

// DB exposes the underlying handle for the migrator.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Reset(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `TRUNCATE order_items, orders, products, elements, users`)
	if err != nil {
		return fmt.Errorf("failed to reset tables: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// Users

const userColumns = `id, email, password, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(d.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (d *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(d.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (d *DatabaseClient) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (d *DatabaseClient) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	created, err := scanUser(d.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password, created_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING `+userColumns+`
	`, user.ID, user.Email, user.Password, nullTime(user.CreatedAt)))
	if isUniqueViolation(err) {
		return nil, store.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) UpdateUser(ctx context.Context, id, email, passwordHash string) (*models.User, error) {
	updated, err := scanUser(d.db.QueryRowContext(ctx, `
		UPDATE users
		SET email = $1, password = $2
		WHERE id = $3
		RETURNING `+userColumns+`
	`, email, passwordHash, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, store.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

func (d *DatabaseClient) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	deleted, err := scanUser(d.db.QueryRowContext(ctx, `
		DELETE FROM users
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}

// Orders

const orderColumns = `id, user_id, total_amount, shipping_address, shipping_status, order_status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress,
		&o.ShippingStatus, &o.OrderStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const orderWithUserQuery = `
	SELECT o.id, o.user_id, o.total_amount, o.shipping_address, o.shipping_status, o.order_status,
	       o.created_at, o.updated_at, u.id, u.email
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id
`

func scanOrderWithUser(row interface{ Scan(...any) error }) (*models.OrderWithUser, error) {
	var o models.OrderWithUser
	var userID, userEmail sql.NullString
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress,
		&o.ShippingStatus, &o.OrderStatus, &o.CreatedAt, &o.UpdatedAt,
		&userID, &userEmail,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		o.User = &models.UserSummary{ID: userID.String, Email: userEmail.String}
	}
	return &o, nil
}

func (d *DatabaseClient) GetOrder(ctx context.Context, id string) (*models.OrderWithUser, error) {
	order, err := scanOrderWithUser(d.db.QueryRowContext(ctx, orderWithUserQuery+`WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListOrders(ctx context.Context) ([]models.OrderWithUser, error) {
	rows, err := d.db.QueryContext(ctx, orderWithUserQuery+`ORDER BY o.created_at DESC, o.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.OrderWithUser{}
	for rows.Next() {
		order, err := scanOrderWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (d *DatabaseClient) ListOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	return items, nil
}

func (d *DatabaseClient) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	created, err := scanOrder(d.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, shipping_address, shipping_status, order_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()), COALESCE($8, NOW()))
		RETURNING `+orderColumns+`
	`, order.ID, order.UserID, order.TotalAmount, order.ShippingAddress,
		order.ShippingStatus, order.OrderStatus, nullTime(order.CreatedAt), nullTime(order.UpdatedAt)))
	if isForeignKeyViolation(err) {
		return nil, store.ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	updated, err := scanOrder(d.db.QueryRowContext(ctx, `
		UPDATE orders
		SET total_amount = $1, shipping_address = $2, shipping_status = $3, order_status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+orderColumns+`
	`, order.TotalAmount, order.ShippingAddress, order.ShippingStatus, order.OrderStatus, order.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return updated, nil
}

func (d *DatabaseClient) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	deleted, err := scanOrder(d.db.QueryRowContext(ctx, `
		DELETE FROM orders
		WHERE id = $1
		RETURNING `+orderColumns+`
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	return deleted, nil
}

// Products

const productColumns = `id, name, description, material, sizes, colors, price, builder_price,
	suggested_sale_price, estimated_profit, production_time, care_instructions,
	print_type, print_location, style, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var sizes, colors, care []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Material, &sizes, &colors,
		&p.Price, &p.BuilderPrice, &p.SuggestedSalePrice, &p.EstimatedProfit,
		&p.ProductionTime, &care, &p.PrintType, &p.PrintLocation, &p.Style,
		&p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Sizes = json.RawMessage(sizes)
	p.Colors = json.RawMessage(colors)
	p.CareInstructions = json.RawMessage(care)
	return &p, nil
}

func (d *DatabaseClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (d *DatabaseClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(d.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (d *DatabaseClient) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	created, err := scanProduct(d.db.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, material, sizes, colors, price, builder_price,
			suggested_sale_price, estimated_profit, production_time, care_instructions,
			print_type, print_location, style, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+productColumns+`
	`, p.ID, p.Name, p.Description, p.Material, jsonParam(p.Sizes), jsonParam(p.Colors),
		p.Price, p.BuilderPrice, p.SuggestedSalePrice, p.EstimatedProfit, p.ProductionTime,
		jsonParam(p.CareInstructions), p.PrintType, p.PrintLocation, p.Style, p.ImageURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) SetProductImage(ctx context.Context, id, imageURL string) (*models.Product, error) {
	p, err := scanProduct(d.db.QueryRowContext(ctx, `
		UPDATE products
		SET image_url = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+productColumns+`
	`, imageURL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set product image: %w", err)
	}
	return p, nil
}

// Elements

const elementColumns = `id, symbol, name, atomic_number, atomic_mass, "group", period, category, phase,
	discovered_by, appearance, density, melting_point, boiling_point, created_at, updated_at`

func scanElement(row interface{ Scan(...any) error }) (*models.Element, error) {
	var e models.Element
	var discoveredBy, appearance sql.NullString
	err := row.Scan(
		&e.ID, &e.Symbol, &e.Name, &e.AtomicNumber, &e.AtomicMass, &e.Group, &e.Period,
		&e.Category, &e.Phase, &discoveredBy, &appearance, &e.Density, &e.MeltingPoint,
		&e.BoilingPoint, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if discoveredBy.Valid {
		e.DiscoveredBy = &discoveredBy.String
	}
	if appearance.Valid {
		e.Appearance = &appearance.String
	}
	return &e, nil
}

func (d *DatabaseClient) ListElements(ctx context.Context) ([]models.Element, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+elementColumns+`
		FROM elements
		ORDER BY atomic_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list elements: %w", err)
	}
	defer rows.Close()

	elements := []models.Element{}
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan element: %w", err)
		}
		elements = append(elements, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list elements: %w", err)
	}
	return elements, nil
}

func (d *DatabaseClient) GetElementBySymbol(ctx context.Context, symbol string) (*models.Element, error) {
	e, err := scanElement(d.db.QueryRowContext(ctx, `
		SELECT `+elementColumns+`
		FROM elements
		WHERE lower(symbol) = lower($1)
	`, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get element: %w", err)
	}
	return e, nil
}

func (d *DatabaseClient) CreateElement(ctx context.Context, e *models.Element) (*models.Element, error) {
	created, err := scanElement(d.db.QueryRowContext(ctx, `
		INSERT INTO elements (id, symbol, name, atomic_number, atomic_mass, "group", period, category, phase,
			discovered_by, appearance, density, melting_point, boiling_point)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+elementColumns+`
	`, e.ID, e.Symbol, e.Name, e.AtomicNumber, e.AtomicMass, e.Group, e.Period, e.Category, e.Phase,
		e.DiscoveredBy, e.Appearance, e.Density, e.MeltingPoint, e.BoilingPoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create element: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// jsonParam sends empty list columns as a JSON array instead of NULL.
func jsonParam(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "[]"
	}
	return string(raw)
}

var _ store.Store = (*DatabaseClient)(nil)
