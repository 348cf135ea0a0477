package database

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"orders-backend/internal/logging"
	"orders-backend/internal/models"
	"orders-backend/internal/store"
)

//go:embed seeds/seed.yaml
var defaultSeed []byte

type SeedData struct {
	Users    []UserSeed    `yaml:"users"`
	Products []ProductSeed `yaml:"products"`
	Elements []ElementSeed `yaml:"elements"`
}

type UserSeed struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type ProductSeed struct {
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	Material           string   `yaml:"material"`
	Sizes              []string `yaml:"sizes"`
	Colors             []string `yaml:"colors"`
	Price              string   `yaml:"price"`
	BuilderPrice       string   `yaml:"builder_price"`
	SuggestedSalePrice string   `yaml:"suggested_sale_price"`
	EstimatedProfit    string   `yaml:"estimated_profit"`
	ProductionTime     string   `yaml:"production_time"`
	CareInstructions   []string `yaml:"care_instructions"`
	PrintType          string   `yaml:"print_type"`
	PrintLocation      string   `yaml:"print_location"`
	Style              string   `yaml:"style"`
}

type ElementSeed struct {
	Symbol       string `yaml:"symbol"`
	Name         string `yaml:"name"`
	AtomicNumber int    `yaml:"atomic_number"`
	AtomicMass   string `yaml:"atomic_mass"`
	Group        int    `yaml:"group"`
	Period       int    `yaml:"period"`
	Category     string `yaml:"category"`
	Phase        string `yaml:"phase"`
	DiscoveredBy string `yaml:"discovered_by"`
	Appearance   string `yaml:"appearance"`
	Density      string `yaml:"density"`
	MeltingPoint string `yaml:"melting_point"`
	BoilingPoint string `yaml:"boiling_point"`
}

// ParseSeedData decodes a YAML seed document.
func ParseSeedData(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// DefaultSeedData returns the seed document embedded in the binary.
func DefaultSeedData() (*SeedData, error) {
	return ParseSeedData(defaultSeed)
}

type SeedSummary struct {
	Users    int
	Products int
	Elements int
	Orders   int
}

type Seeder struct {
	store  store.Store
	logger *zap.Logger
	cost   int
}

func NewSeeder(s store.Store, logger *zap.Logger) *Seeder {
	return &Seeder{store: s, logger: logging.OrNop(logger), cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost used for seeded passwords.
func (s *Seeder) WithHashCost(cost int) *Seeder {
	s.cost = cost
	return s
}

// SeedAll wipes every table and loads data. Each seeded user gets one
// pending order priced at the first product's price.
func (s *Seeder) SeedAll(ctx context.Context, data *SeedData) (*SeedSummary, error) {
	if err := s.store.Reset(ctx); err != nil {
		return nil, err
	}

	summary := &SeedSummary{}

	var users []*models.User
	for _, u := range data.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}
		created, err := s.store.CreateUser(ctx, &models.User{
			ID:       uuid.NewString(),
			Email:    u.Email,
			Password: string(hash),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		users = append(users, created)
	}
	summary.Users = len(users)

	var products []*models.Product
	for _, p := range data.Products {
		product, err := p.toModel()
		if err != nil {
			return nil, err
		}
		created, err := s.store.CreateProduct(ctx, product)
		if err != nil {
			return nil, fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		products = append(products, created)
	}
	summary.Products = len(products)

	for _, e := range data.Elements {
		element, err := e.toModel()
		if err != nil {
			return nil, err
		}
		if _, err := s.store.CreateElement(ctx, element); err != nil {
			return nil, fmt.Errorf("failed to seed element %s: %w", e.Symbol, err)
		}
		summary.Elements++
	}

	if len(products) > 0 {
		total := products[0].Price.StringFixed(2)
		for i, u := range users {
			_, err := s.store.CreateOrder(ctx, &models.Order{
				ID:              uuid.NewString(),
				UserID:          u.ID,
				TotalAmount:     total,
				ShippingAddress: fmt.Sprintf("%d Market Street, Springfield, %05d", i+1, 10000+i+1),
				ShippingStatus:  models.ShippingPending,
				OrderStatus:     models.OrderProcessing,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to seed order for %s: %w", u.Email, err)
			}
			summary.Orders++
		}
	}

	s.logger.Info("Database seeding completed",
		zap.Int("users", summary.Users),
		zap.Int("products", summary.Products),
		zap.Int("elements", summary.Elements),
		zap.Int("orders", summary.Orders))

	return summary, nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

func parseNullDecimal(field, value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func jsonList(values []string) json.RawMessage {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return raw
}

func (p ProductSeed) toModel() (*models.Product, error) {
	product := &models.Product{
		ID:               uuid.NewString(),
		Name:             p.Name,
		Description:      p.Description,
		Material:         p.Material,
		Sizes:            jsonList(p.Sizes),
		Colors:           jsonList(p.Colors),
		ProductionTime:   p.ProductionTime,
		CareInstructions: jsonList(p.CareInstructions),
		PrintType:        p.PrintType,
		PrintLocation:    p.PrintLocation,
		Style:            p.Style,
	}

	var err error
	if product.Price, err = parseDecimal("price", p.Price); err != nil {
		return nil, err
	}
	if product.BuilderPrice, err = parseDecimal("builder_price", p.BuilderPrice); err != nil {
		return nil, err
	}
	if product.SuggestedSalePrice, err = parseDecimal("suggested_sale_price", p.SuggestedSalePrice); err != nil {
		return nil, err
	}
	if product.EstimatedProfit, err = parseDecimal("estimated_profit", p.EstimatedProfit); err != nil {
		return nil, err
	}
	return product, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (e ElementSeed) toModel() (*models.Element, error) {
	element := &models.Element{
		ID:           uuid.NewString(),
		Symbol:       e.Symbol,
		Name:         e.Name,
		AtomicNumber: e.AtomicNumber,
		Group:        e.Group,
		Period:       e.Period,
		Category:     e.Category,
		Phase:        e.Phase,
		DiscoveredBy: optionalString(e.DiscoveredBy),
		Appearance:   optionalString(e.Appearance),
	}

	var err error
	if element.AtomicMass, err = parseDecimal("atomic_mass", e.AtomicMass); err != nil {
		return nil, err
	}
	if element.Density, err = parseNullDecimal("density", e.Density); err != nil {
		return nil, err
	}
	if element.MeltingPoint, err = parseNullDecimal("melting_point", e.MeltingPoint); err != nil {
		return nil, err
	}
	if element.BoilingPoint, err = parseNullDecimal("boiling_point", e.BoilingPoint); err != nil {
		return nil, err
	}
	return element, nil
}
