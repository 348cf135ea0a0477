package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a row of the products table as stored. List columns are kept
// as raw JSON because older rows hold heterogeneous values; the DAL shapes
// them into a ProductView.
type Product struct {
	ID                 string
	Name               string
	Description        string
	Material           string
	Sizes              json.RawMessage
	Colors             json.RawMessage
	Price              decimal.Decimal
	BuilderPrice       decimal.Decimal
	SuggestedSalePrice decimal.Decimal
	EstimatedProfit    decimal.Decimal
	ProductionTime     string
	CareInstructions   json.RawMessage
	PrintType          string
	PrintLocation      string
	Style              string
	ImageURL           sql.NullString
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProductView is the normalized product returned to callers: numbers for
// decimal columns and arrays for list columns.
type ProductView struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Material           string    `json:"material"`
	Sizes              []string  `json:"sizes"`
	Colors             []string  `json:"colors"`
	Price              float64   `json:"price"`
	BuilderPrice       float64   `json:"builder_price"`
	SuggestedSalePrice float64   `json:"suggested_sale_price"`
	EstimatedProfit    float64   `json:"estimated_profit"`
	ProductionTime     string    `json:"production_time"`
	CareInstructions   []string  `json:"care_instructions"`
	PrintType          string    `json:"print_type"`
	PrintLocation      string    `json:"print_location"`
	Style              string    `json:"style"`
	ImageURL           string    `json:"image_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Sizes accepted by the order_size enum.
var ProductSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
