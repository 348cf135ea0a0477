package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Element is a row of the elements reference table.
type Element struct {
	ID           string
	Symbol       string
	Name         string
	AtomicNumber int
	AtomicMass   decimal.Decimal
	Group        int
	Period       int
	Category     string
	Phase        string
	DiscoveredBy *string
	Appearance   *string
	Density      decimal.NullDecimal
	MeltingPoint decimal.NullDecimal
	BoilingPoint decimal.NullDecimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ElementView struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	AtomicNumber int       `json:"atomic_number"`
	AtomicMass   float64   `json:"atomic_mass"`
	Group        int       `json:"group"`
	Period       int       `json:"period"`
	Category     string    `json:"category"`
	Phase        string    `json:"phase"`
	DiscoveredBy *string   `json:"discovered_by,omitempty"`
	Appearance   *string   `json:"appearance,omitempty"`
	Density      *float64  `json:"density,omitempty"`
	MeltingPoint *float64  `json:"melting_point,omitempty"`
	BoilingPoint *float64  `json:"boiling_point,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
