package dal

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"orders-backend/internal/models"
)

func NormalizeProduct(p models.Product) models.ProductView {
	return models.ProductView{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Material:           p.Material,
		Sizes:              normalizeStringList(p.Sizes),
		Colors:             normalizeStringList(p.Colors),
		Price:              p.Price.InexactFloat64(),
		BuilderPrice:       p.BuilderPrice.InexactFloat64(),
		SuggestedSalePrice: p.SuggestedSalePrice.InexactFloat64(),
		EstimatedProfit:    p.EstimatedProfit.InexactFloat64(),
		ProductionTime:     p.ProductionTime,
		CareInstructions:   normalizeStringList(p.CareInstructions),
		PrintType:          p.PrintType,
		PrintLocation:      p.PrintLocation,
		Style:              p.Style,
		ImageURL:           p.ImageURL.String,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func NormalizeElement(e models.Element) models.ElementView {
	return models.ElementView{
		Symbol:       e.Symbol,
		Name:         e.Name,
		AtomicNumber: e.AtomicNumber,
		AtomicMass:   e.AtomicMass.InexactFloat64(),
		Group:        e.Group,
		Period:       e.Period,
		Category:     e.Category,
		Phase:        e.Phase,
		DiscoveredBy: e.DiscoveredBy,
		Appearance:   e.Appearance,
		Density:      nullFloat(e.Density),
		MeltingPoint: nullFloat(e.MeltingPoint),
		BoilingPoint: nullFloat(e.BoilingPoint),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

// normalizeStringList turns a stored JSON value into a list of strings.
// Older rows hold a JSON array, a JSON-encoded array inside a string, a
// comma separated string, or null; every shape yields a non-nil slice.
func normalizeStringList(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return out
	}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := listItem(item); ok {
				out = append(out, s)
			}
		}
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			return normalizeStringList(json.RawMessage(s))
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	default:
		if s, ok := listItem(t); ok {
			out = append(out, s)
		}
	}
	return out
}

func listItem(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}
