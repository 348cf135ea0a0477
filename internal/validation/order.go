package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"orders-backend/internal/models"
)

// decimalPattern accepts non-negative decimals with at most two fractional
// digits. The text is checked as-is; nothing is rounded.
var decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Errors carries user-facing messages keyed by JSON field name.
type Errors struct {
	Fields map[string][]string
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsErrors unwraps err into *Errors when it is a validation failure.
func AsErrors(err error) (*Errors, bool) {
	var verr *Errors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var messages = map[string]map[string]string{
	"user_id": {
		"required": "User ID is required",
	},
	"total_amount": {
		"required": "Total amount is required",
		"decimal2": "Total amount must be a valid number with up to 2 decimal places",
	},
	"shipping_address": {
		"required": "Shipping address is required",
	},
	"shipping_status": {
		"oneof": "Shipping status must be one of: pending, shipped, delivered, returned",
	},
	"order_status": {
		"oneof": "Order status must be one of: processing, completed, cancelled",
	},
}

// OrderSchema validates order payloads before any write.
type OrderSchema struct {
	validate *validator.Validate
}

func NewOrderSchema() *OrderSchema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
		return decimalPattern.MatchString(fl.Field().String())
	})
	return &OrderSchema{validate: v}
}

// ApplyDefaults fills the enum fields the form may leave blank.
func ApplyDefaults(in *models.OrderInput) {
	if in.ShippingStatus == "" {
		in.ShippingStatus = models.ShippingPending
	}
	if in.OrderStatus == "" {
		in.OrderStatus = models.OrderProcessing
	}
}

// Validate applies defaults to in and checks it. The total amount is checked
// exactly as submitted. The returned error is always an *Errors.
func (s *OrderSchema) Validate(in *models.OrderInput) error {
	ApplyDefaults(in)
	in.UserID = strings.TrimSpace(in.UserID)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)

	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Errors{Fields: map[string][]string{"_": {err.Error()}}}
	}

	out := &Errors{Fields: make(map[string][]string)}
	for _, fe := range fieldErrs {
		field := fe.Field()
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		out.Fields[field] = append(out.Fields[field], msg)
	}
	return out
}
