package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type (
	Invoice struct {
		Client string     `json:"client"`
		TaxID  string     `json:"tax_id"`
		Items  []LineItem `json:"items"`
	}

	LineItem struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Price       float64 `json:"price"`
	}

	// ValidationError describes an invoice field that can not be rendered.
	ValidationError struct {
		Field   string
		Message string
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnmarshalJSON accepts the field names used by the first version of the
// service (cliente, ruc, items) when the current names are absent.
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	var raw struct {
		Client  *string    `json:"client"`
		Cliente *string    `json:"cliente"`
		TaxID   *string    `json:"tax_id"`
		RUC     *string    `json:"ruc"`
		Items   []LineItem `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*inv = Invoice{
		Client: firstOf(raw.Client, raw.Cliente),
		TaxID:  firstOf(raw.TaxID, raw.RUC),
		Items:  raw.Items,
	}
	return nil
}

func (item *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description *string  `json:"description"`
		Descripcion *string  `json:"descripcion"`
		Quantity    *float64 `json:"quantity"`
		Cantidad    *float64 `json:"cantidad"`
		Price       *float64 `json:"price"`
		Precio      *float64 `json:"precio"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*item = LineItem{
		Description: firstOf(raw.Description, raw.Descripcion),
		Quantity:    firstOf(raw.Quantity, raw.Cantidad),
		Price:       firstOf(raw.Price, raw.Precio),
	}
	return nil
}

func firstOf[T any](values ...*T) T {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	var zero T
	return zero
}

// Validate checks that the invoice carries everything the renderer prints.
// An invoice without items is valid.
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.Client) == "" {
		return &ValidationError{Field: "client", Message: "is required"}
	}
	if strings.TrimSpace(inv.TaxID) == "" {
		return &ValidationError{Field: "tax_id", Message: "is required"}
	}
	for i, item := range inv.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case strings.TrimSpace(item.Description) == "":
			return &ValidationError{Field: field + ".description", Message: "is required"}
		case !finite(item.Quantity) || item.Quantity <= 0:
			return &ValidationError{Field: field + ".quantity", Message: "must be greater than zero"}
		case !finite(item.Price) || item.Price < 0:
			return &ValidationError{Field: field + ".price", Message: "must not be negative"}
		case !finite(item.Subtotal()):
			return &ValidationError{Field: field, Message: "subtotal is out of range"}
		}
	}
	if !finite(inv.Total()) {
		return &ValidationError{Field: "items", Message: "total is out of range"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (item LineItem) Subtotal() float64 {
	return item.Quantity * item.Price
}

func (inv *Invoice) Total() float64 {
	var total float64
	for _, item := range inv.Items {
		total += item.Subtotal()
	}
	return total
}
