package crm

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/salesdesk/internal/apperr"
	"github.com/starford/salesdesk/internal/models"
)

// ClientFields is the input for creating a client.
type ClientFields struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// ProductFields is the input for creating a product.
type ProductFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// ProductSelection picks the product to attach to a rep: an existing one by
// id, or a new one built from Fields.
type ProductSelection struct {
	ExistingID string        `json:"existingId,omitempty"`
	Fields     ProductFields `json:"fields"`
}

type field struct {
	name  string
	value string
	rules []validation.Rule
}

var unitRule = validation.In(string(models.UnitCase), string(models.UnitPack)).
	Error("must be one of: case, pk")

// checkFields validates fields in order and reports the first failure.
func checkFields(fields ...field) error {
	for _, f := range fields {
		rules := append([]validation.Rule{validation.Required}, f.rules...)
		if err := validation.Validate(f.value, rules...); err != nil {
			return &apperr.ValidationError{Field: f.name, Reason: err.Error()}
		}
	}
	return nil
}

// normalize trims every field.
func (f ClientFields) normalize() ClientFields {
	return ClientFields{
		Name:    strings.TrimSpace(f.Name),
		Address: strings.TrimSpace(f.Address),
		Phone:   strings.TrimSpace(f.Phone),
		Email:   strings.TrimSpace(f.Email),
	}
}

// Validate reports the first missing field.
func (f ClientFields) Validate() error {
	n := f.normalize()
	return checkFields(
		field{name: "name", value: n.Name},
		field{name: "address", value: n.Address},
		field{name: "phone", value: n.Phone},
		field{name: "email", value: n.Email},
	)
}

// normalize trims every field and lower-cases the unit.
func (f ProductFields) normalize() ProductFields {
	u, _ := models.ParseUnit(f.Unit)
	return ProductFields{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Unit:        string(u),
	}
}

// Validate reports the first missing field, or an unknown unit.
func (f ProductFields) Validate() error {
	n := f.normalize()
	return checkFields(
		field{name: "name", value: n.Name},
		field{name: "description", value: n.Description},
		field{name: "unit", value: n.Unit, rules: []validation.Rule{unitRule}},
	)
}
