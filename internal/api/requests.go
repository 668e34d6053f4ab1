package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"shelfwise/internal/inventory"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type productInput struct {
	Name        *string  `json:"name" validate:"required"`
	Stock       *float64 `json:"stock" validate:"required,gte=0"`
	Demand      *float64 `json:"demand" validate:"required,gte=0"`
	CostStorage *float64 `json:"cost_storage" validate:"required,gte=0"`
	CostRestock *float64 `json:"cost_restock" validate:"required,gte=0"`
}

func (p productInput) item() inventory.Item {
	return inventory.Item{
		Name:        strings.TrimSpace(*p.Name),
		Stock:       *p.Stock,
		Demand:      *p.Demand,
		CostStorage: *p.CostStorage,
		CostRestock: *p.CostRestock,
	}
}

func items(in []productInput) []inventory.Item {
	out := make([]inventory.Item, 0, len(in))
	for _, p := range in {
		out = append(out, p.item())
	}
	return out
}

type recommendRequest struct {
	Products []productInput `json:"products" validate:"required,min=1,dive"`
}

type modifications struct {
	DemandMultiplier      *float64 `json:"demand_multiplier" validate:"omitempty,gte=0"`
	CostStorageMultiplier *float64 `json:"cost_storage_multiplier" validate:"omitempty,gte=0"`
	CostRestockMultiplier *float64 `json:"cost_restock_multiplier" validate:"omitempty,gte=0"`
}

type scenarioInput struct {
	Name          string        `json:"name"`
	Modifications modifications `json:"modifications"`
}

func (s scenarioInput) scenario() inventory.Scenario {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "Unnamed Scenario"
	}
	return inventory.Scenario{
		Name:                  name,
		DemandMultiplier:      orOne(s.Modifications.DemandMultiplier),
		CostStorageMultiplier: orOne(s.Modifications.CostStorageMultiplier),
		CostRestockMultiplier: orOne(s.Modifications.CostRestockMultiplier),
	}
}

// simulateRequest.Products is nil only when the key is absent, which selects
// the products of the last recommend call.
type simulateRequest struct {
	Products  *[]productInput `json:"products" validate:"omitempty,dive"`
	Scenarios []scenarioInput `json:"scenarios" validate:"required,min=1,dive"`
}

type restockRequest struct {
	Product  string    `json:"product" validate:"required"`
	Quantity *quantity `json:"quantity" validate:"required"`
}

type unlockRequest struct {
	ItemName string `json:"item_name" validate:"required"`
}

type previewRequest struct {
	DemandFactor  *float64 `json:"demand_factor" validate:"omitempty,gte=0"`
	StorageFactor *float64 `json:"storage_factor" validate:"omitempty,gte=0"`
	RestockFactor *float64 `json:"restock_factor" validate:"omitempty,gte=0"`
}

// quantity accepts a whole JSON number or a string holding one.
type quantity int

func (q *quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return fmt.Errorf("quantity must be a whole number")
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("quantity out of range")
	}
	*q = quantity(f)
	return nil
}

func orOne(v *float64) float64 {
	if v == nil {
		return 1
	}
	return *v
}

// decodeValid decodes the body into out and runs struct validation. An empty
// body is accepted when allowEmpty is set and leaves out untouched.
func decodeValid(r *http.Request, out any, allowEmpty bool) error {
	if err := decodeJSON(r, out); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("invalid json: %w", err)
		}
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, validationMessage(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validationMessage(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), strings.SplitN(e.Namespace(), ".", 2)[0]+".")
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must have at least " + e.Param() + " entries"
	case "gte":
		return field + " must be >= " + e.Param()
	default:
		return field + " is invalid"
	}
}
