package form

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

// Field names as the original screen labels them.
const (
	FieldProductName = "productName"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
)

// Messages shown when a numeric field holds text that is not a number.
// These come from input normalization rather than the rule set, since the
// rules only ever see parsed numbers.
const (
	MsgPriceNotNumber    = "価格は数値で入力してください"
	MsgQuantityNotNumber = "在庫数は数値で入力してください"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// quantity must be a whole number; price may carry decimals as far as
	// the rules are concerned.
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})

	return v
}

// candidate is the normalized shape the rule set evaluates. Field rules are
// independent; there are no cross-field constraints.
type candidate struct {
	ProductName string  `validate:"required,max=100"`
	Price       float64 `validate:"min=0,max=99999999"`
	Quantity    float64 `validate:"min=0,max=999999,integer"`
}

var violationMessages = map[string]map[string]string{
	FieldProductName: {
		"required": "商品名が必須です",
		"max":      "商品名は100文字以内で入力してください",
	},
	FieldPrice: {
		"min": "価格は0円以上で入力してください",
		"max": "価格は99,999,999円以内で入力してください",
	},
	FieldQuantity: {
		"min":     "在庫数は0個以上で入力してください",
		"max":     "在庫数は999,999個以内で入力してください",
		"integer": "在庫数は整数で入力してください",
	},
}

var structFieldNames = map[string]string{
	"ProductName": FieldProductName,
	"Price":       FieldPrice,
	"Quantity":    FieldQuantity,
}

// Validate evaluates candidate form values and returns a field → message
// map of violations. An empty map means the form is valid. Pure; no side
// effects.
func Validate(values models.StockFormValues) map[string]string {
	violations := make(map[string]string)

	if !values.Price.Valid {
		violations[FieldPrice] = MsgPriceNotNumber
	}
	if !values.Quantity.Valid {
		violations[FieldQuantity] = MsgQuantityNotNumber
	}

	cand := candidate{
		ProductName: strings.TrimSpace(values.ProductName),
		Price:       values.Price.Value,
		Quantity:    values.Quantity.Value,
	}

	if err := validate.Struct(cand); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				field, ok := structFieldNames[fe.StructField()]
				if !ok {
					continue
				}
				// A not-a-number violation wins over range rules on the
				// same field.
				if _, taken := violations[field]; taken {
					continue
				}
				if msg, ok := violationMessages[field][fe.Tag()]; ok {
					violations[field] = msg
				}
			}
		}
	}

	return violations
}
