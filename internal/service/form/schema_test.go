package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

func validValues() models.StockFormValues {
	return models.StockFormValues{
		ProductName: "Widget",
		Price:       models.Numeric(500),
		Quantity:    models.Numeric(3),
	}
}

func TestValidateAccepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.StockFormValues)
	}{
		{name: "typical values", mutate: func(v *models.StockFormValues) {}},
		{name: "zero price and quantity", mutate: func(v *models.StockFormValues) {
			v.Price = models.Numeric(0)
			v.Quantity = models.Numeric(0)
		}},
		{name: "price at upper bound", mutate: func(v *models.StockFormValues) {
			v.Price = models.Numeric(99999999)
		}},
		{name: "quantity at upper bound", mutate: func(v *models.StockFormValues) {
			v.Quantity = models.Numeric(999999)
		}},
		{name: "name at max length", mutate: func(v *models.StockFormValues) {
			v.ProductName = strings.Repeat("あ", 100)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			tt.mutate(&values)
			assert.Empty(t, Validate(values))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.StockFormValues)
		field   string
		message string
	}{
		{
			name:    "empty name",
			mutate:  func(v *models.StockFormValues) { v.ProductName = "" },
			field:   FieldProductName,
			message: "商品名が必須です",
		},
		{
			name:    "whitespace only name",
			mutate:  func(v *models.StockFormValues) { v.ProductName = "   " },
			field:   FieldProductName,
			message: "商品名が必須です",
		},
		{
			name:    "name over 100 chars",
			mutate:  func(v *models.StockFormValues) { v.ProductName = strings.Repeat("あ", 101) },
			field:   FieldProductName,
			message: "商品名は100文字以内で入力してください",
		},
		{
			name:    "negative price",
			mutate:  func(v *models.StockFormValues) { v.Price = models.Numeric(-1) },
			field:   FieldPrice,
			message: "価格は0円以上で入力してください",
		},
		{
			name:    "price over bound",
			mutate:  func(v *models.StockFormValues) { v.Price = models.Numeric(100000000) },
			field:   FieldPrice,
			message: "価格は99,999,999円以内で入力してください",
		},
		{
			name:    "price not a number",
			mutate:  func(v *models.StockFormValues) { v.Price = models.NormalizeNumeric("abc") },
			field:   FieldPrice,
			message: MsgPriceNotNumber,
		},
		{
			name:    "negative quantity",
			mutate:  func(v *models.StockFormValues) { v.Quantity = models.Numeric(-1) },
			field:   FieldQuantity,
			message: "在庫数は0個以上で入力してください",
		},
		{
			name:    "quantity over bound",
			mutate:  func(v *models.StockFormValues) { v.Quantity = models.Numeric(1000000) },
			field:   FieldQuantity,
			message: "在庫数は999,999個以内で入力してください",
		},
		{
			name:    "non-integral quantity",
			mutate:  func(v *models.StockFormValues) { v.Quantity = models.Numeric(1.5) },
			field:   FieldQuantity,
			message: "在庫数は整数で入力してください",
		},
		{
			name:    "quantity not a number",
			mutate:  func(v *models.StockFormValues) { v.Quantity = models.NormalizeNumeric("三") },
			field:   FieldQuantity,
			message: MsgQuantityNotNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validValues()
			tt.mutate(&values)

			violations := Validate(values)
			require.Contains(t, violations, tt.field)
			assert.Equal(t, tt.message, violations[tt.field])
		})
	}
}

func TestValidateIndependentFields(t *testing.T) {
	violations := Validate(models.StockFormValues{
		ProductName: "",
		Price:       models.Numeric(-1),
		Quantity:    models.Numeric(1.5),
	})

	assert.Len(t, violations, 3)
}
