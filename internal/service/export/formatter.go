package export

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

const timestampLayout = "2006/01/02 15:04"

// Header returns the CSV column headers in display order.
func Header() []string {
	return []string{"ID", "商品名", "価格", "在庫数", "作成日時", "更新日時"}
}

var pricePrinter = message.NewPrinter(language.Japanese)

// Rows flattens one loaded page of records into CSV cells. Absent optional
// fields render as empty strings, never as a null placeholder.
func Rows(records []models.StockRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			r.Name,
			formatPrice(r.Price),
			formatQuantity(r.Quantity),
			formatTimestamp(r.CreatedAt),
			formatTimestamp(r.UpdatedAt),
		})
	}
	return rows
}

// formatPrice renders a price as thousands-grouped yen, e.g. "1,234円".
func formatPrice(price *int64) string {
	if price == nil {
		return ""
	}
	return pricePrinter.Sprintf("%d円", *price)
}

func formatQuantity(quantity *int64) string {
	if quantity == nil {
		return ""
	}
	return strconv.FormatInt(*quantity, 10)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}
