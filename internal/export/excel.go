// Package export serializes persisted order headers into a spreadsheet for
// download. Header rows only; line items stay in the database.
package export

import (
	"bytes"
	"fmt"

	"github.com/tealeg/xlsx"

	"pos-system/internal/pos/domain/dao"
)

// Columns is the fixed export column order.
var Columns = []string{
	"order_id", "timestamp", "cashier", "payment_method",
	"subtotal", "tax", "service", "discount", "total",
}

// ToXLSX writes one sheet named Sales with a header row followed by one row
// per order, preserving the slice order of the input.
func ToXLSX(orders []dao.Order) (*bytes.Buffer, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range Columns {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderID)
		row.AddCell().SetValue(o.Timestamp.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.Cashier)
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.Tax)
		row.AddCell().SetValue(o.Service)
		row.AddCell().SetValue(o.Discount)
		row.AddCell().SetValue(o.Total)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &buf, nil
}
