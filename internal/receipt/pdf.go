package receipt

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// RenderPDF produces the receipt on a narrow page sized for thermal
// printers, with an order-ID QR code at the bottom for quick lookup.
func RenderPDF(storeName string, o OrderView) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 58, Ht: 200},
	})
	pdf.SetMargins(4, 6, 4)
	pdf.SetAutoPageBreak(true, 6)
	pdf.AddPage()

	pdf.SetFont("Courier", "B", 11)
	pdf.CellFormat(0, 5, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Courier", "", 7)
	pdf.CellFormat(0, 4, fmt.Sprintf("Order ID: %s", o.OrderID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, o.stamp().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 4, fmt.Sprintf("Cashier: %s | %s", o.Cashier, o.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	// Item table: name, qty, unit, total (whole units)
	pdf.SetFont("Courier", "B", 7)
	pdf.CellFormat(22, 4, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(6, 4, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(11, 4, "Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(11, 4, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Courier", "", 7)
	for _, l := range o.Lines {
		pdf.CellFormat(22, 4, l.Item, "", 0, "L", false, 0, "")
		pdf.CellFormat(6, 4, fmt.Sprintf("%d", l.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(11, 4, fmt.Sprintf("%.0f", l.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(11, 4, fmt.Sprintf("%.0f", l.LineTotal), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	summary := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", fmt.Sprintf("%.0f", o.Subtotal), false},
		{"Tax", fmt.Sprintf("%.0f", o.Tax), false},
		{"Service", fmt.Sprintf("%.0f", o.Service), false},
		{"Discount", fmt.Sprintf("-%.0f", o.Discount), false},
		{"Grand Total", fmt.Sprintf("%.0f", o.Total), true},
	}
	for _, s := range summary {
		style := ""
		if s.bold {
			style = "B"
		}
		pdf.SetFont("Courier", style, 7)
		pdf.CellFormat(28, 4, s.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(22, 4, s.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	qr, err := qrcode.Encode(o.OrderID, qrcode.Medium, 128)
	if err == nil {
		opts := gofpdf.ImageOptions{ImageType: "png"}
		pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(qr))
		x := (58 - 18) / 2.0
		pdf.ImageOptions("order-qr", x, pdf.GetY(), 18, 18, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + 19)
	}

	pdf.SetFont("Courier", "", 6)
	pdf.CellFormat(0, 4, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
