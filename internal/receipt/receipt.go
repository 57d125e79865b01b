// Package receipt renders a completed order into printable documents: a
// 58mm HTML layout for thermal printers and a PDF counterpart. Output is
// deterministic for a given order snapshot; the embedded timestamp is the
// order's stored transaction time, so re-rendering a receipt later still
// shows when the sale happened.
package receipt

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// RenderHTML produces a self-contained receipt document. Monetary values
// are shown as whole units, matching the thermal-printer layout.
func RenderHTML(storeName string, o OrderView) string {
	var rows strings.Builder
	for _, l := range o.Lines {
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td style='text-align:center'>%d</td><td style='text-align:right'>%.0f</td><td style='text-align:right'>%.0f</td></tr>\n",
			html.EscapeString(l.Item), l.Qty, l.UnitPrice, l.LineTotal)
	}

	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt %[2]s</title>
<style>
body {
    font-family: 'Courier New', monospace;
    width: 58mm;
    margin: 0 auto;
    font-size: 11px;
}
.table { width: 100%%; border-collapse: collapse; margin-top: 6px; }
.table th, .table td { border-bottom: 1px dashed #000; padding: 2px 0; }
.right { text-align: right; }
.center { text-align: center; }
.summary td { padding: 2px 0; }
.small { color: #000; font-size: 10px; }
</style>
</head>
<body>
<h2 class="center">%[1]s</h2>
<div class="small center">Order ID: %[2]s | %[3]s</div>
<div class="small">Cashier: %[4]s | Payment: %[5]s</div>

<table class="table">
<thead><tr><th>Item</th><th class="center">Qty</th><th class="right">Unit</th><th class="right">Total</th></tr></thead>
<tbody>
%[6]s</tbody>
</table>

<table class="summary" style="width: 100%%; margin-top: 6px;">
<tr><td class="right">Subtotal</td><td class="right">%.0[7]f</td></tr>
<tr><td class="right">Tax</td><td class="right">%.0[8]f</td></tr>
<tr><td class="right">Service</td><td class="right">%.0[9]f</td></tr>
<tr><td class="right">Discount</td><td class="right">-%.0[10]f</td></tr>
<tr><td class="right"><strong>Grand Total</strong></td><td class="right"><strong>%.0[11]f</strong></td></tr>
</table>

<p class="center small">Thank you for dining with us!</p>
</body>
</html>
`,
		html.EscapeString(storeName),
		html.EscapeString(o.OrderID),
		o.stamp().Format("2006-01-02 15:04:05"),
		html.EscapeString(o.Cashier),
		html.EscapeString(o.PaymentMethod),
		rows.String(),
		o.Subtotal, o.Tax, o.Service, o.Discount, o.Total,
	)
}

// OrderView is the snapshot a renderer needs; it decouples rendering from
// the storage model.
type OrderView struct {
	OrderID       string
	Timestamp     time.Time
	Cashier       string
	PaymentMethod string
	Subtotal      float64
	Tax           float64
	Service       float64
	Discount      float64
	Total         float64
	Lines         []LineView
}

type LineView struct {
	Item      string
	Qty       int
	UnitPrice float64
	LineTotal float64
}

// stamp prefers the stored transaction time; the wall clock is only a
// fallback for un-persisted previews.
func (o OrderView) stamp() time.Time {
	if o.Timestamp.IsZero() {
		return time.Now()
	}
	return o.Timestamp
}
