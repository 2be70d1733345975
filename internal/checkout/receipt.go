package checkout

import (
	htmltemplate "html/template"
	"io"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"kitchen/internal/models"
)

// ReceiptItem is one line on a receipt.
type ReceiptItem struct {
	Name      string
	Quantity  int
	UnitPrice int64
	Total     int64
	Options   []string
}

// Receipt holds everything printed on a receipt. Text and HTML renderings
// are produced from the same values.
type Receipt struct {
	OrderNumber   string
	Date          string
	Items         []ReceiptItem
	Summary       models.OrderSummary
	PaymentMethod string
	TransactionID string
	DeliveryTo    string
	DeliveryTime  string
}

// BuildReceipt assembles a receipt from a confirmation.
func BuildReceipt(c Confirmation, loc *time.Location) Receipt {
	if loc == nil {
		loc = time.UTC
	}
	r := Receipt{
		OrderNumber:   c.Payment.TransactionID,
		Date:          c.Payment.Timestamp.In(loc).Format("Mon, Jan 2, 2006, 15:04"),
		Summary:       c.Summary,
		PaymentMethod: strings.ToUpper(c.Payment.Method),
		TransactionID: c.Payment.TransactionID,
	}
	if r.OrderNumber == "" {
		r.OrderNumber = c.OrderID
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = "CARD"
	}
	if c.Delivery != nil {
		r.DeliveryTo = c.Delivery.Address.Address
		r.DeliveryTime = DeliveryTimeLabel(*c.Delivery)
	}
	for _, l := range c.Lines {
		r.Items = append(r.Items, ReceiptItem{
			Name:      l.FoodItem.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice(),
			Total:     l.TotalPrice,
			Options:   LineOptions(l),
		})
	}
	return r
}

// LineOptions names the protein and sides chosen on a line.
func LineOptions(l models.CartLine) []string {
	var opts []string
	if p, ok := l.FoodItem.Protein(l.SelectedProtein); ok {
		opts = append(opts, p.Name)
	}
	for _, id := range l.SelectedSides {
		if s, ok := l.FoodItem.Side(id); ok {
			opts = append(opts, s.Name)
		}
	}
	return opts
}

// FormatNaira renders an amount with thousands separators, e.g. ₦12,500.
func FormatNaira(amount int64) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "₦" + b.String()
}

var receiptFuncs = map[string]any{
	"naira": FormatNaira,
	"join":  strings.Join,
}

const receiptText = `================================
      CHUKS KITCHEN
   Authentic Nigerian Cuisine
================================

RECEIPT
--------------------------------
Order #: {{.OrderNumber}}
Date: {{.Date}}
Status: PAID

--------------------------------
ITEMS:
--------------------------------
{{range .Items}}{{.Name}}
Qty: {{.Quantity}} x {{naira .UnitPrice}} = {{naira .Total}}
{{if .Options}}Options: {{join .Options ", "}}
{{end}}
{{end}}--------------------------------
PAYMENT SUMMARY:
--------------------------------
Subtotal:        {{naira .Summary.Subtotal}}
{{if .Summary.Discount}}Discount:       -{{naira .Summary.Discount}}
{{end}}Delivery Fee:    {{naira .Summary.DeliveryFee}}
Service Fee:     {{naira .Summary.ServiceFee}}
Tax:             {{naira .Summary.Tax}}
--------------------------------
TOTAL:           {{naira .Summary.Total}}
--------------------------------

Payment Method: {{.PaymentMethod}}
Transaction ID: {{.TransactionID}}
{{if .DeliveryTo}}Deliver to: {{.DeliveryTo}}
Delivery time: {{.DeliveryTime}}
{{end}}
Thank you for choosing Chuks Kitchen!
For support: support@chukkitchen.com
================================
`

const receiptHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Receipt {{.OrderNumber}}</title></head>
<body>
<h1>Chuks Kitchen</h1>
<p>Order #: {{.OrderNumber}}<br>Date: {{.Date}}<br>Status: PAID</p>
<table>
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
{{range .Items}}<tr><td>{{.Name}}{{if .Options}}<br><small>{{join .Options ", "}}</small>{{end}}</td><td>{{.Quantity}}</td><td>{{naira .UnitPrice}}</td><td>{{naira .Total}}</td></tr>
{{end}}</table>
<table>
<tr><td>Subtotal</td><td>{{naira .Summary.Subtotal}}</td></tr>
{{if .Summary.Discount}}<tr><td>Discount</td><td>-{{naira .Summary.Discount}}</td></tr>
{{end}}<tr><td>Delivery Fee</td><td>{{naira .Summary.DeliveryFee}}</td></tr>
<tr><td>Service Fee</td><td>{{naira .Summary.ServiceFee}}</td></tr>
<tr><td>Tax</td><td>{{naira .Summary.Tax}}</td></tr>
<tr><th>Total</th><th>{{naira .Summary.Total}}</th></tr>
</table>
<p>Payment Method: {{.PaymentMethod}}<br>Transaction ID: {{.TransactionID}}</p>
</body>
</html>
`

var (
	textReceipt = texttemplate.Must(texttemplate.New("receipt.txt").Funcs(receiptFuncs).Parse(receiptText))
	htmlReceipt = htmltemplate.Must(htmltemplate.New("receipt.html").Funcs(receiptFuncs).Parse(receiptHTML))
)

// RenderText writes the plain-text receipt.
func RenderText(w io.Writer, r Receipt) error {
	return textReceipt.Execute(w, r)
}

// RenderHTML writes the printable HTML receipt.
func RenderHTML(w io.Writer, r Receipt) error {
	return htmlReceipt.Execute(w, r)
}
