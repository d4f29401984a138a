package notifications

import (
	"bytes"
	"text/template"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(
	`Hello {{.CustomerName}},

Thank you for your order. We have received it and will contact you shortly.

Order number: {{.OrderNumber}}
Payment method: {{.PaymentMethod.Label}}
Phone: {{.CustomerPhone}}
Delivery address: {{.CustomerAddress}}
{{if .Notes}}Notes: {{.Notes}}
{{end}}
Items:
{{range .Items}}  {{.Quantity}} x {{.ProductName}} @ KES {{.ProductPrice.StringFixed 2}} = KES {{.Subtotal.StringFixed 2}}
{{end}}
Total: KES {{.TotalAmount.StringFixed 2}}
`))

func renderOrderConfirmation(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}
