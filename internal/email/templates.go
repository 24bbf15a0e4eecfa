package email

import "text/template"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`Hi {{.ClientName}},

Your appointment is booked.

Service: {{.ServiceName}}
Professional: {{.ProfessionalName}}
Date: {{.Date}}
Time: {{.Time}}

See you soon!
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(
	`Hi {{.ClientName}},

This is a reminder of your appointment tomorrow.

Service: {{.ServiceName}}
Professional: {{.ProfessionalName}}
Date: {{.Date}}
Time: {{.Time}}

If you cannot make it, please let us know so we can free the slot.
`))

var reactivationTemplate = template.Must(template.New("reactivation").Parse(
	`Hi {{.ClientName}},

It has been {{.Days}} days since your last visit and we would love to
see you again. Book your next appointment whenever it suits you.
`))

var lowStockTemplate = template.Must(template.New("low_stock").Parse(
	`Low stock report for {{.Date}}:
{{range .Products}}
- {{.Name}} ({{.Brand}}): {{.StockQuantity}} {{.Unit}} left, minimum {{.MinStockLevel}}{{end}}

Restock these products soon.
`))

var upkeepTemplate = template.Must(template.New("upkeep").Parse(
	`Upkeep task due: {{.Title}}

{{if .Description}}{{.Description}}

{{end}}Priority: {{.Priority}}
Scheduled for: {{.NextRun.Format "02/01/2006"}}
`))
