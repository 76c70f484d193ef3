package funcs

import (
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TemplateFuncs are shared by the email templates.
var TemplateFuncs = template.FuncMap{
	"formatDate":   formatDate,
	"formatMoney":  formatMoney,
	"formatAmount": formatAmount,
	"titleCase":    titleCase,
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// formatMoney renders an NPR amount with thousands separators, e.g.
// "NPR 12,500.00".
func formatMoney(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	f, _ := amount.Float64()
	return p.Sprintf("NPR %.2f", f)
}

func formatAmount(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	f, _ := amount.Float64()
	return p.Sprintf("%.2f", f)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
