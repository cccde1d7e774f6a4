// Package receipt renders committed sales as printable text.
package receipt

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"golang.org/x/text/language"
)

const timeLayout = "2006-01-02 15:04:05"

var tmpl = template.Must(template.New("receipt").Parse(`{{.Org.Name}}
{{with .Org.Location}}{{.}}
{{end}}{{with .Org.Phone}}Tel: {{.}}
{{end}}{{with .Org.Email}}Email: {{.}}
{{end}}{{with .Org.TIN}}TIN: {{.}}
{{end}}{{.Date}}
{{with .Customer}}Customer: {{.}}
{{end}}
{{range .Lines}}{{.Name}} x {{.Quantity}}
  {{.UnitPrice}} each
  Total: {{.LineTotal}}
{{end}}----------------------------------------
Total: {{.Total}}
Payment Method: {{.PaymentMethod}}

Processed by: {{.ProcessedBy}}

Thank you for your business!
`))

type view struct {
	Org           domain.Organization
	Date          string
	Customer      string
	Lines         []lineView
	Total         string
	PaymentMethod string
	ProcessedBy   string
}

type lineView struct {
	Name      string
	Quantity  int64
	UnitPrice string
	LineTotal string
}

// Render writes r with amounts formatted for tag. Empty organization
// fields are left out.
func Render(w io.Writer, r domain.Receipt, tag language.Tag) error {
	v := view{
		Org:           r.Organization,
		Date:          r.CreatedAt.Format(timeLayout),
		Customer:      r.Customer.Name,
		Total:         r.Total.Format(tag),
		PaymentMethod: strings.ToUpper(r.PaymentMethod.String()),
		ProcessedBy:   r.ProcessedBy,
	}

	for _, l := range r.Lines {
		v.Lines = append(v.Lines, lineView{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: r.LineMoney(l.UnitPrice).Format(tag),
			LineTotal: r.LineMoney(l.LineTotal()).Format(tag),
		})
	}

	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("tmpl.Execute: %w", err)
	}

	return nil
}

func String(r domain.Receipt, tag language.Tag) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, r, tag); err != nil {
		return "", err
	}
	return sb.String(), nil
}
