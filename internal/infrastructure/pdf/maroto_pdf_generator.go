// Package pdf genera la representación imprimible de una factura del estudio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Estudio + contacto  │  N° Factura + fechas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + empresa + contacto                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Imp. | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR al portal + estado de pago                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 214, Green: 92, Blue: 54}
	colorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Issuer datos del estudio impresos en la cabecera.
type Issuer struct {
	Name      string
	Email     string
	PortalURL string // base pública del portal; vacío = sin QR
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer Issuer
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(issuer Issuer) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	inv *entity.Invoice,
	customer *entity.Customer,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+inv.Number, true).
		WithAuthor(g.issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.issuer, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.6}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(inv.Currency, items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(g.issuer, inv)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(issuer Issuer, inv *entity.Invoice) core.Row {
	issued := "-"
	if inv.IssuedAt != nil {
		issued = inv.IssuedAt.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(issuer.Email, ""), props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorAccent, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emitida: "+issued, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Vence: "+inv.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	contact := nonEmpty(c.Email, "-")
	if c.Phone != "" {
		contact += "   |   Tel: " + c.Phone
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("FACTURAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1,
			}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(strings.TrimSpace(nonEmpty(c.Company, "")+"   "+contact), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Imp.", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableItemRows(currency string, items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(currency, it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(formatRate(it.TaxRate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(currency, it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorAccent, Top: 14}

	return row.New(24).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuestos:", 7),
			text.New("TOTAL:", grand),
		),
		col.New(3).Add(
			value(formatMoney(inv.Currency, inv.Subtotal), 1),
			value(formatMoney(inv.Currency, inv.TaxTotal), 7),
			text.New(formatMoney(inv.Currency, inv.Total), grand),
		),
	)
}

// footerRows: QR que lleva a la factura en el portal y estado de pago.
func footerRows(issuer Issuer, inv *entity.Invoice) []core.Row {
	status := "Pendiente de pago"
	switch inv.Status {
	case entity.InvoiceStatusPaid:
		status = "PAGADA"
		if inv.PaidAt != nil {
			status += " el " + inv.PaidAt.Format("02/01/2006")
		}
	case entity.InvoiceStatusVoid:
		status = "ANULADA"
	}

	rows := []core.Row{
		row.New(1).Add(col.New(12).Add(line.New(props.Line{Color: colorGray, Thickness: 0.3}))),
	}
	if issuer.PortalURL == "" {
		return append(rows, row.New(10).Add(col.New(12).Add(
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 3}),
		)))
	}
	link := strings.TrimRight(issuer.PortalURL, "/") + "/portal/invoices/" + inv.ID
	return append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(link, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 11, Top: 4, Left: 3, Color: colorPrimary}),
			text.New("Consulta o paga esta factura desde tu portal:", props.Text{Size: 8, Top: 14, Left: 3, Color: colorGray}),
			text.New(link, props.Text{Size: 7, Top: 19, Left: 3, Color: colorGray}),
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "USD 1,316.53": dos decimales y separador de miles.
func formatMoney(currency string, d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf) + "." + frac
	if currency != "" {
		out = currency + " " + out
	}
	return out
}

// formatRate tasa 0..1 como porcentaje ("0.19" → "19%").
func formatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}
