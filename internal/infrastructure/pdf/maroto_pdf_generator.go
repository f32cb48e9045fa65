// Package pdf genera la representación impresa de la фактура.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  ФАКТУРА + Оригинал           │  № + Дата + Падеж            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ДОСТАВЧИК                    │  ПОЛУЧАТЕЛ                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: № | Описание | Кол. | Ед. цена | Отст. | Стойност   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Данъчна основа / ДДС / Сума за плащане            │
//	│  PAGO: Начин на плащане / IBAN / Място на сделката          │
//	│  FIRMAS: Съставил / Получил                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/fakturi-api/internal/application/billing"
	domain "github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

const fontFamily = "dejavu"

var printer = message.NewPrinter(language.Bulgarian)

var paymentLabels = map[string]string{
	"Cash": "В брой",
	"Bank": "По банков път",
}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	fonts []*entity.CustomFont
}

// NewMarotoPDFGenerator construye el generador con las fuentes base (helvetica).
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// NewMarotoPDFGeneratorWithFonts carga una fuente TTF con cirílico (regular y negrita).
func NewMarotoPDFGeneratorWithFonts(regularPath, boldPath string) (*MarotoPDFGenerator, error) {
	fonts, err := repository.New().
		AddUTF8Font(fontFamily, fontstyle.Normal, regularPath).
		AddUTF8Font(fontFamily, fontstyle.Bold, boldPath).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuentes: %w", err)
	}
	return &MarotoPDFGenerator{fonts: fonts}, nil
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura vacía")
	}
	family := "helvetica"
	b := config.NewBuilder()
	if len(g.fonts) > 0 {
		family = fontFamily
		b = b.WithCustomFonts(g.fonts)
	}
	cfg := b.
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: family, Size: 9}).
		WithTitle("Фактура "+inv.Number, true).
		WithAuthor(inv.Seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv.Seller, inv.Buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(doc.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))
	m.AddRows(line.NewRow(3))
	m.AddRows(paymentRow(inv))
	m.AddRows(line.NewRow(6))
	m.AddRows(signaturesRow(inv))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *domain.Invoice) core.Row {
	title := "ОРИГИНАЛ"
	color := colorGray
	if inv.Status == domain.InvoiceStatusCancelled {
		title = "АНУЛИРАНА"
		color = colorRed
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New("ФАКТУРА", props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Top: 11, Color: color}),
		),
		col.New(5).Add(
			text.New("№ "+inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Дата: "+inv.Date.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Падеж: "+inv.DueDate.Format("02.01.2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func partyCol(title string, p domain.Party) core.Col {
	vat := nonEmpty(p.VATNumber, "-")
	return col.New(6).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		text.New("ЕИК: "+p.TaxID+"   ЗДДС №: "+vat, props.Text{Size: 8, Top: 12, Color: colorGray}),
		text.New("Адрес: "+nonEmpty(p.Address, "-"), props.Text{Size: 8, Top: 17, Color: colorGray}),
		text.New("МОЛ: "+nonEmpty(p.ContactPerson, "-"), props.Text{Size: 8, Top: 22, Color: colorGray}),
	)
}

func partiesRow(seller, buyer domain.Party) core.Row {
	return row.New(28).Add(
		partyCol("ДОСТАВЧИК", seller),
		partyCol("ПОЛУЧАТЕЛ", buyer),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("№", 1, align.Center),
		h("Описание", 4, align.Left),
		h("Кол.", 1, align.Right),
		h("Ед. цена", 2, align.Right),
		h("Отст. %", 1, align.Right),
		h("Стойност", 3, align.Right),
	)
}

func tableItemRows(items []*domain.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Position),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatAmount(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.DiscountPercent.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(FormatAmount(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(inv *domain.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	cur := " " + inv.Currency
	vatLabel := fmt.Sprintf("ДДС %s%%:", inv.VATRate.Mul(decimal.NewFromInt(100)).String())

	return row.New(20).Add(
		col.New(5),
		col.New(4).Add(
			label("Данъчна основа:", 0),
			label(vatLabel, 6),
			text.New("Сума за плащане:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(FormatAmount(inv.Subtotal)+cur, 0),
			value(FormatAmount(inv.VATTotal)+cur, 6),
			text.New(FormatAmount(inv.GrandTotal)+cur, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
			}),
		),
	)
}

func paymentRow(inv *domain.Invoice) core.Row {
	method := nonEmpty(paymentLabels[inv.PaymentMethod], inv.PaymentMethod)
	c := col.New(12).Add(
		text.New("Начин на плащане: "+method, props.Text{Size: 8, Top: 1}),
		text.New("Място на сделката: "+nonEmpty(inv.DealLocation, "-"), props.Text{Size: 8, Top: 6}),
	)
	if inv.PaymentMethod == "Bank" {
		c.Add(text.New("IBAN: "+inv.Seller.BankAccount, props.Text{Size: 8, Top: 11}))
	}
	return row.New(16).Add(c)
}

func signaturesRow(inv *domain.Invoice) core.Row {
	return row.New(12).Add(
		col.New(6).Add(text.New("Съставил: "+inv.Author, props.Text{Size: 8, Top: 2})),
		col.New(6).Add(text.New("Получил: ........................", props.Text{Size: 8, Top: 2, Align: align.Right})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatAmount importe con 2 decimales y separadores búlgaros ("1 234,50").
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}
