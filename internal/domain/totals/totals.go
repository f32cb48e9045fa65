// Package totals calcula los importes de las líneas y del documento (subtotal, ДДС y total).
//
// Fórmulas:
//
//	total línea = cantidad * precio unitario * (1 - descuento/100)
//	subtotal    = Σ total línea
//	ДДС         = subtotal * tasa
//	factura     = subtotal + ДДС
//	venta       = (subtotal + ДДС) * (1 - descuento global/100)
//
// No se acotan los valores: cantidades negativas o descuentos >100% se propagan tal cual.
package totals

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind variante del documento; cada una tiene su propia fórmula de total.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice"
	KindSale    DocumentKind = "sale"
)

// Valid indica si el tipo es conocido.
func (k DocumentKind) Valid() bool {
	return k == KindInvoice || k == KindSale
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// DefaultVATRate ДДС 20%.
var DefaultVATRate = decimal.NewFromFloat(0.2)

// Totals importes derivados del documento.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	VAT        decimal.Decimal `json:"vat"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Rounded redondea los tres importes a places decimales (presentación).
func (t Totals) Rounded(places int32) Totals {
	return Totals{
		Subtotal:   t.Subtotal.Round(places),
		VAT:        t.VAT.Round(places),
		GrandTotal: t.GrandTotal.Round(places),
	}
}

// Equal compara importes ignorando la escala interna de decimal.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) && t.VAT.Equal(o.VAT) && t.GrandTotal.Equal(o.GrandTotal)
}

// leadingNumber prefijo numérico más largo: signo, mantisa y exponente opcional.
var leadingNumber = regexp.MustCompile(`^([+-]?)(\d*)(?:\.(\d*))?(?:[eE]([+-]?\d+))?`)

// ParseLenient lee el prefijo numérico del texto ("3 бр" = 3, "10%" = 10, "1.5.2" = 1.5);
// sin dígitos al inicio vale 0. La coma no es separador decimal: "12,5" = 12.
func ParseLenient(s string) decimal.Decimal {
	m := leadingNumber.FindStringSubmatch(strings.TrimLeft(s, " \t\r\n\v\f\u00a0"))
	if m == nil || (m[2] == "" && m[3] == "") {
		return decimal.Zero
	}
	num := m[2]
	if num == "" {
		num = "0"
	}
	if m[3] != "" {
		num += "." + m[3]
	}
	if m[4] != "" {
		num += "e" + m[4]
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero
	}
	if m[1] == "-" {
		d = d.Neg()
	}
	return d
}

// ComputeItemTotal total de una línea: q * p * (1 - d/100).
func ComputeItemTotal(quantity, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Mul(one.Sub(discountPercent.Div(hundred)))
}

// ComputeItemTotalText igual que ComputeItemTotal pero a partir de texto del formulario.
func ComputeItemTotalText(quantity, unitPrice, discountPercent string) decimal.Decimal {
	return ComputeItemTotal(ParseLenient(quantity), ParseLenient(unitPrice), ParseLenient(discountPercent))
}

// Subtotal suma los totales de línea ya calculados.
func Subtotal(lineTotals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range lineTotals {
		sum = sum.Add(t)
	}
	return sum
}

// InvoiceTotals variante factura: sin descuento global.
func InvoiceTotals(lineTotals []decimal.Decimal, vatRate decimal.Decimal) Totals {
	subtotal := Subtotal(lineTotals)
	vat := subtotal.Mul(vatRate)
	return Totals{
		Subtotal:   subtotal,
		VAT:        vat,
		GrandTotal: subtotal.Add(vat),
	}
}

// SaleTotals variante venta: el descuento global se aplica sobre subtotal + ДДС.
func SaleTotals(lineTotals []decimal.Decimal, vatRate, globalDiscountPercent decimal.Decimal) Totals {
	subtotal := Subtotal(lineTotals)
	vat := subtotal.Mul(vatRate)
	return Totals{
		Subtotal:   subtotal,
		VAT:        vat,
		GrandTotal: subtotal.Add(vat).Mul(one.Sub(globalDiscountPercent.Div(hundred))),
	}
}

// RecomputeDocumentTotals despacha a la variante del tipo de documento.
// Un tipo desconocido se trata como factura.
func RecomputeDocumentTotals(kind DocumentKind, lineTotals []decimal.Decimal, vatRate, globalDiscountPercent decimal.Decimal) Totals {
	if kind == KindSale {
		return SaleTotals(lineTotals, vatRate, globalDiscountPercent)
	}
	return InvoiceTotals(lineTotals, vatRate)
}
