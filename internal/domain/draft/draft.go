// Package draft contiene el borrador en memoria de una factura o venta y sus reductores.
// Un Draft pertenece a una sola sesión de asistente; ninguna operación es concurrente.
package draft

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fakturi-api/internal/domain/totals"
)

// Métodos de pago aceptados por el formulario.
const (
	PaymentCash = "Cash"
	PaymentBank = "Bank"
)

// Role identifica la parte del documento (доставчик / клиент).
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Valid indica si el rol es conocido.
func (r Role) Valid() bool { return r == RoleSeller || r == RoleBuyer }

// LineItem una fila del documento. Total es derivado.
type LineItem struct {
	ArticleID       string          `json:"article_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

func (it *LineItem) recompute() {
	it.Total = totals.ComputeItemTotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
}

// Party comprador o vendedor.
type Party struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"` // ЕИК
	VATNumber     string `json:"vat_number,omitempty"`
	ContactPerson string `json:"contact_person"` // МОЛ
	Address       string `json:"address"`
	BankAccount   string `json:"bank_account,omitempty"` // IBAN, solo vendedor con pago Bank
}

// Details datos adicionales del documento.
type Details struct {
	DocumentNumber string `json:"document_number"`
	DocumentDate   string `json:"document_date"`
	DueDate        string `json:"due_date"`
	PaymentMethod  string `json:"payment_method"`
	DealLocation   string `json:"deal_location"`
	Author         string `json:"author"`
	Currency       string `json:"currency"`
}

// Draft documento en composición.
type Draft struct {
	Kind                  totals.DocumentKind
	ClientID              string // cliente del catálogo elegido como comprador
	Seller                Party
	Buyer                 Party
	Items                 []LineItem
	GlobalDiscountPercent decimal.Decimal
	VATRate               decimal.Decimal
	Details               Details
	CreateInvoice         bool   // venta: emitir también la factura
	EditingID             string // documento persistido que se edita; vacío en altas
	Totals                totals.Totals
}

// blankItem fila nueva: cantidad 1, precio y descuento en cero.
func blankItem() LineItem {
	return LineItem{Quantity: decimal.NewFromInt(1)}
}

// New crea un borrador con una fila vacía.
func New(kind totals.DocumentKind, vatRate decimal.Decimal) *Draft {
	d := &Draft{
		Kind:    kind,
		VATRate: vatRate,
		Items:   []LineItem{blankItem()},
	}
	d.Recompute()
	return d
}

// Recompute recalcula cada línea y los totales del documento.
func (d *Draft) Recompute() {
	lineTotals := make([]decimal.Decimal, len(d.Items))
	for i := range d.Items {
		d.Items[i].recompute()
		lineTotals[i] = d.Items[i].Total
	}
	d.Totals = totals.RecomputeDocumentTotals(d.Kind, lineTotals, d.VATRate, d.GlobalDiscountPercent)
}

// AddItem agrega una fila vacía al final.
func (d *Draft) AddItem() {
	d.Items = append(d.Items, blankItem())
	d.Recompute()
}

// RemoveItem elimina la fila index. Nunca deja la lista vacía.
func (d *Draft) RemoveItem(index int) bool {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.Recompute()
	return true
}

// ItemPatch campos opcionales de una fila. Los numéricos llegan como texto del formulario.
type ItemPatch struct {
	ArticleID       *string
	Description     *string
	Quantity        *string
	UnitPrice       *string
	DiscountPercent *string
}

// PatchItem combina los campos en la fila index y recalcula.
func (d *Draft) PatchItem(index int, p ItemPatch) bool {
	if index < 0 || index >= len(d.Items) {
		return false
	}
	it := &d.Items[index]
	if p.ArticleID != nil {
		it.ArticleID = *p.ArticleID
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Quantity != nil {
		it.Quantity = totals.ParseLenient(*p.Quantity)
	}
	if p.UnitPrice != nil {
		it.UnitPrice = totals.ParseLenient(*p.UnitPrice)
	}
	if p.DiscountPercent != nil {
		it.DiscountPercent = totals.ParseLenient(*p.DiscountPercent)
	}
	d.Recompute()
	return true
}

// ArticleRef resultado del autocompletado de artículos.
type ArticleRef struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// SelectArticle precarga descripción y precio desde un artículo.
func (d *Draft) SelectArticle(index int, a ArticleRef) bool {
	if index < 0 || index >= len(d.Items) {
		return false
	}
	it := &d.Items[index]
	it.ArticleID = a.ID
	it.Description = a.Name
	it.UnitPrice = a.Price
	d.Recompute()
	return true
}

// SetGlobalDiscount descuento global (solo afecta al total de la venta).
func (d *Draft) SetGlobalDiscount(text string) {
	d.GlobalDiscountPercent = totals.ParseLenient(text)
	d.Recompute()
}

// PartyPatch campos opcionales de una parte.
type PartyPatch struct {
	Name          *string
	TaxID         *string
	VATNumber     *string
	ContactPerson *string
	Address       *string
	BankAccount   *string
}

// PatchParty combina campos en el vendedor o el comprador. No recalcula totales.
func (d *Draft) PatchParty(role Role, p PartyPatch) bool {
	var target *Party
	switch role {
	case RoleSeller:
		target = &d.Seller
	case RoleBuyer:
		target = &d.Buyer
	default:
		return false
	}
	set(&target.Name, p.Name)
	set(&target.TaxID, p.TaxID)
	set(&target.VATNumber, p.VATNumber)
	set(&target.ContactPerson, p.ContactPerson)
	set(&target.Address, p.Address)
	set(&target.BankAccount, p.BankAccount)
	return true
}

// SelectClient reemplaza al comprador con los datos de un cliente existente.
func (d *Draft) SelectClient(clientID string, p Party) {
	d.ClientID = clientID
	d.Buyer = Party{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
	}
}

// DetailsPatch campos opcionales de los datos adicionales.
type DetailsPatch struct {
	DocumentNumber *string
	DocumentDate   *string
	DueDate        *string
	PaymentMethod  *string
	DealLocation   *string
	Author         *string
	Currency       *string
}

// PatchDetails combina los datos adicionales. No recalcula totales.
func (d *Draft) PatchDetails(p DetailsPatch) {
	set(&d.Details.DocumentNumber, p.DocumentNumber)
	set(&d.Details.DocumentDate, p.DocumentDate)
	set(&d.Details.DueDate, p.DueDate)
	set(&d.Details.PaymentMethod, p.PaymentMethod)
	set(&d.Details.DealLocation, p.DealLocation)
	set(&d.Details.Author, p.Author)
	set(&d.Details.Currency, p.Currency)
}

// IsBankTransfer el vendedor debe informar cuenta bancaria.
func (d *Draft) IsBankTransfer() bool {
	return strings.EqualFold(strings.TrimSpace(d.Details.PaymentMethod), PaymentBank)
}

// Clone copia profunda para entregar a colaboradores externos.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Items = make([]LineItem, len(d.Items))
	copy(c.Items, d.Items)
	return &c
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
