// Package xmlexport genera el XML de una factura (estructura inspirada en UBL 2.1) y el
// digest SHA-256 de su forma canónica C14N.
package xmlexport

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	appbilling "github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// Namespaces UBL 2.1.
const (
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCac     = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc     = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Códigos de medio de pago (UN/ECE 4461).
const (
	paymentCodeCash = "10"
	paymentCodeBank = "31"
)

var _ appbilling.InvoiceXMLBuilder = (*Builder)(nil)

// Builder construye el XML. Solo usa datos del documento (nunca fechas de auditoría) para
// que el digest sea estable entre el alta y una exportación posterior.
type Builder struct{}

// NewBuilder crea el servicio.
func NewBuilder() *Builder { return &Builder{} }

// Build genera el XML indentado y el digest hex de su forma canónica.
func (b *Builder) Build(doc appbilling.InvoiceDocument) ([]byte, string, error) {
	inv := doc.Invoice
	if inv == nil {
		return nil, "", fmt.Errorf("xmlexport: factura vacía")
	}
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := x.CreateElement("Invoice")
	root.CreateAttr("xmlns", NsInvoice)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", "2.1")
	cbc(root, "ID", inv.Number)
	cbc(root, "IssueDate", inv.Date.Format("2006-01-02"))
	cbc(root, "DueDate", inv.DueDate.Format("2006-01-02"))
	cbc(root, "InvoiceTypeCode", "380")
	cbc(root, "DocumentCurrencyCode", inv.Currency)
	cbc(root, "LineCountNumeric", strconv.Itoa(len(doc.Items)))
	if inv.DealLocation != "" {
		cbc(root, "Note", inv.DealLocation)
	}

	writeParty(root.CreateElement("cac:AccountingSupplierParty"), inv.Seller)
	writeParty(root.CreateElement("cac:AccountingCustomerParty"), inv.Buyer)

	pm := root.CreateElement("cac:PaymentMeans")
	code := paymentCodeCash
	if inv.PaymentMethod == "Bank" {
		code = paymentCodeBank
	}
	cbc(pm, "PaymentMeansCode", code)
	cbc(pm, "PaymentDueDate", inv.DueDate.Format("2006-01-02"))
	if inv.PaymentMethod == "Bank" && inv.Seller.BankAccount != "" {
		acc := pm.CreateElement("cac:PayeeFinancialAccount")
		cbc(acc, "ID", inv.Seller.BankAccount)
	}

	tax := root.CreateElement("cac:TaxTotal")
	amount(tax, "TaxAmount", inv.VATTotal, inv.Currency)
	sub := tax.CreateElement("cac:TaxSubtotal")
	amount(sub, "TaxableAmount", inv.Subtotal, inv.Currency)
	amount(sub, "TaxAmount", inv.VATTotal, inv.Currency)
	cat := sub.CreateElement("cac:TaxCategory")
	cbc(cat, "Percent", inv.VATRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	cbc(cat.CreateElement("cac:TaxScheme"), "ID", "VAT")

	lmt := root.CreateElement("cac:LegalMonetaryTotal")
	amount(lmt, "LineExtensionAmount", inv.Subtotal, inv.Currency)
	amount(lmt, "TaxExclusiveAmount", inv.Subtotal, inv.Currency)
	amount(lmt, "TaxInclusiveAmount", inv.GrandTotal, inv.Currency)
	amount(lmt, "PayableAmount", inv.GrandTotal, inv.Currency)

	for _, it := range doc.Items {
		writeLine(root.CreateElement("cac:InvoiceLine"), it, inv.Currency)
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xmlexport: serializar: %w", err)
	}
	digest, err := Digest(out)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 (hex) del XML canonicalizado.
func Digest(xmlBytes []byte) (string, error) {
	canonical, err := Canonicalize(xmlBytes)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Canonicalize forma C14N del documento.
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("xmlexport: c14n: %w", err)
	}
	return out, nil
}

func cbc(parent *etree.Element, name, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + name)
	el.SetText(value)
	return el
}

func amount(parent *etree.Element, name string, v decimal.Decimal, currency string) {
	el := cbc(parent, name, v.StringFixed(2))
	el.CreateAttr("currencyID", currency)
}

func writeParty(parent *etree.Element, p entity.Party) {
	party := parent.CreateElement("cac:Party")
	cbc(party.CreateElement("cac:PartyIdentification"), "ID", p.TaxID)
	cbc(party.CreateElement("cac:PartyName"), "Name", p.Name)
	addr := party.CreateElement("cac:PostalAddress")
	cbc(addr, "StreetName", p.Address)
	cbc(addr.CreateElement("cac:Country"), "IdentificationCode", "BG")
	if p.VATNumber != "" {
		scheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(scheme, "CompanyID", p.VATNumber)
		cbc(scheme.CreateElement("cac:TaxScheme"), "ID", "VAT")
	}
	legal := party.CreateElement("cac:PartyLegalEntity")
	cbc(legal, "RegistrationName", p.Name)
	cbc(legal, "CompanyID", p.TaxID)
	if p.ContactPerson != "" {
		cbc(party.CreateElement("cac:Contact"), "Name", p.ContactPerson)
	}
}

func writeLine(line *etree.Element, it *entity.InvoiceItem, currency string) {
	cbc(line, "ID", strconv.Itoa(it.Position))
	q := cbc(line, "InvoicedQuantity", it.Quantity.String())
	q.CreateAttr("unitCode", "C62")
	amount(line, "LineExtensionAmount", it.Total, currency)
	if !it.DiscountPercent.IsZero() {
		ac := line.CreateElement("cac:AllowanceCharge")
		cbc(ac, "ChargeIndicator", "false")
		cbc(ac, "MultiplierFactorNumeric", it.DiscountPercent.String())
		gross := it.Quantity.Mul(it.UnitPrice)
		amount(ac, "Amount", gross.Sub(it.Total), currency)
		amount(ac, "BaseAmount", gross, currency)
	}
	item := line.CreateElement("cac:Item")
	cbc(item, "Name", it.Description)
	if it.ArticleID != "" {
		cbc(item.CreateElement("cac:SellersItemIdentification"), "ID", it.ArticleID)
	}
	price := line.CreateElement("cac:Price")
	amount(price, "PriceAmount", it.UnitPrice, currency)
}
