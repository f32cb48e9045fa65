package draft

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Field identificador cerrado de un campo del borrador ("seller.bankAccount", "items.2.quantity").
type Field string

const (
	FieldSellerName          Field = "seller.name"
	FieldSellerTaxID         Field = "seller.taxId"
	FieldSellerVATNumber     Field = "seller.vatNumber"
	FieldSellerContactPerson Field = "seller.contactPerson"
	FieldSellerAddress       Field = "seller.address"
	FieldSellerBankAccount   Field = "seller.bankAccount"

	FieldBuyerName          Field = "buyer.name"
	FieldBuyerTaxID         Field = "buyer.taxId"
	FieldBuyerVATNumber     Field = "buyer.vatNumber"
	FieldBuyerContactPerson Field = "buyer.contactPerson"
	FieldBuyerAddress       Field = "buyer.address"

	FieldItems Field = "items"

	FieldDocumentNumber Field = "details.documentNumber"
	FieldDocumentDate   Field = "details.documentDate"
	FieldDueDate        Field = "details.dueDate"
	FieldPaymentMethod  Field = "details.paymentMethod"
	FieldDealLocation   Field = "details.dealLocation"
	FieldAuthor         Field = "details.author"
	FieldCurrency       Field = "details.currency"

	FieldGlobalDiscount Field = "discount"
)

// ItemFieldName campo dentro de una fila.
type ItemFieldName string

const (
	ItemDescription ItemFieldName = "description"
	ItemQuantity    ItemFieldName = "quantity"
	ItemUnitPrice   ItemFieldName = "unitPrice"
	ItemDiscount    ItemFieldName = "discount"
	ItemArticleID   ItemFieldName = "articleId"
)

var knownFields = map[Field]struct{}{
	FieldSellerName:          {},
	FieldSellerTaxID:         {},
	FieldSellerVATNumber:     {},
	FieldSellerContactPerson: {},
	FieldSellerAddress:       {},
	FieldSellerBankAccount:   {},
	FieldBuyerName:           {},
	FieldBuyerTaxID:          {},
	FieldBuyerVATNumber:      {},
	FieldBuyerContactPerson:  {},
	FieldBuyerAddress:        {},
	FieldItems:               {},
	FieldDocumentNumber:      {},
	FieldDocumentDate:        {},
	FieldDueDate:             {},
	FieldPaymentMethod:       {},
	FieldDealLocation:        {},
	FieldAuthor:              {},
	FieldCurrency:            {},
	FieldGlobalDiscount:      {},
}

var knownItemFields = map[ItemFieldName]struct{}{
	ItemDescription: {},
	ItemQuantity:    {},
	ItemUnitPrice:   {},
	ItemDiscount:    {},
	ItemArticleID:   {},
}

// ItemField campo de la fila index.
func ItemField(index int, name ItemFieldName) Field {
	return Field(fmt.Sprintf("items.%d.%s", index, name))
}

// alias de claves que usa la API REST (snake_case y nombres del cliente web).
var aliases = map[string]string{
	"number":          "taxId",
	"eik":             "taxId",
	"accPerson":       "contactPerson",
	"mol":             "contactPerson",
	"price":           "unitPrice",
	"invoiceNumber":   "documentNumber",
	"invoiceDate":     "documentDate",
	"date":            "documentDate",
	"client":          "buyer",
	"discountPercent": "discount",
}

// ParseField traduce una clave remota al identificador cerrado.
// Acepta "seller.bank_account", "Request.items[2].unit_price", "client.acc_person".
func ParseField(key string) (Field, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)
	parts := strings.Split(key, ".")
	// Namespace de validator: el primer segmento es el nombre del struct.
	if len(parts) > 1 && parts[0] != "" && unicode.IsUpper(rune(parts[0][0])) {
		parts = parts[1:]
	}
	for i, p := range parts {
		p = camel(p)
		if a, ok := aliases[p]; ok {
			p = a
		}
		parts[i] = p
	}
	// Claves de detalles pueden llegar sin sección.
	if len(parts) == 1 {
		if f := Field("details." + parts[0]); isKnown(f) {
			return f, true
		}
	}
	if parts[0] == "items" && len(parts) == 3 {
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return "", false
		}
		name := ItemFieldName(parts[2])
		if _, ok := knownItemFields[name]; !ok {
			return "", false
		}
		return ItemField(idx, name), true
	}
	f := Field(strings.Join(parts, "."))
	if isKnown(f) {
		return f, true
	}
	return "", false
}

func isKnown(f Field) bool {
	_, ok := knownFields[f]
	return ok
}

// Valid indica si el campo pertenece al conjunto cerrado.
func (f Field) Valid() bool {
	parsed, ok := ParseField(string(f))
	return ok && parsed == f
}

func camel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

// FieldErrors mensajes por campo devueltos por el colaborador de persistencia.
type FieldErrors map[Field]string

// Keys campos ordenados (salida estable).
func (fe FieldErrors) Keys() []Field {
	keys := make([]Field, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ValidationError fallo remoto con mensajes por campo. El borrador se conserva.
type ValidationError struct {
	Fields FieldErrors
	// General mensajes cuya clave no corresponde a ningún campo del borrador.
	General []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.General))
	for _, k := range e.Fields.Keys() {
		parts = append(parts, string(k)+": "+e.Fields[k])
	}
	parts = append(parts, e.General...)
	return "validación: " + strings.Join(parts, "; ")
}

// NewValidationError construye el error a partir de claves remotas arbitrarias.
func NewValidationError(remote map[string]string) *ValidationError {
	ve := &ValidationError{Fields: FieldErrors{}}
	keys := make([]string, 0, len(remote))
	for k := range remote {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f, ok := ParseField(k); ok {
			ve.Fields[f] = remote[k]
			continue
		}
		ve.General = append(ve.General, remote[k])
	}
	return ve
}
