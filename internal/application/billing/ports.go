package billing

import (
	"context"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturas y ventas.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// InvoiceDocument factura con todo lo necesario para representarla.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceXMLBuilder genera el XML de la factura y el digest de su forma canónica.
type InvoiceXMLBuilder interface {
	Build(doc InvoiceDocument) (xml []byte, digest string, err error)
}
