package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// PDFUseCase genera la representación impresa de una factura guardada.
type PDFUseCase struct {
	invoices  *InvoiceUseCase
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoices *InvoiceUseCase, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, generator: generator}
}

// DownloadInvoicePDF carga la factura con sus líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o es de otra empresa.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.invoices.Document(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, documentFilename(doc.Invoice, "pdf"), nil
}

// documentFilename "faktura_0000000001.pdf"; las anuladas llevan sufijo.
func documentFilename(inv *entity.Invoice, ext string) string {
	name := "faktura_" + inv.Number
	if inv.Status == entity.InvoiceStatusCancelled {
		name += "_anulirana"
	}
	return name + "." + ext
}
