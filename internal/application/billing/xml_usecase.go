package billing

import (
	"context"
	"fmt"
)

// XMLUseCase exporta la factura en XML y mantiene al día su digest canónico.
type XMLUseCase struct {
	invoices *InvoiceUseCase
	builder  InvoiceXMLBuilder
}

// NewXMLUseCase construye el caso de uso.
func NewXMLUseCase(invoices *InvoiceUseCase, builder InvoiceXMLBuilder) *XMLUseCase {
	return &XMLUseCase{invoices: invoices, builder: builder}
}

// ExportInvoiceXML genera el XML. Si el digest guardado no coincide (factura anterior a la
// exportación o editada fuera de la API) se actualiza.
func (uc *XMLUseCase) ExportInvoiceXML(ctx context.Context, companyID, invoiceID string) (xmlBytes []byte, filename, digest string, err error) {
	doc, err := uc.invoices.Document(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err = uc.builder.Build(doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("xml: %w", err)
	}
	if digest != doc.Invoice.Digest {
		if err := uc.invoices.invoiceRepo.SetDigest(ctx, doc.Invoice.ID, digest); err != nil {
			return nil, "", "", err
		}
	}
	return xmlBytes, documentFilename(doc.Invoice, "xml"), digest, nil
}
