package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/infrastructure/pdf"
)

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	doc := appbilling.InvoiceDocument{
		Invoice: &entity.Invoice{
			Number: "0000000001", Date: date, DueDate: date,
			PaymentMethod: "Bank", Currency: "BGN",
			Seller:     entity.Party{Name: "Seller Ltd", TaxID: "123456789", BankAccount: "BG80BNBG96611020345678"},
			Buyer:      entity.Party{Name: "Buyer Ltd", TaxID: "987654321"},
			VATRate:    decimal.RequireFromString("0.2"),
			Subtotal:   decimal.NewFromInt(100),
			VATTotal:   decimal.NewFromInt(20),
			GrandTotal: decimal.NewFromInt(120),
		},
		Items: []*entity.InvoiceItem{{
			Position: 1, Description: "Service",
			Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100),
		}},
	}
	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinFactura(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{})
	assert.Error(t, err)
}

func TestFormatAmount_DosDecimalesConComa(t *testing.T) {
	assert.Contains(t, pdf.FormatAmount(decimal.RequireFromString("12.5")), "12,50")
	assert.Contains(t, pdf.FormatAmount(decimal.RequireFromString("0.005")), "0,01")
}
