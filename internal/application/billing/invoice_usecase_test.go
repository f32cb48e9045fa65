package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/infrastructure/xmlexport"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validInvoiceInput(number string) dto.InvoiceInput {
	return dto.InvoiceInput{
		ClientID: clientID,
		Seller: dto.PartyInput{
			Name: "Фактури ЕООД", TaxID: "987654321", ContactPerson: "Мария Иванова",
			Address: "София, бул. Витоша 10", BankAccount: "BG80 BNBG 9661 1020 3456 78",
		},
		Buyer: dto.PartyInput{
			Name: "Клиент ООД", TaxID: "123456789", ContactPerson: "Иван Петров",
			Address: "Пловдив, ул. Главна 5",
		},
		Items: []dto.DocumentItemInput{
			{Description: "Консултация", Quantity: dec("2"), UnitPrice: dec("10.50")},
			{Description: "Лиценз", Quantity: dec("1"), UnitPrice: dec("100"), DiscountPercent: dec("10")},
		},
		Details: dto.DetailsInput{
			DocumentNumber: number,
			DocumentDate:   "2026-03-01",
			DueDate:        "2026-03-15",
			PaymentMethod:  "Bank",
			DealLocation:   "София",
			Author:         "Мария Иванова",
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *validation.Error
	require.True(t, errors.As(err, &ve), "se esperaba *validation.Error, llegó %v", err)
	return ve.Fields
}

// ──────────────────────────────────────────────────────────────────────────────
// InvoiceUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceUseCase_Create_RecalculaTotales(t *testing.T) {
	f := newFixture(nil)
	out, err := f.invoiceUC.Create(context.Background(), actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	// 2*10.50 + 100*0.9 = 111; ДДС 20% = 22.20
	assert.True(t, out.Totals.Subtotal.Equal(dec("111")))
	assert.True(t, out.Totals.VAT.Equal(dec("22.2")))
	assert.True(t, out.Totals.GrandTotal.Equal(dec("133.2")))
	assert.Equal(t, "BGN", out.Currency)
	assert.Equal(t, entity.InvoiceStatusIssued, out.Status)
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[1].Total.Equal(dec("90")))
	// el IBAN se guarda sin espacios
	assert.Equal(t, "BG80BNBG96611020345678", out.Seller.BankAccount)
}

func TestInvoiceUseCase_PagoPorBancoSinIBAN_ErrorEnCampo(t *testing.T) {
	f := newFixture(nil)
	in := validInvoiceInput("0000000001")
	in.Seller.BankAccount = ""

	_, err := f.invoiceUC.Create(context.Background(), actor, in)

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "seller.bank_account")
	assert.Nil(t, f.invoices.only(), "no se guarda nada")
}

func TestInvoiceUseCase_PagoEnEfectivoNoExigeIBAN(t *testing.T) {
	f := newFixture(nil)
	in := validInvoiceInput("0000000001")
	in.Seller.BankAccount = ""
	in.Details.PaymentMethod = "Cash"

	_, err := f.invoiceUC.Create(context.Background(), actor, in)
	assert.NoError(t, err)
}

func TestInvoiceUseCase_NumeroDuplicado_ErrorEnCampo(t *testing.T) {
	f := newFixture(nil)
	_, err := f.invoiceUC.Create(context.Background(), actor, validInvoiceInput("0000000007"))
	require.NoError(t, err)

	_, err = f.invoiceUC.Create(context.Background(), actor, validInvoiceInput("0000000007"))
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "details.document_number")
}

func TestInvoiceUseCase_ClienteDeOtraEmpresa_ErrorEnCampo(t *testing.T) {
	f := newFixture(nil)
	in := validInvoiceInput("0000000001")
	in.ClientID = "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c999"

	_, err := f.invoiceUC.Create(context.Background(), actor, in)
	assert.Contains(t, fieldErrors(t, err), "client_id")
}

func TestInvoiceUseCase_LineasInvalidas(t *testing.T) {
	f := newFixture(nil)
	in := validInvoiceInput("0000000001")
	in.Items[0].Quantity = decimal.Zero
	in.Items[1].Description = ""

	_, err := f.invoiceUC.Create(context.Background(), actor, in)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "items[0].quantity")
	assert.Contains(t, fields, "items[1].description")
}

func TestInvoiceUseCase_Create_GuardaDigest(t *testing.T) {
	f := newFixture(xmlexport.NewBuilder())
	out, err := f.invoiceUC.Create(context.Background(), actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	assert.Len(t, out.Digest, 64)
	assert.Equal(t, out.Digest, f.invoices.only().Digest)
}

func TestInvoiceUseCase_Update_ConservaEstadoYFechaDeAlta(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)
	_, err = f.invoiceUC.UpdateStatus(ctx, companyID, created.ID, dto.InvoiceStatusRequest{Status: entity.InvoiceStatusPaid})
	require.NoError(t, err)

	in := validInvoiceInput("0000000001")
	in.Items = in.Items[:1]
	updated, err := f.invoiceUC.Update(ctx, actor, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, entity.InvoiceStatusPaid, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.Totals.Subtotal.Equal(dec("21")))
}

func TestInvoiceUseCase_Update_ConservaTasaDeIVAConLaQueSeEmitio(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)
	// emitida cuando la tasa vigente era 10%
	f.invoices.byID[created.ID].VATRate = dec("0.1")

	updated, err := f.invoiceUC.Update(ctx, actor, created.ID, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	assert.True(t, updated.VATRate.Equal(dec("0.1")), "tasa %s", updated.VATRate)
	assert.True(t, updated.Totals.VAT.Equal(dec("11.1")))
	assert.True(t, updated.Totals.GrandTotal.Equal(dec("122.1")))
	assert.True(t, f.invoices.only().VATRate.Equal(dec("0.1")))
}

func TestInvoiceUseCase_Update_Inexistente(t *testing.T) {
	f := newFixture(nil)
	_, err := f.invoiceUC.Update(context.Background(), actor, "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c998", validInvoiceInput("0000000001"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_AnuladaNoVuelveAEmitirse(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)
	_, err = f.invoiceUC.UpdateStatus(ctx, companyID, created.ID, dto.InvoiceStatusRequest{Status: entity.InvoiceStatusCancelled})
	require.NoError(t, err)

	_, err = f.invoiceUC.UpdateStatus(ctx, companyID, created.ID, dto.InvoiceStatusRequest{Status: entity.InvoiceStatusIssued})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoiceUseCase_Get_OtraEmpresa(t *testing.T) {
	f := newFixture(nil)
	created, err := f.invoiceUC.Create(context.Background(), actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	_, err = f.invoiceUC.Get(context.Background(), "6f1c1a52-8a57-4f8e-9d7a-3c1f34f2c111", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_VATRatePorDefecto(t *testing.T) {
	f := newFixture(nil)
	assert.True(t, f.invoiceUC.VATRate().Equal(dec("0.2")))
	assert.Equal(t, "BGN", f.invoiceUC.Currency())
}

// ──────────────────────────────────────────────────────────────────────────────
// SaleUseCase
// ──────────────────────────────────────────────────────────────────────────────

func saleInput(createInvoice bool) dto.SaleInput {
	return dto.SaleInput{
		ClientID: clientID,
		Buyer: dto.PartyInput{
			Name: "Клиент ООД", TaxID: "123456789", ContactPerson: "Иван Петров",
			Address: "Пловдив, ул. Главна 5",
		},
		Items: []dto.DocumentItemInput{
			{Description: "Лиценз", Quantity: dec("1"), UnitPrice: dec("100"), DiscountPercent: dec("10")},
		},
		GlobalDiscountPercent: dec("10"),
		Date:                  "2026-03-01",
		Author:                "Мария Иванова",
		CreateInvoice:         createInvoice,
	}
}

func TestSaleUseCase_Create_DescuentoGlobalSobreTotal(t *testing.T) {
	f := newFixture(nil)
	out, err := f.saleUC.Create(context.Background(), actor, saleInput(false))
	require.NoError(t, err)

	// (90 + 18) * 0.9
	assert.True(t, out.Totals.GrandTotal.Equal(dec("97.2")))
	assert.Equal(t, "0000000001", out.Number)
	assert.Equal(t, "Cash", out.PaymentMethod)
	assert.Empty(t, out.InvoiceID)
	assert.Nil(t, f.invoices.only())
}

func TestSaleUseCase_CreateInvoice_EmiteFacturaConMismoTotal(t *testing.T) {
	f := newFixture(xmlexport.NewBuilder())
	out, err := f.saleUC.Create(context.Background(), actor, saleInput(true))
	require.NoError(t, err)
	require.NotEmpty(t, out.InvoiceID)

	inv := f.invoices.only()
	require.NotNil(t, inv)
	assert.Equal(t, out.InvoiceID, inv.ID)
	assert.Equal(t, out.ID, inv.SaleID)
	assert.True(t, inv.GrandTotal.Equal(dec("97.2")), "total factura %s", inv.GrandTotal)
	assert.Equal(t, f.company.Name, inv.Seller.Name)
	assert.Equal(t, f.company.Address, inv.DealLocation)
	assert.NotEmpty(t, inv.Digest)

	items := f.invoices.items[inv.ID]
	require.Len(t, items, 1)
	assert.True(t, items[0].DiscountPercent.Equal(dec("19")))
}

func TestSaleUseCase_DescuentoGlobalFueraDeRango(t *testing.T) {
	f := newFixture(nil)
	in := saleInput(false)
	in.GlobalDiscountPercent = dec("120")

	_, err := f.saleUC.Create(context.Background(), actor, in)
	assert.Contains(t, fieldErrors(t, err), "discount")
}

func TestCombinedDiscount(t *testing.T) {
	cases := []struct{ line, global, want string }{
		{"10", "0", "10"},
		{"0", "10", "10"},
		{"10", "10", "19"},
		{"50", "50", "75"},
	}
	for _, tc := range cases {
		got := billing.CombinedDiscount(dec(tc.line), dec(tc.global))
		assert.True(t, got.Equal(dec(tc.want)), "%s+%s = %s", tc.line, tc.global, got)
	}
}
