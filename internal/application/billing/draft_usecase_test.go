package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/domain"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

func str(s string) *string { return &s }

func num(s string) *dto.NumberText {
	n := dto.NumberText(s)
	return &n
}

// invoiceDraftReady recorre los tres pasos de la factura hasta dejarla lista para enviar.
func invoiceDraftReady(t *testing.T, f *fixture, payment string) string {
	t.Helper()
	ctx := context.Background()
	uc := f.draftUC

	d, err := uc.Start(ctx, actor, dto.StartDraftRequest{Kind: "invoice"})
	require.NoError(t, err)
	require.Len(t, d.Steps, 3)
	assert.Equal(t, "0000000001", d.Details.DocumentNumber)
	assert.Equal(t, f.company.Name, d.Seller.Name)
	assert.Equal(t, "Мария Иванова", d.Details.Author)
	assert.False(t, d.CanNext, "sin comprador no se avanza")

	d, err = uc.SelectClient(ctx, actor, d.ID, dto.DraftSelectClientRequest{ClientID: clientID})
	require.NoError(t, err)
	assert.Equal(t, "Клиент ООД", d.Buyer.Name)
	require.True(t, d.CanNext)

	d, err = uc.Next(actor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.CurrentStep)

	d, err = uc.PatchItem(actor, d.ID, 0, dto.DraftItemPatchRequest{
		Description: str("Консултация"),
		Quantity:    num("2"),
		UnitPrice:   num("50"),
	})
	require.NoError(t, err)
	assert.True(t, d.Items[0].Total.Equal(dec("100")))
	assert.True(t, d.Totals.GrandTotal.Equal(dec("120")))

	d, err = uc.Next(actor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CurrentStep)
	assert.False(t, d.CanSubmit)

	d, err = uc.PatchDetails(actor, d.ID, dto.DraftDetailsPatchRequest{
		DueDate:       str("2026-12-31"),
		PaymentMethod: str(payment),
		DealLocation:  str("София"),
	})
	require.NoError(t, err)
	require.True(t, d.CanSubmit)
	return d.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// DraftUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestDraftUseCase_FacturaCompleta(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	id := invoiceDraftReady(t, f, draft.PaymentCash)

	res, err := f.draftUC.Submit(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.NotEmpty(t, res.DocumentID)
	assert.NotNil(t, res.CreatedAt)

	inv := f.invoices.only()
	require.NotNil(t, inv)
	assert.Equal(t, res.DocumentID, inv.ID)
	assert.True(t, inv.GrandTotal.Equal(dec("120")))
	assert.Equal(t, clientID, inv.ClientID)

	_, err = f.draftUC.Get(actor, id)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la sesión se elimina al completar")
	assert.Equal(t, 0, f.store.Len())
}

func TestDraftUseCase_BancoSinIBAN_ConservaBorrador(t *testing.T) {
	f := newFixture(nil)
	f.company.BankAccount = ""
	ctx := context.Background()
	id := invoiceDraftReady(t, f, draft.PaymentBank)

	res, err := f.draftUC.Submit(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, "field_errors", res.Status)
	assert.Contains(t, res.Errors, string(draft.FieldSellerBankAccount))
	require.NotNil(t, res.Draft)
	assert.Contains(t, res.Draft.FieldErrors, string(draft.FieldSellerBankAccount))
	assert.Nil(t, f.invoices.only())

	d, err := f.draftUC.Get(actor, id)
	require.NoError(t, err)
	assert.Equal(t, 2, d.CurrentStep)
}

func TestDraftUseCase_EnvioBloqueadoSinDatos(t *testing.T) {
	f := newFixture(nil)
	d, err := f.draftUC.Start(context.Background(), actor, dto.StartDraftRequest{Kind: "invoice"})
	require.NoError(t, err)

	res, err := f.draftUC.Submit(context.Background(), actor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "blocked", res.Status)
	assert.Equal(t, 1, f.store.Len())
}

func TestDraftUseCase_EnvioConcurrente_Conflicto(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	id := invoiceDraftReady(t, f, draft.PaymentCash)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.invoices.onCreate = func() {
		close(entered)
		<-release
	}

	done := make(chan *dto.DraftSubmitResponse, 1)
	go func() {
		res, err := f.draftUC.Submit(ctx, actor, id)
		if err != nil {
			res = nil
		}
		done <- res
	}()
	<-entered

	_, err := f.draftUC.Submit(ctx, actor, id)
	assert.ErrorIs(t, err, domain.ErrConflict)

	close(release)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, "completed", first.Status)
}

func TestDraftUseCase_NoSeQuitaLaUltimaFila(t *testing.T) {
	f := newFixture(nil)
	d, err := f.draftUC.Start(context.Background(), actor, dto.StartDraftRequest{Kind: "sale"})
	require.NoError(t, err)
	require.Len(t, d.Steps, 1)

	_, err = f.draftUC.RemoveItem(actor, d.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d, err = f.draftUC.AddItem(actor, d.ID)
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	assert.True(t, d.Items[1].Quantity.Equal(dec("1")), "fila nueva con cantidad 1")

	d, err = f.draftUC.RemoveItem(actor, d.ID, 0)
	require.NoError(t, err)
	assert.Len(t, d.Items, 1)
}

func TestDraftUseCase_VentaConDescuentoYFactura(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	uc := f.draftUC

	d, err := uc.Start(ctx, actor, dto.StartDraftRequest{Kind: "sale"})
	require.NoError(t, err)
	assert.Empty(t, d.Details.DocumentNumber, "la venta se numera al guardar")

	_, err = uc.SelectClient(ctx, actor, d.ID, dto.DraftSelectClientRequest{ClientID: clientID})
	require.NoError(t, err)
	_, err = uc.PatchItem(actor, d.ID, 0, dto.DraftItemPatchRequest{
		Description: str("Лиценз"),
		UnitPrice:   num("100"),
		Discount:    num("10"),
	})
	require.NoError(t, err)
	yes := true
	d, err = uc.SetDiscount(actor, d.ID, dto.DraftDiscountRequest{Discount: num("10"), CreateInvoice: &yes})
	require.NoError(t, err)
	assert.True(t, d.Totals.GrandTotal.Equal(dec("97.2")))
	require.True(t, d.CanSubmit)

	res, err := uc.Submit(ctx, actor, d.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", res.Status)

	inv := f.invoices.only()
	require.NotNil(t, inv)
	assert.Equal(t, res.DocumentID, inv.SaleID)
	assert.True(t, inv.GrandTotal.Equal(dec("97.2")))
}

func TestDraftUseCase_DescuentoParcialConservaElOtroCampo(t *testing.T) {
	f := newFixture(nil)
	uc := f.draftUC

	d, err := uc.Start(context.Background(), actor, dto.StartDraftRequest{Kind: "sale"})
	require.NoError(t, err)
	d, err = uc.SetDiscount(actor, d.ID, dto.DraftDiscountRequest{Discount: num("15")})
	require.NoError(t, err)
	require.True(t, d.GlobalDiscount.Equal(dec("15")))
	assert.False(t, d.CreateInvoice)

	yes := true
	d, err = uc.SetDiscount(actor, d.ID, dto.DraftDiscountRequest{CreateInvoice: &yes})
	require.NoError(t, err)
	assert.True(t, d.GlobalDiscount.Equal(dec("15")), "solo create_invoice no toca el descuento")
	assert.True(t, d.CreateInvoice)

	d, err = uc.SetDiscount(actor, d.ID, dto.DraftDiscountRequest{Discount: num("")})
	require.NoError(t, err)
	assert.True(t, d.GlobalDiscount.IsZero(), "descuento vacío explícito vale 0")
	assert.True(t, d.CreateInvoice)
}

// editReadyAtLastStep abre la edición del documento y la deja en el último paso.
func editReadyAtLastStep(t *testing.T, f *fixture, kind, id string) *dto.DraftResponse {
	t.Helper()
	d, err := f.draftUC.Start(context.Background(), actor, dto.StartDraftRequest{Kind: kind, EditID: id})
	require.NoError(t, err)
	d, err = f.draftUC.GoTo(actor, d.ID, len(d.Steps)-1)
	require.NoError(t, err)
	require.True(t, d.CanSubmit)
	return d
}

func TestDraftUseCase_EdicionDeFacturaConservaTasaDeIVA(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)
	f.invoices.byID[created.ID].VATRate = dec("0.1")

	d := editReadyAtLastStep(t, f, "invoice", created.ID)
	assert.True(t, d.VATRate.Equal(dec("0.1")))
	assert.True(t, d.Totals.GrandTotal.Equal(dec("122.1")))

	res, err := f.draftUC.Submit(ctx, actor, d.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", res.Status)

	inv := f.invoices.only()
	assert.True(t, inv.VATRate.Equal(dec("0.1")))
	assert.True(t, inv.VATTotal.Equal(dec("11.1")))
	assert.True(t, inv.GrandTotal.Equal(d.Totals.GrandTotal), "lo guardado coincide con lo mostrado")
}

func TestDraftUseCase_EdicionDeVentaConservaTasaDeIVA(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.saleUC.Create(ctx, actor, saleInput(false))
	require.NoError(t, err)
	f.sales.byID[created.ID].VATRate = dec("0.1")

	d := editReadyAtLastStep(t, f, "sale", created.ID)
	res, err := f.draftUC.Submit(ctx, actor, d.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", res.Status)

	// (90 + 9) * 0.9
	sale := f.sales.byID[created.ID]
	assert.True(t, sale.VATRate.Equal(dec("0.1")))
	assert.True(t, sale.GrandTotal.Equal(dec("89.1")), "total %s", sale.GrandTotal)
	assert.Equal(t, created.Number, sale.Number)
}

func TestDraftUseCase_DocumentoBorradoAntesDeEnviar_MensajeEnBulgaro(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	d := editReadyAtLastStep(t, f, "invoice", created.ID)
	require.NoError(t, f.invoices.Delete(ctx, companyID, created.ID))

	res, err := f.draftUC.Submit(ctx, actor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "Документът вече не съществува.", res.Message)
	assert.NotContains(t, res.Message, domain.ErrNotFound.Error())
	require.NotNil(t, res.Draft, "el borrador sigue abierto")
}

func TestDraftUseCase_FacturaAnuladaAntesDeEnviar_MensajeEnBulgaro(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	created, err := f.invoiceUC.Create(ctx, actor, validInvoiceInput("0000000001"))
	require.NoError(t, err)

	d := editReadyAtLastStep(t, f, "invoice", created.ID)
	_, err = f.invoiceUC.UpdateStatus(ctx, companyID, created.ID, dto.InvoiceStatusRequest{Status: entity.InvoiceStatusCancelled})
	require.NoError(t, err)

	res, err := f.draftUC.Submit(ctx, actor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "Документът е анулиран или променен междувременно. Заредете го отново.", res.Message)
	assert.NotContains(t, res.Message, "anulada")
}

func TestDraftUseCase_CancelarElimina(t *testing.T) {
	f := newFixture(nil)
	d, err := f.draftUC.Start(context.Background(), actor, dto.StartDraftRequest{Kind: "invoice"})
	require.NoError(t, err)

	require.NoError(t, f.draftUC.Cancel(actor, d.ID))
	_, err = f.draftUC.Get(actor, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftUseCase_TipoInvalido(t *testing.T) {
	f := newFixture(nil)
	_, err := f.draftUC.Start(context.Background(), actor, dto.StartDraftRequest{Kind: "receipt"})
	assert.Contains(t, fieldErrors(t, err), "kind")
}
