package draft_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
)

func str(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Ciclo de vida ───────────────────────────────────────────────────────────

func TestNew_UnaFilaVacia(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)

	require.Len(t, d.Items, 1)
	assert.True(t, d.Items[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, d.Items[0].UnitPrice.IsZero())
	assert.True(t, d.Totals.GrandTotal.IsZero())
}

func TestRemoveItem_NuncaQuedaVacio(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)

	assert.False(t, d.RemoveItem(0), "la última fila no se elimina")
	assert.Len(t, d.Items, 1)

	d.AddItem()
	d.AddItem()
	assert.False(t, d.RemoveItem(5), "índice fuera de rango")
	assert.True(t, d.RemoveItem(1))
	assert.Len(t, d.Items, 2)
}

func TestRemoveItem_RecalculaTotales(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	d.PatchItem(0, draft.ItemPatch{Quantity: str("1"), UnitPrice: str("100")})
	d.AddItem()
	d.PatchItem(1, draft.ItemPatch{Quantity: str("2"), UnitPrice: str("50")})
	assert.True(t, dec("240").Equal(d.Totals.GrandTotal))

	require.True(t, d.RemoveItem(0))
	assert.True(t, dec("100").Equal(d.Totals.Subtotal))
	assert.True(t, dec("120").Equal(d.Totals.GrandTotal))
}

// ─── Edición de filas ────────────────────────────────────────────────────────

func TestPatchItem_RecalculaLineaYDocumento(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)

	ok := d.PatchItem(0, draft.ItemPatch{
		Description:     str("Консултация"),
		Quantity:        str("3"),
		UnitPrice:       str("100"),
		DiscountPercent: str("10"),
	})

	require.True(t, ok)
	assert.Equal(t, "Консултация", d.Items[0].Description)
	assert.True(t, dec("270").Equal(d.Items[0].Total))
	assert.True(t, dec("270").Equal(d.Totals.Subtotal))
	assert.True(t, dec("54").Equal(d.Totals.VAT))
	assert.True(t, dec("324").Equal(d.Totals.GrandTotal))
}

func TestPatchItem_TextoNoNumericoEsCero(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	d.PatchItem(0, draft.ItemPatch{Quantity: str("3"), UnitPrice: str("100")})

	d.PatchItem(0, draft.ItemPatch{Quantity: str("tres")})

	assert.True(t, d.Items[0].Quantity.IsZero())
	assert.True(t, d.Items[0].Total.IsZero())
	assert.True(t, d.Items[0].UnitPrice.Equal(dec("100")), "los campos no enviados se conservan")
}

func TestPatchItem_IndiceInvalido(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	assert.False(t, d.PatchItem(3, draft.ItemPatch{Quantity: str("1")}))
	assert.False(t, d.PatchItem(-1, draft.ItemPatch{Quantity: str("1")}))
}

func TestSelectArticle_PrecargaDescripcionYPrecio(t *testing.T) {
	d := draft.New(totals.KindSale, totals.DefaultVATRate)
	d.PatchItem(0, draft.ItemPatch{Quantity: str("2")})

	ok := d.SelectArticle(0, draft.ArticleRef{ID: "a-1", Name: "Хостинг", Price: dec("15.50")})

	require.True(t, ok)
	assert.Equal(t, "a-1", d.Items[0].ArticleID)
	assert.Equal(t, "Хостинг", d.Items[0].Description)
	assert.True(t, dec("31").Equal(d.Items[0].Total))
}

// ─── Descuento global ────────────────────────────────────────────────────────

func TestSetGlobalDiscount_SoloAfectaVenta(t *testing.T) {
	sale := draft.New(totals.KindSale, totals.DefaultVATRate)
	sale.PatchItem(0, draft.ItemPatch{Quantity: str("1"), UnitPrice: str("100")})
	sale.SetGlobalDiscount("10")

	inv := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	inv.PatchItem(0, draft.ItemPatch{Quantity: str("1"), UnitPrice: str("100")})
	inv.SetGlobalDiscount("10")

	assert.True(t, dec("108").Equal(sale.Totals.GrandTotal))
	assert.True(t, dec("120").Equal(inv.Totals.GrandTotal))
}

func TestSetGlobalDiscount_Invalido(t *testing.T) {
	d := draft.New(totals.KindSale, totals.DefaultVATRate)
	d.SetGlobalDiscount("mucho")
	assert.True(t, d.GlobalDiscountPercent.IsZero())
}

// ─── Partes y detalles ───────────────────────────────────────────────────────

func TestPatchParty_CombinaSinTocarTotales(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	d.PatchItem(0, draft.ItemPatch{Quantity: str("1"), UnitPrice: str("10")})
	before := d.Totals

	require.True(t, d.PatchParty(draft.RoleSeller, draft.PartyPatch{Name: str("Фирма ООД"), TaxID: str("123456789")}))
	require.True(t, d.PatchParty(draft.RoleSeller, draft.PartyPatch{Address: str("София")}))

	assert.Equal(t, "Фирма ООД", d.Seller.Name)
	assert.Equal(t, "123456789", d.Seller.TaxID)
	assert.Equal(t, "София", d.Seller.Address)
	assert.True(t, before.Equal(d.Totals))
	assert.False(t, d.PatchParty(draft.Role("other"), draft.PartyPatch{}))
}

func TestSelectClient_ReemplazaComprador(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	d.PatchParty(draft.RoleBuyer, draft.PartyPatch{Name: str("Стар"), VATNumber: str("BG1")})

	d.SelectClient("c-1", draft.Party{Name: "Нов", TaxID: "987654321", ContactPerson: "Иван", Address: "Пловдив"})

	assert.Equal(t, "Нов", d.Buyer.Name)
	assert.Equal(t, "c-1", d.ClientID)
	assert.Empty(t, d.Buyer.VATNumber, "el comprador se reemplaza completo")
}

func TestPatchDetails_YBanco(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	d.PatchDetails(draft.DetailsPatch{DocumentNumber: str("0000000001"), PaymentMethod: str("Bank")})

	assert.Equal(t, "0000000001", d.Details.DocumentNumber)
	assert.True(t, d.IsBankTransfer())

	d.PatchDetails(draft.DetailsPatch{PaymentMethod: str(draft.PaymentCash)})
	assert.False(t, d.IsBankTransfer())
	assert.Equal(t, "0000000001", d.Details.DocumentNumber)
}

func TestClone_Independiente(t *testing.T) {
	d := draft.New(totals.KindInvoice, totals.DefaultVATRate)
	c := d.Clone()
	c.Items[0].Description = "cambiado"
	c.AddItem()

	assert.Empty(t, d.Items[0].Description)
	assert.Len(t, d.Items, 1)
}

func TestReductores_DeterministasPorSecuencia(t *testing.T) {
	apply := func() *draft.Draft {
		d := draft.New(totals.KindSale, totals.DefaultVATRate)
		d.PatchItem(0, draft.ItemPatch{Quantity: str("3"), UnitPrice: str("100"), DiscountPercent: str("10")})
		d.AddItem()
		d.PatchItem(1, draft.ItemPatch{Quantity: str("1"), UnitPrice: str("50")})
		d.SetGlobalDiscount("10")
		return d
	}
	a, b := apply(), apply()

	assert.True(t, a.Totals.Equal(b.Totals))
	assert.True(t, dec("345.6").Equal(a.Totals.GrandTotal))
}
