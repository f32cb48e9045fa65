package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fakturi-api/internal/application/dto"
	"github.com/jhoicas/fakturi-api/internal/domain/draft"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
	"github.com/jhoicas/fakturi-api/internal/domain/totals"
)

const dateLayout = "2006-01-02"

// Actor usuario y empresa que ejecutan la operación (claims del token).
type Actor struct {
	CompanyID string
	UserID    string
}

func trimParty(p dto.PartyInput) dto.PartyInput {
	p.Name = strings.TrimSpace(p.Name)
	p.TaxID = strings.TrimSpace(p.TaxID)
	p.VATNumber = strings.TrimSpace(p.VATNumber)
	p.ContactPerson = strings.TrimSpace(p.ContactPerson)
	p.Address = strings.TrimSpace(p.Address)
	p.BankAccount = strings.ReplaceAll(strings.TrimSpace(p.BankAccount), " ", "")
	return p
}

func trimItems(items []dto.DocumentItemInput) []dto.DocumentItemInput {
	out := make([]dto.DocumentItemInput, len(items))
	for i, it := range items {
		it.Description = strings.TrimSpace(it.Description)
		it.ArticleID = strings.TrimSpace(it.ArticleID)
		out[i] = it
	}
	return out
}

func partyFromInput(p dto.PartyInput) entity.Party {
	return entity.Party{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
		BankAccount:   p.BankAccount,
	}
}

// buildItems líneas con total recalculado; el total recibido nunca se usa.
func buildItems(documentID string, in []dto.DocumentItemInput) ([]*entity.InvoiceItem, []decimal.Decimal) {
	items := make([]*entity.InvoiceItem, 0, len(in))
	lineTotals := make([]decimal.Decimal, 0, len(in))
	for i, it := range in {
		total := totals.ComputeItemTotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
		items = append(items, &entity.InvoiceItem{
			ID:              uuid.New().String(),
			DocumentID:      documentID,
			Position:        i + 1,
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           total,
		})
		lineTotals = append(lineTotals, total)
	}
	return items, lineTotals
}

func parseDate(s string, def time.Time) time.Time {
	if s == "" {
		return def
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return def
	}
	return t
}

func partyInput(p draft.Party) dto.PartyInput {
	return dto.PartyInput{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
		BankAccount:   p.BankAccount,
	}
}

func itemInputs(items []draft.LineItem) []dto.DocumentItemInput {
	out := make([]dto.DocumentItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, dto.DocumentItemInput{
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		})
	}
	return out
}

// InvoiceInputFromDraft forma en que se envía un borrador de factura.
func InvoiceInputFromDraft(d *draft.Draft) dto.InvoiceInput {
	return dto.InvoiceInput{
		ClientID: d.ClientID,
		Seller:   partyInput(d.Seller),
		Buyer:    partyInput(d.Buyer),
		Items:    itemInputs(d.Items),
		Details: dto.DetailsInput{
			DocumentNumber: d.Details.DocumentNumber,
			DocumentDate:   d.Details.DocumentDate,
			DueDate:        d.Details.DueDate,
			PaymentMethod:  d.Details.PaymentMethod,
			DealLocation:   d.Details.DealLocation,
			Author:         d.Details.Author,
			Currency:       d.Details.Currency,
		},
	}
}

// SaleInputFromDraft forma en que se envía un borrador de venta.
func SaleInputFromDraft(d *draft.Draft) dto.SaleInput {
	return dto.SaleInput{
		ClientID:              d.ClientID,
		Buyer:                 partyInput(d.Buyer),
		Items:                 itemInputs(d.Items),
		GlobalDiscountPercent: d.GlobalDiscountPercent,
		Date:                  d.Details.DocumentDate,
		Author:                d.Details.Author,
		PaymentMethod:         d.Details.PaymentMethod,
		CreateInvoice:         d.CreateInvoice,
	}
}

func draftParty(p entity.Party) draft.Party {
	return draft.Party{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
		BankAccount:   p.BankAccount,
	}
}

func draftItems(items []*entity.InvoiceItem) []draft.LineItem {
	out := make([]draft.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, draft.LineItem{
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total,
		})
	}
	return out
}

func toPartyResponse(p entity.Party) dto.PartyResponse {
	return dto.PartyResponse{
		Name:          p.Name,
		TaxID:         p.TaxID,
		VATNumber:     p.VATNumber,
		ContactPerson: p.ContactPerson,
		Address:       p.Address,
		BankAccount:   p.BankAccount,
	}
}

func toItemResponses(items []*entity.InvoiceItem) []dto.DocumentItemResponse {
	out := make([]dto.DocumentItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.DocumentItemResponse{
			ID:              it.ID,
			Position:        it.Position,
			ArticleID:       it.ArticleID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total.Round(2),
		})
	}
	return out
}

func totalsResponse(subtotal, vat, grand decimal.Decimal) dto.TotalsResponse {
	t := totals.Totals{Subtotal: subtotal, VAT: vat, GrandTotal: grand}.Rounded(2)
	return dto.TotalsResponse{Subtotal: t.Subtotal, VAT: t.VAT, GrandTotal: t.GrandTotal}
}
