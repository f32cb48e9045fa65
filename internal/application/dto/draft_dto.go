package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartDraftRequest body para POST /api/drafts. Con edit_id se carga un documento guardado.
type StartDraftRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=invoice sale"`
	EditID string `json:"edit_id,omitempty" validate:"omitempty,uuid"`
}

// DraftItemPatchRequest body para PATCH /api/drafts/:id/items/:index.
type DraftItemPatchRequest struct {
	ArticleID   *string     `json:"article_id,omitempty"`
	Description *string     `json:"description,omitempty"`
	Quantity    *NumberText `json:"quantity,omitempty"`
	UnitPrice   *NumberText `json:"unit_price,omitempty"`
	Discount    *NumberText `json:"discount,omitempty"`
}

// DraftPartyPatchRequest body para PATCH /api/drafts/:id/parties/:role.
type DraftPartyPatchRequest struct {
	Name          *string `json:"name,omitempty"`
	TaxID         *string `json:"tax_id,omitempty"`
	VATNumber     *string `json:"vat_number,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Address       *string `json:"address,omitempty"`
	BankAccount   *string `json:"bank_account,omitempty"`
}

// DraftDetailsPatchRequest body para PATCH /api/drafts/:id/details.
type DraftDetailsPatchRequest struct {
	DocumentNumber *string `json:"document_number,omitempty"`
	DocumentDate   *string `json:"document_date,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	PaymentMethod  *string `json:"payment_method,omitempty"`
	DealLocation   *string `json:"deal_location,omitempty"`
	Author         *string `json:"author,omitempty"`
	Currency       *string `json:"currency,omitempty"`
}

// DraftSelectArticleRequest body para PUT /api/drafts/:id/items/:index/article.
type DraftSelectArticleRequest struct {
	ArticleID string `json:"article_id" validate:"required,uuid"`
}

// DraftSelectClientRequest body para PUT /api/drafts/:id/client.
type DraftSelectClientRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
}

// DraftDiscountRequest body para PUT /api/drafts/:id/discount. Los campos ausentes no cambian.
type DraftDiscountRequest struct {
	Discount      *NumberText `json:"discount,omitempty"`
	CreateInvoice *bool       `json:"create_invoice,omitempty"`
}

// DraftItemResponse fila del borrador.
type DraftItemResponse struct {
	Index           int             `json:"index"`
	ArticleID       string          `json:"article_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
}

// DraftDetailsResponse datos adicionales del borrador.
type DraftDetailsResponse struct {
	DocumentNumber string `json:"document_number"`
	DocumentDate   string `json:"document_date"`
	DueDate        string `json:"due_date"`
	PaymentMethod  string `json:"payment_method"`
	DealLocation   string `json:"deal_location"`
	Author         string `json:"author"`
	Currency       string `json:"currency"`
}

// DraftStepResponse estado de un paso del asistente.
type DraftStepResponse struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Valid   bool   `json:"valid"`
	Current bool   `json:"current"`
}

// DraftResponse borrador con totales y estado del asistente, recalculados en cada respuesta.
type DraftResponse struct {
	ID             string               `json:"id"`
	Kind           string               `json:"kind"`
	EditingID      string               `json:"editing_id,omitempty"`
	Seller         PartyResponse        `json:"seller"`
	Buyer          PartyResponse        `json:"buyer"`
	Items          []DraftItemResponse  `json:"items"`
	GlobalDiscount decimal.Decimal      `json:"discount"`
	VATRate        decimal.Decimal      `json:"vat_rate"`
	Details        DraftDetailsResponse `json:"details"`
	CreateInvoice  bool                 `json:"create_invoice"`
	Totals         TotalsResponse       `json:"totals"`
	CurrentStep    int                  `json:"current_step"`
	Steps          []DraftStepResponse  `json:"steps"`
	CanNext        bool                 `json:"can_next"`
	CanSubmit      bool                 `json:"can_submit"`
	FieldErrors    map[string]string    `json:"field_errors,omitempty"`
	ExpiresAt      time.Time            `json:"expires_at"`
}

// DraftSubmitResponse resultado de POST /api/drafts/:id/submit.
type DraftSubmitResponse struct {
	Status     string              `json:"status"` // completed, blocked, field_errors, failed
	DocumentID string              `json:"document_id,omitempty"`
	CreatedAt  *time.Time          `json:"created_at,omitempty"`
	Message    string              `json:"message,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Draft      *DraftResponse      `json:"draft,omitempty"`
}
