package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArticleRequest body para crear o actualizar un artículo.
type ArticleRequest struct {
	Name   string          `json:"name" validate:"required,max=200"`
	Price  decimal.Decimal `json:"price" validate:"gt=0"`
	Unit   string          `json:"unit,omitempty" validate:"omitempty,max=20"`
	Status string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ArticleListResponse lista paginada de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ArticleListRequest query de GET /api/articles.
type ArticleListRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}
