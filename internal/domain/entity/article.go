package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Article.
const (
	ArticleStatusActive   = "active"
	ArticleStatusInactive = "inactive"
)

// Article representa un artículo o servicio del catálogo. Price es el precio unitario sin ДДС.
type Article struct {
	ID        string
	CompanyID string
	Name      string
	Price     decimal.Decimal
	Unit      string // бр., час, кг...
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active indica si el artículo puede elegirse en un documento nuevo.
func (a *Article) Active() bool { return a.Status == ArticleStatusActive }
