package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/fakturi-api/internal/application/analytics"
	"github.com/jhoicas/fakturi-api/internal/application/auth"
	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/application/usecase"
	"github.com/jhoicas/fakturi-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProfileUC   *usecase.ProfileUseCase
	ClientUC    *usecase.ClientUseCase
	ArticleUC   *usecase.ArticleUseCase
	InvoiceUC   *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	InvoiceXML  *billing.XMLUseCase
	SaleUC      *billing.SaleUseCase
	DraftUC     *billing.DraftUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register/check", authHandler.CheckUserData)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	ownerOnly := RequireRole(entity.RoleOwner)
	bookkeeping := RequireRole(entity.RoleOwner, entity.RoleAccountant)

	protected.Get("/user", authHandler.Me)

	profile := NewProfileHandler(deps.ProfileUC)
	protected.Put("/profile/personal", profile.UpdatePersonal)
	protected.Put("/profile/password", profile.ChangePassword)
	protected.Put("/profile/company", ownerOnly, profile.UpdateCompany)

	clients := NewClientHandler(deps.ClientUC)
	protected.Get("/clients", clients.List)
	protected.Post("/clients", clients.Create)
	protected.Get("/clients/:id", clients.Get)
	protected.Put("/clients/:id", clients.Update)
	protected.Delete("/clients/:id", bookkeeping, clients.Delete)

	articles := NewArticleHandler(deps.ArticleUC)
	protected.Get("/articles", articles.List)
	protected.Post("/articles", articles.Create)
	protected.Get("/articles/:id", articles.Get)
	protected.Put("/articles/:id", articles.Update)
	protected.Delete("/articles/:id", bookkeeping, articles.Delete)

	invoices := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF, deps.InvoiceXML)
	protected.Get("/invoices", invoices.List)
	protected.Post("/invoices", invoices.Create)
	protected.Get("/invoices/:id", invoices.GetByID)
	protected.Put("/invoices/:id", invoices.Update)
	protected.Delete("/invoices/:id", ownerOnly, invoices.Delete)
	protected.Put("/invoices/:id/status", bookkeeping, invoices.UpdateStatus)
	protected.Get("/invoices/:id/pdf", invoices.DownloadPDF)
	protected.Get("/invoices/:id/xml", invoices.ExportXML)

	sales := NewSaleHandler(deps.SaleUC)
	protected.Get("/sales", sales.List)
	protected.Post("/sales", sales.Create)
	protected.Get("/sales/:id", sales.GetByID)
	protected.Delete("/sales/:id", ownerOnly, sales.Delete)

	drafts := NewDraftHandler(deps.DraftUC)
	protected.Post("/drafts", drafts.Start)
	protected.Get("/drafts/:id", drafts.Get)
	protected.Delete("/drafts/:id", drafts.Cancel)
	protected.Post("/drafts/:id/items", drafts.AddItem)
	protected.Delete("/drafts/:id/items/:index", drafts.RemoveItem)
	protected.Patch("/drafts/:id/items/:index", drafts.PatchItem)
	protected.Put("/drafts/:id/items/:index/article", drafts.SelectArticle)
	protected.Patch("/drafts/:id/parties/:role", drafts.PatchParty)
	protected.Put("/drafts/:id/client", drafts.SelectClient)
	protected.Patch("/drafts/:id/details", drafts.PatchDetails)
	protected.Put("/drafts/:id/discount", drafts.SetDiscount)
	protected.Post("/drafts/:id/next", drafts.Next)
	protected.Post("/drafts/:id/back", drafts.Back)
	protected.Post("/drafts/:id/steps/:index", drafts.GoTo)
	protected.Post("/drafts/:id/submit", drafts.Submit)

	dashboard := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboard.GetSummary)
}
