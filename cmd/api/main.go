package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/fakturi-api/internal/application/analytics"
	"github.com/jhoicas/fakturi-api/internal/application/auth"
	"github.com/jhoicas/fakturi-api/internal/application/billing"
	"github.com/jhoicas/fakturi-api/internal/application/ports"
	"github.com/jhoicas/fakturi-api/internal/application/usecase"
	"github.com/jhoicas/fakturi-api/internal/application/validation"
	infracache "github.com/jhoicas/fakturi-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/fakturi-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fakturi-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fakturi-api/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/fakturi-api/internal/interfaces/http"
	"github.com/jhoicas/fakturi-api/pkg/config"
	"github.com/jhoicas/fakturi-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin REDIS_ADDR o sin conexión se sirve directo de la DB.
	var cache ports.Cache = ports.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := infracache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché desactivada")
		} else {
			defer rdb.Close()
			cache = infracache.NewRedisCache(rdb, cfg.Redis.TTL, log)
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	articleRepo := postgres.NewArticleRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	v := validation.New()

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, v, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	profileUC := usecase.NewProfileUseCase(userRepo, companyRepo, v)
	clientUC := usecase.NewClientUseCase(clientRepo, cache, v)
	articleUC := usecase.NewArticleUseCase(articleRepo, cache, v)

	xmlBuilder := xmlexport.NewBuilder()
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo, xmlBuilder, cache, v, billing.Config{
		VATRate:  cfg.Billing.VATRate,
		Currency: cfg.Billing.Currency,
	})
	saleUC := billing.NewSaleUseCase(txRunner, saleRepo, clientRepo, companyRepo, invoiceUC, cache, v)

	// PDF: con fuentes TTF configuradas el cirílico se incrusta; si fallan, helvetica.
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	if cfg.PDF.FontRegular != "" && cfg.PDF.FontBold != "" {
		withFonts, err := infrapdf.NewMarotoPDFGeneratorWithFonts(cfg.PDF.FontRegular, cfg.PDF.FontBold)
		if err != nil {
			log.Warn().Err(err).Msg("fuentes PDF no cargadas")
		} else {
			pdfGenerator = withFonts
		}
	}
	invoicePDFUC := billing.NewPDFUseCase(invoiceUC, pdfGenerator)
	invoiceXMLUC := billing.NewXMLUseCase(invoiceUC, xmlBuilder)

	store := billing.NewSessionStore(cfg.Billing.DraftTTL)
	go store.Run(ctx, time.Minute)
	draftUC := billing.NewDraftUseCase(store, authUC, articleRepo, clientRepo, invoiceUC, saleUC, v, log)

	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo, clientRepo, articleRepo, cache)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.AccessLog(log))
	app.Use(helmet.New())
	app.Use(cors.New())
	// login y registro: límite por IP
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Fakturi API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := postgres.Ping(c.UserContext(), pool); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		ClientUC:    clientUC,
		ArticleUC:   articleUC,
		InvoiceUC:   invoiceUC,
		InvoicePDF:  invoicePDFUC,
		InvoiceXML:  invoiceXMLUC,
		SaleUC:      saleUC,
		DraftUC:     draftUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
