package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/studio-portal/internal/application/access"
	appanalytics "github.com/jhoicas/studio-portal/internal/application/analytics"
	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/application/contract"
	"github.com/jhoicas/studio-portal/internal/application/lead"
	"github.com/jhoicas/studio-portal/internal/application/usecase"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
	"github.com/jhoicas/studio-portal/internal/infrastructure/cache"
	"github.com/jhoicas/studio-portal/internal/infrastructure/payments"
	infrapdf "github.com/jhoicas/studio-portal/internal/infrastructure/pdf"
	"github.com/jhoicas/studio-portal/internal/infrastructure/postgres"
	"github.com/jhoicas/studio-portal/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/studio-portal/internal/interfaces/http"
	"github.com/jhoicas/studio-portal/pkg/config"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	meetingRepo := postgres.NewMeetingRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	blobs, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de almacenamiento")
	}
	bucketCtx, cancelBucket := context.WithTimeout(ctx, 10*time.Second)
	if err := blobs.EnsureBucket(bucketCtx); err != nil {
		log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket de almacenamiento")
	}
	cancelBucket()

	// Redis es opcional: sin REDIS_ADDR el guard consulta PostgreSQL directamente.
	var leadChecker repository.LeadExistenceChecker = leadRepo
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; guard sin caché")
		} else {
			defer rdb.Close()
			ttl := time.Duration(cfg.Redis.LeadTTLSec) * time.Second
			leadChecker = cache.NewLeadExistsCache(rdb, leadRepo, ttl, log)
		}
	}

	authUC := auth.NewAuthUseCase(userRepo, customerRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	leadUC := lead.NewUseCase(leadRepo, txRunner)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	contractUC := contract.NewLifecycleUseCase(txRunner, contractRepo, customerRepo, blobs, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Issuer{
		Name:      cfg.App.Name,
		Email:     cfg.App.ContactEmail,
		PortalURL: cfg.App.PublicURL,
	})
	pdfUC := billing.NewPDFUseCase(invoiceRepo, customerRepo, pdfGenerator)

	if cfg.Stripe.WebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET vacío: los webhooks de pago serán rechazados")
	}
	verifier := payments.NewStripeVerifier(cfg.Stripe.WebhookSecret, cfg.Stripe.ToleranceSeconds)
	paymentUC := billing.NewPaymentUseCase(verifier, txRunner, log)

	dashboardUC := appanalytics.NewDashboardUseCase(leadRepo, contractRepo, invoiceRepo, meetingRepo)
	projectUC := usecase.NewProjectUseCase(projectRepo, customerRepo)
	meetingUC := usecase.NewMeetingUseCase(meetingRepo, customerRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	app := fiber.New(fiber.Config{
		AppName:       cfg.App.Name,
		CaseSensitive: true,
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 10,
		IdleTimeout:   time.Second * 60,
		BodyLimit:     10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Studio Portal API",
		}))
	}

	cookie := httpRouter.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
		MaxAge: time.Duration(cfg.JWT.Expiration) * time.Minute,
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		Sessions:    auth.NewJWTSessionResolver(cfg.JWT.Secret),
		Guard:       access.NewGuard(leadChecker, log),
		Cookie:      cookie,
		LeadUC:      leadUC,
		CustomerUC:  customerUC,
		ContractUC:  contractUC,
		InvoiceUC:   invoiceUC,
		PDFUC:       pdfUC,
		PaymentUC:   paymentUC,
		DashboardUC: dashboardUC,
		ProjectUC:   projectUC,
		MeetingUC:   meetingUC,
		AuditUC:     auditUC,
		Log:         log,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
