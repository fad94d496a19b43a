package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/internal/application/access"
	"github.com/jhoicas/studio-portal/internal/application/analytics"
	"github.com/jhoicas/studio-portal/internal/application/auth"
	"github.com/jhoicas/studio-portal/internal/application/billing"
	"github.com/jhoicas/studio-portal/internal/application/contract"
	"github.com/jhoicas/studio-portal/internal/application/lead"
	"github.com/jhoicas/studio-portal/internal/application/usecase"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	Sessions    auth.SessionResolver
	Guard       *access.Guard
	Cookie      CookieConfig
	LeadUC      *lead.UseCase
	CustomerUC  *billing.CustomerUseCase
	ContractUC  *contract.LifecycleUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PDFUC       *billing.PDFUseCase
	PaymentUC   *billing.PaymentUseCase
	DashboardUC *analytics.DashboardUseCase
	ProjectUC   *usecase.ProjectUseCase
	MeetingUC   *usecase.MeetingUseCase
	AuditUC     *usecase.AuditUseCase
	Log         *logger.Logger
}

// Router registra middlewares y rutas. El orden importa: la sesión se resuelve
// antes del guard y el guard corre antes de cualquier handler de /admin o /portal.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(SessionMiddleware(deps.Sessions, deps.Cookie.Name, deps.Log))
	app.Use(RouteGuard(deps.Guard))

	app.Get("/health", Health)
	app.Get("/login", LoginPage)
	// antes del grupo /portal: el Use del grupo también cubriría este prefijo
	app.Get(access.AccessDeniedPath, AccessDeniedPage)

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, deps.Cookie)
	leadHandler := NewLeadHandler(deps.LeadUC)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	contractHandler := NewContractHandler(deps.ContractUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	webhookHandler := NewWebhookHandler(deps.PaymentUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	projectHandler := NewProjectHandler(deps.ProjectUC, deps.MeetingUC)
	auditHandler := NewAuditHandler(deps.AuditUC)

	// API pública
	api := app.Group("/api")
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", RequireSession(), authHandler.Me)
	api.Post("/leads", leadHandler.Capture)
	api.Post("/estimate", leadHandler.Estimate)
	api.Post("/webhooks/stripe", webhookHandler.Stripe)

	// Back office
	admin := app.Group(access.AdminHome, RequireRole(entity.RoleAdmin))
	admin.Get("/", dashboardHandler.Admin)
	admin.Post("/users", authHandler.CreateUser)

	admin.Get("/leads", leadHandler.List)
	admin.Patch("/leads/:id", leadHandler.UpdateStatus)

	admin.Post("/customers", customerHandler.Create)
	admin.Get("/customers", customerHandler.List)
	admin.Get("/customers/:id", customerHandler.GetByID)

	admin.Post("/contracts", contractHandler.Create)
	admin.Get("/contracts", contractHandler.List)
	admin.Get("/contracts/:id", contractHandler.Get)
	admin.Post("/contracts/:id/send", contractHandler.Send)
	admin.Post("/contracts/:id/expire", contractHandler.Expire)

	admin.Post("/invoices", invoiceHandler.Create)
	admin.Get("/invoices", invoiceHandler.List)
	admin.Post("/invoices/:id/issue", invoiceHandler.Issue)
	admin.Post("/invoices/:id/void", invoiceHandler.Void)

	admin.Post("/projects", projectHandler.CreateProject)
	admin.Get("/projects", projectHandler.ListProjects)
	admin.Post("/meetings", projectHandler.CreateMeeting)
	admin.Get("/meetings", projectHandler.ListMeetings)

	admin.Get("/audit", auditHandler.List)

	// Portal del cliente
	portal := app.Group(access.PortalHome, RequireRole(entity.RoleCustomer))
	portal.Get("/", dashboardHandler.Portal)

	portal.Get("/contracts", contractHandler.ListMine)
	portal.Get("/contracts/:id", contractHandler.Get)
	portal.Post("/contracts/:id/view", contractHandler.MarkViewed)
	portal.Post("/contracts/:id/sign", contractHandler.Sign)

	portal.Get("/invoices", invoiceHandler.ListMine)
	portal.Get("/invoices/:id", invoiceHandler.Get)
	portal.Get("/invoices/:id/pdf", invoiceHandler.DownloadPDF)

	portal.Get("/projects", projectHandler.MyProjects)
	portal.Get("/meetings", projectHandler.MyMeetings)
}
