package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/presentation/http/handler"
	"github.com/sangkips/library-api/internal/presentation/http/middleware"
	"github.com/sangkips/library-api/pkg/metrics"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	User        *handler.UserHandler
	BookType    *handler.LookupHandler[entity.BookType, *entity.BookType]
	Author      *handler.LookupHandler[entity.BookAuthor, *entity.BookAuthor]
	Publication *handler.LookupHandler[entity.BookPublication, *entity.BookPublication]
	Language    *handler.LookupHandler[entity.BookLanguage, *entity.BookLanguage]
	Book        *handler.BookHandler
	Ledger      *handler.LedgerHandler
	Member      *handler.MemberHandler
	Purchase    *handler.PurchaseHandler
	Scrap       *handler.ScrapHandler
	Circulation *handler.CirculationHandler
	Report      *handler.ReportHandler
	Dashboard   *handler.DashboardHandler
	Billing     *handler.BillingHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	// RateLimiter is optional; its owner calls Stop on shutdown.
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	// Document saves can be replayed safely with an Idempotency-Key.
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	v1.GET("/dashboard", h.Dashboard.GetStats)
	registerCatalogueRoutes(v1, h)
	registerStockRoutes(v1, h, idempotent)
	registerCirculationRoutes(v1, h, idempotent)
	registerReportRoutes(v1, h)
	registerBillingRoutes(v1, h)

	return router
}

// lookupRoutes is the method set shared by the generic lookup handlers.
type lookupRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerCRUD(group *gin.RouterGroup, h lookupRoutes) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func registerCatalogueRoutes(v1 *gin.RouterGroup, h *Handlers) {
	registerCRUD(v1.Group("/users"), h.User)
	registerCRUD(v1.Group("/book-types"), h.BookType)
	registerCRUD(v1.Group("/authors"), h.Author)
	registerCRUD(v1.Group("/publications"), h.Publication)
	registerCRUD(v1.Group("/languages"), h.Language)
	registerCRUD(v1.Group("/ledgers"), h.Ledger)

	books := v1.Group("/books")
	{
		registerCRUD(books, h.Book)
		books.POST("/import", h.Book.Import)
	}

	copies := v1.Group("/copies")
	{
		copies.GET("", h.Book.ListCopies)
		copies.GET("/:accession_no", h.Book.GetCopy)
	}

	members := v1.Group("/members")
	{
		registerCRUD(members, h.Member)
		members.GET("/:id/outstanding", h.Circulation.Outstanding)
	}
}

func registerStockRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	purchases := v1.Group("/purchases")
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", idempotent, h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.PUT("/:id", idempotent, h.Purchase.Update)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}

	scraps := v1.Group("/book-scraps")
	{
		scraps.GET("", h.Scrap.List)
		scraps.POST("", idempotent, h.Scrap.Create)
		scraps.GET("/:id", h.Scrap.Get)
		scraps.DELETE("/:id", h.Scrap.Delete)
	}
}

func registerCirculationRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	issues := v1.Group("/issues")
	{
		issues.GET("", h.Circulation.ListIssues)
		issues.POST("", idempotent, h.Circulation.Issue)
		issues.GET("/:id", h.Circulation.Get)
		issues.DELETE("/:id", h.Circulation.Delete)
	}

	returns := v1.Group("/issue-returns")
	{
		returns.GET("", h.Circulation.List)
		returns.POST("", idempotent, h.Circulation.Return)
		returns.GET("/:id", h.Circulation.Get)
		returns.DELETE("/:id", h.Circulation.Delete)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/accession/author/:id", h.Report.AccessionByAuthor)
		reports.GET("/accession/publication/:name", h.Report.AccessionByPublication)
		reports.GET("/accession/language/:id", h.Report.AccessionByLanguage)
		reports.GET("/stock/:id", h.Report.StockInvoice)
	}
}

func registerBillingRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.POST("/billing/totals", h.Billing.Totals)
	v1.POST("/billing/form", h.Billing.Form)
	v1.GET("/sequences/:kind/next", h.Billing.NextNumber)
}
