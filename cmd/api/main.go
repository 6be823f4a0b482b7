package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/infrastructure/database"
	"github.com/sangkips/library-api/internal/infrastructure/report"
	"github.com/sangkips/library-api/internal/infrastructure/repository"
	"github.com/sangkips/library-api/internal/infrastructure/storage"
	"github.com/sangkips/library-api/internal/presentation/http/handler"
	"github.com/sangkips/library-api/internal/presentation/http/middleware"
	"github.com/sangkips/library-api/internal/presentation/http/routes"
	"github.com/sangkips/library-api/pkg/logging"
	"github.com/sangkips/library-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Log.Level)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		slog.Warn("failed to seed default data", "error", err)
	}

	sequenceRepo, closeSequences, err := repository.OpenSequenceRepository(ctx, cfg, db)
	if err != nil {
		slog.Error("failed to open sequence store", "error", err)
		os.Exit(1)
	}
	defer closeSequences(context.Background())

	renderer, err := report.NewRenderer(&cfg.Report)
	if err != nil {
		slog.Error("failed to create report renderer", "error", err)
		os.Exit(1)
	}

	var archive storage.Archive
	s3Archive, err := storage.NewS3Archive(ctx, &cfg.Report.Archive)
	switch {
	case errors.Is(err, storage.ErrArchiveDisabled):
	case err != nil:
		slog.Warn("report archive unavailable", "error", err)
	default:
		archive = s3Archive
	}

	m := metrics.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	bookTypeRepo := repository.NewLookupRepository[entity.BookType](db)
	authorRepo := repository.NewLookupRepository[entity.BookAuthor](db)
	publicationRepo := repository.NewLookupRepository[entity.BookPublication](db)
	languageRepo := repository.NewLookupRepository[entity.BookLanguage](db)
	bookRepo := repository.NewBookRepository(db)
	copyRepo := repository.NewBookCopyRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	stockRepo := repository.NewStockRepository(db)
	circulationRepo := repository.NewCirculationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	prefixes := make(map[string]string, len(config.SequenceKinds))
	for _, kind := range config.SequenceKinds {
		prefixes[kind] = cfg.Sequence.Prefix(kind)
	}

	// Initialize services
	sequences := service.NewSequenceService(sequenceRepo, prefixes)
	bookTypeService := service.NewLookupService[entity.BookType, *entity.BookType](bookTypeRepo, bookRepo, "book_type_id", "Book type")
	authorService := service.NewLookupService[entity.BookAuthor, *entity.BookAuthor](authorRepo, bookRepo, "author_id", "Author")
	publicationService := service.NewLookupService[entity.BookPublication, *entity.BookPublication](publicationRepo, bookRepo, "publication_id", "Publication")
	languageService := service.NewLookupService[entity.BookLanguage, *entity.BookLanguage](languageRepo, bookRepo, "language_id", "Language")
	bookService := service.NewBookService(bookRepo, copyRepo, authorService, publicationService, languageService, bookTypeService)
	userService := service.NewUserService(userRepo)
	ledgerService := service.NewLedgerService(ledgerRepo)
	memberService := service.NewMemberService(memberRepo)
	purchaseService := service.NewPurchaseService(stockRepo, bookRepo, ledgerRepo, sequences, m)
	scrapService := service.NewScrapService(stockRepo, copyRepo, ledgerRepo, sequences, m)
	circulationService := service.NewCirculationService(circulationRepo, copyRepo, memberRepo, sequences, m)
	reportService := service.NewReportService(copyRepo, stockRepo, authorRepo, languageRepo, renderer, archive, m)
	dashboardService := service.NewDashboardService(analyticsRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		User:        handler.NewUserHandler(userService),
		BookType:    handler.NewLookupHandler(bookTypeService),
		Author:      handler.NewLookupHandler(authorService),
		Publication: handler.NewLookupHandler(publicationService),
		Language:    handler.NewLookupHandler(languageService),
		Book:        handler.NewBookHandler(bookService, cfg.Import.MaxSize),
		Ledger:      handler.NewLedgerHandler(ledgerService),
		Member:      handler.NewMemberHandler(memberService),
		Purchase:    handler.NewPurchaseHandler(purchaseService),
		Scrap:       handler.NewScrapHandler(scrapService),
		Circulation: handler.NewCirculationHandler(circulationService),
		Report:      handler.NewReportHandler(reportService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Billing:     handler.NewBillingHandler(sequences),
	}

	// Per-client rate limiter
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         m,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", cfg.App.Port, "env", cfg.App.Env, "renderer", renderer.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}
