// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "greenledger/internal/api"
	"greenledger/internal/api/handler"
	"greenledger/internal/config"
	"greenledger/internal/finance"
	"greenledger/internal/repository"
	"greenledger/internal/repository/postgres"
	"greenledger/internal/service"
	"greenledger/internal/util"
	"greenledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository
	SponsorshipRepository repository.SponsorshipRepository

	// Services
	TransactionProcessor service.TransactionProcessor
	AdoptionService      service.AdoptionService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.WalletRepository = postgres.NewWalletRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.SponsorshipRepository = postgres.NewSponsorshipRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	converter := finance.NewConverter(finance.DefaultRates())
	app.TransactionProcessor = service.NewTransactionProcessor(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor for non-transactional reads
		app.WalletRepository,
		app.TransactionRepository,
		converter,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.AdoptionService = service.NewAdoptionService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.SponsorshipRepository,
		converter,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.TransactionProcessor, app.Logger)
	adoptionHandler := handler.NewAdoptionHandler(app.AdoptionService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, adoptionHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
