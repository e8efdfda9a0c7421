package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beledshul/sponsorship/internal"
	"github.com/beledshul/sponsorship/internal/core/events"
	"github.com/beledshul/sponsorship/internal/expense"
	expensePostgres "github.com/beledshul/sponsorship/internal/expense/postgres"
	"github.com/beledshul/sponsorship/internal/payment"
	"github.com/beledshul/sponsorship/internal/sponsorship"
	sponsorshipPostgres "github.com/beledshul/sponsorship/internal/sponsorship/postgres"
	"github.com/beledshul/sponsorship/internal/transport/rest"
	"github.com/beledshul/sponsorship/internal/transport/sse"
	"github.com/beledshul/sponsorship/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config             *internal.Config
	DB                 *sqlx.DB
	Router             *chi.Mux
	ExpenseHandler     *expense.Handler
	SponsorshipHandler *sponsorship.Handler
	PaymentHandler     *payment.Handler
	EventStream        *sse.Stream
	Logger             *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.ExpenseHandler,
		deps.SponsorshipHandler,
		deps.PaymentHandler,
		deps.EventStream,
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(log)
	eventStream := sse.NewStream(bus, log)

	expenseRepo := expensePostgres.NewExpenseRepository(gormDB)
	sponsorshipRepo := sponsorshipPostgres.NewSponsorshipRepository(gormDB)

	expenseService := expense.NewService(expenseRepo, sponsorshipRepo, bus, config.Sponsorship, log)
	sponsorshipService := sponsorship.NewService(sponsorshipRepo, expenseRepo, bus, config.Sponsorship, config.Organization, log)
	paymentService := payment.NewService(log)

	return &Dependencies{
		Config:             config,
		Logger:             log,
		DB:                 db,
		Router:             chi.NewRouter(),
		ExpenseHandler:     expense.NewHandler(expenseService),
		SponsorshipHandler: sponsorship.NewHandler(sponsorshipService),
		PaymentHandler:     payment.NewHandler(paymentService),
		EventStream:        eventStream,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-open pgx connection so both
// share one pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}
