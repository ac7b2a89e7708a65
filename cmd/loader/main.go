package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"credit-engine/internal/config"
	"credit-engine/internal/importer"
	"credit-engine/internal/infrastructure/database/postgres"
	"credit-engine/internal/infrastructure/logging"
)

// loader seeds the database from the customer and loan workbooks. It is run
// once before the API is brought up; re-running it is safe because every row
// is upserted under its workbook id.
func main() {
	customerFile := flag.String("customers", "", "path to the customer workbook (overrides config)")
	loanFile := flag.String("loans", "", "path to the loan workbook (overrides config)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall import timeout")
	flag.Parse()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger).With(slog.String("component", "loader"))
	slog.SetDefault(logger)

	if *customerFile == "" {
		*customerFile = cfg.Import.CustomerFile
	}
	if *loanFile == "" {
		*loanFile = cfg.Import.LoanFile
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dbPool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbPool.Close()

	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	imp := importer.NewImporter(customerRepo, loanRepo, logger)

	logger.Info("Importing customers...", "file", *customerFile)
	customerResult, err := imp.ImportCustomers(ctx, *customerFile)
	if err != nil {
		logger.Error("Customer import failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Importing loans...", "file", *loanFile)
	loanResult, err := imp.ImportLoans(ctx, *loanFile)
	if err != nil {
		logger.Error("Loan import failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Seed import complete",
		"customersImported", customerResult.Imported,
		"customersSkipped", customerResult.Skipped,
		"loansImported", loanResult.Imported,
		"loansSkipped", loanResult.Skipped)
}
