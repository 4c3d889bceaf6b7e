package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"

	"github.com/OmarKrypton/3-statement-modeler/internal/config"
	"github.com/OmarKrypton/3-statement-modeler/internal/database"
	"github.com/OmarKrypton/3-statement-modeler/internal/handlers"
	"github.com/OmarKrypton/3-statement-modeler/internal/middleware"
	"github.com/OmarKrypton/3-statement-modeler/internal/services"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
	"github.com/OmarKrypton/3-statement-modeler/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBConnectionTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to database successfully")

	st := store.New(pool)

	// Initialize services
	parser := services.NewParser()
	validator := services.NewFileValidator(cfg.MaxUploadBytes)
	exporter := services.NewExporter()

	// Upload archiving is optional; without a bucket uploads still succeed
	var archiver handlers.Archiver
	if cfg.S3Bucket != "" {
		storageService, err := services.NewStorageService(cfg.S3Bucket, cfg.S3Region, cfg.AWSEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize storage service: %v", err)
		}
		archiver = storageService
		log.Println("✓ Storage service initialized successfully")
	} else {
		log.Println("S3_BUCKET not set, upload archiving disabled")
	}

	// Initialize handlers
	companiesHandler := handlers.NewCompaniesHandler(st)
	periodsHandler := handlers.NewPeriodsHandler(st)
	trialBalanceHandler := handlers.NewTrialBalanceHandler(st, parser, validator, archiver)
	mappingsHandler := handlers.NewMappingsHandler(st)
	statementsHandler := handlers.NewStatementsHandler(st)
	forecastHandler := handlers.NewForecastHandler(st)
	dashboardHandler := handlers.NewDashboardHandler(st)
	exportHandler := handlers.NewExportHandler(st, exporter)

	app := fiber.New(fiber.Config{
		AppName:      "3-statement-modeler API v1.0",
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Apply global middleware
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoint
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "3-statement-modeler-api",
		})
	})

	// API v1 routes
	v1 := app.Group("/v1")

	v1.Get("/master-coa", mappingsHandler.ListMasterAccounts)

	v1.Post("/companies", companiesHandler.CreateCompany)
	v1.Get("/companies", companiesHandler.ListCompanies)
	v1.Get("/companies/:id", companiesHandler.GetCompany)
	v1.Put("/companies/:id", companiesHandler.UpdateCompany)

	v1.Get("/companies/:id/periods", periodsHandler.ListPeriods)
	v1.Delete("/companies/:id/periods/:date", periodsHandler.DeletePeriod)
	v1.Post("/companies/:id/trial-balances/upload", trialBalanceHandler.Upload)

	v1.Get("/companies/:id/mappings/unmapped", mappingsHandler.ListUnmapped)
	v1.Put("/companies/:id/mappings", mappingsHandler.SaveMappings)
	v1.Delete("/companies/:id/mappings/reset", mappingsHandler.ResetMappings)

	v1.Get("/companies/:id/statements/income-statement", statementsHandler.IncomeStatements)
	v1.Get("/companies/:id/statements/balance-sheet", statementsHandler.BalanceSheets)
	v1.Get("/companies/:id/statements/cash-flow", statementsHandler.CashFlows)

	v1.Get("/companies/:id/forecast/config", forecastHandler.GetConfig)
	v1.Put("/companies/:id/forecast/config", forecastHandler.SaveConfig)
	v1.Get("/companies/:id/forecast/statements", forecastHandler.Statements)

	v1.Get("/companies/:id/dashboard/summary", dashboardHandler.Summary)

	v1.Get("/companies/:id/export/excel", exportHandler.Forecast)
	v1.Get("/companies/:id/export/actuals/excel", exportHandler.Actuals)

	log.Println("✓ All routes configured successfully")

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("🚀 3-statement-modeler API is running on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
