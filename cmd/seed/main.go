package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/OmarKrypton/3-statement-modeler/internal/config"
	"github.com/OmarKrypton/3-statement-modeler/internal/database"
	"github.com/OmarKrypton/3-statement-modeler/internal/store"
)

// Applies the schema and seeds the master chart of accounts plus a demo
// company. Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBConnectionTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)

	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("✓ Schema applied")

	seeded, err := st.SeedMasterChart(ctx)
	if err != nil {
		log.Fatalf("Failed to seed master chart: %v", err)
	}
	log.Printf("✓ Master chart seeded (%d new accounts)", seeded)

	// Demo company, created once
	companies, err := st.ListCompanies(ctx)
	if err != nil {
		log.Fatalf("Failed to list companies: %v", err)
	}
	for _, c := range companies {
		if c.Name == "Demo Corp" {
			log.Println("✓ Demo company already present")
			return
		}
	}
	company, err := st.CreateCompany(ctx, "Demo Corp", 12, "USD")
	if err != nil {
		log.Fatalf("Failed to create demo company: %v", err)
	}
	log.Printf("✓ Demo company created: %s", company.ID)
}
