package main

import (
	"log"
	"os"

	"bookease-be/internal/model"
	"bookease-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	models := model.All()
	color.Cyan("Running AutoMigrate for %d tables...", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// Serves the pending-duplicate lookup on booking create.
	if db.Dialector.Name() == "postgres" {
		stmt := `CREATE INDEX IF NOT EXISTS idx_bookings_pending_lookup
			ON bookings (customer_id, service_id, start_time) WHERE status = 'PENDING'`
		if err := db.Exec(stmt).Error; err != nil {
			color.Yellow("Warn: Failed to create pending lookup index: %v", err)
		}
	}

	color.Green("Success: Database migration completed.")
}
