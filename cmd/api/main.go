package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sapasaja/bukuku-api/internal/database"
	"github.com/sapasaja/bukuku-api/internal/demo"
	"github.com/sapasaja/bukuku-api/internal/handlers"
	"github.com/sapasaja/bukuku-api/internal/routes"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// --- Backend Selection ---
	// DEMO_MODE=true, or a missing DB_DSN, runs the API against the
	// seeded in-memory store instead of MySQL.
	app := &handlers.Handlers{}

	if os.Getenv("DEMO_MODE") == "true" {
		app.Demo = newDemoStore()
	} else {
		db, err := database.OpenDB()
		switch {
		case err == nil:
			defer db.Close()
			app.DB = db
		case errors.Is(err, database.ErrNoDSN):
			log.Println("WARNING: DB_DSN is not set, falling back to demo mode.")
			app.Demo = newDemoStore()
		default:
			log.Fatalf("Failed to connect to primary database: %v", err)
		}
	}

	// --- Background Worker (Cron) ---
	// Runs every hour to cancel unpaid orders that sat too long.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: monitoring for overdue orders...")

		for range ticker.C {
			app.ProcessOverdueOrders()
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting BukuKu API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newDemoStore builds the seeded store, optionally persisting carts to
// the file named by DEMO_CART_FILE so they survive restarts.
func newDemoStore() *demo.Store {
	store := demo.NewStore()
	if path := os.Getenv("DEMO_CART_FILE"); path != "" {
		store.UseCartFile(path)
	}
	log.Println("Running in DEMO MODE with the in-memory store.")
	return store
}
