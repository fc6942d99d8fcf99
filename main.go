package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dapurkita/kds-app/client"
	"github.com/dapurkita/kds-app/config"
	"github.com/dapurkita/kds-app/controllers"
	"github.com/dapurkita/kds-app/executor"
	"github.com/dapurkita/kds-app/kitchen"
	"github.com/dapurkita/kds-app/middlewares"
	"github.com/dapurkita/kds-app/models"
	"github.com/dapurkita/kds-app/repository"
	"github.com/dapurkita/kds-app/router"
	"github.com/dapurkita/kds-app/services"
	"github.com/dapurkita/kds-app/store"
	"github.com/dapurkita/kds-app/utils"
)

func main() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		source kitchen.ItemSource
		roster kitchen.StaffProvider
		repo   *repository.ItemRepository
	)

	if cfg.UpstreamURL != "" {
		// Mode client: system of record ada di API restoran pusat
		upstream := client.NewUpstream(cfg.UpstreamURL)
		source = upstream
		roster = upstream
		utils.InfoLogger.Printf("Running as KDS client of %s", cfg.UpstreamURL)
	} else {
		// Mode standalone: simpan item + roster sendiri
		db, err := cfg.InitDB()
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
		}
		utils.InitDB(db)

		if err := db.AutoMigrate(
			&models.KitchenItem{},
			&models.ComboItem{},
			&models.Staff{},
		); err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}
		utils.InfoLogger.Println("AutoMigrate completed.")

		repo = repository.NewItemRepository(db)
		source = repo
		roster = repository.NewStaffRepository(db)
		utils.InfoLogger.Printf("Running standalone on %s (%s)", cfg.DBDriver, cfg.DBDSN)
	}

	itemStore := store.NewStore(source)
	exec := executor.NewExecutor(itemStore, source, roster)

	// Sinkron awal; kalau gagal, layar mulai dari state unavailable + retry
	if err := itemStore.Refresh(context.Background()); err != nil {
		utils.ErrorLogger.Printf("initial snapshot sync failed: %v", err)
	}

	// Refresh berkala supaya layar ikut perubahan dari luar transisi lokal
	monitor := services.NewRefreshMonitor(itemStore)
	monitor.Interval = cfg.RefreshInterval
	monitor.Start()
	defer monitor.Stop()

	kdsCtrl := controllers.NewKDSController(itemStore, exec, roster, cfg.Classifier(), repo)
	staffCtrl := controllers.NewStaffController(roster)

	r := router.SetupRouter(kdsCtrl, staffCtrl)

	// Rate limiter umum per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
