package main

import (
	"log"
	"net/http"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/database"
	"gym_club_backend/internal/router"
	"gym_club_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.IsDevelopment())

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		utils.LogError(err, "Failed to load catalog")
		log.Fatalf("Failed to load catalog: %v", err)
	}

	db, err := database.Open(cfg.DSN())
	if err != nil {
		utils.LogError(err, "Failed to connect to database")
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		dir, err := database.FindMigrationsDir(cfg.MigrationsPath)
		if err != nil {
			log.Fatalf("Failed to locate migrations: %v", err)
		}
		if err := database.Migrate(cfg.MigrationURL(), dir, "up"); err != nil {
			utils.LogError(err, "Failed to apply migrations")
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(utils.GinLogger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	router.Setup(engine, db, catalog, tokens, cfg.CallbackSecret)

	utils.LogInfo("Server starting", map[string]interface{}{
		"port":  cfg.Port,
		"env":   cfg.AppEnv,
		"plans": len(catalog.Plans()),
	})
	if err := engine.Run(":" + cfg.Port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
