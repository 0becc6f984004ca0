package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/attendance"
	"attendance-server-go/config"
	"attendance-server-go/db"
	"attendance-server-go/handlers"
	"attendance-server-go/logger"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	storage, closeStorage, err := db.Open(context.Background(), cfg.Storage)
	if err != nil {
		zl.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStorage()
	zl.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	registry := seedRegistry(zl, cfg.SeedFile)
	app := attendance.NewApp(registry, attendance.NewStore(storage), zl)

	// Create API Handler (injecting the app)
	apiHandler := handlers.NewAPIHandler(app, zl)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	apiHandler.Register(router.Group("/api"))

	zl.Info("Starting server", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		zl.Fatal("Failed to run server", zap.Error(err))
	}
}

// seedRegistry loads the configured seed, falling back to an empty registry
// when the seed cannot be used.
func seedRegistry(zl *zap.Logger, seedFile string) *attendance.Registry {
	seed, err := db.LoadSeed(seedFile)
	if err != nil {
		zl.Warn("Could not load seed data, starting with no classes", zap.String("seedFile", seedFile), zap.Error(err))
		seed = nil
	}
	registry, err := attendance.NewRegistry(seed)
	if err != nil {
		zl.Warn("Seed data rejected, starting with no classes", zap.Error(err))
		registry, _ = attendance.NewRegistry(nil)
	}
	zl.Info("Registry seeded", zap.Int("classes", len(registry.Classes())))
	return registry
}
