package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"gatelog/internal/config"
	"gatelog/internal/database"
	"gatelog/internal/handler"
	"gatelog/internal/middleware"
	"gatelog/internal/repository"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}
	if err := database.Seed(context.Background(), db); err != nil {
		logger.Fatal("seed database", zap.Error(err))
	}

	users := repository.NewUserRepository(db)
	visits := repository.NewVisitRepository(db)
	trucks := repository.NewTruckRepository(db)
	lookups := repository.NewLookupRepository(db)

	sessions := middleware.NewSessionManager(cfg.SessionSecret)

	router := handler.NewRouter(sessions, logger, handler.Handlers{
		Auth:     handler.NewAuthHandler(users, sessions, logger),
		Home:     handler.NewHomeHandler(sessions, logger),
		Visits:   handler.NewVisitHandler(visits, lookups, sessions, logger),
		Trucks:   handler.NewTruckHandler(trucks, lookups, sessions, logger),
		Security: handler.NewSecurityHandler(visits, trucks, lookups, sessions, logger),
		Admin:    handler.NewAdminHandler(users, lookups, sessions, logger),
	})

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
