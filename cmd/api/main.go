package main

import (
	"net/http"
	"os"
	"time"

	"vet-clinic-api/internal/adapters/storage/postgres"
	"vet-clinic-api/internal/domain/admins"
	"vet-clinic-api/internal/platform/logger"
	"vet-clinic-api/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{
		Log:      log,
		TokenKey: os.Getenv("TOKEN_KEY"),
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			log.Error("postgres connection failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	}

	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		opts.SeedAdmin = &admins.RegisterInput{
			Name:     os.Getenv("ADMIN_NAME"),
			Username: username,
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		}
	}

	handler, err := router.New(opts)
	if err != nil {
		log.Error("startup failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
