package router

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"vet-clinic-api/internal/adapters/storage/memory"
	"vet-clinic-api/internal/adapters/storage/postgres"
	"vet-clinic-api/internal/domain/admins"
	"vet-clinic-api/internal/domain/clients"
	"vet-clinic-api/internal/domain/pets"
	"vet-clinic-api/internal/domain/schedules"
	"vet-clinic-api/internal/middleware"
	"vet-clinic-api/internal/platform/logger"
	"vet-clinic-api/internal/platform/token"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	// DB is optional. When nil the API runs on in-memory storage,
	// which is what the tests and local dev use.
	DB  *sql.DB
	Log logger.Logger

	// TokenKey is a hex-encoded 32-byte symmetric key. Empty means an
	// ephemeral key: tokens stop working on restart.
	TokenKey string

	// SeedAdmin, when set, is registered at startup so a fresh
	// deployment has a working login.
	SeedAdmin *admins.RegisterInput
}

func New(opts Options) (http.Handler, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		clientsRepo   clients.Repository
		petsRepo      pets.Repository
		schedulesRepo schedules.Repository
		adminsRepo    admins.Repository
	)
	if opts.DB != nil {
		clientsRepo = postgres.NewClientsRepo(opts.DB)
		petsRepo = postgres.NewPetsRepo(opts.DB)
		schedulesRepo = postgres.NewSchedulesRepo(opts.DB)
		adminsRepo = postgres.NewAdminsRepo(opts.DB)
		log.Info("storage: postgres", nil)
	} else {
		clientsRepo = memory.NewClientRepo()
		petsRepo = memory.NewPetRepo()
		schedulesRepo = memory.NewScheduleRepo()
		adminsRepo = memory.NewAdminRepo()
		log.Info("storage: in-memory", nil)
	}

	tokens, err := token.New(opts.TokenKey, token.DefaultTTL)
	if err != nil {
		return nil, err
	}

	clientsSvc := clients.NewService(clientsRepo)
	petsSvc := pets.NewService(petsRepo)
	schedulesSvc := schedules.NewService(schedulesRepo)
	adminsSvc := admins.NewService(adminsRepo, tokens)

	if opts.SeedAdmin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := adminsSvc.Register(ctx, *opts.SeedAdmin); err != nil {
			if !errors.Is(err, admins.ErrAlreadyExists) {
				return nil, err
			}
		} else {
			log.Info("seeded admin account", map[string]any{"username": opts.SeedAdmin.Username})
		}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthContext(adminsSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	clients.RegisterRoutes(r, clientsSvc, petsSvc)
	pets.RegisterRoutes(r, petsSvc, clientsSvc, schedulesSvc)
	schedules.RegisterRoutes(r, schedulesSvc, petsSvc)
	admins.RegisterRoutes(r, adminsSvc)

	return r, nil
}
