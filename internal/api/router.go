package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/eaglezone/eaglezone-bot/internal/api/handler"
	"github.com/eaglezone/eaglezone-bot/internal/api/middleware"
	"github.com/eaglezone/eaglezone-bot/internal/api/response"
	"github.com/eaglezone/eaglezone-bot/internal/services/onboarding"
	"github.com/eaglezone/eaglezone-bot/internal/storage"
)

// LivenessText is served at / so uptime pingers keep the host awake
const LivenessText = "✅ EagleZone Bot is awake!"

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Storage           storage.PlayerStore
	OnboardingService *onboarding.Service
	// AdminTokenHash is a bcrypt hash of the admin bearer token.
	// Admin routes are not registered when it is empty.
	AdminTokenHash string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.HandleFunc("/", livenessHandler).Methods(http.MethodGet, http.MethodHead)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.AdminTokenHash != "" {
		playerHandler := handler.NewPlayerHandler(cfg.Storage, cfg.OnboardingService)

		players := api.PathPrefix("/players").Subrouter()
		players.Use(middleware.AdminAuth(cfg.AdminTokenHash))
		players.HandleFunc("/{id}", playerHandler.Get).Methods(http.MethodGet)
		players.HandleFunc("/{id}/start", playerHandler.Start).Methods(http.MethodPost)
	}

	return r
}

func livenessHandler(w http.ResponseWriter, _ *http.Request) {
	response.Text(w, http.StatusOK, LivenessText)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
