package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/hugodemenez/deltalytix/backend/src/config"
	"github.com/hugodemenez/deltalytix/backend/src/database"
	"github.com/hugodemenez/deltalytix/backend/src/handlers"
	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/hugodemenez/deltalytix/backend/src/services"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, X-User-ID, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Deltalytix backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	snapshotCache := cache.New(config.Cfg.SnapshotCacheTTL, config.Cfg.SnapshotCacheCleanup)

	logger.L.Info("Initializing services and handlers...")
	var importService services.ImportService
	riskService := services.NewRiskService(func(userID int64, accountNumber string) ([]models.Trade, error) {
		return importService.GetTradesForAccount(userID, accountNumber)
	}, snapshotCache)
	importService = services.NewImportService(riskService)

	importHandler := handlers.NewImportHandler(importService)
	tradeHandler := handlers.NewTradeHandler(importService)
	accountHandler := handlers.NewAccountHandler(riskService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("GET /api/platforms", importHandler.HandleGetPlatforms)
	apiRouter.HandleFunc("POST /api/import", handlers.UserMiddleware(importHandler.HandleImport))
	apiRouter.HandleFunc("GET /api/trades", handlers.UserMiddleware(tradeHandler.HandleGetTrades))
	apiRouter.HandleFunc("DELETE /api/trades/all", handlers.UserMiddleware(tradeHandler.HandleDeleteAllTrades))
	apiRouter.HandleFunc("POST /api/accounts", handlers.UserMiddleware(accountHandler.HandleUpsertAccount))
	apiRouter.HandleFunc("POST /api/accounts/{number}/payouts", handlers.UserMiddleware(accountHandler.HandleAddPayout))
	apiRouter.HandleFunc("GET /api/accounts/{number}/risk", handlers.UserMiddleware(accountHandler.HandleGetRiskSnapshot))
	apiRouter.HandleFunc("GET /api/accounts/{number}/daily", handlers.UserMiddleware(accountHandler.HandleGetDailyPnl))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Deltalytix backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
