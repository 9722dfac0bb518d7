package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/kopilka/backend/src/config"
	"github.com/username/kopilka/backend/src/database"
	"github.com/username/kopilka/backend/src/handlers"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/parsers"
	"github.com/username/kopilka/backend/src/security"
	"github.com/username/kopilka/backend/src/services"
	"github.com/username/kopilka/backend/src/store"
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
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Kopilka backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	st := store.New(database.DB)

	logger.L.Info("Initializing rates cache...")
	ratesCache := cache.New(config.Cfg.RatesCacheTTL, 2*config.Cfg.RatesCacheTTL)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)

	csvParser, err := parsers.GetParser("zenmoney")
	if err != nil {
		logger.L.Error("Failed to initialize CSV parser", "error", err)
		os.Exit(1)
	}

	importService := services.NewImportService(st, csvParser)
	ratesService := services.NewRatesService(st, ratesCache, services.RatesConfig{
		BaseURL:   config.Cfg.RatesAPIBaseURL,
		Reference: config.Cfg.ReferenceCurrency,
		Pivot:     config.Cfg.PivotCurrency,
		CacheTTL:  config.Cfg.RatesCacheTTL,
	})
	balanceService := services.NewBalanceService(ratesService)

	userHandler := handlers.NewUserHandler(st, authService)
	groupHandler := handlers.NewGroupHandler(st)
	accountHandler := handlers.NewAccountHandler(st)
	transactionHandler := handlers.NewTransactionHandler(st)
	transferHandler := handlers.NewTransferHandler(st)
	statsHandler := handlers.NewStatsHandler(st, ratesService, balanceService)
	importHandler := handlers.NewImportHandler(st, importService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/refresh", userHandler.RefreshTokenHandler)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.LogoutUserHandler)

	protected := func(handler http.HandlerFunc) http.Handler {
		return userHandler.AuthMiddleware(handler)
	}

	apiRouter.Handle("GET /api/users/me", protected(userHandler.MeHandler))

	apiRouter.Handle("POST /api/groups", protected(groupHandler.HandleCreateGroup))
	apiRouter.Handle("GET /api/groups", protected(groupHandler.HandleListGroups))
	apiRouter.Handle("POST /api/groups/join", protected(groupHandler.HandleJoinGroup))
	apiRouter.Handle("GET /api/groups/members", protected(groupHandler.HandleListGroupMembers))
	apiRouter.Handle("PUT /api/groups/default", protected(groupHandler.HandleSetDefaultGroup))
	apiRouter.Handle("GET /api/groups/default", protected(groupHandler.HandleDefaultGroup))

	apiRouter.Handle("POST /api/accounts", protected(accountHandler.HandleCreateAccount))
	apiRouter.Handle("GET /api/accounts", protected(accountHandler.HandleListAccounts))
	apiRouter.Handle("PUT /api/accounts/{id}", protected(accountHandler.HandleUpdateAccount))
	apiRouter.Handle("DELETE /api/accounts/{id}", protected(accountHandler.HandleDeleteAccount))

	apiRouter.Handle("GET /api/currencies", protected(accountHandler.HandleListCurrencies))

	apiRouter.Handle("POST /api/transactions", protected(transactionHandler.HandleCreateTransaction))
	apiRouter.Handle("GET /api/transactions", protected(transactionHandler.HandleListTransactions))
	apiRouter.Handle("DELETE /api/transactions/{id}", protected(transactionHandler.HandleDeleteTransaction))

	apiRouter.Handle("POST /api/transfers", protected(transferHandler.HandleCreateTransfer))
	apiRouter.Handle("GET /api/transfers", protected(transferHandler.HandleListTransfers))
	apiRouter.Handle("DELETE /api/transfers/{id}", protected(transferHandler.HandleDeleteTransfer))

	apiRouter.Handle("GET /api/operations", protected(statsHandler.HandleOperations))
	apiRouter.Handle("GET /api/exchange-rates", protected(statsHandler.HandleExchangeRates))
	apiRouter.Handle("GET /api/stats/summary", protected(statsHandler.HandleGroupSummary))

	apiRouter.Handle("POST /api/import", protected(importHandler.HandleImport))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Kopilka backend is running"})
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
