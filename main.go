package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/fluxocaixa/backend/src/config"
	"github.com/username/fluxocaixa/backend/src/database"
	"github.com/username/fluxocaixa/backend/src/handlers"
	"github.com/username/fluxocaixa/backend/src/logger"
	"github.com/username/fluxocaixa/backend/src/processors"
	"github.com/username/fluxocaixa/backend/src/services"
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

		if origin == config.Cfg.CORSAllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
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
	logger.L.Info("Fluxocaixa backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(config.Cfg.ReportCacheExpiration, config.Cfg.ReportCacheCleanupInterval)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing services and handlers...")
	classifier := processors.NewCategoryClassifier()
	recordProcessor := processors.NewRecordProcessor()
	totalsProcessor := processors.NewTotalsProcessor(classifier)
	cashflowProcessor := processors.NewCashflowProcessor(classifier)
	comparisonProcessor := processors.NewComparisonProcessor(classifier)
	kpiProcessor := processors.NewKPIProcessor(totalsProcessor)
	insightProcessor := processors.NewInsightProcessor(classifier)

	recordStore := services.NewSQLRecordStore()
	dashboardService := services.NewDashboardService(
		recordStore, recordProcessor, cashflowProcessor,
		comparisonProcessor, kpiProcessor, insightProcessor,
		reportCache,
	)
	importService := services.NewImportService(dashboardService)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	importHandler := handlers.NewImportHandler(importService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/imports", importHandler.HandleCreateImport)
	apiRouter.HandleFunc("GET /api/imports", importHandler.HandleListImports)
	apiRouter.HandleFunc("DELETE /api/imports/{id}", importHandler.HandleDeleteImport)
	apiRouter.HandleFunc("PUT /api/companies", importHandler.HandleReplaceCompanies)

	apiRouter.HandleFunc("GET /api/dashboard/kpis", dashboardHandler.HandleGetKPIs)
	apiRouter.HandleFunc("GET /api/dashboard/cashflow", dashboardHandler.HandleGetDailyCashflow)
	apiRouter.HandleFunc("GET /api/dashboard/comparison", dashboardHandler.HandleGetMonthlyComparison)
	apiRouter.HandleFunc("GET /api/dashboard/alerts", dashboardHandler.HandleGetAlerts)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Fluxocaixa backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
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
