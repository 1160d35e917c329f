package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rooshmintted/apitable-widgets/internal/api/handlers"
	"github.com/rooshmintted/apitable-widgets/internal/api/middleware"
	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"github.com/rooshmintted/apitable-widgets/internal/datasheet/inmemory"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
	"github.com/rooshmintted/apitable-widgets/internal/logger"
	"github.com/rooshmintted/apitable-widgets/internal/notionhost"
	"github.com/rooshmintted/apitable-widgets/internal/split"
)

func main() {
	// Parse command-line flags
	var (
		port        = flag.String("port", "8080", "HTTP server port")
		recordsPath = flag.String("records", "", "Path to a JSON fixture backing the in-memory sheet")
		notionToken = flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
		notionDB    = flag.String("notion-db", os.Getenv("NOTION_DATABASE_ID"), "Notion database ID (or set NOTION_DATABASE_ID env)")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Pick the sheet backend: Notion when configured, otherwise in-memory.
	var store datasheet.Datasheet
	switch {
	case *notionToken != "" && *notionDB != "":
		sheet := notionhost.NewSheet(notionhost.NewNotionClient(*notionToken), *notionDB, log)
		if _, err := sheet.Fields(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to load Notion database schema")
		}
		store = sheet
		log.Info().Str("database_id", *notionDB).Msg("Using Notion-backed sheet")
	case *recordsPath != "":
		sheet, err := inmemory.LoadFile(*recordsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *recordsPath).Msg("Failed to load records fixture")
		}
		store = sheet
		log.Info().Str("path", *recordsPath).Int("records", sheet.Len()).Msg("Using in-memory sheet from fixture")
	default:
		log.Fatal().Msg("Configure either -records or a Notion token and database ID")
	}

	// Resolve field roles once for the split engine; the dashboard endpoints
	// re-discover per request.
	fields, err := store.Fields(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fields")
	}
	roles := fieldroles.Discover(fields)

	engine := split.NewEngine(store, roles, split.NewGuard(), log)

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(store, log)
	splitHandler := handlers.NewSplitHandler(engine, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetSummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/chart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetChart(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/tree", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetTree(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Split workflow endpoints
	mux.HandleFunc("/api/split/candidates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			splitHandler.ListCandidates(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/split/select", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			splitHandler.Select(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/split/edit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			splitHandler.EditAllocation(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/split/commit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			splitHandler.Commit(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/split/cancel", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			splitHandler.Cancel(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
