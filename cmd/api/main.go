package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/candleworks/waxpro/internal/ai"
	"github.com/candleworks/waxpro/internal/cloud"
	"github.com/candleworks/waxpro/internal/config"
	"github.com/candleworks/waxpro/internal/database"
	"github.com/candleworks/waxpro/internal/handlers"
	"github.com/candleworks/waxpro/internal/models"
	"github.com/candleworks/waxpro/internal/notify"
	"github.com/candleworks/waxpro/internal/onboarding"
	"github.com/candleworks/waxpro/internal/state"
	"github.com/candleworks/waxpro/internal/store"
	syncer "github.com/candleworks/waxpro/internal/sync"
	ws "github.com/candleworks/waxpro/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	if err := db.AutoMigrate(&models.StateRecord{}); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Core services
	center := notify.NewCenter(0)
	localStore := store.New(db, cfg.DataDir)
	manager := state.NewManager(localStore, center)

	cloudClient := cloud.NewClient(cfg.Cloud)
	if cloudClient.Enabled() {
		log.Printf("🌐 Sync backend: %s", cfg.Cloud.BaseURL)
	} else {
		log.Println("📴 No sync backend configured, running local-only")
	}

	orch := syncer.New(localStore, cloudClient, manager, center, cfg.Sync)
	manager.AttachPersister(orch)

	// 5. Onboarding and recovery gate
	gate := onboarding.NewGate(os.Getenv("STARTUP_FRAGMENT"), manager.Snapshot().Settings)

	// 6. Websocket hub: push state changes and notifications to the UI
	hub := ws.NewHub()
	go hub.Run()
	manager.OnChange(func(s models.InventoryState) {
		hub.Broadcast(ws.Event{Type: ws.EventStateChanged, Payload: s})
	})
	center.OnNotify(func(n notify.Notification) {
		hub.Broadcast(ws.Event{Type: ws.EventNotification, Payload: n})
	})

	// 7. Auth event wiring: merge on sign-in, recovery gate, sync status pushes
	cloudClient.OnAuthChange(orch.HandleAuthEvent)
	cloudClient.OnAuthChange(gate.HandleAuthEvent)
	cloudClient.OnAuthChange(func(event cloud.AuthEvent, _ *cloud.Session) {
		hub.Broadcast(ws.Event{Type: ws.EventSyncStatus, Payload: orch.Status()})
	})

	// 8. Startup merge when a restored session exists
	if cfg.Sync.SyncOnStartup && cloudClient.Session() != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		orch.MergeFromRemote(ctx)
		cancel()
	}

	// 9. Optional Gemini-backed suggestions
	var suggester *ai.Suggester
	if cfg.AI.GeminiAPIKey != "" {
		aiClient, err := ai.NewClient(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			log.Printf("⚠️ AI: failed to init Gemini client: %v", err)
		} else {
			defer aiClient.Close()
			suggester = ai.NewSuggester(aiClient)
			log.Println("✅ AI: Gemini suggestions enabled")
		}
	}

	// 10. HTTP router
	router := handlers.NewRouter(manager, orch, cloudClient, gate, hub, center, suggester)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 WaxPro Manager starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop pending sync work
	orch.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
