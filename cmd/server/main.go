// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/config"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/handlers"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/middleware"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/repository/state"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/conversation"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/filestore"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/prefs"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/qa"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	startupCtx := context.Background()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := state.AutoMigrate(db); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	stateStore := state.NewStateStore(db)

	// --- Services ---
	conversationService, err := conversation.NewService(startupCtx, stateStore, services.NewLogger("conversation"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	qaConfig := qa.DefaultConfig()
	qaConfig.BaseURL = cfg.BackendBaseURL
	qaConfig.Model = cfg.QAModel
	qaConfig.Temperature = float32(cfg.QATemperature)
	qaConfig.TopK = cfg.QATopK
	qaConfig.Timeout = cfg.QATimeout
	qaService, err := qa.NewService(qaConfig, services.NewLogger("qa"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize QA Service: %v", err)
	}

	fileConfig := filestore.DefaultConfig()
	fileConfig.BaseURL = cfg.BackendBaseURL
	fileConfig.UploadTimeout = cfg.UploadTimeout
	fileService, err := filestore.NewService(startupCtx, fileConfig, stateStore, services.NewLogger("filestore"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize File Service: %v", err)
	}

	prefsService, err := prefs.NewService(startupCtx, stateStore)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Preferences Service: %v", err)
	}

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(conversationService, qaService)
	fileHandler := handlers.NewFileHandler(fileService)
	prefsHandler := handlers.NewPrefsHandler(prefsService)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/conversations", chatHandler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/clear", chatHandler.ClearConversations).Methods("POST")
	api.HandleFunc("/conversations/{id}", chatHandler.GetConversation).Methods("GET")
	api.HandleFunc("/conversations/{id}", chatHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/activate", chatHandler.ActivateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/export", chatHandler.ExportConversation).Methods("GET")

	api.HandleFunc("/files", fileHandler.ListFiles).Methods("GET")
	api.HandleFunc("/files", fileHandler.UploadFiles).Methods("POST")
	api.HandleFunc("/files/refresh-status", fileHandler.RefreshStatus).Methods("POST")
	api.HandleFunc("/files/{id}/category", fileHandler.UpdateCategory).Methods("PATCH")
	api.HandleFunc("/files/{id}", fileHandler.DeleteFile).Methods("DELETE")
	api.HandleFunc("/knowledge-base/files", fileHandler.ListKnowledgeBase).Methods("GET")

	api.HandleFunc("/preferences", prefsHandler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", prefsHandler.UpdatePreferences).Methods("PUT")

	// --- Server Configuration ---
	port := ":3000"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Expansion RAG session server starting on port %s", port)
	log.Printf("Backend: %s", cfg.BackendBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
