package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/Lucifergene/bookswap-connect/configs"
	"github.com/Lucifergene/bookswap-connect/internal/daemon"
	"github.com/Lucifergene/bookswap-connect/internal/db"
	"github.com/Lucifergene/bookswap-connect/internal/handlers"
	"github.com/Lucifergene/bookswap-connect/internal/middleware"
	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret)

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	userColl := db.GetCollection(cfg.DBName, "users")
	bookColl := db.GetCollection(cfg.DBName, "books")

	authHandler := handlers.NewAuthHandler(userColl, auditLogger)
	bookHandler := handlers.NewBookHandler(bookColl, auditLogger)

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")

	r.HandleFunc("/api/books", bookHandler.GetBooks).Methods("GET")
	r.HandleFunc("/api/books/search", bookHandler.SearchBooks).Methods("GET")

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/auth/user", authHandler.CurrentUser).Methods("GET")
	protected.HandleFunc("/books", bookHandler.CreateBook).Methods("POST")
	protected.HandleFunc("/books/{id}", bookHandler.UpdateBook).Methods("PUT")
	protected.HandleFunc("/books/{id}", bookHandler.DeleteBook).Methods("DELETE")

	daemonCtx, stopDaemon := context.WithCancel(context.Background())
	defer stopDaemon()

	exporter := daemon.LogExporter{Coll: auditCol}
	exporter.Run(daemonCtx)

	// CORS wraps the router itself so OPTIONS preflights get answered
	// even though no route registers that method.
	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.CORSMiddleware(r),
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	stopDaemon()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	db.Disconnect(ctx)
	log.Println("Server shut down.")
}
