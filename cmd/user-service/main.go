package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ibragim-Gadzhiev/TeamHomework/internal/api"
	"github.com/Ibragim-Gadzhiev/TeamHomework/internal/user"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/config"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/postgres"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/rabbitmq"

	"github.com/joho/godotenv"

	_ "github.com/Ibragim-Gadzhiev/TeamHomework/docs"
)

// @title           User Lifecycle API
// @version         1.0
// @description     CRUD API for user records that publishes create/delete events to RabbitMQ for email notification.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[UserService] Starting user-service...")

	_ = godotenv.Load()
	cfg := config.LoadForService("USER")

	// Connect to PostgreSQL
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[UserService] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "user"); err != nil {
		log.Fatalf("[UserService] Failed to run migrations: %v", err)
	}

	// Connect to RabbitMQ
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[UserService] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	publisher, err := rabbitmq.NewPublisher(rmqConn)
	if err != nil {
		log.Fatalf("[UserService] Failed to create publisher: %v", err)
	}
	defer publisher.Close()

	// Compose the service: store + producer behind the HTTP handlers
	store := user.NewStore(db)
	producer := user.NewEventProducer(publisher, cfg.UserCreatedChannel, cfg.UserDeletedChannel)
	svc := user.NewService(store, producer)

	handler := api.NewUserHandler(svc)
	router := api.NewRouter(handler)

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("[UserService] Listening on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[UserService] Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[UserService] Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[UserService] Server forced to shutdown: %v", err)
	}
	log.Println("[UserService] Server exited gracefully")
}
