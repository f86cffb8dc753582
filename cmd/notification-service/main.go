package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ibragim-Gadzhiev/TeamHomework/internal/notification"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/config"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/postgres"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/rabbitmq"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[Notification] Starting notification-service...")

	_ = godotenv.Load()
	cfg := config.LoadForService("NOTIFICATION")

	// Connect to PostgreSQL (idempotency keys + notification log)
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Notification] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "notification"); err != nil {
		log.Fatalf("[Notification] Failed to run migrations: %v", err)
	}

	// Connect to RabbitMQ
	rmqConn, err := rabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("[Notification] Failed to connect to RabbitMQ: %v", err)
	}
	defer rmqConn.Close()

	// SMTP client and notifier
	mailClient, err := notification.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatalf("[Notification] Failed to create mail client: %v", err)
	}
	notifier := notification.NewNotifier(mailClient, cfg.EmailSender, cfg.EmailReplyTo)

	consumer := notification.NewConsumer(db, notifier)

	consumerCfg := rabbitmq.ConsumerConfig{
		QueueName:    "notification.user.events",
		DLQName:      "dlq.notification.user.events",
		RoutingKeys:  []string{cfg.UserCreatedChannel, cfg.UserDeletedChannel},
		ConsumerName: "notification-service",
	}

	if err := rabbitmq.SetupConsumer(rmqConn, consumerCfg, consumer.HandleMessage); err != nil {
		log.Fatalf("[Notification] Failed to setup consumer: %v", err)
	}

	log.Println("[Notification] Consumer is running. Waiting for messages...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Notification] Shutting down...")
}
