package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/config"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"
	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

var apiURL string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "userctl",
		Short: "Operator CLI for the user/notification services",
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the user-service API")

	root.AddCommand(healthCmd(), usersCmd(), publishCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API, database and broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			report(cmd, "api", checkAPI())
			report(cmd, "postgres", checkPostgres(cfg.DatabaseURL))
			report(cmd, "rabbitmq", checkRabbitMQ(cfg.RabbitMQURL))
			return nil
		},
	}
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users through the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(apiURL + "/api/users")
			if err != nil {
				return fmt.Errorf("fetch users: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch users: unexpected status %s", resp.Status)
			}

			var users []models.UserResponse
			if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
				return fmt.Errorf("decode users: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tAGE\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
					u.ID, u.Name, u.Email, u.Age, u.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func publishCmd() *cobra.Command {
	var email string
	var operation string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a test user event to the broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			op := models.Operation(operation)
			if op != models.OperationCreate && op != models.OperationDelete {
				return fmt.Errorf("operation must be %q or %q", models.OperationCreate, models.OperationDelete)
			}

			cfg := config.Load()
			conn, err := rabbitmq.Connect(cfg.RabbitMQURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			pub, err := rabbitmq.NewPublisher(conn)
			if err != nil {
				return err
			}
			defer pub.Close()

			channel := cfg.UserCreatedChannel
			if op == models.OperationDelete {
				channel = cfg.UserDeletedChannel
			}

			body, err := json.Marshal(models.UserEvent{Operation: op, Email: email})
			if err != nil {
				return err
			}
			if err := pub.Publish(channel, body, uuid.New().String(), uuid.New().String()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s event for %s on %s\n", op, email, channel)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Recipient email for the test event")
	cmd.Flags().StringVar(&operation, "operation", string(models.OperationCreate), "Event operation (create or delete)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func report(cmd *cobra.Command, name string, err error) {
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s DOWN  %v\n", name, err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-10s OK\n", name)
}

func checkAPI() error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(apiURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func checkPostgres(url string) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Ping()
}

func checkRabbitMQ(url string) error {
	// Single dial, no retry loop — a health check should answer fast
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	return conn.Close()
}
