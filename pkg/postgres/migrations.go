package postgres

import (
	"database/sql"
	"log"
)

// RunMigrations executes database migrations for the given service.
func RunMigrations(db *sql.DB, service string) error {
	migrations := getServiceMigrations(service)
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Printf("Migrations completed for service: %s", service)
	return nil
}

func getServiceMigrations(service string) []string {
	switch service {
	case "user":
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(50) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				age INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
		}
	case "notification":
		return []string{
			`CREATE TABLE IF NOT EXISTS idempotency_keys (
				message_id VARCHAR(36) PRIMARY KEY,
				processed_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS notification_log (
				id SERIAL PRIMARY KEY,
				message_id VARCHAR(36),
				correlation_id VARCHAR(36),
				operation VARCHAR(16) NOT NULL,
				email VARCHAR(255) NOT NULL,
				subject VARCHAR(255) NOT NULL,
				status VARCHAR(16) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
		}
	default:
		return nil
	}
}
