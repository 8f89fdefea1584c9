package db

import (
	"context"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the postgres connection string. DB_SSL_MODE_DISABLE=true turns
// TLS off for local databases.
func DSN(port uint, host, dbname, username, password string) string {
	var sslMode string
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", host, username, password, dbname, port, sslMode)
}

func ConnectDataBase(ctx context.Context, port uint, host, dbname, secretID string) (*gorm.DB, error) {
	username, password, err := retrieveCredentials(ctx, secretID)
	if err != nil {
		return nil, err
	}
	database, err := gorm.Open(postgres.Open(DSN(port, host, dbname, username, password)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s@%s: %w", dbname, host, err)
	}
	return database, nil
}
