package db

import (
	"context"
	"os"
	"strconv"

	"gorm.io/gorm"
)

// GetDB opens the database described by the DB_* environment variables.
func GetDB(ctx context.Context) (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port, err := strconv.ParseUint(os.Getenv("DB_PORT"), 10, 32)
	if err != nil {
		port = 5432 // default PostgreSQL port
	}
	name := os.Getenv("DB_NAME")
	secretID := os.Getenv("DB_SECRET_ID")
	return ConnectDataBase(ctx, uint(port), host, name, secretID)
}
