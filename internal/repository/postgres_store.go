package repository

import (
	"github.com/aureeture/aureeture-api/internal/database/postgres"
)

// Compile-time check that the database client covers every store
var _ Store = (*postgres.Client)(nil)

// NewPostgresStore exposes the database client through the Store interface
func NewPostgresStore(client *postgres.Client) Store {
	return client
}
