package db

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig contains database pool configuration parameters
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// NewPool opens a pgx connection pool and verifies it with a ping. TLS kicks
// in when the URL carries a verifying sslmode; local URLs connect plain.
func NewPool(ctx context.Context, poolCfg PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(poolCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	tlsConfig, err := configureTLS(poolCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	if tlsConfig != nil {
		config.ConnConfig.TLSConfig = tlsConfig
	}

	config.MaxConns = poolCfg.MaxConns
	config.MinConns = poolCfg.MinConns
	config.HealthCheckPeriod = 30 * time.Second
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// configureTLS builds the TLS config for managed PostgreSQL. The CA cert is
// read from certs/database-ca.crt; DATABASE_TLS_SERVER_NAME overrides the
// expected certificate name when it differs from the connection hostname.
// Returns nil when the URL does not ask for a verifying sslmode.
func configureTLS(databaseURL string) (*tls.Config, error) {
	if databaseURL == "" || !requiresTLS(databaseURL) {
		return nil, nil
	}

	certPath := filepath.Join("certs", "database-ca.crt")
	caPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate from %s: %w", certPath, err)
	}

	rootCertPool := x509.NewCertPool()
	if ok := rootCertPool.AppendCertsFromPEM(caPEM); !ok {
		return nil, fmt.Errorf("failed to append CA certificate to pool")
	}

	tlsConfig := &tls.Config{RootCAs: rootCertPool}
	if serverName := os.Getenv("DATABASE_TLS_SERVER_NAME"); serverName != "" {
		tlsConfig.ServerName = serverName
	}

	return tlsConfig, nil
}

func requiresTLS(url string) bool {
	return strings.Contains(url, "sslmode=require") ||
		strings.Contains(url, "sslmode=verify-full") ||
		strings.Contains(url, "sslmode=verify-ca")
}

// Close gracefully closes the connection pool
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
