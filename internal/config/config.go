// Package config provides configuration structures and validation for the
// loan ledger service. Configuration is environment-based and covers the
// HTTP server, the ledger storage backends, event publishing, the wallet
// gateway and the reminder scheduler.
package config

import (
	"errors"
	"strings"
	"time"
)

// Storage backends the ledger document can live in.
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMongo    = "mongo"
)

// Config holds the complete application configuration. Each field covers one
// subsystem and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Storage     StorageConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Wallet      WalletConfig
	Reminder    ReminderConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// StorageConfig selects where the ledger document is persisted.
type StorageConfig struct {
	Backend string // "postgres" or "mongo"
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains the loan event publishing configuration. Leaving
// Brokers empty disables publishing entirely; ledger operations never depend
// on the event stream being up.
type KafkaConfig struct {
	Brokers           string
	LoanEventsTopic   string
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// Enabled reports whether event publishing is configured.
func (c KafkaConfig) Enabled() bool {
	return c.Brokers != ""
}

// WalletConfig configures the simulated CIH wallet gateway.
type WalletConfig struct {
	InstitutionID string
	AgencyID      string
	DistributorID string
}

// ReminderConfig configures the due-payment reminder scheduler.
type ReminderConfig struct {
	ScanInterval   time.Duration // How often the ledger is scanned
	DueWindow      time.Duration // Installments due within this window get a reminder
	WorkerPoolSize int           // Concurrent reminder dispatches
}

// validate checks all configuration values, collecting every problem so the
// operator sees the full list at once.
func (c *Config) validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	switch c.Storage.Backend {
	case StorageBackendPostgres:
		if c.Postgres.URL == "" {
			validationErrors = append(validationErrors, "POSTGRES_URL is required")
		}
		if c.Postgres.MaxConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
		}
		if c.Postgres.MinConns <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
		}
		if c.Postgres.ConnMaxLifetime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
		}
		if c.Postgres.ConnMaxIdleTime <= 0 {
			validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	case StorageBackendMongo:
		if c.MongoDB.URI == "" {
			validationErrors = append(validationErrors, "MONGO_URI is required")
		}
		if c.MongoDB.Database == "" {
			validationErrors = append(validationErrors, "MONGO_DATABASE is required")
		}
		if c.MongoDB.Timeout <= 0 {
			validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
		}
		if c.MongoDB.MaxPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MinPoolSize <= 0 {
			validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
		}
		if c.MongoDB.MaxConnIdleTime <= 0 {
			validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
		}
	default:
		validationErrors = append(validationErrors, "STORAGE_BACKEND must be 'postgres' or 'mongo'")
	}

	if c.Kafka.Enabled() {
		if c.Kafka.LoanEventsTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_LOAN_EVENTS_TOPIC is required when KAFKA_BROKERS is set")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	if c.Wallet.InstitutionID == "" {
		validationErrors = append(validationErrors, "WALLET_INSTITUTION_ID is required")
	}
	if c.Wallet.AgencyID == "" {
		validationErrors = append(validationErrors, "WALLET_AGENCY_ID is required")
	}

	if c.Reminder.ScanInterval <= 0 {
		validationErrors = append(validationErrors, "REMINDER_SCAN_INTERVAL must be greater than 0")
	}
	if c.Reminder.DueWindow <= 0 {
		validationErrors = append(validationErrors, "REMINDER_DUE_WINDOW must be greater than 0")
	}
	if c.Reminder.WorkerPoolSize <= 0 {
		validationErrors = append(validationErrors, "REMINDER_WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
