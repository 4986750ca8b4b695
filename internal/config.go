package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/storage"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Inbox   InboxConfig       `yaml:"inbox"`
	Events  EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Inbox.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects where the CRM snapshot lives.
type StorageConfig struct {
	Driver   string           `yaml:"driver"`
	Key      string           `yaml:"key"`
	FS       PathConfig       `yaml:"fs"`
	SQLite   PathConfig       `yaml:"sqlite"`
	Postgres PostgresConfig   `yaml:"postgres"`
	S3       storage.S3Config `yaml:"s3"`
}

// PathConfig holds a single filesystem path.
type PathConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds the Postgres connection string.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = string(storage.DriverFS)
	}
	if c.Key == "" {
		c.Key = crm.DefaultSnapshotKey
	}
	err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(
			string(storage.DriverFS),
			string(storage.DriverSQLite),
			string(storage.DriverPostgres),
			string(storage.DriverS3),
			string(storage.DriverMemory),
		)),
	)
	if err != nil {
		return err
	}
	switch storage.Driver(c.Driver) {
	case storage.DriverFS:
		return validation.Validate(c.FS.Path, validation.Required.Error("storage.fs.path is required"))
	case storage.DriverSQLite:
		return validation.Validate(c.SQLite.Path, validation.Required.Error("storage.sqlite.path is required"))
	case storage.DriverPostgres:
		return validation.Validate(c.Postgres.DSN, validation.Required.Error("storage.postgres.dsn is required"))
	case storage.DriverS3:
		return validation.Validate(c.S3.Bucket, validation.Required.Error("storage.s3.bucket is required"))
	}
	return nil
}

// Options maps the section onto storage.Open options.
func (c *StorageConfig) Options() storage.Options {
	return storage.Options{
		Driver:      storage.Driver(c.Driver),
		FSPath:      c.FS.Path,
		SQLitePath:  c.SQLite.Path,
		PostgresDSN: c.Postgres.DSN,
		S3:          c.S3,
	}
}

// CatalogConfig holds product catalog presentation settings.
type CatalogConfig struct {
	ProductsPerPage int `yaml:"products_per_page"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ProductsPerPage, validation.Required, validation.Min(1), validation.Max(500)),
	)
}

// InboxConfig configures the CSV drop directory.
type InboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the inbox configuration.
func (c *InboxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
	)
}

// EventsConfig holds SSE settings.
type EventsConfig struct {
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver: string(storage.DriverFS),
			Key:    crm.DefaultSnapshotKey,
			FS:     PathConfig{Path: "./data"},
			SQLite: PathConfig{Path: "./salesdesk.db"},
		},
		Catalog: CatalogConfig{
			ProductsPerPage: crm.DefaultProductsPerPage,
		},
		Inbox: InboxConfig{
			Path: "./inbox",
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
