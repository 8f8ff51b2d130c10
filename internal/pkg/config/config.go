package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Projection ProjectionConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Fees       FeesConfig
	Platform   PlatformConfig
	Sync       SyncConfig
	Notify     NotifyConfig
	Tracing    TracingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// DBConfig points at the ledger database.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type ProjectionConfig struct {
	Path string `envconfig:"PROJECTION_PATH" default:"stayledger-projection.db"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// FeesConfig holds one basis-point rate per payment channel.
type FeesConfig struct {
	OnLedgerBps int64 `envconfig:"FEE_ON_LEDGER_BPS" default:"300"`
	OffChainBps int64 `envconfig:"FEE_OFF_CHAIN_BPS" default:"50"`
	Denominator int64 `envconfig:"FEE_DENOMINATOR" default:"10000"`
}

type PlatformConfig struct {
	ArbiterAddress  string `envconfig:"ARBITER_ADDRESS" required:"true"`
	TreasuryAddress string `envconfig:"TREASURY_ADDRESS"`
}

type SyncConfig struct {
	Enabled             bool          `envconfig:"SYNC_ENABLED" default:"true"`
	PollInterval        time.Duration `envconfig:"SYNC_POLL_INTERVAL" default:"5s"`
	ReconcileInterval   time.Duration `envconfig:"SYNC_RECONCILE_INTERVAL" default:"30m"`
	PruneInterval       time.Duration `envconfig:"SYNC_PRUNE_INTERVAL" default:"10m"`
	CallTimeout         time.Duration `envconfig:"SYNC_CALL_TIMEOUT" default:"10s"`
	MaxBlockRange       int64         `envconfig:"SYNC_MAX_BLOCK_RANGE" default:"2000"`
	SafetyWindowBlocks  int64         `envconfig:"SYNC_SAFETY_WINDOW_BLOCKS" default:"0"`
	ProcessedRetention  time.Duration `envconfig:"SYNC_PROCESSED_RETENTION" default:"24h"`
	ProcessedMaxEntries int           `envconfig:"SYNC_PROCESSED_MAX_ENTRIES" default:"100000"`
}

type NotifyConfig struct {
	RabbitURL string `envconfig:"RABBIT_URL"`
	Exchange  string `envconfig:"RABBIT_EXCHANGE" default:"stayledger.events"`
}

type TracingConfig struct {
	Enabled     bool   `envconfig:"TRACING_ENABLED" default:"false"`
	Endpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"stayledger"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Projection: ProjectionConfig{
			Path: ":memory:",
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length", "Idempotent-Replayed"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Fees: FeesConfig{
			OnLedgerBps: 300,
			OffChainBps: 50,
			Denominator: 10000,
		},
		Platform: PlatformConfig{
			ArbiterAddress: "0x3333333333333333333333333333333333333333",
		},
		Sync: SyncConfig{
			PollInterval:        time.Second,
			ReconcileInterval:   time.Minute,
			PruneInterval:       time.Minute,
			CallTimeout:         5 * time.Second,
			MaxBlockRange:       2000,
			ProcessedRetention:  time.Hour,
			ProcessedMaxEntries: 1000,
		},
		Notify: NotifyConfig{
			Exchange: "stayledger.events",
		},
		Tracing: TracingConfig{
			ServiceName: "stayledger-test",
		},
	}
}
