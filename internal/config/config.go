package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"exam-engine"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	RequestTimeout          time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`

	Postgres   Postgres
	Redis      Redis
	Security   Security
	Generation Generation
	Lifecycle  Lifecycle
	CORS       CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache + lock configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores the secret used to verify caller identity tokens.
type Security struct {
	JWTSecret string `env:"JWT_SECRET,notEmpty"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"exam-engine"`
}

// Generation tunes actual generation and retrieval.
type Generation struct {
	ActualCacheTTL time.Duration `env:"ACTUAL_CACHE_TTL" envDefault:"24h"`
	// RandomSeed pins distractor sampling; zero means unseeded.
	RandomSeed uint64 `env:"GENERATION_RANDOM_SEED" envDefault:"0"`
	// ShuffleCorrect moves the correct multiple-choice option off position 0 by
	// shuffling all four slots.
	ShuffleCorrect bool `env:"GENERATION_SHUFFLE_CORRECT" envDefault:"false"`
}

// Lifecycle governs the exam instance state machine.
type Lifecycle struct {
	GenerationLockTTL time.Duration `env:"GENERATION_LOCK_TTL" envDefault:"15s"`
	LockRetries       int           `env:"GENERATION_LOCK_RETRIES" envDefault:"20"`
	LockRetryDelay    time.Duration `env:"GENERATION_LOCK_RETRY_DELAY" envDefault:"50ms"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadPostgres parses only the database section, for tools that do not need the full app.
func LoadPostgres() (Postgres, error) {
	var pg Postgres
	if err := env.Parse(&pg); err != nil {
		return Postgres{}, fmt.Errorf("parse postgres config: %w", err)
	}
	return pg, nil
}
