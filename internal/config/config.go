package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultTokenSecret is the development signing secret. Rejected when ENV=prod.
const DefaultTokenSecret = "supersecretkey"

const (
	ImagesBackendDisk  = "disk"
	ImagesBackendMinio = "minio"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8000"`

	// Env is "dev" (default) or "prod". When "prod", ACCESS_TOKEN_SECRET must be set and not the default.
	Env string `env:"ENV" envDefault:"dev"`

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  int    `env:"LOG_LEVEL" envDefault:"0"`

	// PublicURL is the externally visible base URL; image URLs and the placeholder are built from it.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8000"`

	TokenSecret string        `env:"ACCESS_TOKEN_SECRET" envDefault:"supersecretkey"`
	TokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"72h"`

	DB DB `envPrefix:"DB_"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// CORSAllowedOrigins lists origins allowed for CORS; "*" allows any origin.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Images Images `envPrefix:"IMAGES_"`
	Minio  Minio  `envPrefix:"MINIO_"`
}

type DB struct {
	Host    string `env:"HOST" envDefault:"localhost"`
	Port    string `env:"PORT" envDefault:"5432"`
	Name    string `env:"NAME" envDefault:"travelstory"`
	User    string `env:"USER" envDefault:"travel"`
	Pass    string `env:"PASS" envDefault:"travel"`
	SSLMode string `env:"SSLMODE" envDefault:"disable"`

	// MaxOpenConns is the maximum number of open connections to the database (default 25).
	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"25"`
	// MaxIdleConns is the maximum number of idle connections (default 5).
	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"5"`
}

type Images struct {
	Backend   string `env:"BACKEND" envDefault:"disk"`
	Dir       string `env:"DIR" envDefault:"uploads"`
	AssetsDir string `env:"ASSETS_DIR" envDefault:"assests"`

	// RequireAuth puts /image-upload and /delete-image behind the bearer token check.
	RequireAuth    bool  `env:"REQUIRE_AUTH" envDefault:"false"`
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// SweepCron is the cron spec for removing unreferenced images. Empty disables the sweep.
	SweepCron  string        `env:"SWEEP_CRON" envDefault:"@hourly"`
	SweepGrace time.Duration `env:"SWEEP_GRACE" envDefault:"24h"`
}

type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"travel-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"travel-secret-key"`
	Bucket    string `env:"BUCKET" envDefault:"travel-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	// PublicURL is the base URL objects are served from, e.g. http://localhost:9000/travel-images.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:9000/travel-images"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.Minio.PublicURL = strings.TrimRight(cfg.Minio.PublicURL, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.TokenSecret == "" || c.TokenSecret == DefaultTokenSecret) {
		return errors.New("ACCESS_TOKEN_SECRET must be set in prod")
	}
	if c.TokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	switch c.Images.Backend {
	case ImagesBackendDisk, ImagesBackendMinio:
	default:
		return fmt.Errorf("unknown IMAGES_BACKEND %q", c.Images.Backend)
	}
	return nil
}

// PlaceholderImageURL is substituted when an edited story carries no image.
func (c Config) PlaceholderImageURL() string {
	return c.PublicURL + "/assests/placeholder1.jpeg"
}

// UploadsURL is the base URL of images served by the disk backend.
func (c Config) UploadsURL() string {
	return c.PublicURL + "/uploads"
}

// DatabaseURL returns a postgres URL usable by both sql.Open and migrate.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Pass),
		Host:     c.DB.Host + ":" + c.DB.Port,
		Path:     "/" + c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}
	return u.String()
}
