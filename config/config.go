package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-shopping/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Backends
const (
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
	BackendGridFS    = "gridfs"
	BackendDisk      = "disk"
	BackendRedis     = "redis"

	MailPostmark = "postmark"
	MailSendgrid = "sendgrid"
	MailLog      = "log"
)

// Config is the application configuration read from the environment
type Config struct {
	Port string

	StoreBackend       string
	MongoURI           string
	MongoDB            string
	FirestoreProjectID string

	BlobBackend   string
	UploadDir     string
	PublicBaseURL string

	PrefsBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	MailProvider     string
	PostmarkAPIToken string
	SendgridAPIKey   string
	EmailSender      string

	ShippingCharge models.Money
	RequestTimeout time.Duration
	LogLevel       logrus.Level
}

// Load reads .env when present and then the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found. Proceeding with environment variables.")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "8000"),
		StoreBackend:       getenv("STORE_BACKEND", BackendMongo),
		MongoURI:           getenv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDB:            getenv("MONGO_DB", "shopping"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		UploadDir:          getenv("UPLOAD_DIR", "uploads"),
		PrefsBackend:       getenv("PREFS_BACKEND", BackendMemory),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		MailProvider:       getenv("MAIL_PROVIDER", MailLog),
		PostmarkAPIToken:   os.Getenv("POSTMARK_API_TOKEN"),
		SendgridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		EmailSender:        os.Getenv("EMAIL_SENDER"),
	}
	cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port)

	defaultBlobs := BackendDisk
	if cfg.StoreBackend == BackendMongo {
		defaultBlobs = BackendGridFS
	}
	cfg.BlobBackend = getenv("BLOB_BACKEND", defaultBlobs)

	var err error
	if cfg.RedisDB, err = atoi("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	cfg.ShippingCharge = models.NewMoney(120)
	if v := os.Getenv("SHIPPING_CHARGE"); v != "" {
		if cfg.ShippingCharge, err = models.ParseMoney(v); err != nil {
			return Config{}, fmt.Errorf("SHIPPING_CHARGE: %w", err)
		}
	}

	cfg.RequestTimeout = 10 * time.Second
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if cfg.RequestTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be a duration: %w", err)
		}
	}

	if cfg.LogLevel, err = logrus.ParseLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendFirestore:
	case BackendMemory:
		if c.JWTSecret == "" {
			c.JWTSecret = "dev-secret"
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of mongo, firestore, memory, got %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendFirestore && c.FirestoreProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}
	if c.BlobBackend != BackendGridFS && c.BlobBackend != BackendDisk {
		return fmt.Errorf("BLOB_BACKEND must be gridfs or disk, got %q", c.BlobBackend)
	}
	if c.BlobBackend == BackendGridFS && c.StoreBackend != BackendMongo {
		return fmt.Errorf("BLOB_BACKEND gridfs needs STORE_BACKEND mongo")
	}
	if c.PrefsBackend != BackendRedis && c.PrefsBackend != BackendMemory {
		return fmt.Errorf("PREFS_BACKEND must be redis or memory, got %q", c.PrefsBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.MailProvider {
	case MailLog:
	case MailPostmark:
		if c.PostmarkAPIToken == "" {
			return fmt.Errorf("POSTMARK_API_TOKEN is required")
		}
	case MailSendgrid:
		if c.SendgridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required")
		}
	default:
		return fmt.Errorf("MAIL_PROVIDER must be one of postmark, sendgrid, log, got %q", c.MailProvider)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoi(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
