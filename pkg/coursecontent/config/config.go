// Package config wires a course content service from environment settings.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizcraft/course-content/pkg/coursecontent"
	fsstore "github.com/quizcraft/course-content/pkg/coursecontent/store/fs"
	memorystore "github.com/quizcraft/course-content/pkg/coursecontent/store/memory"
	pgstore "github.com/quizcraft/course-content/pkg/coursecontent/store/postgres"
	redisstore "github.com/quizcraft/course-content/pkg/coursecontent/store/redis"
	s3store "github.com/quizcraft/course-content/pkg/coursecontent/store/s3"
)

// ServerConfig represents server configuration for the course content service.
//
// The catalog store is selected by CATALOG_STORE_URL:
//
//	memory://                    in-memory store (default)
//	file:///path/to/catalog.json single JSON file
//	s3://bucket/key              S3-compatible object (details via S3_* settings)
//	postgres://user:pw@host/db   single jsonb row
//	redis://host:6379/0          single key
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	StoreURL string `env:"CATALOG_STORE_URL" env-default:"memory://"`
	RedisKey string `env:"CATALOG_REDIS_KEY" env-default:""`

	SaveRetryAttempts int           `env:"CATALOG_SAVE_RETRY" env-default:"3"`
	SaveRetryBackoff  time.Duration `env:"CATALOG_SAVE_BACKOFF" env-default:"100ms"`
	PermissiveAnswers bool          `env:"CATALOG_PERMISSIVE_ANSWERS" env-default:"false"`

	// Mutation routes are left open when no secret is configured.
	JWTSecret string `env:"JWT_SECRET" env-default:""`
	AdminRole string `env:"ADMIN_ROLE" env-default:"admin"`

	S3 S3Config
}

// S3Config holds credentials and endpoint details for the s3 store scheme.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_PATH_STYLE" env-default:"false"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	u, err := url.Parse(c.StoreURL)
	if err != nil {
		return fmt.Errorf("invalid CATALOG_STORE_URL: %w", err)
	}
	switch u.Scheme {
	case "", "memory":
	case "file":
		if u.Path == "" {
			return errors.New("file store requires a path, e.g. file:///var/lib/quiz/catalog.json")
		}
	case "s3":
		if u.Host == "" {
			return errors.New("s3 store requires a bucket, e.g. s3://quiz-content/catalog.json")
		}
	case "postgres", "postgresql":
	case "redis", "rediss":
	default:
		return fmt.Errorf("unsupported catalog store scheme %q", u.Scheme)
	}

	return nil
}

// BuildStore creates the catalog Store selected by the configuration.
func (c *ServerConfig) BuildStore(ctx context.Context) (coursecontent.Store, error) {
	u, err := url.Parse(c.StoreURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_STORE_URL: %w", err)
	}

	switch u.Scheme {
	case "", "memory":
		return memorystore.New(), nil

	case "file":
		return fsstore.New(fsstore.Config{Path: u.Path})

	case "s3":
		return s3store.New(s3store.Config{
			Region:                 c.S3.Region,
			Bucket:                 u.Host,
			Key:                    strings.TrimPrefix(u.Path, "/"),
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})

	case "postgres", "postgresql":
		pool, err := pgxpool.New(ctx, c.StoreURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		store := pgstore.NewWithPool(pool)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case "redis", "rediss":
		opt, err := redis.ParseURL(c.StoreURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return redisstore.New(redis.NewClient(opt), c.RedisKey), nil

	default:
		return nil, fmt.Errorf("unsupported catalog store scheme %q", u.Scheme)
	}
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (coursecontent.Service, error) {
	store, err := c.BuildStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog store: %w", err)
	}

	options := []coursecontent.Option{
		coursecontent.WithStore(store),
		coursecontent.WithSaveRetry(c.SaveRetryAttempts, c.SaveRetryBackoff),
		coursecontent.WithEventSink(coursecontent.NewLogEventSink(logger)),
	}
	if c.PermissiveAnswers {
		options = append(options, coursecontent.WithPermissiveAnswers())
	}

	return coursecontent.New(options...)
}
