// Package app holds the long-lived dependencies shared by the HTTP server and
// the background jobs.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/travel-journal/internal/config"
	"github.com/crucial707/travel-journal/internal/images"
	"github.com/crucial707/travel-journal/internal/middleware"
	"github.com/crucial707/travel-journal/internal/repo"
	"github.com/crucial707/travel-journal/internal/token"
)

type App struct {
	Config  config.Config
	DB      *sql.DB
	Users   *repo.UserRepo
	Stories *repo.StoryRepo
	Tokens  *token.Service
	Images  images.Store

	// AuthLimiter throttles /login and /create-account per client IP.
	AuthLimiter *middleware.IPRateLimiter
}

func New(cfg config.Config, db *sql.DB, store images.Store) *App {
	return &App{
		Config:      cfg,
		DB:          db,
		Users:       repo.NewUserRepo(db),
		Stories:     repo.NewStoryRepo(db, cfg.PlaceholderImageURL()),
		Tokens:      token.NewService([]byte(cfg.TokenSecret), cfg.TokenTTL),
		Images:      store,
		AuthLimiter: middleware.AuthRateLimiter(),
	}
}

// NewImageStore builds the backend selected by IMAGES_BACKEND.
func NewImageStore(ctx context.Context, cfg config.Config) (images.Store, error) {
	switch cfg.Images.Backend {
	case config.ImagesBackendDisk:
		return images.NewDiskStore(cfg.Images.Dir, cfg.UploadsURL())
	case config.ImagesBackendMinio:
		return images.NewMinioStore(ctx, images.MinioOptions{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.Images.Backend)
	}
}

// Ready reports whether the database answers.
func (a *App) Ready(ctx context.Context) error {
	return a.DB.PingContext(ctx)
}
