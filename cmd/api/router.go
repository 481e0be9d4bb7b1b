package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/crucial707/travel-journal/internal/app"
	"github.com/crucial707/travel-journal/internal/config"
	"github.com/crucial707/travel-journal/internal/handlers"
	"github.com/crucial707/travel-journal/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ==========================
// Router
// ==========================
func newRouter(a *app.App) http.Handler {
	cfg := a.Config

	authHandler := &handlers.AuthHandler{UserRepo: a.Users, Tokens: a.Tokens}
	userHandler := &handlers.UserHandler{Repo: a.Users}
	storyHandler := &handlers.StoryHandler{Repo: a.Stories, Images: a.Images}
	imageHandler := &handlers.ImageHandler{Store: a.Images, MaxUploadBytes: cfg.Images.MaxUploadBytes}

	requireAuth := middleware.JWTMiddleware(a.Tokens)
	limitBody := middleware.MaxBytes(middleware.DefaultMaxBodyBytes)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// ===== Ops =====
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.JSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Ready(ctx); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		handlers.JSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// ===== Public =====
	r.Group(func(r chi.Router) {
		r.Use(a.AuthLimiter.Middleware)
		r.Use(limitBody)
		r.Post("/create-account", authHandler.CreateAccount)
		r.Post("/login", authHandler.Login)
	})

	// ===== Images =====
	// upload enforces MaxUploadBytes itself
	r.Group(func(r chi.Router) {
		if cfg.Images.RequireAuth {
			r.Use(requireAuth)
		}
		r.Post("/image-upload", imageHandler.Upload)
		r.Delete("/delete-image", imageHandler.DeleteImage)
	})

	// ===== Protected =====
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(limitBody)
		r.Get("/get-user", userHandler.GetUser)
		r.Post("/add-travel-story", storyHandler.AddStory)
		r.Get("/get-all-stories", storyHandler.GetAllStories)
		r.Post("/edit-story/{id}", storyHandler.EditStory)
		r.Delete("/delete-story/{id}", storyHandler.DeleteStory)
		r.Put("/update-favourite/{id}", storyHandler.UpdateFavourite)
		r.Get("/search-story", storyHandler.SearchStories)
		r.Get("/filter-by-date", storyHandler.FilterByDate)
	})

	// ===== Static =====
	if cfg.Images.Backend == config.ImagesBackendDisk {
		r.Handle("/uploads/*", staticFiles("/uploads/", cfg.Images.Dir))
	}
	r.Handle("/assests/*", staticFiles("/assests/", cfg.Images.AssetsDir))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// staticFiles serves dir under prefix without directory listings.
func staticFiles(prefix, dir string) http.Handler {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			handlers.JSONError(w, "Not found", http.StatusNotFound)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
