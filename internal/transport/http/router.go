package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-files-api/internal/application/auth"
	fileapp "github.com/go-files-api/internal/application/file"
	"github.com/go-files-api/internal/application/status"
	"github.com/go-files-api/internal/application/user"
	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/transport/http/handler"
	appmiddleware "github.com/go-files-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Services holds the application services the router exposes.
type Services struct {
	Users  user.Service
	Auth   auth.Service
	Files  fileapp.Service
	Status status.Service
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, svc *Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.TokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	requireUser := appmiddleware.RequireUser(svc.Auth)

	appH := handler.NewAppHandler(svc.Status)
	userH := handler.NewUserHandler(svc.Users)
	authH := handler.NewAuthHandler(svc.Auth)
	fileH := handler.NewFileHandler(svc.Files, int64(cfg.MaxUploadSize))

	r.Get("/status", appH.Status)
	r.Get("/stats", appH.Stats)
	r.With(sensitiveRL.Limit).Post("/users", userH.Create)
	r.With(sensitiveRL.Limit).Get("/connect", authH.Connect)
	r.Get("/disconnect", authH.Disconnect)
	r.With(appmiddleware.OptionalUser(svc.Auth)).Get("/files/{id}/data", fileH.Data)

	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/users/me", userH.Me)
		r.Post("/files", fileH.Upload)
		r.Get("/files", fileH.Index)
		r.Get("/files/{id}", fileH.Show)
		r.Put("/files/{id}/publish", fileH.Publish)
		r.Put("/files/{id}/unpublish", fileH.Unpublish)
	})

	return r
}
