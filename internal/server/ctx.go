package server

import (
	"net/http"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// defaultMaxBody limits request documents to 32 MiB.
const defaultMaxBody = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config      *config.Config
	Engine      *proj.Engine
	MaxBodySize int64
}

// NewServerContext initializes the context.
func NewServerContext(cfg *config.Config, engine *proj.Engine) *ServerContext {
	log.Info().
		Int("projections", len(engine.Identifiers())).
		Str("default_projection", cfg.DefaultProjection).
		Msg("Server context initialized")

	return &ServerContext{
		Config:      cfg,
		Engine:      engine,
		MaxBodySize: defaultMaxBody,
	}
}

// Router builds the HTTP routes.
func (s *ServerContext) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)

	r.Get("/health", s.HandleHealth)
	r.Get("/api/projections", s.HandleProjections)
	r.Post("/api/normalize", s.HandleNormalize)
	r.Post("/api/obsolete", s.HandleObsolete)

	return r
}
