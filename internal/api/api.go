// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/technexus/emblem/internal/config"
	"github.com/technexus/emblem/internal/infrastructure"
	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/middleware"
	"github.com/technexus/emblem/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, err
	}

	domain := NewDomain(cfg, runtime)
	domain.Bulk.Start(runtime.Lifecycle)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(runtime.Verifier, runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
