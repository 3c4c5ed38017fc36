package api

import (
	"net/http"

	"github.com/technexus/emblem/internal/config"
	"github.com/technexus/emblem/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	badgesHandler := domain.Badges.Handler(runtime.Authorizer)

	routes.Register(
		mux,
		domain.Profiles.Handler(domain.Badges, runtime.Authorizer).Routes(),
		badgesHandler.Routes(),
		badgesHandler.AdminRoutes(),
		domain.Bulk.Handler(runtime.Authorizer, maxUpload).Routes(),
		newUploadsHandler(runtime, maxUpload).routes(),
	)
}
