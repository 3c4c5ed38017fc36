package api

import (
	"github.com/technexus/emblem/internal/badges"
	"github.com/technexus/emblem/internal/bulk"
	"github.com/technexus/emblem/internal/config"
	"github.com/technexus/emblem/internal/profiles"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Profiles profiles.System
	Badges   badges.System
	Bulk     bulk.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	profilesSystem := profiles.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	badgesSystem := badges.New(
		runtime.Database.Connection(),
		profilesSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	store := bulk.NewStore(runtime.Database.Connection(), runtime.Pagination)

	runner := bulk.NewRunner(
		badgesSystem,
		runtime.Mail,
		store,
		runtime.Logger,
		cfg.Bulk.ChunkSize,
		cfg.Mail.AppURL,
	)

	bulkSystem := bulk.New(
		runtime.Lifecycle.Context(),
		store,
		runtime.Storage,
		runner,
		runtime.Logger,
		runtime.Pagination,
		cfg.Bulk,
	)

	return &Domain{
		Profiles: profilesSystem,
		Badges:   badgesSystem,
		Bulk:     bulkSystem,
	}
}
