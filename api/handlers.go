package api

import (
	"time"

	"showcase-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, c map[string]string) *routeHandlers {
	store := deps.Database.ProjectRepo()
	cacheTTL := time.Duration(config.GetInt(c, "CACHE_TTL_SECONDS", 300)) * time.Second
	webhookSecret := config.GetString(c, "GITHUB_WEBHOOK_SECRET", "")
	strict := config.GetBool(c, "INGEST_STRICT_MODE", true)

	// A typed nil *cache.Redis must not end up inside the interface, so the
	// conversion is guarded
	var reader CacheReader
	if deps.Cache != nil {
		reader = deps.Cache
	}

	return &routeHandlers{
		projectHandler: newProjectHandler(store, reader, cacheTTL),
		webhookHandler: newWebhookHandler(deps.Ingestor, store, webhookSecret, strict),
		adminHandler:   newAdminHandler(deps.Syncer, store),
		healthHandler:  newHealthHandler(store.GetDB(), deps.Cache),
	}
}
