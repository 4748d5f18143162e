package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"showcase-backend/cache"
	"showcase-backend/errs"
)

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        *gorm.DB
	cache     *cache.Redis
}

func newHealthHandler(db *gorm.DB, redisCache *cache.Redis) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
		cache:     redisCache,
	}
}

// check pings the database and the cache
// @Summary Health check
// @Description Reports whether the database and the cache are reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Everything reachable"
// @Failure 503 {object} ErrorResponse "Service Unavailable - A dependency is down"
// @Router /health [get]
func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.db != nil {
			sqlDB, err := h.db.DB()
			if err == nil {
				err = sqlDB.PingContext(r.Context())
			}
			if err != nil {
				h.logger.Error().Err(err).Msg("Database unreachable")
				h.responder.WriteError(w, errs.NewServiceUnavailableError("database unreachable"))
				return
			}
		}

		if h.cache != nil {
			if err := h.cache.Ping(r.Context()); err != nil {
				h.logger.Error().Err(err).Msg("Cache unreachable")
				h.responder.WriteError(w, errs.NewServiceUnavailableError("cache unreachable"))
				return
			}
		}

		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}
