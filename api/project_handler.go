package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/cache"
	"showcase-backend/errs"
	"showcase-backend/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     ProjectStore
	cache     CacheReader
	cacheTTL  time.Duration
}

func newProjectHandler(store ProjectStore, reader CacheReader, cacheTTL time.Duration) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		cache:     reader,
		cacheTTL:  cacheTTL,
	}
}

// getProjects retrieves projects, optionally filtered by technology
// @Summary List projects
// @Description Retrieves the showcased projects, newest first. The tech filter matches the primary technology or any tech stack entry; limit caps the number of results.
// @Tags Projects
// @Produce json
// @Param tech query string false "Technology filter"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} ProjectCollection "Matching projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid limit"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tech := r.URL.Query().Get("tech")

		limit := 0
		if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
			parsed, err := strconv.Atoi(rawLimit)
			if err != nil || parsed < 1 {
				h.responder.WriteError(w, errs.NewBadRequestErrorWithField("limit must be a positive integer", "limit"))
				return
			}
			limit = parsed
		}

		key := cache.ListKey(tech, limit)
		var cached ProjectCollection
		if h.cacheGet(r.Context(), key, &cached) {
			h.responder.WriteJSON(w, cached)
			return
		}

		projects, err := h.store.FindAll(tech, limit)
		if err != nil {
			h.logger.Error().Err(err).Msg("Error fetching projects")
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		response := ProjectCollection{Projects: projects, Total: len(projects)}
		h.cacheSet(r.Context(), key, response)
		h.responder.WriteJSON(w, response)
	}
}

// getProject retrieves a single project by its slug id
// @Summary Get a project
// @Description Retrieves one project by its slug identifier
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project slug"
// @Success 200 {object} models.Project "The project"
// @Failure 404 {object} ErrorResponse "Not Found - No project with that slug"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching project"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("project id is required"))
			return
		}

		key := cache.DetailKey(projectID)
		var cached ProjectCollection
		if h.cacheGet(r.Context(), key, &cached) && len(cached.Projects) == 1 {
			h.responder.WriteJSON(w, cached.Projects[0])
			return
		}

		project, err := h.store.FindByID(projectID)
		if err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID).Msg("Error fetching project")
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("no project with that slug"))
			return
		}

		h.cacheSet(r.Context(), key, ProjectCollection{Projects: []*models.Project{project}, Total: 1})
		h.responder.WriteJSON(w, project)
	}
}

// getTechnologies retrieves the distinct primary technologies
// @Summary List technologies
// @Description Retrieves the distinct primary technologies across the showcase, for building filter chips
// @Tags Projects
// @Produce json
// @Success 200 {object} TechnologyCollection "Distinct technologies"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching technologies"
// @Router /technologies [get]
func (h projectHandler) getTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cached TechnologyCollection
		if h.cacheGet(r.Context(), cache.KeyTechnologies, &cached) {
			h.responder.WriteJSON(w, cached)
			return
		}

		technologies, err := h.store.Technologies()
		if err != nil {
			h.logger.Error().Err(err).Msg("Error fetching technologies")
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}

		response := TechnologyCollection{Technologies: technologies, Total: len(technologies)}
		h.cacheSet(r.Context(), cache.KeyTechnologies, response)
		h.responder.WriteJSON(w, response)
	}
}

// cacheGet reads a key into dest, treating every cache failure as a miss so
// a broken cache degrades to database reads instead of request errors.
func (h projectHandler) cacheGet(ctx context.Context, key string, dest any) bool {
	if h.cache == nil {
		return false
	}
	found, err := h.cache.Get(ctx, key, dest)
	if err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	return found
}

func (h projectHandler) cacheSet(ctx context.Context, key string, value any) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, key, value, h.cacheTTL); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
