package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/errs"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	syncer    Resyncer
	store     ProjectStore
}

func newAdminHandler(syncer Resyncer, store ProjectStore) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		syncer:    syncer,
		store:     store,
	}
}

// triggerSync rebuilds the whole collection from the configured account
// @Summary Trigger a full resync
// @Description Enumerates every owned repository, re-ingests each one and replaces the stored collection with the result
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.SyncResult "Run summary"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Resync failed"
// @Router /admin/sync [post]
func (h adminHandler) triggerSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := ctxGetSubject(r.Context())
		h.logger.Info().Str("subject", subject).Msg("Full resync requested")

		result, err := h.syncer.Run(r.Context())
		if err != nil {
			h.logger.Error().Err(err).Msg("Full resync failed")
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("full resync failed", err))
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// deleteProject removes one project by slug id
// @Summary Delete a project
// @Description Removes one project from the showcase by its slug
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param projectID path string true "Project slug"
// @Success 200 {object} WebhookResponse "Deletion outcome"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Deletion failed"
// @Router /admin/project/{projectID} [delete]
func (h adminHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("project id is required"))
			return
		}

		deleted, err := h.store.Delete(projectID)
		if err != nil {
			h.logger.Error().Err(err).Str("projectID", projectID).Msg("Error deleting project")
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}

		h.logger.Info().Str("projectID", projectID).Bool("deleted", deleted).Str("subject", ctxGetSubject(r.Context())).Msg("Project deletion processed")
		h.responder.WriteJSON(w, WebhookResponse{
			Status:  "success",
			Action:  "deleted",
			Project: projectID,
			Deleted: &deleted,
		})
	}
}
