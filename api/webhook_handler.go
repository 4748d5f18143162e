package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/errs"
	"showcase-backend/models"
	"showcase-backend/services"
)

const (
	signatureHeader = "X-Hub-Signature-256"
	eventHeader     = "X-GitHub-Event"
	deliveryHeader  = "X-GitHub-Delivery"

	// readmeFilename is matched exactly against commit file lists; readmes in
	// subdirectories do not count.
	readmeFilename = "README.md"
)

// pushEvent is the subset of the GitHub push payload the trigger needs.
type pushEvent struct {
	Ref        string `json:"ref"`
	Deleted    bool   `json:"deleted"`
	Repository struct {
		Name          string `json:"name"`
		FullName      string `json:"full_name"`
		DefaultBranch string `json:"default_branch"`
		HTMLURL       string `json:"html_url"`
		Owner         struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	Commits []struct {
		Added    []string `json:"added"`
		Modified []string `json:"modified"`
	} `json:"commits"`
}

type webhookHandler struct {
	responder Responder
	logger    zerolog.Logger
	ingestor  Ingestor
	store     ProjectStore
	secret    string
	strict    bool
}

func newWebhookHandler(ingestor Ingestor, store ProjectStore, secret string, strict bool) webhookHandler {
	logger := log.With().Str("handlerName", "webhookHandler").Logger()
	if secret == "" {
		logger.Warn().Msg("GITHUB_WEBHOOK_SECRET is not set, webhook signatures will not be verified")
	}

	return webhookHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ingestor:  ingestor,
		store:     store,
		secret:    secret,
		strict:    strict,
	}
}

// handlePush ingests the repository behind a push event when the push touched
// the root readme, and removes the project when the default branch was
// deleted upstream
// @Summary GitHub push webhook
// @Description Receives signed push events. Pushes touching README.md re-ingest the repository; a deleted default branch removes the project. Everything else is acknowledged without side effects.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param X-Hub-Signature-256 header string false "HMAC-SHA256 signature of the raw body"
// @Param X-GitHub-Event header string true "GitHub event name"
// @Success 200 {object} WebhookResponse "Outcome of the delivery"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed payload"
// @Failure 401 {object} ErrorResponse "Unauthorized - Signature mismatch"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Persistence failure"
// @Router /webhook/github [post]
func (h webhookHandler) handlePush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			h.responder.WriteError(w, errs.NewMethodNotAllowedError(r.Method))
			return
		}

		delivery := r.Header.Get(deliveryHeader)
		if delivery == "" {
			delivery = uuid.New().String()
		}
		logger := h.logger.With().Str("delivery", delivery).Logger()

		// The raw body is needed for signature verification, so it is read
		// before any decoding
		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook body")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		if err := h.verifySignature(body, r.Header.Get(signatureHeader)); err != nil {
			logger.Warn().Msg("Webhook signature rejected")
			h.responder.WriteError(w, errs.NewSignatureError())
			return
		}

		if event := r.Header.Get(eventHeader); event != "push" {
			logger.Info().Str("event", event).Msg("Ignoring non-push event")
			h.responder.WriteJSON(w, WebhookResponse{
				Status:  "ignored",
				Message: fmt.Sprintf("event %q is not processed", event),
			})
			return
		}

		var payload pushEvent
		if err := json.Unmarshal(body, &payload); err != nil {
			logger.Error().Err(err).Msg("Failed to decode push payload")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed push payload"))
			return
		}

		owner := payload.Repository.Owner.Login
		repo := payload.Repository.Name
		if owner == "" || repo == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("payload is missing the repository identity"))
			return
		}
		branch := strings.TrimPrefix(payload.Ref, "refs/heads/")

		removed := payload.Deleted && branch == payload.Repository.DefaultBranch
		if !removed && !touchesReadme(payload) {
			logger.Info().Str("repo", payload.Repository.FullName).Msg("Push without readme changes")
			h.responder.WriteJSON(w, WebhookResponse{Status: "skipped", Reason: "no README changes"})
			return
		}

		decision := h.ingestor.Ingest(r.Context(), services.IngestRequest{
			Owner:   owner,
			Repo:    repo,
			Branch:  branch,
			Strict:  h.strict,
			Removed: removed,
		})

		switch decision.Action {
		case services.ActionSave:
			if err := h.store.Upsert(decision.Project); err != nil {
				logger.Error().Err(err).Str("project", decision.Project.ID).Msg("Failed to persist project")
				h.responder.WriteError(w, wrapDatabaseError("upsert", "project", err))
				return
			}
			logger.Info().Str("project", decision.Project.ID).Msg("Project saved")
			h.responder.WriteJSON(w, WebhookResponse{
				Status:  "success",
				Action:  "saved",
				Project: decision.Project.Title,
			})

		case services.ActionDelete:
			projectID := models.Slugify(repo)
			deleted, err := h.store.Delete(projectID)
			if err != nil {
				logger.Error().Err(err).Str("project", projectID).Msg("Failed to delete project")
				h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
				return
			}
			logger.Info().Str("project", projectID).Bool("deleted", deleted).Msg("Project removal processed")
			h.responder.WriteJSON(w, WebhookResponse{
				Status:  "success",
				Action:  "deleted",
				Project: projectID,
				Deleted: &deleted,
			})

		default:
			logger.Info().Str("repo", payload.Repository.FullName).Str("reason", decision.Reason).Msg("Delivery skipped")
			h.responder.WriteJSON(w, WebhookResponse{Status: "skipped", Reason: decision.Reason})
		}
	}
}

// verifySignature checks the hub signature over the raw body. An empty
// configured secret skips verification entirely; the handler warned about
// that at construction.
func (h webhookHandler) verifySignature(body []byte, header string) error {
	if h.secret == "" {
		h.logger.Warn().Msg("Skipping webhook signature verification: no secret configured")
		return nil
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(header)) {
		return errs.ErrSignatureMismatch
	}
	return nil
}

// touchesReadme reports whether any commit in the push added or modified the
// readme at the repository root.
func touchesReadme(payload pushEvent) bool {
	for _, commit := range payload.Commits {
		for _, path := range commit.Added {
			if path == readmeFilename {
				return true
			}
		}
		for _, path := range commit.Modified {
			if path == readmeFilename {
				return true
			}
		}
	}
	return false
}
