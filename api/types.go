package api

import (
	"context"
	"time"

	"showcase-backend/models"
	"showcase-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	webhookHandler webhookHandler
	adminHandler   adminHandler
	healthHandler  healthHandler
}

// ProjectStore is the persistence surface the handlers depend on.
type ProjectStore interface {
	Upsert(project *models.Project) error
	Delete(id string) (bool, error)
	FindAll(tech string, limit int) ([]*models.Project, error)
	FindByID(id string) (*models.Project, error)
	Technologies() ([]string, error)
}

// Ingestor runs the ingestion pipeline for one repository.
type Ingestor interface {
	Ingest(ctx context.Context, req services.IngestRequest) services.Decision
}

// Resyncer rebuilds the whole project collection.
type Resyncer interface {
	Run(ctx context.Context) (*services.SyncResult, error)
}

// CacheReader is the read-through cache surface the read handlers use.
type CacheReader interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"tagline.es"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection represents a filtered project listing
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// TechnologyCollection represents the distinct technologies in the showcase
type TechnologyCollection struct {
	Technologies []string `json:"technologies"`
	Total        int      `json:"total"`
}

// WebhookResponse is the JSON shape every webhook reply uses. Status is
// always one of success, skipped, ignored or error.
type WebhookResponse struct {
	Status  string `json:"status"`
	Action  string `json:"action,omitempty"`
	Project string `json:"project,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Deleted *bool  `json:"deleted,omitempty"`
}
