package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/errs"
	"showcase-backend/models"
)

// RepoLister enumerates the repositories of the configured account.
type RepoLister interface {
	ListOwnerRepos(ctx context.Context, owner string) ([]Repository, error)
}

// IngestRunner runs the ingestion pipeline for one repository.
type IngestRunner interface {
	Ingest(ctx context.Context, req IngestRequest) Decision
}

// BulkStore replaces the persisted project collection in one shot.
type BulkStore interface {
	ReplaceAll(projects []*models.Project) error
}

// SnapshotPublisher exports the freshly synced collection somewhere the
// front-end can serve it from directly.
type SnapshotPublisher interface {
	Publish(ctx context.Context, projects []*models.Project) error
}

// SyncResult summarizes one full resynchronization run.
type SyncResult struct {
	RunID   string `json:"run_id"`
	Total   int    `json:"total"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
}

// Syncer rebuilds the whole project collection from the configured GitHub
// account. Unlike the webhook path, which upserts one row at a time, a sync
// deletes everything and bulk inserts the survivors, so repositories that
// vanished upstream fall out without individual delete events.
type Syncer struct {
	lister   RepoLister
	ingestor IngestRunner
	store    BulkStore
	snapshot SnapshotPublisher
	owner    string
	strict   bool
	logger   zerolog.Logger
}

func NewSyncer(lister RepoLister, ingestor IngestRunner, store BulkStore, owner string, strict bool) *Syncer {
	return &Syncer{
		lister:   lister,
		ingestor: ingestor,
		store:    store,
		owner:    owner,
		strict:   strict,
		logger:   log.With().Str("serviceName", "syncer").Logger(),
	}
}

// WithSnapshot attaches an optional post-sync snapshot publisher.
func (s *Syncer) WithSnapshot(publisher SnapshotPublisher) *Syncer {
	s.snapshot = publisher
	return s
}

// Run ingests every owned repository sequentially and replaces the stored
// collection with the accepted candidates. A bad repository only skips
// itself; enumeration and persistence failures abort the run. A snapshot
// failure is logged but does not fail a sync that already committed.
func (s *Syncer) Run(ctx context.Context) (*SyncResult, error) {
	if s.owner == "" {
		return nil, errs.NewMissingEnvVarError("GITHUB_OWNER")
	}

	runID := uuid.New().String()
	logger := s.logger.With().Str("runID", runID).Logger()

	repos, err := s.lister.ListOwnerRepos(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate repositories: %w", err)
	}
	logger.Info().Str("owner", s.owner).Int("repositories", len(repos)).Msg("Starting full resync")

	var accepted []*models.Project
	skipped := 0
	for _, repo := range repos {
		decision := s.ingestor.Ingest(ctx, IngestRequest{
			Owner:  s.owner,
			Repo:   repo.Name,
			Branch: repo.DefaultBranch,
			Strict: s.strict,
		})

		switch decision.Action {
		case ActionSave:
			accepted = append(accepted, decision.Project)
		default:
			skipped++
			logger.Info().Str("repo", repo.FullName).Str("reason", decision.Reason).Msg("Skipped repository")
		}
	}

	if err := s.store.ReplaceAll(accepted); err != nil {
		return nil, fmt.Errorf("failed to replace project collection: %w", err)
	}
	logger.Info().Int("saved", len(accepted)).Int("skipped", skipped).Msg("Full resync complete")

	if s.snapshot != nil {
		if err := s.snapshot.Publish(ctx, accepted); err != nil {
			logger.Error().Err(err).Msg("Snapshot publish failed")
		}
	}

	return &SyncResult{
		RunID:   runID,
		Total:   len(repos),
		Saved:   len(accepted),
		Skipped: skipped,
	}, nil
}
