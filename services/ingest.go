package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"showcase-backend/errs"
	"showcase-backend/models"
)

// Action is the terminal outcome of one ingestion attempt.
type Action string

const (
	ActionSave   Action = "save"
	ActionSkip   Action = "skip"
	ActionDelete Action = "delete"
)

// Decision is the orchestrator verdict for one repository. Project is set
// only on a save.
type Decision struct {
	Action  Action
	Project *models.Project
	Reason  string
}

// IngestRequest identifies one repository ingestion attempt.
type IngestRequest struct {
	Owner  string
	Repo   string
	Branch string
	// Strict requires both the screenshot and the demo URL before a
	// candidate may be saved.
	Strict bool
	// Removed marks an external signal that the repository is gone. The
	// pipeline answers with a delete decision without fetching anything.
	Removed bool
}

// ReadmeFetcher retrieves readme content for a repository.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, owner, repo, branch string) (string, error)
}

// ProjectExtractor produces a project candidate from readme text.
type ProjectExtractor interface {
	Extract(ctx context.Context, readme, repoURL string) (*models.Project, error)
}

// Ingestor runs fetch, extraction and the quality gate for one repository
// and reports what should happen to it. It never touches storage; persisting
// the decision is the caller's job, so a batch run and a webhook delivery
// can share the exact same pipeline.
type Ingestor struct {
	fetcher   ReadmeFetcher
	extractor ProjectExtractor
	logger    zerolog.Logger
}

func NewIngestor(fetcher ReadmeFetcher, extractor ProjectExtractor) *Ingestor {
	return &Ingestor{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    log.With().Str("serviceName", "ingestor").Logger(),
	}
}

// Ingest produces the decision for one repository. Fetch and extraction
// failures become skips so one bad repository never aborts a batch; only the
// caller's persistence step may fail the overall operation.
func (i *Ingestor) Ingest(ctx context.Context, req IngestRequest) Decision {
	repoURL := fmt.Sprintf("https://github.com/%s/%s", req.Owner, req.Repo)
	logger := i.logger.With().Str("repo", req.Owner+"/"+req.Repo).Logger()

	if req.Removed {
		logger.Info().Msg("Repository removed upstream, deleting project")
		return Decision{Action: ActionDelete, Reason: "source repository removed"}
	}

	readme, err := i.fetcher.FetchReadme(ctx, req.Owner, req.Repo, req.Branch)
	if err != nil {
		if errs.IsReadmeNotFound(err) || errs.IsReadmeTooShort(err) {
			logger.Info().Str("reason", err.Error()).Msg("Skipping repository")
		} else {
			logger.Error().Err(err).Msg("Readme fetch failed, skipping repository")
		}
		return Decision{Action: ActionSkip, Reason: err.Error()}
	}

	project, err := i.extractor.Extract(ctx, readme, repoURL)
	if err != nil {
		logger.Error().Err(err).Msg("Extraction failed, skipping repository")
		return Decision{Action: ActionSkip, Reason: err.Error()}
	}

	if missing := missingAssets(project); len(missing) > 0 {
		if req.Strict {
			reason := "missing assets: " + strings.Join(missing, ", ")
			logger.Info().Str("reason", reason).Msg("Candidate rejected by quality gate")
			return Decision{Action: ActionSkip, Reason: reason}
		}
		logger.Warn().Strs("missing", missing).Msg("Candidate accepted with missing assets")
	}

	logger.Info().Str("project", project.ID).Msg("Candidate accepted")
	return Decision{Action: ActionSave, Project: project}
}

// missingAssets lists the showcase assets absent from a candidate. Strict
// mode refuses anything that cannot be rendered as a full showcase card,
// which needs both a screenshot and a live demo link.
func missingAssets(project *models.Project) []string {
	var missing []string
	if project.ImgURL == nil || *project.ImgURL == "" {
		missing = append(missing, "img_url")
	}
	if project.DemoURL == nil || *project.DemoURL == "" {
		missing = append(missing, "demo_url")
	}
	return missing
}
