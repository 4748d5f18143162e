package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase-backend/errs"
	"showcase-backend/models"
)

type stubFetcher struct {
	content string
	err     error
	calls   int
}

func (s *stubFetcher) FetchReadme(ctx context.Context, owner, repo, branch string) (string, error) {
	s.calls++
	return s.content, s.err
}

type stubExtractor struct {
	project *models.Project
	err     error
	calls   int
}

func (s *stubExtractor) Extract(ctx context.Context, readme, repoURL string) (*models.Project, error) {
	s.calls++
	return s.project, s.err
}

func fullProject() *models.Project {
	img := "https://raw.githubusercontent.com/octocat/weather-dashboard/main/docs/shot.png"
	demo := "https://weather.example.com"
	return &models.Project{
		ID:          "weather-dashboard",
		Title:       "Weather Dashboard",
		PrimaryTech: "Vue",
		ImgURL:      &img,
		DemoURL:     &demo,
		RepoURL:     "https://github.com/octocat/weather-dashboard",
	}
}

func ingestReq(strict bool) IngestRequest {
	return IngestRequest{
		Owner:  "octocat",
		Repo:   "weather-dashboard",
		Branch: "main",
		Strict: strict,
	}
}

func TestIngestSavesCompleteCandidate(t *testing.T) {
	fetcher := &stubFetcher{content: sampleReadme}
	extractor := &stubExtractor{project: fullProject()}
	ingestor := NewIngestor(fetcher, extractor)

	decision := ingestor.Ingest(context.Background(), ingestReq(true))

	assert.Equal(t, ActionSave, decision.Action)
	require.NotNil(t, decision.Project)
	assert.Equal(t, "weather-dashboard", decision.Project.ID)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, extractor.calls)
}

func TestIngestSkipsWhenReadmeNotFound(t *testing.T) {
	fetcher := &stubFetcher{err: errs.NewReadmeNotFoundError("octocat", "weather-dashboard")}
	extractor := &stubExtractor{project: fullProject()}
	ingestor := NewIngestor(fetcher, extractor)

	decision := ingestor.Ingest(context.Background(), ingestReq(true))

	assert.Equal(t, ActionSkip, decision.Action)
	assert.Contains(t, decision.Reason, "readme not found")
	assert.Equal(t, 0, extractor.calls, "no model call should happen for a missing readme")
}

func TestIngestSkipsWhenReadmeTooShort(t *testing.T) {
	fetcher := &stubFetcher{err: errs.NewReadmeTooShortError(12, 50)}
	extractor := &stubExtractor{}
	ingestor := NewIngestor(fetcher, extractor)

	decision := ingestor.Ingest(context.Background(), ingestReq(true))

	assert.Equal(t, ActionSkip, decision.Action)
	assert.Contains(t, decision.Reason, "readme too short")
	assert.Equal(t, 0, extractor.calls)
}

func TestIngestSkipsOnExtractionFailure(t *testing.T) {
	fetcher := &stubFetcher{content: sampleReadme}
	extractor := &stubExtractor{err: errs.NewExtractionError(errors.New("unexpected end of JSON input"))}
	ingestor := NewIngestor(fetcher, extractor)

	decision := ingestor.Ingest(context.Background(), ingestReq(true))

	assert.Equal(t, ActionSkip, decision.Action)
	assert.Contains(t, decision.Reason, "extraction failed")
}

func TestIngestStrictGateRejectsMissingAssets(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *models.Project)
		wantReason string
	}{
		{
			name:       "no screenshot",
			mutate:     func(p *models.Project) { p.ImgURL = nil },
			wantReason: "missing assets: img_url",
		},
		{
			name:       "no demo",
			mutate:     func(p *models.Project) { p.DemoURL = nil },
			wantReason: "missing assets: demo_url",
		},
		{
			name: "neither",
			mutate: func(p *models.Project) {
				p.ImgURL = nil
				p.DemoURL = nil
			},
			wantReason: "missing assets: img_url, demo_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := fullProject()
			tt.mutate(project)
			ingestor := NewIngestor(&stubFetcher{content: sampleReadme}, &stubExtractor{project: project})

			decision := ingestor.Ingest(context.Background(), ingestReq(true))

			assert.Equal(t, ActionSkip, decision.Action)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestIngestLenientModeAcceptsMissingAssets(t *testing.T) {
	project := fullProject()
	project.ImgURL = nil
	project.DemoURL = nil
	ingestor := NewIngestor(&stubFetcher{content: sampleReadme}, &stubExtractor{project: project})

	decision := ingestor.Ingest(context.Background(), ingestReq(false))

	assert.Equal(t, ActionSave, decision.Action)
	require.NotNil(t, decision.Project)
}

func TestIngestRemovedRepositoryDeletesWithoutFetching(t *testing.T) {
	fetcher := &stubFetcher{content: sampleReadme}
	extractor := &stubExtractor{project: fullProject()}
	ingestor := NewIngestor(fetcher, extractor)

	req := ingestReq(true)
	req.Removed = true
	decision := ingestor.Ingest(context.Background(), req)

	assert.Equal(t, ActionDelete, decision.Action)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, extractor.calls)
}
