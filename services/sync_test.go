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

type stubLister struct {
	repos []Repository
	err   error
}

func (s *stubLister) ListOwnerRepos(ctx context.Context, owner string) ([]Repository, error) {
	return s.repos, s.err
}

type stubRunner struct {
	decisions map[string]Decision
	requests  []IngestRequest
}

func (s *stubRunner) Ingest(ctx context.Context, req IngestRequest) Decision {
	s.requests = append(s.requests, req)
	return s.decisions[req.Repo]
}

type spyBulkStore struct {
	replaced [][]*models.Project
	err      error
}

func (s *spyBulkStore) ReplaceAll(projects []*models.Project) error {
	s.replaced = append(s.replaced, projects)
	return s.err
}

type stubSnapshot struct {
	published [][]*models.Project
	err       error
}

func (s *stubSnapshot) Publish(ctx context.Context, projects []*models.Project) error {
	s.published = append(s.published, projects)
	return s.err
}

func threeRepos() []Repository {
	return []Repository{
		{Name: "weather-dashboard", FullName: "octocat/weather-dashboard", DefaultBranch: "main"},
		{Name: "recipe-box", FullName: "octocat/recipe-box", DefaultBranch: "master"},
		{Name: "dotfiles", FullName: "octocat/dotfiles", DefaultBranch: "main"},
	}
}

func threeDecisions() map[string]Decision {
	return map[string]Decision{
		"weather-dashboard": {Action: ActionSave, Project: &models.Project{ID: "weather-dashboard"}},
		"recipe-box":        {Action: ActionSave, Project: &models.Project{ID: "recipe-box"}},
		"dotfiles":          {Action: ActionSkip, Reason: "readme too short: 20 characters, minimum is 50"},
	}
}

func TestRunReplacesCollectionWithAcceptedProjects(t *testing.T) {
	runner := &stubRunner{decisions: threeDecisions()}
	store := &spyBulkStore{}
	syncer := NewSyncer(&stubLister{repos: threeRepos()}, runner, store, "octocat", true)

	result, err := syncer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 1, result.Skipped)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, store.replaced, 1)
	require.Len(t, store.replaced[0], 2)
	assert.Equal(t, "weather-dashboard", store.replaced[0][0].ID)
	assert.Equal(t, "recipe-box", store.replaced[0][1].ID)
}

func TestRunPassesBranchAndStrictnessThrough(t *testing.T) {
	runner := &stubRunner{decisions: threeDecisions()}
	syncer := NewSyncer(&stubLister{repos: threeRepos()}, runner, &spyBulkStore{}, "octocat", true)

	_, err := syncer.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, runner.requests, 3)
	assert.Equal(t, "master", runner.requests[1].Branch)
	for _, req := range runner.requests {
		assert.Equal(t, "octocat", req.Owner)
		assert.True(t, req.Strict)
		assert.False(t, req.Removed)
	}
}

func TestRunAbortsOnEnumerationFailure(t *testing.T) {
	syncer := NewSyncer(&stubLister{err: errors.New("HTTP 403")}, &stubRunner{}, &spyBulkStore{}, "octocat", true)

	_, err := syncer.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enumerate repositories")
}

func TestRunAbortsOnPersistenceFailure(t *testing.T) {
	store := &spyBulkStore{err: errors.New("connection refused")}
	syncer := NewSyncer(&stubLister{repos: threeRepos()}, &stubRunner{decisions: threeDecisions()}, store, "octocat", true)

	_, err := syncer.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to replace project collection")
}

func TestRunRequiresOwner(t *testing.T) {
	syncer := NewSyncer(&stubLister{}, &stubRunner{}, &spyBulkStore{}, "", true)

	_, err := syncer.Run(context.Background())

	assert.True(t, errors.Is(err, errs.ErrMissingEnvVar))
}

func TestRunSurvivesSnapshotFailure(t *testing.T) {
	snapshot := &stubSnapshot{err: errors.New("access denied")}
	syncer := NewSyncer(&stubLister{repos: threeRepos()}, &stubRunner{decisions: threeDecisions()}, &spyBulkStore{}, "octocat", true).
		WithSnapshot(snapshot)

	result, err := syncer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	require.Len(t, snapshot.published, 1)
	assert.Len(t, snapshot.published[0], 2)
}

func TestRunEmptyAccountStillReplaces(t *testing.T) {
	store := &spyBulkStore{}
	syncer := NewSyncer(&stubLister{repos: nil}, &stubRunner{}, store, "octocat", true)

	result, err := syncer.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	require.Len(t, store.replaced, 1)
	assert.Empty(t, store.replaced[0])
}
