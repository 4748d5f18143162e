package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"showcase-backend/models"
	"showcase-backend/services"
)

type stubStore struct {
	upserted  []*models.Project
	upsertErr error

	deletedIDs []string
	deleteHit  bool
	deleteErr  error

	projects []*models.Project
	findErr  error

	technologies []string

	lastTech      string
	lastLimit     int
	findAllCalls  int
	findByIDCalls int
}

func (s *stubStore) Upsert(project *models.Project) error {
	s.upserted = append(s.upserted, project)
	return s.upsertErr
}

func (s *stubStore) Delete(id string) (bool, error) {
	s.deletedIDs = append(s.deletedIDs, id)
	return s.deleteHit, s.deleteErr
}

func (s *stubStore) FindAll(tech string, limit int) ([]*models.Project, error) {
	s.findAllCalls++
	s.lastTech = tech
	s.lastLimit = limit
	return s.projects, s.findErr
}

func (s *stubStore) FindByID(id string) (*models.Project, error) {
	s.findByIDCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, project := range s.projects {
		if project.ID == id {
			return project, nil
		}
	}
	return nil, nil
}

func (s *stubStore) Technologies() ([]string, error) {
	return s.technologies, s.findErr
}

type stubIngestor struct {
	decision services.Decision
	requests []services.IngestRequest
}

func (s *stubIngestor) Ingest(ctx context.Context, req services.IngestRequest) services.Decision {
	s.requests = append(s.requests, req)
	return s.decision
}

type stubSyncer struct {
	result *services.SyncResult
	err    error
	runs   int
}

func (s *stubSyncer) Run(ctx context.Context) (*services.SyncResult, error) {
	s.runs++
	return s.result, s.err
}

// fakeCache is an in-memory CacheReader that records traffic.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
	failErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failErr != nil {
		return false, f.failErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.failErr != nil {
		return f.failErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func savedProject() *models.Project {
	img := "https://raw.githubusercontent.com/octocat/weather-dashboard/main/docs/shot.png"
	demo := "https://weather.example.com"
	return &models.Project{
		ID:          "weather-dashboard",
		Title:       "Weather Dashboard",
		PrimaryTech: "Vue",
		TechStack:   []string{"Vue", "TypeScript"},
		ImgURL:      &img,
		DemoURL:     &demo,
		RepoURL:     "https://github.com/octocat/weather-dashboard",
	}
}
