package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"showcase-backend/errs"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	githubAPIVersion = "2022-11-28"

	defaultBranch  = "main"
	fallbackBranch = "master"

	// readmeMinChars is the floor below which a readme carries too little
	// signal to extract anything meaningful from.
	readmeMinChars = 50

	maxReadmeBytes = 10 << 20
	reposPerPage   = 100
)

// Repository is the subset of the GitHub repository payload the sync needs.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
	HTMLURL       string `json:"html_url"`
}

// GitHubClient reads readme content and repository listings from the GitHub
// REST API.
type GitHubClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGitHubClient builds a client against baseURL (the public API when
// empty). With a token, requests are authenticated and get the higher rate
// limit; without one, public repositories still work.
func NewGitHubClient(baseURL, token string) *GitHubClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), source)
		httpClient.Timeout = 30 * time.Second
	}

	if baseURL == "" {
		baseURL = defaultGitHubAPI
	}

	return &GitHubClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log.With().Str("serviceName", "githubClient").Logger(),
	}
}

// FetchReadme retrieves the readme for owner/repo at branch in raw form. A
// missing readme on the default branch is retried exactly once against the
// fallback branch; any other branch fails without a retry. Content below the
// minimum length is rejected.
func (c *GitHubClient) FetchReadme(ctx context.Context, owner, repo, branch string) (string, error) {
	if branch == "" {
		branch = defaultBranch
	}

	content, err := c.fetchReadmeAt(ctx, owner, repo, branch)
	if errs.IsReadmeNotFound(err) && branch == defaultBranch {
		c.logger.Info().Str("repo", owner+"/"+repo).Msg("Readme not found on main, retrying master")
		content, err = c.fetchReadmeAt(ctx, owner, repo, fallbackBranch)
	}
	if err != nil {
		return "", err
	}

	if length := utf8.RuneCountInString(content); length < readmeMinChars {
		return "", errs.NewReadmeTooShortError(length, readmeMinChars)
	}
	return content, nil
}

func (c *GitHubClient) fetchReadmeAt(ctx context.Context, owner, repo, branch string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/readme?ref=%s", c.baseURL, owner, repo, branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build readme request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch readme for %s/%s: %w", owner, repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", errs.NewReadmeNotFoundError(owner, repo)
	}
	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("github returned HTTP %d for %s/%s readme: %s", resp.StatusCode, owner, repo, strings.TrimSpace(string(excerpt)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read readme body for %s/%s: %w", owner, repo, err)
	}
	return string(body), nil
}

// ListOwnerRepos enumerates the repositories owned by the given account,
// following pagination and dropping forks and archived repositories.
func (c *GitHubClient) ListOwnerRepos(ctx context.Context, owner string) ([]Repository, error) {
	var all []Repository

	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/users/%s/repos?type=owner&per_page=%d&page=%d", c.baseURL, owner, reposPerPage, page)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build repository list request: %w", err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", owner, err)
		}

		if resp.StatusCode != http.StatusOK {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return nil, fmt.Errorf("github returned HTTP %d listing repositories for %s: %s", resp.StatusCode, owner, strings.TrimSpace(string(excerpt)))
		}

		var batch []Repository
		err = json.NewDecoder(resp.Body).Decode(&batch)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode repository list for %s: %w", owner, err)
		}

		for _, repo := range batch {
			if repo.Fork || repo.Archived {
				continue
			}
			all = append(all, repo)
		}

		if len(batch) < reposPerPage {
			break
		}
	}

	c.logger.Info().Str("owner", owner).Int("repositories", len(all)).Msg("Enumerated owned repositories")
	return all, nil
}
