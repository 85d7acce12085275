package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ideaforge/dashboard/services"
)

const (
	defaultGitHubBaseURL = "https://api.github.com"
	defaultMaxResults    = 5
	githubUserAgent      = "IdeaForge-Dashboard"
)

// RepoMatch is one repository returned by a similar-project search.
type RepoMatch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	URL         string `json:"url"`
	LastUpdated string `json:"last_updated"`
}

// ProjectSearchResult holds the outcome of a similar-project search.
type ProjectSearchResult struct {
	TotalFound int         `json:"total_found"`
	Projects   []RepoMatch `json:"projects"`
	Message    string      `json:"message"`
}

// GitHubSearcher finds existing projects similar to a description via the
// GitHub repository search API.
type GitHubSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubSearcher creates a searcher against the public GitHub API.
func NewGitHubSearcher() *GitHubSearcher {
	return &GitHubSearcher{
		baseURL: defaultGitHubBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchSimilarProjects searches GitHub repositories matching the query,
// ordered by stars. maxResults below 1 falls back to the default of 5.
func (s *GitHubSearcher) SearchSimilarProjects(ctx context.Context, query string, maxResults int) (*ProjectSearchResult, error) {
	if maxResults < 1 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, services.WrapInternal("failed to create GitHub search request", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", githubUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, services.WrapExternal("GitHub search request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.WrapExternal("failed to read GitHub response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, services.NewDomainError(services.ErrorTypeExternal,
			fmt.Sprintf("GitHub API error: %d", resp.StatusCode), nil).
			WithDetail("status_code", resp.StatusCode)
	}

	var searchResp githubSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, services.WrapExternal("failed to unmarshal GitHub response", err)
	}

	projects := make([]RepoMatch, 0, maxResults)
	for _, item := range searchResp.Items {
		if len(projects) == maxResults {
			break
		}
		match := RepoMatch{
			Name:        item.Name,
			Description: item.Description,
			Stars:       item.StargazersCount,
			Language:    item.Language,
			URL:         item.HTMLURL,
			LastUpdated: item.UpdatedAt,
		}
		if match.Description == "" {
			match.Description = "No description"
		}
		if match.Language == "" {
			match.Language = "Not specified"
		}
		projects = append(projects, match)
	}

	return &ProjectSearchResult{
		TotalFound: searchResp.TotalCount,
		Projects:   projects,
		Message:    fmt.Sprintf("Found %d similar projects on GitHub", len(projects)),
	}, nil
}

type githubSearchResponse struct {
	TotalCount int              `json:"total_count"`
	Items      []githubRepoItem `json:"items"`
}

type githubRepoItem struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
	HTMLURL         string `json:"html_url"`
	UpdatedAt       string `json:"updated_at"`
}
