package git

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bianoble/flakewatch/internal/model"
	"github.com/rs/zerolog/log"
)

// Provider REST clients. Each answers "commits ahead" or "changelog" with
// a single GET; any transport error, non-success status or unexpected
// response shape makes the caller fall back to the local mirror. The one
// exception is GitHub rate-limit exhaustion, which is reported directly so
// it is never masked behind a slow clone.

func (s *Service) githubAhead(ctx context.Context, input *model.GitInput) (int, error) {
	branch := orHead(input.Reference)
	url := fmt.Sprintf("%s/repos/%s/%s/compare/%s...%s",
		s.githubAPI(), input.Owner, input.Repo, input.Rev, branch)

	resp, err := s.githubGet(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := s.classifyGitHub(resp); err != nil {
		return 0, err
	}

	var data struct {
		AheadBy int `json:"ahead_by"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, &NetworkError{Msg: "decoding compare response", Err: err}
	}
	return data.AheadBy, nil
}

func (s *Service) githubChangelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error) {
	branch := orHead(input.Reference)
	url := fmt.Sprintf("%s/repos/%s/%s/commits?sha=%s&per_page=100",
		s.githubAPI(), input.Owner, input.Repo, branch)

	resp, err := s.githubGet(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := s.classifyGitHub(resp); err != nil {
		return nil, err
	}

	var commits []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  *struct {
				Name string `json:"name"`
				Date string `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return nil, &NetworkError{Msg: "decoding commits response", Err: err}
	}

	data := &model.ChangelogData{}
	for i, c := range commits {
		author, date := "Unknown", time.Now().UTC()
		if a := c.Commit.Author; a != nil {
			if a.Name != "" {
				author = a.Name
			}
			if t, err := time.Parse(time.RFC3339, a.Date); err == nil {
				date = t.UTC()
			}
		}
		message, _, _ := strings.Cut(c.Commit.Message, "\n")
		locked := matchesRev(c.SHA, input.Rev)
		if locked {
			idx := i
			data.LockedIdx = &idx
		}
		data.Commits = append(data.Commits, model.Commit{
			SHA:      c.SHA,
			Message:  message,
			Author:   author,
			Date:     date,
			IsLocked: locked,
		})
	}
	return data, nil
}

// classifyGitHub distinguishes rate-limit exhaustion from every other
// non-success status, which only signals fallback.
func (s *Service) classifyGitHub(resp *http.Response) error {
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		remaining, err := strconv.Atoi(resp.Header.Get("x-ratelimit-remaining"))
		if err != nil || remaining == 0 {
			log.Warn().Msg("GitHub API rate limit exceeded")
			return fmt.Errorf("%w; set GITHUB_TOKEN for higher limits", ErrRateLimited)
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Msg: fmt.Sprintf("GitHub API returned %s", resp.Status)}
	}
	return nil
}

func (s *Service) githubGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Msg: "building request", Err: err}
	}
	if s.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.githubToken)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Msg: "GitHub API request", Err: err}
	}
	return resp, nil
}

func (s *Service) gitlabAhead(ctx context.Context, input *model.GitInput) (int, error) {
	host := orDefault(input.Host, "gitlab.com")
	branch := orHead(input.Reference)
	project := encodeProject(input.Owner + "/" + input.Repo)
	url := fmt.Sprintf("%s/api/v4/projects/%s/repository/compare?from=%s&to=%s",
		s.hostBase(host), project, input.Rev, branch)

	resp, err := s.get(ctx, url, "GitLab API request")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &NetworkError{Msg: fmt.Sprintf("GitLab API returned %s", resp.Status)}
	}

	var data struct {
		Commits []json.RawMessage `json:"commits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, &NetworkError{Msg: "decoding compare response", Err: err}
	}
	return len(data.Commits), nil
}

func (s *Service) gitlabChangelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error) {
	host := orDefault(input.Host, "gitlab.com")
	branch := orHead(input.Reference)
	project := encodeProject(input.Owner + "/" + input.Repo)
	url := fmt.Sprintf("%s/api/v4/projects/%s/repository/commits?ref_name=%s&per_page=100",
		s.hostBase(host), project, branch)

	resp, err := s.get(ctx, url, "GitLab API request")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Msg: fmt.Sprintf("GitLab API returned %s", resp.Status)}
	}

	var commits []struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
		CreatedAt  string `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return nil, &NetworkError{Msg: "decoding commits response", Err: err}
	}

	data := &model.ChangelogData{}
	for i, c := range commits {
		date := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, c.CreatedAt); err == nil {
			date = t.UTC()
		}
		locked := matchesRev(c.ID, input.Rev)
		if locked {
			idx := i
			data.LockedIdx = &idx
		}
		data.Commits = append(data.Commits, model.Commit{
			SHA:      c.ID,
			Message:  c.Title,
			Author:   c.AuthorName,
			Date:     date,
			IsLocked: locked,
		})
	}
	return data, nil
}

func (s *Service) sourcehutAhead(ctx context.Context, input *model.GitInput) (int, error) {
	results, err := s.sourcehutLog(ctx, input)
	if err != nil {
		return 0, err
	}

	// The log endpoint has no compare; ahead is the prefix of results
	// strictly newer than the pinned revision.
	count := 0
	for _, c := range results {
		if matchesRev(c.ID, input.Rev) {
			break
		}
		count++
	}
	return count, nil
}

func (s *Service) sourcehutChangelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error) {
	results, err := s.sourcehutLog(ctx, input)
	if err != nil {
		return nil, err
	}

	data := &model.ChangelogData{}
	for i, c := range results {
		date := time.Now().UTC()
		if t, err := time.Parse(time.RFC3339, c.Timestamp); err == nil {
			date = t.UTC()
		}
		message, _, _ := strings.Cut(c.Message, "\n")
		locked := matchesRev(c.ID, input.Rev)
		if locked {
			idx := i
			data.LockedIdx = &idx
		}
		data.Commits = append(data.Commits, model.Commit{
			SHA:      c.ID,
			Message:  message,
			Author:   c.Author.Name,
			Date:     date,
			IsLocked: locked,
		})
	}
	return data, nil
}

type sourcehutCommit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  struct {
		Name string `json:"name"`
	} `json:"author"`
	Timestamp string `json:"timestamp"`
}

func (s *Service) sourcehutLog(ctx context.Context, input *model.GitInput) ([]sourcehutCommit, error) {
	host := orDefault(input.Host, "git.sr.ht")
	owner := input.Owner
	if !strings.HasPrefix(owner, "~") {
		owner = "~" + owner
	}
	url := fmt.Sprintf("%s/api/%s/%s/log/%s",
		s.hostBase(host), owner, input.Repo, orHead(input.Reference))

	resp, err := s.get(ctx, url, "SourceHut API request")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Msg: fmt.Sprintf("SourceHut API returned %s", resp.Status)}
	}

	var data struct {
		Results []sourcehutCommit `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &NetworkError{Msg: "decoding log response", Err: err}
	}
	return data.Results, nil
}

func (s *Service) get(ctx context.Context, url, what string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Msg: "building request", Err: err}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Msg: what, Err: err}
	}
	return resp, nil
}

// matchesRev matches a full SHA against a possibly abbreviated pin.
func matchesRev(sha, rev string) bool {
	return rev != "" && (sha == rev || strings.HasPrefix(sha, rev))
}

// encodeProject escapes a GitLab project path for use as a URL id.
func encodeProject(project string) string {
	return strings.ReplaceAll(project, "/", "%2F")
}

func orHead(reference string) string {
	if reference == "" {
		return "HEAD"
	}
	return reference
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
