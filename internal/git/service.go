// Package git is the concurrent update/changelog engine. For each git
// input it asks the hosting provider's REST API how far behind the pinned
// revision is, falling back to a persistent local bare mirror walked with
// go-git when the API cannot answer. All work runs under a shared bounded
// permit and a shared cooperative cancellation flag.
package git

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/bianoble/flakewatch/internal/model"
)

// Defaults for the engine's resource model.
const (
	DefaultConcurrency      = 10
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultCheckTimeout     = 120 * time.Second
	DefaultChangelogTimeout = 120 * time.Second
)

// Options configures a Service. Zero values take the defaults above.
type Options struct {
	CacheDir         string
	Concurrency      int64
	HTTPTimeout      time.Duration
	CheckTimeout     time.Duration
	ChangelogTimeout time.Duration
	GitHubToken      string // empty falls back to GITHUB_TOKEN / GH_TOKEN

	// APIBase overrides every provider API base URL; used by tests to
	// point the clients at a local server.
	APIBase string
}

// Service answers update and changelog questions for git inputs.
type Service struct {
	cacheDir         string
	canceller        *Canceller
	sem              *semaphore.Weighted
	concurrency      int64
	client           *http.Client
	githubToken      string
	checkTimeout     time.Duration
	changelogTimeout time.Duration
	apiBase          string
}

// NewService creates a Service sharing the given cancellation handle.
func NewService(canceller *Canceller, opts Options) *Service {
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = DefaultHTTPTimeout
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = DefaultCheckTimeout
	}
	if opts.ChangelogTimeout <= 0 {
		opts.ChangelogTimeout = DefaultChangelogTimeout
	}
	token := opts.GitHubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}

	return &Service{
		cacheDir:         opts.CacheDir,
		canceller:        canceller,
		sem:              semaphore.NewWeighted(opts.Concurrency),
		concurrency:      opts.Concurrency,
		client:           &http.Client{Timeout: opts.HTTPTimeout},
		githubToken:      token,
		checkTimeout:     opts.CheckTimeout,
		changelogTimeout: opts.ChangelogTimeout,
		apiBase:          opts.APIBase,
	}
}

// CheckUpdates checks every git input against its remote, reporting each
// status through onStatus. Every git input gets exactly one Checking
// emission before any work starts; non-git inputs get nothing. Checks
// run concurrently under the shared permit, so onStatus must be safe to
// call from multiple goroutines. On cancellation the remaining queue is
// abandoned without further emissions, so callers must tolerate stale
// Checking values.
func (s *Service) CheckUpdates(ctx context.Context, inputs []model.FlakeInput, onStatus func(name string, status model.UpdateStatus)) error {
	var gitInputs []*model.GitInput
	for _, in := range inputs {
		if in.Kind == model.KindGit {
			gitInputs = append(gitInputs, in.Git)
		}
	}

	log.Debug().
		Int("total", len(inputs)).
		Int("git_inputs", len(gitInputs)).
		Msg("checking for updates")

	for _, in := range gitInputs {
		onStatus(in.Name, model.Checking())
	}

	for _, in := range gitInputs {
		if s.canceller.Cancelled() {
			break
		}
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return ErrCancelled
		}

		in := in
		go func() {
			defer s.sem.Release(1)

			ahead, err := s.checkInput(ctx, in)

			var status model.UpdateStatus
			switch {
			case err != nil:
				log.Warn().Str("input", in.Name).Err(err).Msg("failed to check input")
				status = model.CheckError(err.Error())
			case ahead == 0:
				status = model.UpToDate()
			default:
				log.Debug().Str("input", in.Name).Int("behind", ahead).Msg("updates available")
				status = model.BehindBy(ahead)
			}
			onStatus(in.Name, status)
		}()
	}

	// Block until every started check has finished.
	if err := s.sem.Acquire(ctx, s.concurrency); err != nil {
		return ErrCancelled
	}
	s.sem.Release(s.concurrency)
	return nil
}

// checkInput answers "commits ahead" for one input via the provider
// strategy for its forge, falling back to the local mirror.
func (s *Service) checkInput(ctx context.Context, input *model.GitInput) (int, error) {
	switch input.Forge {
	case model.ForgeGitHub:
		ahead, err := s.githubAhead(ctx, input)
		return s.aheadOrFallback(ctx, input, ahead, err)
	case model.ForgeGitLab:
		ahead, err := s.gitlabAhead(ctx, input)
		return s.aheadOrFallback(ctx, input, ahead, err)
	case model.ForgeSourceHut:
		ahead, err := s.sourcehutAhead(ctx, input)
		return s.aheadOrFallback(ctx, input, ahead, err)
	default:
		return s.localAhead(ctx, input)
	}
}

// aheadOrFallback applies the uniform fallback rule: any API failure goes
// to the local mirror except rate-limit exhaustion, which surfaces as-is.
func (s *Service) aheadOrFallback(ctx context.Context, input *model.GitInput, ahead int, err error) (int, error) {
	if err == nil {
		return ahead, nil
	}
	if errors.Is(err, ErrRateLimited) {
		return 0, err
	}
	log.Debug().Str("input", input.Name).Err(err).Msg("API check failed, using local mirror")
	return s.localAhead(ctx, input)
}

// Changelog produces the ordered commit history for one input: commits
// ahead of the pin first, then the historical tail through the locked
// commit.
func (s *Service) Changelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error) {
	log.Debug().Str("input", input.Name).Stringer("forge", input.Forge).Msg("loading changelog")

	var (
		data *model.ChangelogData
		err  error
	)
	switch input.Forge {
	case model.ForgeGitHub:
		data, err = s.githubChangelog(ctx, input)
	case model.ForgeGitLab:
		data, err = s.gitlabChangelog(ctx, input)
	case model.ForgeSourceHut:
		data, err = s.sourcehutChangelog(ctx, input)
	default:
		return s.localChangelog(ctx, input)
	}

	if err == nil {
		return data, nil
	}
	if errors.Is(err, ErrRateLimited) {
		return nil, err
	}
	log.Debug().Str("input", input.Name).Err(err).Msg("API changelog failed, using local mirror")
	return s.localChangelog(ctx, input)
}

// localAhead is the mirror fallback for "commits ahead".
func (s *Service) localAhead(ctx context.Context, input *model.GitInput) (int, error) {
	count := 0
	err := s.withMirror(ctx, input, s.checkTimeout, func(ctx context.Context, repo *gogit.Repository) error {
		commits, err := CommitsSince(repo, input.Rev, input.Reference)
		if err != nil {
			return err
		}
		count = len(commits)
		return nil
	})
	return count, err
}

// localChangelog is the mirror fallback for the merged changelog.
func (s *Service) localChangelog(ctx context.Context, input *model.GitInput) (*model.ChangelogData, error) {
	var data *model.ChangelogData
	err := s.withMirror(ctx, input, s.changelogTimeout, func(ctx context.Context, repo *gogit.Repository) error {
		ahead, err := CommitsSince(repo, input.Rev, input.Reference)
		if err != nil {
			return err
		}
		tail, err := CommitsFrom(repo, input.Rev, changelogTail)
		if err != nil {
			return err
		}
		data = AssembleChangelog(ahead, tail)
		return nil
	})
	return data, err
}

// withMirror runs fn against the input's fresh bare mirror under the
// operation timeout. Cancellation is checked before the blocking VCS
// work starts; a started operation runs to its own completion.
func (s *Service) withMirror(ctx context.Context, input *model.GitInput, timeout time.Duration, fn func(context.Context, *gogit.Repository) error) error {
	cloneURL := input.Forge.CloneURL(input.Owner, input.Repo, input.Host)
	if cloneURL == "" {
		cloneURL = input.URL
	}
	if cloneURL == "" {
		return &CloneError{URL: input.Name, Err: errors.New("no clone URL for this input")}
	}

	if s.canceller.Cancelled() {
		return ErrCancelled
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().Str("input", input.Name).Msg("using local mirror fallback")

	repo, err := EnsureRepo(ctx, CachePath(s.cacheDir, cloneURL), cloneURL, input.Reference)
	if err != nil {
		return err
	}

	if err := fn(ctx, repo); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return err
	}
	return nil
}

func (s *Service) githubAPI() string {
	if s.apiBase != "" {
		return s.apiBase
	}
	return "https://api.github.com"
}

func (s *Service) hostBase(host string) string {
	if s.apiBase != "" {
		return s.apiBase
	}
	return "https://" + host
}
