package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	gh "github.com/google/go-github/v75/github"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"k8s.io/utils/ptr"

	"github.com/ziadkadry99/folio/internal/progress"
)

const (
	// perPage matches the number of recently updated repositories inspected.
	perPage = 20
	// readmeConcurrency bounds parallel README requests.
	readmeConcurrency = 4
)

// ErrNoRepositories is returned when the listing leaves nothing to show.
var ErrNoRepositories = errors.New("github: no repositories to show")

// NewLimiter returns a rate limiter tuned for authenticated or
// unauthenticated GitHub API usage.
func NewLimiter(authenticated bool) *rate.Limiter {
	perHour := 60
	if authenticated {
		perHour = 5000
	}
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
}

// Origin tells where a listing came from.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginCache    Origin = "cache"
	OriginStale    Origin = "stale"
	OriginFallback Origin = "fallback"
)

// Listing is the answer served to the portfolio API.
type Listing struct {
	Projects []Project
	Origin   Origin
	Message  string
	SyncedAt time.Time
	// Err is the upstream failure behind a stale or fallback listing.
	Err error
}

// Service lists repositories for one GitHub user.
type Service struct {
	client   *gh.Client
	limiter  *rate.Limiter
	store    *Store
	username string
	maxRepos int
	exclude  []string
	ttl      time.Duration
	fallback []Project
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group
}

type options struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	store      *Store
	maxRepos   int
	exclude    []string
	ttl        time.Duration
	fallback   []Project
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*options)

// WithToken sets the personal access token for authenticated requests.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLimiter sets the rate limiter used for API calls.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithStore enables the SQLite project cache.
func WithStore(s *Store) Option {
	return func(o *options) { o.store = s }
}

// WithMaxRepos limits the number of projects returned.
func WithMaxRepos(n int) Option {
	return func(o *options) { o.maxRepos = n }
}

// WithExclude hides repositories whose names match any of the globs.
func WithExclude(patterns ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, patterns...) }
}

// WithCacheTTL sets how long cached projects are served without asking
// GitHub; zero means the cache never expires.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithFallback sets the projects served when neither GitHub nor the cache can answer.
func WithFallback(p []Project) Option {
	return func(o *options) { o.fallback = cloneProjects(p) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewService constructs a Service for username.
func NewService(username string, opts ...Option) (*Service, error) {
	if username == "" {
		return nil, errors.New("github: username is required")
	}
	o := options{maxRepos: 6, ttl: time.Hour, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	for _, p := range o.exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("github: invalid exclude pattern %q", p)
		}
	}
	if o.maxRepos <= 0 {
		return nil, fmt.Errorf("github: max repos must be positive, got %d", o.maxRepos)
	}

	client := gh.NewClient(o.httpClient)
	if o.token != "" {
		o.logger.Info("Using authenticated GitHub client")
		client = client.WithAuthToken(o.token)
	} else {
		o.logger.Warn("Using unauthenticated GitHub client (rate limited)")
	}
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github: parsing base URL: %w", err)
		}
		client.BaseURL = u
	}
	if o.limiter == nil {
		o.limiter = NewLimiter(o.token != "")
	}

	return &Service{
		client:   client,
		limiter:  o.limiter,
		store:    o.store,
		username: username,
		maxRepos: o.maxRepos,
		exclude:  o.exclude,
		ttl:      o.ttl,
		fallback: o.fallback,
		logger:   o.logger,
		now:      o.now,
	}, nil
}

// Username returns the GitHub account being listed.
func (s *Service) Username() string { return s.username }

// Fetch asks GitHub for the most recently updated public repositories and
// their READMEs. rep may be nil.
func (s *Service) Fetch(ctx context.Context, rep progress.Reporter) ([]Project, error) {
	if rep == nil {
		rep = progress.Nop{}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}
	repos, _, err := s.client.Repositories.ListByUser(ctx, s.username, &gh.RepositoryListByUserOptions{
		Type:        "public",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("listing repositories of %s: %w", s.username, err)
	}

	projects := make([]Project, 0, s.maxRepos)
	owners := make([]string, 0, s.maxRepos)
	for _, r := range repos {
		if len(projects) == s.maxRepos {
			break
		}
		name := r.GetName()
		if name == "" || s.excluded(name) {
			continue
		}
		language := ptr.Deref(r.Language, "")
		topics := r.Topics
		if topics == nil {
			topics = []string{}
		}
		projects = append(projects, Project{
			Name:        name,
			Description: ptr.Deref(r.Description, ""),
			URL:         r.GetHTMLURL(),
			Stars:       ptr.Deref(r.StargazersCount, 0),
			Language:    language,
			Topics:      topics,
			Tags:        tagsFor(language, topics),
			LastUpdated: r.GetUpdatedAt().Time,
		})
		owner := r.GetOwner().GetLogin()
		if owner == "" {
			owner = s.username
		}
		owners = append(owners, owner)
	}
	if len(projects) == 0 {
		return nil, ErrNoRepositories
	}

	rep.Start(len(projects))
	defer rep.Finish()

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readmeConcurrency)
	for i := range projects {
		g.Go(func() error {
			projects[i].Readme = s.readme(gctx, owners[i], projects[i].Name)
			mu.Lock()
			done++
			rep.Update(done, projects[i].Name)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// readme returns the truncated README, or ReadmeUnavailable.
func (s *Service) readme(ctx context.Context, owner, repo string) string {
	if err := s.limiter.Wait(ctx); err != nil {
		return ReadmeUnavailable
	}
	content, _, err := s.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		s.logger.DebugContext(ctx, "README not available", "repo", repo, "error", err)
		return ReadmeUnavailable
	}
	text, err := content.GetContent()
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to decode README", "repo", repo, "error", err)
		return ReadmeUnavailable
	}
	return truncateReadme(text)
}

func (s *Service) excluded(name string) bool {
	for _, p := range s.exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Sync fetches from GitHub and refreshes the cache.
func (s *Service) Sync(ctx context.Context, rep progress.Reporter) ([]Project, error) {
	projects, err := s.Fetch(ctx, rep)
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		if err := s.store.Save(ctx, s.username, projects, s.now()); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache projects", "error", err)
		}
	}
	return projects, nil
}

// Projects answers the portfolio API. A fresh cache is served as is;
// otherwise GitHub is asked, and on failure the stale cache or the
// fallback list is served. Concurrent callers share one upstream request,
// which does not depend on any one caller staying around: a caller whose
// ctx ends gets the fallback list while the shared request carries on.
func (s *Service) Projects(ctx context.Context) Listing {
	ch := s.group.DoChan("projects", func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &listingPanic{value: r}
			}
		}()
		return s.projects(context.WithoutCancel(ctx)), nil
	})

	select {
	case r := <-ch:
		var p *listingPanic
		if errors.As(r.Err, &p) {
			panic(p.value)
		}
		l := r.Val.(Listing)
		l.Projects = cloneProjects(l.Projects)
		return l
	case <-ctx.Done():
		return Listing{
			Projects: cloneProjects(s.fallback),
			Origin:   OriginFallback,
			Message:  "Using fallback project data",
			Err:      ctx.Err(),
		}
	}
}

// listingPanic carries a panic out of the shared request so it is re-raised
// in every waiting caller.
type listingPanic struct{ value any }

func (p *listingPanic) Error() string { return fmt.Sprintf("github: listing panicked: %v", p.value) }

func (s *Service) projects(ctx context.Context) Listing {
	var (
		cached    []Project
		syncedAt  time.Time
		haveCache bool
	)
	if s.store != nil {
		var err error
		cached, syncedAt, err = s.store.Load(ctx, s.username)
		switch {
		case err == nil:
			haveCache = len(cached) > 0
		case !errors.Is(err, ErrNotCached):
			s.logger.WarnContext(ctx, "Failed to read project cache", "error", err)
		}
	}
	if haveCache && s.fresh(syncedAt) {
		return Listing{
			Projects: cached,
			Origin:   OriginCache,
			Message:  fmt.Sprintf("Loaded %d repositories from cache", len(cached)),
			SyncedAt: syncedAt,
		}
	}

	projects, err := s.Sync(ctx, nil)
	if err == nil {
		return Listing{
			Projects: projects,
			Origin:   OriginLive,
			Message:  fmt.Sprintf("Successfully fetched %d repositories", len(projects)),
			SyncedAt: s.now(),
		}
	}

	s.logger.ErrorContext(ctx, "Error fetching GitHub repositories", "user", s.username, "error", err)
	if haveCache {
		return Listing{
			Projects: cached,
			Origin:   OriginStale,
			Message:  "Using cached project data",
			SyncedAt: syncedAt,
			Err:      err,
		}
	}
	return Listing{
		Projects: cloneProjects(s.fallback),
		Origin:   OriginFallback,
		Message:  "Using fallback project data",
		Err:      err,
	}
}

func (s *Service) fresh(syncedAt time.Time) bool {
	if s.ttl == 0 {
		return true
	}
	return s.now().Sub(syncedAt) < s.ttl
}
