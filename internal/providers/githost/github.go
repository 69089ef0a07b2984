package githost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/utils"
)

const defaultRawBaseURL = "https://raw.githubusercontent.com"

// GitHubConfig configures the GitHub-backed client. Token is optional
// (unauthenticated requests work for public repositories, just with lower
// rate limits). RawBaseURL and APIBaseURL exist so tests can point the
// client at a local server.
type GitHubConfig struct {
	Token          string
	RawBaseURL     string
	APIBaseURL     string
	AttemptTimeout time.Duration
}

type GitHub struct {
	http           *http.Client
	api            *github.Client
	rawBaseURL     string
	attemptTimeout time.Duration
	logger         *logrus.Logger
}

func NewGitHub(cfg GitHubConfig, logger *logrus.Logger) (*GitHub, error) {
	httpClient := http.DefaultClient
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	api := github.NewClient(httpClient)
	if cfg.APIBaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid api base url: %w", err)
		}
		api.BaseURL = base
	}

	rawBase := cfg.RawBaseURL
	if rawBase == "" {
		rawBase = defaultRawBaseURL
	}

	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &GitHub{
		http:           httpClient,
		api:            api,
		rawBaseURL:     strings.TrimSuffix(rawBase, "/"),
		attemptTimeout: timeout,
		logger:         logger,
	}, nil
}

// FetchDocument walks the candidate order sequentially. A failed or empty
// attempt (timeout, non-2xx, blank body) moves on to the next candidate;
// the same candidate is never retried.
func (g *GitHub) FetchDocument(ctx context.Context, ref Reference) (string, error) {
	for _, branch := range branchCandidates {
		for _, filename := range filenameCandidates {
			body, err := g.fetchRaw(ctx, ref, branch, filename)
			if err != nil {
				if ctx.Err() != nil {
					return "", ctx.Err()
				}
				g.logger.WithFields(logrus.Fields{
					"repository": ref.String(),
					"branch":     branch,
					"filename":   filename,
				}).WithError(err).Debug("document candidate miss")
				continue
			}
			if strings.TrimSpace(body) == "" {
				continue
			}
			return utils.TruncateText(body, models.MaxGroundingChars), nil
		}
	}
	return "", ErrNoDocument
}

func (g *GitHub) fetchRaw(ctx context.Context, ref Reference, branch, filename string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	target := fmt.Sprintf("%s/%s/%s/%s/%s", g.rawBaseURL, ref.Owner, ref.Project, branch, filename)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	const maxBytes = 1 << 20
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (g *GitHub) FetchMetadata(ctx context.Context, ref Reference) (*Metadata, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	repo, _, err := g.api.Repositories.Get(attemptCtx, ref.Owner, ref.Project)
	if err != nil {
		return nil, err
	}

	return &Metadata{
		Name:            repo.GetFullName(),
		Description:     repo.GetDescription(),
		PrimaryLanguage: repo.GetLanguage(),
		Topics:          repo.Topics,
		Stars:           repo.GetStargazersCount(),
		Forks:           repo.GetForksCount(),
		Homepage:        repo.GetHomepage(),
	}, nil
}
