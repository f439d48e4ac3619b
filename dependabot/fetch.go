package dependabot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pkg/errors"

	"supply-chain-security/types"
)

// Page is a decoded JSON array response together with its entity tag.
type Page struct {
	Documents []json.RawMessage
	ETag      string
}

// Requester performs GET requests against the REST API and decodes a JSON
// array response. Authentication, retries and pagination are its business.
type Requester interface {
	GetJSONArray(ctx context.Context, path string) (Page, error)
}

// RepositoryResolver looks up the repository alerts belong to.
type RepositoryResolver interface {
	ResolveRepository(ctx context.Context, owner, repo string) (*types.Repo, error)
}

type Fetcher struct {
	requester Requester
	resolver  RepositoryResolver
}

type FetcherOption func(*Fetcher)

// WithRepositoryResolver makes the fetcher look the owning repository up
// instead of using a bare owner/name handle.
func WithRepositoryResolver(resolver RepositoryResolver) FetcherOption {
	return func(f *Fetcher) {
		f.resolver = resolver
	}
}

func NewFetcher(requester Requester, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{requester: requester}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AlertsPath returns the API path listing the alerts of owner/repo.
func AlertsPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/dependabot/alerts", url.PathEscape(owner), url.PathEscape(repo))
}

// FetchAlerts fetches and parses every alert of owner/repo. It returns either
// all alerts or an error, never a partial list.
func (f *Fetcher) FetchAlerts(ctx context.Context, owner, repo string) ([]*Alert, error) {
	if owner == "" || repo == "" {
		return nil, errors.Errorf("owner and repository name are required, got %q and %q", owner, repo)
	}

	path := AlertsPath(owner, repo)
	slog.Debug("fetching dependabot alerts", "path", path)

	page, err := f.requester.GetJSONArray(ctx, path)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	alerts := make([]*Alert, 0, len(page.Documents))
	for i, raw := range page.Documents {
		alert, err := parse(raw, page.ETag)
		if err != nil {
			return nil, errors.Wrapf(err, "alert %d of %s/%s", i, owner, repo)
		}
		alerts = append(alerts, alert)
	}

	repository, err := f.resolveRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	for _, alert := range alerts {
		alert.repository = repository
	}

	slog.Debug("parsed dependabot alerts", "repository", repository.Slug(), "count", len(alerts))
	return alerts, nil
}

func (f *Fetcher) resolveRepository(ctx context.Context, owner, repo string) (*types.Repo, error) {
	if f.resolver == nil {
		return &types.Repo{Owner: owner, Name: repo}, nil
	}
	repository, err := f.resolver.ResolveRepository(ctx, owner, repo)
	if err != nil {
		return nil, &TransportError{Path: fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo)), Err: err}
	}
	if repository == nil {
		return &types.Repo{Owner: owner, Name: repo}, nil
	}
	return repository, nil
}
