package util

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"supply-chain-security/config"
)

// ParseGitHubURL extracts owner and repository name from a repository URL
// such as https://github.com/owner/repo.git.
func ParseGitHubURL(repoURL string) (owner, repo string, err error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repo URL: %s", repoURL)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// NewGitHubClient returns a client authenticated with a static token. An
// empty token yields an anonymous client. apiBaseURL may point to a GitHub
// Enterprise API, empty means api.github.com.
func NewGitHubClient(ctx context.Context, token, apiBaseURL string) (*github.Client, error) {
	var client *github.Client
	if token == "" {
		client = github.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	if apiBaseURL == "" || strings.TrimSuffix(apiBaseURL, "/") == config.GithubApiBaseUrl {
		return client, nil
	}

	baseURL, err := url.Parse(strings.TrimSuffix(apiBaseURL, "/") + "/")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid api url %q", apiBaseURL)
	}
	client.BaseURL = baseURL
	return client, nil
}
