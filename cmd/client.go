package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"supply-chain-security/dependabot"
	"supply-chain-security/util"
)

// repositoryTarget reads owner and repository either from --url or from
// --owner and --repo.
func repositoryTarget() (owner, repo string, err error) {
	if repoURL := viper.GetString("url"); repoURL != "" {
		return util.ParseGitHubURL(repoURL)
	}
	owner, repo = viper.GetString("owner"), viper.GetString("repo")
	if owner == "" || repo == "" {
		return "", "", errors.New("either --url or --owner and --repo are required")
	}
	return owner, repo, nil
}

func newFetcher(ctx context.Context) (*dependabot.Fetcher, error) {
	token := viper.GetString("token")
	if token == "" {
		slog.Warn("GITHUB_ACCESS_TOKEN is not set, the dependabot alerts API requires authentication")
	}

	client, err := util.NewGitHubClient(ctx, token, viper.GetString("apiUrl"))
	if err != nil {
		return nil, err
	}

	transport := dependabot.NewGitHubTransport(client)
	return dependabot.NewFetcher(transport, dependabot.WithRepositoryResolver(transport)), nil
}

// fetchAlerts fetches the alerts of the configured repository while showing
// a spinner on stderr.
func fetchAlerts(ctx context.Context) ([]*dependabot.Alert, error) {
	owner, repo, err := repositoryTarget()
	if err != nil {
		return nil, err
	}

	fetcher, err := newFetcher(ctx)
	if err != nil {
		return nil, err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Fetching dependabot alerts of " + owner + "/" + repo
	s.Start()
	alerts, err := fetcher.FetchAlerts(ctx, owner, repo)
	s.Stop()
	if err != nil {
		return nil, err
	}

	slog.Info("fetched dependabot alerts", "repository", owner+"/"+repo, "count", len(alerts))
	return alerts, nil
}
