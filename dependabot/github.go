package dependabot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v68/github"

	"supply-chain-security/types"
)

// GitHubTransport adapts a go-github client to Requester and
// RepositoryResolver. The alerts are requested raw instead of through
// client.Dependabot so the strict parser sees the document as sent.
type GitHubTransport struct {
	client *github.Client
}

var (
	_ Requester          = &GitHubTransport{}
	_ RepositoryResolver = &GitHubTransport{}
)

func NewGitHubTransport(client *github.Client) *GitHubTransport {
	return &GitHubTransport{client: client}
}

// alertsPerPage is the largest page size the alerts endpoint accepts.
const alertsPerPage = 100

// GetJSONArray follows the pagination links of the response and returns the
// documents of all pages. The entity tag is the one of the first page.
func (t *GitHubTransport) GetJSONArray(ctx context.Context, path string) (Page, error) {
	// go-github resolves paths relative to BaseURL, which may carry an
	// enterprise prefix such as /api/v3/.
	path = strings.TrimPrefix(path, "/")
	query := url.Values{"per_page": {strconv.Itoa(alertsPerPage)}}

	var page Page
	for first := true; ; first = false {
		req, err := t.client.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
		if err != nil {
			return Page{}, err
		}

		var documents []json.RawMessage
		resp, err := t.client.Do(ctx, req, &documents)
		if err != nil {
			return Page{}, err
		}

		page.Documents = append(page.Documents, documents...)
		if first {
			page.ETag = resp.Header.Get("ETag")
		}

		// the alerts endpoint pages with cursors, older servers with numbers
		switch {
		case resp.After != "" && resp.After != query.Get("after"):
			query.Set("after", resp.After)
		case resp.NextPage != 0:
			query.Set("page", strconv.Itoa(resp.NextPage))
		default:
			return page, nil
		}
	}
}

func (t *GitHubTransport) ResolveRepository(ctx context.Context, owner, repo string) (*types.Repo, error) {
	r, _, err := t.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return &types.Repo{
		ID:       r.GetID(),
		Name:     r.GetName(),
		Owner:    r.GetOwner().GetLogin(),
		FullName: r.GetFullName(),
		HTMLURL:  r.GetHTMLURL(),
	}, nil
}
