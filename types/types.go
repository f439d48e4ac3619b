package types

// Repo is the repository an alert belongs to. Alerts only reference it,
// they never own it.
type Repo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// Slug returns "owner/name".
func (r Repo) Slug() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Owner + "/" + r.Name
}
