package dependabot

import (
	"encoding/json"
	"time"
)

// alertView is the flat JSON rendering of an alert used for reports.
type alertView struct {
	Repository   string    `json:"repository,omitempty"`
	Number       int       `json:"number"`
	State        State     `json:"state"`
	Severity     Severity  `json:"severity"`
	Package      string    `json:"package"`
	Ecosystem    string    `json:"ecosystem"`
	PURL         string    `json:"purl,omitempty"`
	ManifestPath string    `json:"manifest_path,omitempty"`
	Scope        Scope     `json:"scope"`
	GHSAID       string    `json:"ghsa_id"`
	CveID        *string   `json:"cve_id"`
	CvssScore    *float64  `json:"cvss_score"`
	CweIDs       []string  `json:"cwe_ids"`
	Summary      string    `json:"summary"`
	PublishedAt  time.Time `json:"published_at"`
	WithdrawnAt  *string   `json:"withdrawn_at"`
	URL          string    `json:"url"`
}

func (a *Alert) MarshalJSON() ([]byte, error) {
	v := alertView{
		Number:       a.number,
		State:        a.state,
		Severity:     a.securityAdvisory.severity,
		Package:      a.dependency.pkg.name,
		Ecosystem:    a.dependency.pkg.ecosystem,
		ManifestPath: a.dependency.manifestPath,
		Scope:        a.dependency.scope,
		GHSAID:       a.securityAdvisory.ghsaID,
		CveID:        clone(a.securityAdvisory.cveID),
		CvssScore:    clone(a.securityAdvisory.cvss.score),
		CweIDs:       a.CweIDs(),
		Summary:      a.securityAdvisory.summary,
		PublishedAt:  a.securityAdvisory.publishedAt,
		WithdrawnAt:  clone(a.securityAdvisory.withdrawnAt),
		URL:          a.URL(),
	}
	if purl, err := a.dependency.pkg.PURL(); err == nil {
		v.PURL = purl
	}
	if a.repository != nil {
		v.Repository = a.repository.Slug()
	}
	return json.Marshal(v)
}
