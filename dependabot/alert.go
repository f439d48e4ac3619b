package dependabot

import (
	"fmt"
	"net/url"
	"time"

	"supply-chain-security/types"
)

// object keeps the embedded metadata out of reach of other packages while
// still promoting its accessors.
type object = types.Object

// Alert is one dependabot finding of a repository. Alerts are only produced
// by this package's parser, there is no way to build or change one from the
// outside.
type Alert struct {
	object

	number           int
	state            State
	dependency       Dependency
	securityAdvisory SecurityAdvisory
	dismissedReason  *string

	repository *types.Repo
}

// Dependency is the vulnerable dependency reference of an alert.
type Dependency struct {
	pkg          Package
	manifestPath string
	scope        Scope
}

type Package struct {
	ecosystem string
	name      string
}

// SecurityAdvisory describes the vulnerability behind an alert.
type SecurityAdvisory struct {
	ghsaID          string
	cveID           *string
	summary         string
	description     string
	severity        Severity
	cvss            Cvss
	cwes            []Cwe
	vulnerabilities []Vulnerability
	publishedAt     time.Time
	updatedAt       time.Time
	withdrawnAt     *string
}

type Cvss struct {
	score        *float64
	vectorString string
}

// Cwe is a weakness classification of an advisory.
type Cwe struct {
	id   string
	name string
}

// Vulnerability is one affected version range of an advisory.
type Vulnerability struct {
	pkg                    Package
	severity               Severity
	vulnerableVersionRange string
}

func (a *Alert) Number() int {
	return a.number
}

func (a *Alert) State() State {
	return a.state
}

func (a *Alert) Dependency() Dependency {
	return a.dependency
}

func (a *Alert) SecurityAdvisory() SecurityAdvisory {
	return a.securityAdvisory
}

func (a *Alert) Severity() Severity {
	return a.securityAdvisory.severity
}

// CveID returns false for advisories without a CVE.
func (a *Alert) CveID() (string, bool) {
	return a.securityAdvisory.CveID()
}

func (a *Alert) GHSAID() string {
	return a.securityAdvisory.ghsaID
}

func (a *Alert) PackageName() string {
	return a.dependency.pkg.name
}

func (a *Alert) PackageEcosystem() string {
	return a.dependency.pkg.ecosystem
}

func (a *Alert) Scope() Scope {
	return a.dependency.scope
}

// CvssScore returns false when the advisory has no published score.
func (a *Alert) CvssScore() (float64, bool) {
	return a.securityAdvisory.cvss.Score()
}

func (a *Alert) CvssVector() string {
	return a.securityAdvisory.cvss.vectorString
}

// CweIDs lists the CWE ids in the order the advisory lists them.
func (a *Alert) CweIDs() []string {
	ids := make([]string, 0, len(a.securityAdvisory.cwes))
	for _, cwe := range a.securityAdvisory.cwes {
		ids = append(ids, cwe.id)
	}
	return ids
}

func (a *Alert) PublishedAt() time.Time {
	return a.securityAdvisory.publishedAt
}

// AdvisoryUpdatedAt is the last modification of the advisory, not of the
// alert (see UpdatedAt).
func (a *Alert) AdvisoryUpdatedAt() time.Time {
	return a.securityAdvisory.updatedAt
}

// WithdrawnAt is the raw withdrawal timestamp. It is not parsed.
func (a *Alert) WithdrawnAt() (string, bool) {
	return a.securityAdvisory.WithdrawnAt()
}

func (a *Alert) Withdrawn() bool {
	return a.securityAdvisory.withdrawnAt != nil
}

func (a *Alert) DismissedReason() (string, bool) {
	if a.dismissedReason == nil {
		return "", false
	}
	return *a.dismissedReason, true
}

// HTMLURL is always absent: dependabot alerts have no browsable page of
// their own, whatever the payload says.
func (a *Alert) HTMLURL() (*url.URL, bool) {
	return nil, false
}

// Repository returns a copy of the repository the alert was fetched from. It
// is nil for alerts that were not obtained through a Fetcher.
func (a *Alert) Repository() *types.Repo {
	if a.repository == nil {
		return nil
	}
	r := *a.repository
	return &r
}

// Key identifies the alert: numbers are only unique within a repository.
func (a *Alert) Key() string {
	if a.repository == nil {
		return fmt.Sprintf("#%d", a.number)
	}
	return fmt.Sprintf("%s#%d", a.repository.Slug(), a.number)
}

func (d Dependency) Package() Package {
	return d.pkg
}

func (d Dependency) ManifestPath() string {
	return d.manifestPath
}

func (d Dependency) Scope() Scope {
	return d.scope
}

func (p Package) Ecosystem() string {
	return p.ecosystem
}

func (p Package) Name() string {
	return p.name
}

func (s SecurityAdvisory) GHSAID() string {
	return s.ghsaID
}

func (s SecurityAdvisory) CveID() (string, bool) {
	if s.cveID == nil {
		return "", false
	}
	return *s.cveID, true
}

func (s SecurityAdvisory) Summary() string {
	return s.summary
}

func (s SecurityAdvisory) Description() string {
	return s.description
}

func (s SecurityAdvisory) Severity() Severity {
	return s.severity
}

func (s SecurityAdvisory) Cvss() Cvss {
	return s.cvss
}

// Cwes returns a copy of the advisory's weakness list.
func (s SecurityAdvisory) Cwes() []Cwe {
	return append([]Cwe(nil), s.cwes...)
}

// Vulnerabilities returns a copy of the affected version ranges.
func (s SecurityAdvisory) Vulnerabilities() []Vulnerability {
	return append([]Vulnerability(nil), s.vulnerabilities...)
}

func (s SecurityAdvisory) PublishedAt() time.Time {
	return s.publishedAt
}

func (s SecurityAdvisory) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s SecurityAdvisory) WithdrawnAt() (string, bool) {
	if s.withdrawnAt == nil {
		return "", false
	}
	return *s.withdrawnAt, true
}

func (c Cvss) Score() (float64, bool) {
	if c.score == nil {
		return 0, false
	}
	return *c.score, true
}

func (c Cvss) VectorString() string {
	return c.vectorString
}

func (c Cwe) ID() string {
	return c.id
}

func (c Cwe) Name() string {
	return c.name
}

func (v Vulnerability) Package() Package {
	return v.pkg
}

func (v Vulnerability) Severity() Severity {
	return v.severity
}

func (v Vulnerability) VulnerableVersionRange() string {
	return v.vulnerableVersionRange
}
