package dependabot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"supply-chain-security/types"
)

// The wire schema below mirrors the JSON returned by
// GET /repos/{owner}/{repo}/dependabot/alerts. It is kept apart from the
// in-memory model: every field is a pointer so absent and null values can be
// told apart from zero values, and nothing here leaves the package.

type alertDocument struct {
	ID               *int64            `json:"id"`
	Number           *int              `json:"number"`
	State            *string           `json:"state"`
	Dependency       *dependencyDoc    `json:"dependency"`
	SecurityAdvisory *advisoryDocument `json:"security_advisory"`
	URL              *string           `json:"url"`
	HTMLURL          *string           `json:"html_url"`
	DismissedReason  *string           `json:"dismissed_reason"`
	CreatedAt        *string           `json:"created_at"`
	UpdatedAt        *string           `json:"updated_at"`
}

type dependencyDoc struct {
	Package      *packageDoc `json:"package"`
	ManifestPath *string     `json:"manifest_path"`
	Scope        *string     `json:"scope"`
}

type packageDoc struct {
	Ecosystem *string `json:"ecosystem"`
	Name      *string `json:"name"`
}

type advisoryDocument struct {
	GHSAID          *string             `json:"ghsa_id"`
	CveID           *string             `json:"cve_id"`
	Summary         *string             `json:"summary"`
	Description     *string             `json:"description"`
	Vulnerabilities []*vulnerabilityDoc `json:"vulnerabilities"`
	Severity        *string             `json:"severity"`
	Cvss            *cvssDoc            `json:"cvss"`
	Cwes            []*cweDoc           `json:"cwes"`
	PublishedAt     *string             `json:"published_at"`
	UpdatedAt       *string             `json:"updated_at"`
	WithdrawnAt     *string             `json:"withdrawn_at"`
}

type vulnerabilityDoc struct {
	Package                *packageDoc `json:"package"`
	Severity               *string     `json:"severity"`
	VulnerableVersionRange *string     `json:"vulnerable_version_range"`
}

type cvssDoc struct {
	Score        *float64 `json:"score"`
	VectorString *string  `json:"vector_string"`
}

type cweDoc struct {
	CweID *string `json:"cwe_id"`
	Name  *string `json:"name"`
}

// requiredField is one row of the required-field table. Rows are checked in
// order and parents come before their children, so a present func may
// dereference anything an earlier row has already vouched for.
type requiredField struct {
	path    string
	present func(d *alertDocument) bool
}

var alertSchema = []requiredField{
	{"number", func(d *alertDocument) bool { return d.Number != nil }},
	{"state", func(d *alertDocument) bool { return d.State != nil }},
	{"url", func(d *alertDocument) bool { return d.URL != nil }},
	{"dependency", func(d *alertDocument) bool { return d.Dependency != nil }},
	{"dependency.package", func(d *alertDocument) bool { return d.Dependency.Package != nil }},
	{"dependency.package.ecosystem", func(d *alertDocument) bool { return d.Dependency.Package.Ecosystem != nil }},
	{"dependency.package.name", func(d *alertDocument) bool { return d.Dependency.Package.Name != nil }},
	{"dependency.scope", func(d *alertDocument) bool { return d.Dependency.Scope != nil }},
	{"security_advisory", func(d *alertDocument) bool { return d.SecurityAdvisory != nil }},
	{"security_advisory.ghsa_id", func(d *alertDocument) bool { return d.SecurityAdvisory.GHSAID != nil }},
	{"security_advisory.summary", func(d *alertDocument) bool { return d.SecurityAdvisory.Summary != nil }},
	{"security_advisory.severity", func(d *alertDocument) bool { return d.SecurityAdvisory.Severity != nil }},
	{"security_advisory.published_at", func(d *alertDocument) bool { return d.SecurityAdvisory.PublishedAt != nil }},
	{"security_advisory.updated_at", func(d *alertDocument) bool { return d.SecurityAdvisory.UpdatedAt != nil }},
}

func (d *alertDocument) validate() error {
	for _, f := range alertSchema {
		if !f.present(d) {
			return &SchemaError{Path: f.path}
		}
	}

	for i, cwe := range d.SecurityAdvisory.Cwes {
		path := fmt.Sprintf("security_advisory.cwes[%d]", i)
		switch {
		case cwe == nil:
			return &SchemaError{Path: path}
		case cwe.CweID == nil:
			return &SchemaError{Path: path + ".cwe_id"}
		case cwe.Name == nil:
			return &SchemaError{Path: path + ".name"}
		}
	}

	for i, v := range d.SecurityAdvisory.Vulnerabilities {
		path := fmt.Sprintf("security_advisory.vulnerabilities[%d]", i)
		switch {
		case v == nil:
			return &SchemaError{Path: path}
		case v.Package == nil:
			return &SchemaError{Path: path + ".package"}
		case v.Package.Ecosystem == nil:
			return &SchemaError{Path: path + ".package.ecosystem"}
		case v.Package.Name == nil:
			return &SchemaError{Path: path + ".package.name"}
		case v.Severity == nil:
			return &SchemaError{Path: path + ".severity"}
		case v.VulnerableVersionRange == nil:
			return &SchemaError{Path: path + ".vulnerable_version_range"}
		}
	}
	return nil
}

// parse turns one raw alert document into an Alert. It is the only producer
// of Alert values. etag is the entity tag of the response the document
// came with and may be empty.
func parse(raw json.RawMessage, etag string) (*Alert, error) {
	var doc alertDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, decodeError(err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	state, err := parseEnum("state", *doc.State, States)
	if err != nil {
		return nil, err
	}
	scope, err := parseEnum("dependency.scope", *doc.Dependency.Scope, Scopes)
	if err != nil {
		return nil, err
	}
	advisory, err := doc.SecurityAdvisory.toModel()
	if err != nil {
		return nil, err
	}

	createdAt, err := parseOptionalInstant("created_at", doc.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseOptionalInstant("updated_at", doc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// html_url is dropped on purpose, see Alert.
	return &Alert{
		object:     types.NewObject(deref(doc.ID), *doc.URL, createdAt, updatedAt, etag, nil),
		number:     *doc.Number,
		state:      state,
		dependency: Dependency{
			pkg:          doc.Dependency.Package.toModel(),
			manifestPath: deref(doc.Dependency.ManifestPath),
			scope:        scope,
		},
		securityAdvisory: advisory,
		dismissedReason:  clone(doc.DismissedReason),
	}, nil
}

func (d *advisoryDocument) toModel() (SecurityAdvisory, error) {
	severity, err := parseEnum("security_advisory.severity", *d.Severity, Severities)
	if err != nil {
		return SecurityAdvisory{}, err
	}
	publishedAt, err := parseInstant("security_advisory.published_at", *d.PublishedAt)
	if err != nil {
		return SecurityAdvisory{}, err
	}
	updatedAt, err := parseInstant("security_advisory.updated_at", *d.UpdatedAt)
	if err != nil {
		return SecurityAdvisory{}, err
	}

	cwes := make([]Cwe, 0, len(d.Cwes))
	for _, c := range d.Cwes {
		cwes = append(cwes, Cwe{id: *c.CweID, name: *c.Name})
	}

	vulnerabilities := make([]Vulnerability, 0, len(d.Vulnerabilities))
	for i, v := range d.Vulnerabilities {
		field := fmt.Sprintf("security_advisory.vulnerabilities[%d].severity", i)
		vulnSeverity, err := parseEnum(field, *v.Severity, Severities)
		if err != nil {
			return SecurityAdvisory{}, err
		}
		vulnerabilities = append(vulnerabilities, Vulnerability{
			pkg:                    v.Package.toModel(),
			severity:               vulnSeverity,
			vulnerableVersionRange: *v.VulnerableVersionRange,
		})
	}

	var cvss Cvss
	if d.Cvss != nil {
		cvss = Cvss{
			score:        clone(d.Cvss.Score),
			vectorString: deref(d.Cvss.VectorString),
		}
	}

	return SecurityAdvisory{
		ghsaID:          *d.GHSAID,
		cveID:           clone(d.CveID),
		summary:         *d.Summary,
		description:     deref(d.Description),
		severity:        severity,
		cvss:            cvss,
		cwes:            cwes,
		vulnerabilities: vulnerabilities,
		publishedAt:     publishedAt,
		updatedAt:       updatedAt,
		withdrawnAt:     clone(d.WithdrawnAt),
	}, nil
}

func (p *packageDoc) toModel() Package {
	return Package{ecosystem: *p.Ecosystem, name: *p.Name}
}

// parseInstant accepts RFC 3339 instants, the ISO-8601 profile the GitHub
// API uses. Anything else is rejected instead of yielding a zero time.
func parseInstant(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &DateFormatError{Field: field, Value: value, Err: err}
	}
	return t.UTC(), nil
}

func parseOptionalInstant(field string, value *string) (time.Time, error) {
	if value == nil {
		return time.Time{}, nil
	}
	return parseInstant(field, *value)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = "$"
		}
		return &SchemaError{Path: path, Reason: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value)}
	}
	return &SchemaError{Path: "$", Reason: errors.Wrap(err, "malformed JSON").Error()}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
