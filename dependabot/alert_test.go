package dependabot

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supply-chain-security/types"
)

const alertJSON = `{
	"number": 2,
	"state": "dismissed",
	"dependency": {
		"package": {"ecosystem": "pip", "name": "django"},
		"manifest_path": "path/to/requirements.txt",
		"scope": "runtime"
	},
	"security_advisory": {
		"ghsa_id": "GHSA-rf4j-j272-fj86",
		"cve_id": "CVE-2018-6188",
		"summary": "Django allows remote attackers to obtain potentially sensitive information",
		"description": "django.contrib.auth.forms.AuthenticationForm in Django 2.0 before 2.0.2 allows remote attackers to obtain information.",
		"vulnerabilities": [
			{
				"package": {"ecosystem": "pip", "name": "django"},
				"severity": "high",
				"vulnerable_version_range": ">= 2.0.0, < 2.0.2",
				"first_patched_version": {"identifier": "2.0.2"}
			},
			{
				"package": {"ecosystem": "pip", "name": "django"},
				"severity": "high",
				"vulnerable_version_range": ">= 1.11.8, < 1.11.10",
				"first_patched_version": {"identifier": "1.11.10"}
			}
		],
		"severity": "high",
		"cvss": {
			"vector_string": "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N",
			"score": 7.5
		},
		"cwes": [
			{"cwe_id": "CWE-200", "name": "Exposure of Sensitive Information to an Unauthorized Actor"},
			{"cwe_id": "CWE-79", "name": "XSS"}
		],
		"identifiers": [{"type": "GHSA", "value": "GHSA-rf4j-j272-fj86"}],
		"references": [{"url": "https://nvd.nist.gov/vuln/detail/CVE-2018-6188"}],
		"published_at": "2018-10-03T21:13:54Z",
		"updated_at": "2022-04-26T18:35:37Z",
		"withdrawn_at": null
	},
	"url": "https://api.github.com/repos/octocat/hello-world/dependabot/alerts/2",
	"html_url": "https://github.com/octocat/hello-world/security/dependabot/2",
	"created_at": "2022-06-15T07:43:03Z",
	"updated_at": "2022-08-23T14:29:47Z",
	"dismissed_at": "2022-08-23T14:29:47Z",
	"dismissed_reason": "tolerable_risk",
	"dismissed_comment": "This alert is accurate but we use a sanitizer.",
	"fixed_at": null
}`

// alertDoc returns the fixture as a generic document after applying mutate.
func alertDoc(t *testing.T, mutate func(doc map[string]any)) json.RawMessage {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(alertJSON), &doc))
	if mutate != nil {
		mutate(doc)
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

// node walks a dotted path of object keys.
func node(doc map[string]any, path string) map[string]any {
	current := doc
	if path == "" {
		return current
	}
	for _, key := range strings.Split(path, ".") {
		current = current[key].(map[string]any)
	}
	return current
}

func without(path string) func(doc map[string]any) {
	return func(doc map[string]any) {
		parent, key := "", path
		if i := strings.LastIndex(path, "."); i >= 0 {
			parent, key = path[:i], path[i+1:]
		}
		delete(node(doc, parent), key)
	}
}

func with(path string, value any) func(doc map[string]any) {
	return func(doc map[string]any) {
		parent, key := "", path
		if i := strings.LastIndex(path, "."); i >= 0 {
			parent, key = path[:i], path[i+1:]
		}
		node(doc, parent)[key] = value
	}
}

func TestParse(t *testing.T) {
	t.Run("it should map every field of a complete alert", func(t *testing.T) {
		alert, err := parse(json.RawMessage(alertJSON), `W/"etag"`)
		require.NoError(t, err)

		assert.Equal(t, 2, alert.Number())
		assert.Equal(t, StateDismissed, alert.State())
		assert.Equal(t, SeverityHigh, alert.Severity())
		assert.Equal(t, "django", alert.PackageName())
		assert.Equal(t, "pip", alert.PackageEcosystem())
		assert.Equal(t, ScopeRuntime, alert.Scope())
		assert.Equal(t, "path/to/requirements.txt", alert.Dependency().ManifestPath())
		assert.Equal(t, "GHSA-rf4j-j272-fj86", alert.GHSAID())
		assert.Equal(t, "https://api.github.com/repos/octocat/hello-world/dependabot/alerts/2", alert.URL())
		assert.Equal(t, `W/"etag"`, alert.ETag())
		assert.Equal(t, time.Date(2022, 6, 15, 7, 43, 3, 0, time.UTC), alert.CreatedAt())
		assert.Equal(t, time.Date(2022, 8, 23, 14, 29, 47, 0, time.UTC), alert.UpdatedAt())

		cve, ok := alert.CveID()
		assert.True(t, ok)
		assert.Equal(t, "CVE-2018-6188", cve)

		score, ok := alert.CvssScore()
		assert.True(t, ok)
		assert.Equal(t, 7.5, score)
		assert.Equal(t, "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N", alert.CvssVector())

		reason, ok := alert.DismissedReason()
		assert.True(t, ok)
		assert.Equal(t, "tolerable_risk", reason)

		_, withdrawn := alert.WithdrawnAt()
		assert.False(t, withdrawn)
		assert.False(t, alert.Withdrawn())

		advisory := alert.SecurityAdvisory()
		assert.Equal(t, "Django allows remote attackers to obtain potentially sensitive information", advisory.Summary())
		assert.Contains(t, advisory.Description(), "AuthenticationForm")
		assert.Equal(t, time.Date(2018, 10, 3, 21, 13, 54, 0, time.UTC), alert.PublishedAt())
		assert.Equal(t, time.Date(2022, 4, 26, 18, 35, 37, 0, time.UTC), alert.AdvisoryUpdatedAt())

		vulns := advisory.Vulnerabilities()
		require.Len(t, vulns, 2)
		assert.Equal(t, "django", vulns[0].Package().Name())
		assert.Equal(t, SeverityHigh, vulns[0].Severity())
		assert.Equal(t, ">= 2.0.0, < 2.0.2", vulns[0].VulnerableVersionRange())

		assert.Nil(t, alert.Repository())
	})

	t.Run("it should keep the cwe ids in the order of the advisory", func(t *testing.T) {
		raw := alertDoc(t, with("security_advisory.cwes", []any{
			map[string]any{"cwe_id": "CWE-79", "name": "XSS"},
			map[string]any{"cwe_id": "CWE-89", "name": "SQLi"},
		}))

		alert, err := parse(raw, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"CWE-79", "CWE-89"}, alert.CweIDs())

		cwes := alert.SecurityAdvisory().Cwes()
		assert.Equal(t, "SQLi", cwes[1].Name())
	})

	t.Run("it should not expose its internal slices", func(t *testing.T) {
		alert, err := parse(json.RawMessage(alertJSON), "")
		require.NoError(t, err)

		ids := alert.CweIDs()
		ids[0] = "CWE-1"
		cwes := alert.SecurityAdvisory().Cwes()
		cwes[0] = Cwe{id: "CWE-2"}

		assert.Equal(t, []string{"CWE-200", "CWE-79"}, alert.CweIDs())
	})

	t.Run("it should never report an html url, even if the document has one", func(t *testing.T) {
		alert, err := parse(json.RawMessage(alertJSON), "")
		require.NoError(t, err)

		u, ok := alert.HTMLURL()
		assert.False(t, ok)
		assert.Nil(t, u)
	})

	t.Run("it should never report an html url, even if the metadata carries one", func(t *testing.T) {
		alert, err := parse(json.RawMessage(alertJSON), "")
		require.NoError(t, err)

		htmlURL, err := url.Parse("https://github.com/octocat/hello-world/security/dependabot/2")
		require.NoError(t, err)
		alert.object = types.NewObject(alert.ID(), alert.URL(), alert.CreatedAt(), alert.UpdatedAt(), alert.ETag(), htmlURL)

		u, ok := alert.HTMLURL()
		assert.False(t, ok)
		assert.Nil(t, u)
	})

	t.Run("it should not share its repository with callers", func(t *testing.T) {
		alert, err := parse(json.RawMessage(alertJSON), "")
		require.NoError(t, err)
		alert.repository = &types.Repo{Owner: "octocat", Name: "hello-world"}

		repository := alert.Repository()
		repository.Name = "other"

		assert.Equal(t, "hello-world", alert.Repository().Name)
		assert.Equal(t, "octocat/hello-world#2", alert.Key())
	})

	t.Run("it should report an absent cvss score instead of zero", func(t *testing.T) {
		alert, err := parse(alertDoc(t, without("security_advisory.cvss.score")), "")
		require.NoError(t, err)

		score, ok := alert.CvssScore()
		assert.False(t, ok)
		assert.Zero(t, score)
		assert.NotEmpty(t, alert.CvssVector())
	})

	t.Run("it should accept a null cvss score and a missing cvss object", func(t *testing.T) {
		alert, err := parse(alertDoc(t, with("security_advisory.cvss.score", nil)), "")
		require.NoError(t, err)
		_, ok := alert.CvssScore()
		assert.False(t, ok)

		alert, err = parse(alertDoc(t, without("security_advisory.cvss")), "")
		require.NoError(t, err)
		_, ok = alert.CvssScore()
		assert.False(t, ok)
		assert.Empty(t, alert.CvssVector())
	})

	t.Run("it should accept advisories without cve, cwes and vulnerabilities", func(t *testing.T) {
		raw := alertDoc(t, func(doc map[string]any) {
			with("security_advisory.cve_id", nil)(doc)
			with("security_advisory.cwes", []any{})(doc)
			without("security_advisory.vulnerabilities")(doc)
			without("dismissed_reason")(doc)
		})

		alert, err := parse(raw, "")
		require.NoError(t, err)

		_, ok := alert.CveID()
		assert.False(t, ok)
		assert.Empty(t, alert.CweIDs())
		assert.Empty(t, alert.SecurityAdvisory().Vulnerabilities())
		_, ok = alert.DismissedReason()
		assert.False(t, ok)
	})

	t.Run("it should pass withdrawn_at through without parsing it", func(t *testing.T) {
		alert, err := parse(alertDoc(t, with("security_advisory.withdrawn_at", "2023-02")), "")
		require.NoError(t, err)

		withdrawnAt, ok := alert.WithdrawnAt()
		assert.True(t, ok)
		assert.Equal(t, "2023-02", withdrawnAt)
		assert.True(t, alert.Withdrawn())
	})

	t.Run("it should parse the published date as an instant", func(t *testing.T) {
		alert, err := parse(alertDoc(t, with("security_advisory.published_at", "2023-01-15T10:00:00Z")), "")
		require.NoError(t, err)
		assert.True(t, alert.PublishedAt().Equal(time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("it should normalize instants with an offset to UTC", func(t *testing.T) {
		alert, err := parse(alertDoc(t, with("security_advisory.updated_at", "2023-01-15T12:00:00+02:00")), "")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC), alert.AdvisoryUpdatedAt())
	})

	t.Run("it should be deterministic", func(t *testing.T) {
		first, err := parse(json.RawMessage(alertJSON), "etag")
		require.NoError(t, err)
		second, err := parse(json.RawMessage(alertJSON), "etag")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestParseSchemaErrors(t *testing.T) {
	required := []string{
		"number",
		"state",
		"url",
		"dependency",
		"dependency.package",
		"dependency.package.ecosystem",
		"dependency.package.name",
		"dependency.scope",
		"security_advisory",
		"security_advisory.ghsa_id",
		"security_advisory.summary",
		"security_advisory.severity",
		"security_advisory.published_at",
		"security_advisory.updated_at",
	}

	for _, path := range required {
		t.Run("it should name the missing field "+path, func(t *testing.T) {
			_, err := parse(alertDoc(t, without(path)), "")

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
			assert.Equal(t, path, schemaErr.Path)
		})
	}

	t.Run("it should treat a null required field as missing", func(t *testing.T) {
		_, err := parse(alertDoc(t, with("security_advisory.severity", nil)), "")

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "security_advisory.severity", schemaErr.Path)
	})

	t.Run("it should name the index of an incomplete cwe", func(t *testing.T) {
		raw := alertDoc(t, with("security_advisory.cwes", []any{
			map[string]any{"cwe_id": "CWE-79", "name": "XSS"},
			map[string]any{"name": "SQLi"},
		}))

		_, err := parse(raw, "")

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "security_advisory.cwes[1].cwe_id", schemaErr.Path)
	})

	t.Run("it should name the index of an incomplete vulnerability", func(t *testing.T) {
		raw := alertDoc(t, with("security_advisory.vulnerabilities", []any{
			map[string]any{
				"package":  map[string]any{"ecosystem": "pip", "name": "django"},
				"severity": "high",
			},
		}))

		_, err := parse(raw, "")

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "security_advisory.vulnerabilities[0].vulnerable_version_range", schemaErr.Path)
	})

	t.Run("it should report a field with the wrong JSON type", func(t *testing.T) {
		_, err := parse(alertDoc(t, with("number", "2")), "")

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "number", schemaErr.Path)
		assert.NotEmpty(t, schemaErr.Reason)
	})

	t.Run("it should reject documents that are not JSON objects", func(t *testing.T) {
		_, err := parse(json.RawMessage(`[1, 2]`), "")

		var schemaErr *SchemaError
		assert.True(t, errors.As(err, &schemaErr))

		_, err = parse(json.RawMessage(`{"number": `), "")
		assert.True(t, errors.As(err, &schemaErr))
	})
}

func TestParseEnumErrors(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		field string
		value string
	}{
		{"state", "state", "state", "closed"},
		{"upper case state", "state", "state", "OPEN"},
		{"scope", "dependency.scope", "dependency.scope", "test"},
		{"severity", "security_advisory.severity", "security_advisory.severity", "moderate"},
	}

	for _, c := range cases {
		t.Run("it should reject an unknown "+c.name, func(t *testing.T) {
			_, err := parse(alertDoc(t, with(c.path, c.value)), "")

			var enumErr *UnknownEnumValueError
			require.True(t, errors.As(err, &enumErr), "got %v", err)
			assert.Equal(t, c.field, enumErr.Field)
			assert.Equal(t, c.value, enumErr.Value)
		})
	}

	t.Run("it should reject an unknown vulnerability severity", func(t *testing.T) {
		raw := alertDoc(t, with("security_advisory.vulnerabilities", []any{
			map[string]any{
				"package":                  map[string]any{"ecosystem": "pip", "name": "django"},
				"severity":                 "moderate",
				"vulnerable_version_range": "< 2.0.2",
			},
		}))

		_, err := parse(raw, "")

		var enumErr *UnknownEnumValueError
		require.True(t, errors.As(err, &enumErr))
		assert.Equal(t, "security_advisory.vulnerabilities[0].severity", enumErr.Field)
	})
}

func TestParseDateErrors(t *testing.T) {
	for _, path := range []string{"security_advisory.published_at", "security_advisory.updated_at", "created_at", "updated_at"} {
		t.Run("it should reject a malformed "+path, func(t *testing.T) {
			_, err := parse(alertDoc(t, with(path, "not-a-date")), "")

			var dateErr *DateFormatError
			require.True(t, errors.As(err, &dateErr), "got %v", err)
			assert.Equal(t, path, dateErr.Field)
			assert.Equal(t, "not-a-date", dateErr.Value)
		})
	}

	t.Run("it should reject a date without time", func(t *testing.T) {
		_, err := parse(alertDoc(t, with("security_advisory.published_at", "2023-01-15")), "")

		var dateErr *DateFormatError
		assert.True(t, errors.As(err, &dateErr))
	})
}

func TestEnums(t *testing.T) {
	t.Run("it should order severities", func(t *testing.T) {
		assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
		assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
		assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
		assert.Equal(t, 0, Severity("unknown").Rank())
	})

	t.Run("it should parse known literals only", func(t *testing.T) {
		state, err := ParseState("fixed")
		assert.NoError(t, err)
		assert.Equal(t, StateFixed, state)

		_, err = ParseSeverity("Critical")
		assert.Error(t, err)
	})
}
