package dependabot

import (
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/pkg/errors"
)

// rangeOperators are the comparison operators of a vulnerable version range.
// Two character operators come first so ">=" is not taken for ">".
var rangeOperators = []struct {
	op    string
	holds func(cmp int) bool
}{
	{">=", func(cmp int) bool { return cmp >= 0 }},
	{"<=", func(cmp int) bool { return cmp <= 0 }},
	{"!=", func(cmp int) bool { return cmp != 0 }},
	{">", func(cmp int) bool { return cmp > 0 }},
	{"<", func(cmp int) bool { return cmp < 0 }},
	{"=", func(cmp int) bool { return cmp == 0 }},
}

// Affects reports whether v falls into the vulnerable version range, e.g.
// ">= 4.0.0, < 4.17.21". Bounds are compared with version ordering, so a
// prerelease such as 4.17.21-rc1 sits below 4.17.21 and is affected.
func (v Vulnerability) Affects(pkgVersion string) (bool, error) {
	parsed, err := version.NewVersion(pkgVersion)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version %q", pkgVersion)
	}

	if strings.TrimSpace(v.vulnerableVersionRange) == "" {
		return false, errors.New("empty vulnerable version range")
	}
	for _, part := range strings.Split(v.vulnerableVersionRange, ",") {
		holds, err := checkBound(parsed, strings.TrimSpace(part))
		if err != nil {
			return false, errors.Wrapf(err, "invalid vulnerable version range %q", v.vulnerableVersionRange)
		}
		if !holds {
			return false, nil
		}
	}
	return true, nil
}

// checkBound checks one comparison such as "< 2.0.2". A bare version means
// equality.
func checkBound(v *version.Version, bound string) (bool, error) {
	op := rangeOperators[len(rangeOperators)-1]
	for _, candidate := range rangeOperators {
		if strings.HasPrefix(bound, candidate.op) {
			op = candidate
			bound = strings.TrimPrefix(bound, candidate.op)
			break
		}
	}

	limit, err := version.NewVersion(strings.TrimSpace(bound))
	if err != nil {
		return false, err
	}
	return op.holds(v.Compare(limit)), nil
}

// AffectedVersion reports whether pkgVersion of the alert's package is inside
// any of the advisory's vulnerable ranges for that package.
func (a *Alert) AffectedVersion(pkgVersion string) (bool, error) {
	for _, v := range a.securityAdvisory.vulnerabilities {
		if v.pkg != a.dependency.pkg {
			continue
		}
		affected, err := v.Affects(pkgVersion)
		if err != nil {
			return false, err
		}
		if affected {
			return true, nil
		}
	}
	return false, nil
}
