package dependabot

import (
	"strings"

	"github.com/package-url/packageurl-go"
	"github.com/pkg/errors"
)

// purl types of the ecosystems dependabot reports.
var ecosystemTypes = map[string]string{
	"npm":      packageurl.TypeNPM,
	"pip":      packageurl.TypePyPi,
	"maven":    packageurl.TypeMaven,
	"nuget":    packageurl.TypeNuget,
	"composer": packageurl.TypeComposer,
	"rubygems": packageurl.TypeGem,
	"go":       packageurl.TypeGolang,
	"rust":     packageurl.TypeCargo,
	"pub":      "pub",
	"erlang":   packageurl.TypeHex,
	"actions":  packageurl.TypeGithub,
	"swift":    packageurl.TypeSwift,
}

// PURL returns the versionless package url of the package.
func (p Package) PURL() (string, error) {
	purlType, ok := ecosystemTypes[p.ecosystem]
	if !ok {
		return "", errors.Errorf("no package url type for ecosystem %q", p.ecosystem)
	}

	namespace, name := "", p.name
	switch purlType {
	case packageurl.TypeMaven:
		if group, artifact, found := strings.Cut(p.name, ":"); found {
			namespace, name = group, artifact
		}
	case packageurl.TypePyPi:
		name = strings.ReplaceAll(strings.ToLower(p.name), "_", "-")
	default:
		if i := strings.LastIndex(p.name, "/"); i > 0 {
			namespace, name = p.name[:i], p.name[i+1:]
		}
	}

	return packageurl.NewPackageURL(purlType, namespace, name, "", nil, "").ToString(), nil
}
