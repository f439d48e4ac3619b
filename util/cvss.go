package util

import (
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
	"github.com/pkg/errors"
)

// CvssBaseScore computes the base score of a CVSS vector. Vectors without a
// version prefix are read as CVSS 2.0.
func CvssBaseScore(vector string) (float64, error) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, errors.Wrap(err, "could not parse CVSS 3.0 vector")
		}
		return cvss.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:3.1"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, errors.Wrap(err, "could not parse CVSS 3.1 vector")
		}
		return cvss.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:4.0"):
		cvss, err := gocvss40.ParseVector(vector)
		if err != nil {
			return 0, errors.Wrap(err, "could not parse CVSS 4.0 vector")
		}
		return cvss.Score(), nil
	default:
		cvss, err := gocvss20.ParseVector(vector)
		if err != nil {
			return 0, errors.Wrap(err, "could not parse CVSS 2.0 vector")
		}
		return cvss.BaseScore(), nil
	}
}
