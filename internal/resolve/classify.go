// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"regexp"
	"strings"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// NormalizeArxivID strips the optional "arXiv:" prefix and surrounding
// whitespace. It returns the bare id and whether the input had a valid
// arXiv shape.
func NormalizeArxivID(id string) (string, bool) {
	m := arxivPattern.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// NormalizeDOI trims whitespace and an optional "https://doi.org/" or
// "doi:" prefix. It returns the bare DOI and whether the result has a
// valid DOI shape.
func NormalizeDOI(doi string) (string, bool) {
	d := strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		if strings.HasPrefix(strings.ToLower(d), prefix) {
			d = d[len(prefix):]
			break
		}
	}
	if !doiPattern.MatchString(d) {
		return "", false
	}
	return d, true
}
