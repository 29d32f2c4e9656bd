// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the upstream API key from a directory of
// plain-text files, one secret per file.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// semanticScholarKeyFile is the file name holding the Semantic Scholar key.
const semanticScholarKeyFile = "semantic-scholar-api-key"

// Secrets holds the keys read at startup.
type Secrets struct {
	// SemanticScholarAPIKey raises the upstream rate limits when present.
	// Empty means anonymous access.
	SemanticScholarAPIKey string
}

// Load reads the known secret files under dir. A missing directory or a
// missing file is not an error; the corresponding key stays empty. File
// contents are whitespace-trimmed.
func Load(dir string) (Secrets, error) {
	var s Secrets

	key, err := readSecret(filepath.Join(dir, semanticScholarKeyFile))
	if err != nil {
		return s, err
	}
	s.SemanticScholarAPIKey = key
	return s, nil
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
