package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type feedsFile struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the YAML feed list. An empty list is valid; a missing or
// malformed file is not.
func LoadFeeds(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeds file: %w", err)
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}

	for i, url := range f.Feeds {
		if url == "" {
			return nil, fmt.Errorf("feeds file entry %d is empty", i)
		}
	}

	return f.Feeds, nil
}
