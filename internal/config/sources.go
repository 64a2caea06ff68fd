// Package config loads file-based configuration. Everything else is read
// from the environment by the component that owns it.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/domain/entity"
)

//go:embed sources.yaml
var defaultSources []byte

type sourcesFile struct {
	Sources []entity.SourceDescriptor `yaml:"sources"`
}

// ParseSources decodes and validates a registry document. Feed URLs must
// be unique; categories are lowercased.
func ParseSources(data []byte) ([]entity.SourceDescriptor, error) {
	var doc sourcesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse source registry: %w", err)
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("source registry is empty")
	}

	seen := make(map[string]int, len(doc.Sources))
	for i := range doc.Sources {
		src := &doc.Sources[i]
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, src.Name, err)
		}
		if first, dup := seen[src.FeedURL]; dup {
			return nil, fmt.Errorf("source %d (%s): feed_url duplicates source %d", i, src.Name, first)
		}
		seen[src.FeedURL] = i
	}
	return doc.Sources, nil
}

// LoadSources reads the registry from path, or the embedded default when
// path is empty.
// The path is expected to come from a trusted source (SOURCES_FILE or a flag).
func LoadSources(path string) ([]entity.SourceDescriptor, error) {
	if path == "" {
		return ParseSources(defaultSources)
	}
	// #nosec G304 -- path is operator configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source registry: %w", err)
	}
	return ParseSources(data)
}

// LoadSourcesFromEnv loads the registry named by SOURCES_FILE.
func LoadSourcesFromEnv() ([]entity.SourceDescriptor, error) {
	return LoadSources(os.Getenv("SOURCES_FILE"))
}
