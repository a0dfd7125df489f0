// Package events defines the closed set of recognized telemetry event
// names, loaded from an events.yaml file or falling back to built-in
// defaults.
package events

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultNames is the built-in catalog used when no events file is
// configured.
var defaultNames = []string{
	"page_view",
	"tts_job_created",
	"tts_audio_played",
	"short_link_created",
	"short_link_copied",
	"short_link_resolved",
}

// Catalog is the set of event names the API accepts.
type Catalog struct {
	names map[string]struct{}
}

// Load reads and parses an events.yaml file. Empty and duplicate names are
// rejected.
func Load(filePath string) (*Catalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse events yaml: %w", err)
	}

	names := make(map[string]struct{}, len(file.Events))
	for _, def := range file.Events {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return nil, fmt.Errorf("events file contains an entry without a name")
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("duplicate event name: %s", name)
		}
		names[name] = struct{}{}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("events file declares no events")
	}

	return &Catalog{names: names}, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	names := make(map[string]struct{}, len(defaultNames))
	for _, name := range defaultNames {
		names[name] = struct{}{}
	}
	return &Catalog{names: names}
}

// Contains reports whether name is a recognized event.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.names[name]
	return ok
}

// Names returns the catalog content in unspecified order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.names))
	for name := range c.names {
		names = append(names, name)
	}
	return names
}
