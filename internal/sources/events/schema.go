package events

// File represents the top-level structure of events.yaml.
type File struct {
	Events []EventDef `yaml:"events"`
}

// EventDef declares one recognized event name.
type EventDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}
