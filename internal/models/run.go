package models

type RunInfo struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	State     string         `json:"state" yaml:"state"`
	Tags      []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Config    map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Summary   map[string]any `json:"summary,omitempty" yaml:"summary,omitempty"`
	CreatedAt string         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	URL       string         `json:"url,omitempty" yaml:"url,omitempty"`
	Project   string         `json:"project,omitempty" yaml:"project,omitempty"`
	Entity    string         `json:"entity,omitempty" yaml:"entity,omitempty"`
}

// Path returns the run address in the form entity/project/run_id.
func (r *RunInfo) Path() string {
	return r.Entity + "/" + r.Project + "/" + r.ID
}
