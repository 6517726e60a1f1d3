package models

type ArtifactInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type" yaml:"type"`
	Version      string   `json:"version" yaml:"version"`
	DownloadPath string   `json:"download_path" yaml:"download_path"`
	RunID        string   `json:"run_id" yaml:"run_id"`
	Files        []string `json:"files,omitempty" yaml:"files,omitempty"`
}
