package core

// RepoConfig represents the structure of the .deepreview.yml file that a
// reviewed project may carry in its root directory.
type RepoConfig struct {
	// Default focus areas, applied when no --focus flag is given.
	// Example: ["security", "performance"]
	FocusAreas []string `yaml:"focus_areas"`

	// Custom instructions appended to the reviewer persona prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Overrides the chunk target size in bytes. Zero keeps the global value.
	ChunkSize int `yaml:"chunk_size"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		FocusAreas:         []string{},
		CustomInstructions: []string{},
	}
}
