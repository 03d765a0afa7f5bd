package config

// DefaultConfig returns the configuration used when no file or overrides
// are present. Backups and manual-edit preservation are on by default so a
// default run never destroys hand-authored content.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:      ".",
		OutputDir:      "diagrams",
		Backup:         true,
		PreserveManual: true,
		MaxConcurrency: 4,
	}
}
