package config

// LayerRule binds an architectural layer to the path keywords that select
// it. Rules are evaluated in order; the first match wins.
type LayerRule struct {
	Layer    string   `yaml:"layer" koanf:"layer"`
	Keywords []string `yaml:"keywords" koanf:"keywords"`
}

// Config is the top-level archviz configuration, corresponding to
// .archviz.yml.
type Config struct {
	SourceDir      string      `yaml:"source_dir" koanf:"source_dir"`
	OutputDir      string      `yaml:"output_dir" koanf:"output_dir"`
	Types          []string    `yaml:"types" koanf:"types"` // empty = all
	Exclude        []string    `yaml:"exclude" koanf:"exclude"`
	MaxDepth       int         `yaml:"max_depth" koanf:"max_depth"`
	RootPackage    string      `yaml:"root_package" koanf:"root_package"`
	Layers         []LayerRule `yaml:"layers" koanf:"layers"`
	Backup         bool        `yaml:"backup" koanf:"backup"`
	PreserveManual bool        `yaml:"preserve_manual" koanf:"preserve_manual"`
	MaxConcurrency int         `yaml:"max_concurrency" koanf:"max_concurrency"`
	MaxFileSize    int64       `yaml:"max_file_size" koanf:"max_file_size"`
}

// EnabledTypes returns the configured diagram types, or all of them when
// the list is empty.
func (c *Config) EnabledTypes() []string {
	if len(c.Types) == 0 {
		return allTypeNames()
	}
	return append([]string(nil), c.Types...)
}
