package config

// Config is the root configuration structure
type Config struct {
	Version   int           `yaml:"version" validate:"gte=1"`
	GraphDir  string        `yaml:"graph_dir" validate:"required"`
	SchemaDir string        `yaml:"schema_dir,omitempty"` // empty = <graph_dir>/schema
	DistDir   string        `yaml:"dist_dir" validate:"required"`
	Strict    bool          `yaml:"strict"`
	Extract   ExtractConfig `yaml:"extract"`
	Logging   LoggingConfig `yaml:"logging"`
}

// ExtractConfig holds subgraph extraction defaults
type ExtractConfig struct {
	Depth int `yaml:"depth" validate:"gte=0"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}
