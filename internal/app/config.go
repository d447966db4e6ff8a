package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SequencePath   string // process sequence file
	ConfigPath     string // optional line configuration (.hcl)
	InitialCommand string // overrides the config file when non-empty

	LogFormat  string
	LogLevel   string
	StatusPort int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SequencePath == "" && cfg.ConfigPath == "" {
		return nil, errors.New("either SequencePath or ConfigPath is required")
	}
	return &cfg, nil
}
