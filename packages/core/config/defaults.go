package config

const (
	// DefaultWorkers is the pool size used when nothing else is configured
	DefaultWorkers = 4
	// DefaultOutput is the default report format
	DefaultOutput = "console"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Workers:    DefaultWorkers,
		BaselineMs: 0, // summed attempt time
		Output:     DefaultOutput,
		OutputDir:  "",
		NoColor:    BoolPtr(false),
		Verbose:    BoolPtr(false),
		Progress:   BoolPtr(true),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Workers == defaults.Workers &&
		c.BaselineMs == defaults.BaselineMs &&
		c.Output == defaults.Output &&
		c.OutputDir == defaults.OutputDir &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetProgress() == defaults.GetProgress() &&
		len(c.Paths) == 0
}
