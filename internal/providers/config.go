package providers

import "time"

// Provider type names accepted by Create
const (
	TypeGit      = "git"
	TypeFileStat = "filestat"
	TypeJournal  = "journal"
	TypeCommand  = "command"
)

// Config describes one provider instance. Only the fields relevant to Type
// are read.
type Config struct {
	ID    string `mapstructure:"id" yaml:"id"`
	Type  string `mapstructure:"type" yaml:"type"`
	Cache bool   `mapstructure:"cache" yaml:"cache,omitempty"`

	// git
	GitBinary string `mapstructure:"git_binary" yaml:"git_binary,omitempty"`

	// journal
	Dir     string `mapstructure:"dir" yaml:"dir,omitempty"`
	Pattern string `mapstructure:"pattern" yaml:"pattern,omitempty"`

	// command
	Command string        `mapstructure:"command" yaml:"command,omitempty"`
	Args    []string      `mapstructure:"args" yaml:"args,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// DefaultConfigs is the provider set used when no configuration file exists.
func DefaultConfigs() []Config {
	return []Config{
		{ID: "git", Type: TypeGit},
		{ID: "filestat", Type: TypeFileStat},
	}
}
