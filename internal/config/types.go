// Package config provides configuration loading and management for systerm.
//
// Configuration is loaded using Viper, supporting YAML config files and environment
// variable overrides. The package provides defaults that reproduce the stock
// System Termination scenario, with the ability to customize the termination
// target, narrative messages, execution history location, and logging.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [JobConfig] defines the job name, termination target, and messages
//   - [HistoryConfig] controls where step execution records are kept
//
// Configuration priority (highest to lowest):
//  1. Environment variables (SYSTERM_ prefix)
//  2. Config file specified by SYSTERM_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/systerm/config.yaml
//     - macOS: ~/Library/Application Support/systerm/config.yaml
//     - Windows: %APPDATA%\systerm\config.yaml
//  4. ./config.yaml
//  5. [DefaultConfig] defaults
package config

import "fmt"

// Config represents the root configuration structure.
//
// This is the main configuration container loaded by [Loader] and used throughout
// the application. Use [DefaultConfig] to get the stock scenario.
type Config struct {
	// Job contains the job definition settings.
	Job JobConfig `mapstructure:"job"`

	// History controls durable recording of job and step executions.
	History HistoryConfig `mapstructure:"history"`

	// Log contains structured logging settings.
	Log LogConfig `mapstructure:"log"`

	// Output contains terminal output settings.
	Output OutputConfig `mapstructure:"output"`
}

// JobConfig describes the System Termination job.
type JobConfig struct {
	// Name is the job name recorded with every execution.
	// Default: "systemTerminationSimulationJob"
	Name string `mapstructure:"name"`

	// Target is the number of zombie processes the defeat step must terminate
	// before it stops repeating. Must be at least 1.
	// Default: 5
	Target int `mapstructure:"target"`

	// Messages holds the narrative templates printed by each step.
	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig holds the narrative line templates.
//
// Each value is a Go text/template expanded with [MessageData], so
// {{.Target}} and {{.Current}} are available everywhere.
type MessagesConfig struct {
	Enter    string `mapstructure:"enter"`
	Greeting string `mapstructure:"greeting"`
	Mission  string `mapstructure:"mission"`
	Progress string `mapstructure:"progress"`
	Success  string `mapstructure:"success"`
	Reward   string `mapstructure:"reward"`
}

// HistoryConfig controls the execution repository.
type HistoryConfig struct {
	// Path is the YAML file that stores execution records. When empty,
	// executions are kept in memory only and vanish with the process.
	// Can be overridden with SYSTERM_HISTORY_PATH.
	Path string `mapstructure:"path"`
}

// LogConfig contains zap logger settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	// Default: "warn"
	Level string `mapstructure:"level"`

	// File, when set, sends JSON logs to a rotating file instead of stderr.
	File string `mapstructure:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	// Default: 5
	MaxSizeMB int `mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	// Default: 8
	MaxBackups int `mapstructure:"max_backups"`
}

// OutputConfig contains terminal output settings.
type OutputConfig struct {
	// Quiet suppresses step headers and summaries, leaving only narrative lines.
	Quiet bool `mapstructure:"quiet"`
}

// DefaultConfig returns a new [Config] with the stock scenario settings.
//
// The defaults reproduce the original simulation: a target of 5 zombie
// processes and the fixed narrative for each of the four steps.
func DefaultConfig() *Config {
	return &Config{
		Job: JobConfig{
			Name:   "systemTerminationSimulationJob",
			Target: 5,
			Messages: MessagesConfig{
				Enter:    "Entered the System Termination simulation world!",
				Greeting: "You met the system administrator NPC.",
				Mission:  "First mission: terminate {{.Target}} zombie processes",
				Progress: "Zombie process terminated! ({{.Current}}/{{.Target}})",
				Success:  "Mission complete! {{.Target}} zombie processes terminated!",
				Reward:   "Reward: KILL -9 privilege acquired, system control level 1 reached",
			},
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  5,
			MaxBackups: 8,
		},
	}
}

// Validate checks settings that would make the job impossible to run.
func (c *Config) Validate() error {
	if c.Job.Name == "" {
		return fmt.Errorf("job name must not be empty")
	}
	if c.Job.Target < 1 {
		return fmt.Errorf("termination target must be at least 1, got %d", c.Job.Target)
	}
	return nil
}

// MessageData contains data for message template expansion.
//
// Fields are accessible in templates using {{.FieldName}} syntax.
type MessageData struct {
	// Current is the number of processes terminated so far.
	Current int

	// Target is the configured termination target.
	Target int
}
