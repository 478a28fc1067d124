package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/viper"
)

const (
	appName        = "systerm"
	configFileName = "config.yaml"
	envPrefix      = "SYSTERM"
)

// Message keys accepted by [MessagesConfig.Render].
const (
	MessageEnter    = "enter"
	MessageGreeting = "greeting"
	MessageMission  = "mission"
	MessageProgress = "progress"
	MessageSuccess  = "success"
	MessageReward   = "reward"
)

// Loader handles configuration loading with Viper.
//
// Create with [NewLoader]. Each Loader owns its own Viper instance, so loaders
// do not share state with each other or with the global Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new [Loader] seeded with [DefaultConfig] values and
// SYSTERM_ environment variable bindings.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	// Short aliases for the settings people override most.
	_ = v.BindEnv("job.target", envPrefix+"_TARGET")
	_ = v.BindEnv("history.path", envPrefix+"_HISTORY_PATH")
	_ = v.BindEnv("log.level", envPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("log.file", envPrefix+"_LOG_FILE")

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("job.name", cfg.Job.Name)
	v.SetDefault("job.target", cfg.Job.Target)
	v.SetDefault("job.messages.enter", cfg.Job.Messages.Enter)
	v.SetDefault("job.messages.greeting", cfg.Job.Messages.Greeting)
	v.SetDefault("job.messages.mission", cfg.Job.Messages.Mission)
	v.SetDefault("job.messages.progress", cfg.Job.Messages.Progress)
	v.SetDefault("job.messages.success", cfg.Job.Messages.Success)
	v.SetDefault("job.messages.reward", cfg.Job.Messages.Reward)
	v.SetDefault("history.path", cfg.History.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("output.quiet", cfg.Output.Quiet)
}

// Load resolves the configuration from the sources listed in the package
// documentation. A missing config file is not an error; defaults are used.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(envPrefix + "_CONFIG_PATH"); path != "" {
		return l.LoadFromFile(path)
	}

	candidates := []string{configFileName}
	if userPath, err := DefaultConfigPath(); err == nil {
		candidates = append([]string{userPath}, candidates...)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return l.LoadFromFile(path)
		}
	}

	return l.unmarshal()
}

// LoadFromFile reads configuration from the given file. The format is taken
// from the file extension (yaml, yml, json, toml).
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MustLoad loads the configuration and panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// ConfigDir returns the platform-standard configuration directory for systerm.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// DefaultConfigPath returns the path of the user-level config file.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureConfigDir creates the user configuration directory if it is missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return nil
}

// Render expands the message template registered under key.
//
// Valid keys are the Message* constants. Returns an error for an unknown key,
// an empty template, or a template that fails to parse or execute.
func (m MessagesConfig) Render(key string, data MessageData) (string, error) {
	var tmpl string
	switch key {
	case MessageEnter:
		tmpl = m.Enter
	case MessageGreeting:
		tmpl = m.Greeting
	case MessageMission:
		tmpl = m.Mission
	case MessageProgress:
		tmpl = m.Progress
	case MessageSuccess:
		tmpl = m.Success
	case MessageReward:
		tmpl = m.Reward
	default:
		return "", fmt.Errorf("unknown message: %s", key)
	}

	if tmpl == "" {
		return "", fmt.Errorf("no template configured for message %q", key)
	}
	return expandTemplate(tmpl, data)
}

// expandTemplate executes a Go text/template with the given data.
func expandTemplate(tmplStr string, data MessageData) (string, error) {
	tmpl, err := template.New("message").Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
