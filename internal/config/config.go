package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = ".qgate.yml"

// ConfigPathEnv overrides the configuration file path.
const ConfigPathEnv = "QGATE_CONFIG"

type Config struct {
	Logger   Logger   `yaml:"logger"`
	Analysis Analysis `yaml:"analysis"`
	Rules    Rules    `yaml:"rules"`
	Output   Output   `yaml:"output"`
	Gate     Gate     `yaml:"gate"`
	Strict   bool     `yaml:"strict"`
	Jobs     int      `yaml:"jobs" validate:"gte=1,lte=64"`
}

type Logger struct {
	Level           string `yaml:"level" validate:"omitempty,oneof=TRACE DEBUG INFO WARN ERROR trace debug info warn error"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Analysis is the read-only configuration handed to every rule.
type Analysis struct {
	Thresholds         Thresholds `yaml:"thresholds"`
	Naming             Naming     `yaml:"naming"`
	Markers            []string   `yaml:"markers" validate:"dive,required"`
	DebugCalls         []string   `yaml:"debug_calls" validate:"dive,required"`
	SafeNumberContexts []string   `yaml:"safe_number_contexts" validate:"dive,required"`
}

type Thresholds struct {
	MaxFileLines     int `yaml:"max_file_lines" validate:"gte=1"`
	MaxFunctionLines int `yaml:"max_function_lines" validate:"gte=1"`
	MaxNestingDepth  int `yaml:"max_nesting_depth" validate:"gte=1"`
	MaxLineLength    int `yaml:"max_line_length" validate:"gte=1"`
	MagicNumberMin   int `yaml:"magic_number_min" validate:"gte=0"`
}

type Naming struct {
	PrivatePrefix string   `yaml:"private_prefix" validate:"required"`
	AlwaysCheck   []string `yaml:"always_check"`
	Receivers     []string `yaml:"receivers"`
}

type Rules struct {
	Enable   []string          `yaml:"enable"`
	Disable  []string          `yaml:"disable"`
	Severity map[string]string `yaml:"severity"`
}

type Output struct {
	Format  string `yaml:"format" validate:"oneof=text json sarif"`
	GroupBy string `yaml:"group_by" validate:"oneof=severity rule"`
}

type Gate struct {
	Policy   string `yaml:"policy"`
	Baseline string `yaml:"baseline"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logger: Logger{Level: "INFO"},
		Analysis: Analysis{
			Thresholds: Thresholds{
				MaxFileLines:     300,
				MaxFunctionLines: 50,
				MaxNestingDepth:  3,
				MaxLineLength:    120,
				MagicNumberMin:   20,
			},
			Naming: Naming{
				PrivatePrefix: "_",
				AlwaysCheck:   []string{"__init__"},
				Receivers:     []string{"self", "cls"},
			},
			Markers: []string{"TODO", "FIXME", "HACK", "XXX", "TBD"},
			DebugCalls: []string{
				"console.log", "console.debug", "console.info",
				"console.warn", "console.error", "console.trace",
				"breakpoint", "pdb.set_trace",
			},
			SafeNumberContexts: []string{
				"port", "timeout", "delay", "width", "height", "size", "length",
				"index", "count", "max", "min", "limit", "version", "status",
				"code", "padding", "margin", "offset", "duration",
			},
		},
		Rules:  Rules{Severity: map[string]string{}},
		Output: Output{Format: "text", GroupBy: "severity"},
		Jobs:   4,
	}
}

// ValidateConfigPath checks that the path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into data. Keys missing from the file keep
// the values data already holds.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// ResolvePath picks the configuration file: the explicit path, then the
// QGATE_CONFIG variable, then .qgate.yml if present. Empty means defaults only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		return env
	}
	if err := ValidateConfigPath(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// LoadConfig returns the defaults overlaid with the YAML file at configPath.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	if cfg.Rules.Severity == nil {
		cfg.Rules.Severity = map[string]string{}
	}
	return cfg, nil
}
