// Package config provides Viper-based configuration loading for the Qhauntz engine host.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RulesConfig holds the tunable rule constants of the combat engine.
type RulesConfig struct {
	// MildConsequenceShifts is the number of shifts a mild consequence absorbs.
	MildConsequenceShifts int `mapstructure:"mild_consequence_shifts"`
	// MildConsequenceHealCost is the number of shifts needed to clear a mild consequence.
	MildConsequenceHealCost int `mapstructure:"mild_consequence_heal_cost"`
	// BonusTrackThreshold is the filled-box count at which the Aether bonus track activates.
	BonusTrackThreshold int `mapstructure:"bonus_track_threshold"`
	// BonusBoxCapacity is the capacity of each bonus box.
	BonusBoxCapacity int `mapstructure:"bonus_box_capacity"`
}

// ContentConfig locates the YAML content loaded at startup.
type ContentConfig struct {
	CharactersDir string `mapstructure:"characters_dir"`
}

// ScriptingConfig holds Lua hook settings.
type ScriptingConfig struct {
	// Dir is the directory of *.lua hook scripts. Empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps VM instructions per hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// DiceConfig holds host-side dice settings.
type DiceConfig struct {
	// Expression is rolled whenever the caller omits a roll.
	Expression string `mapstructure:"expression"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Dice      DiceConfig      `mapstructure:"dice"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Dice.Expression == "" {
		errs = append(errs, "dice.expression must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	if r.MildConsequenceShifts < 1 {
		errs = append(errs, fmt.Sprintf("rules.mild_consequence_shifts must be >= 1, got %d", r.MildConsequenceShifts))
	}
	if r.MildConsequenceHealCost < 1 {
		errs = append(errs, fmt.Sprintf("rules.mild_consequence_heal_cost must be >= 1, got %d", r.MildConsequenceHealCost))
	}
	if r.BonusTrackThreshold < 1 {
		errs = append(errs, fmt.Sprintf("rules.bonus_track_threshold must be >= 1, got %d", r.BonusTrackThreshold))
	}
	if r.BonusBoxCapacity < 1 {
		errs = append(errs, fmt.Sprintf("rules.bonus_box_capacity must be >= 1, got %d", r.BonusBoxCapacity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.CharactersDir == "" {
		return errors.New("content.characters_dir must not be empty")
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with QHAUNTZ_ prefix
	v.SetEnvPrefix("QHAUNTZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// Default returns the configuration produced by defaults alone.
//
// Postcondition: The returned Config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: defaults do not validate: " + err.Error())
	}
	return cfg
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("rules.mild_consequence_shifts", 2)
	v.SetDefault("rules.mild_consequence_heal_cost", 2)
	v.SetDefault("rules.bonus_track_threshold", 3)
	v.SetDefault("rules.bonus_box_capacity", 1)

	v.SetDefault("content.characters_dir", "content/characters")

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("dice.expression", "4dF")
}
