package headerrewriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule op names accepted in declarative configuration.
const (
	OpAdd            = "add"
	OpSet            = "set"
	OpRemove         = "remove"
	OpRemoveMatching = "remove-matching"
	OpRemoveValue    = "remove-value"
)

// Rule describes one modification in declarative form.
type Rule struct {
	// Op is one of add, set, remove, remove-matching, remove-value.
	Op string `json:"op" yaml:"op"`
	// Name is the key the rule targets. Unused by remove-matching.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Value carries the single value for add and remove-value rules.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Values carries the replacement values for set rules.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
	// Pattern is the full-string key pattern for remove-matching rules.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Config holds declarative rewriter configuration.
type Config struct {
	// Rules are applied in the order they appear.
	Rules []Rule `json:"rules" yaml:"rules"`
	// Debug enables debug logging
	Debug bool `json:"debug" yaml:"debug"`
}

// LoadConfigFromFile loads configuration from a file (JSON or YAML)
func LoadConfigFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, &config); err != nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file as YAML or JSON: %w", err)
		}
	}

	return &config, nil
}

// SaveConfigToFile saves configuration to a file
func SaveConfigToFile(config *Config, filename string, format string) error {
	var data []byte
	var err error

	switch format {
	case "yaml", "yml":
		data, err = yaml.Marshal(config)
	case "json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}

// ValidateConfig checks every rule without building a rewriter.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration is nil")
	}

	for i, rule := range config.Rules {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

func (r Rule) validate() error {
	switch r.Op {
	case OpAdd, OpSet, OpRemove, OpRemoveValue:
		if r.Name == "" {
			return fmt.Errorf("name cannot be empty for op %q: %w", r.Op, ErrInvalidArgument)
		}
		if r.Op == OpSet && len(r.Values) == 0 {
			return fmt.Errorf("set %q: at least one value must be provided: %w", r.Name, ErrInvalidArgument)
		}
	case OpRemoveMatching:
		if r.Pattern == "" {
			return fmt.Errorf("pattern cannot be empty for op %q: %w", r.Op, ErrInvalidArgument)
		}
		if _, err := anchorPattern(r.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", r.Pattern, err)
		}
	case "":
		return fmt.Errorf("op cannot be empty: %w", ErrInvalidArgument)
	default:
		return fmt.Errorf("unknown op %q: %w", r.Op, ErrInvalidArgument)
	}

	return nil
}

// Build compiles the configuration into a Rewriter. Rules keep their file
// order, so they apply in that order too.
func (c *Config) Build() (*Rewriter, error) {
	if err := ValidateConfig(c); err != nil {
		return nil, err
	}

	r := New().Debug(c.Debug)
	for _, rule := range c.Rules {
		switch rule.Op {
		case OpAdd:
			r.Add(rule.Name, rule.Value)
		case OpSet:
			r.Set(rule.Name, rule.Values...)
		case OpRemove:
			r.Remove(rule.Name)
		case OpRemoveMatching:
			pattern, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", rule.Pattern, err)
			}
			r.RemoveMatching(pattern)
		case OpRemoveValue:
			r.RemoveValue(rule.Name, rule.Value)
		}
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return r, nil
}
