package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads extra shorthand rules from a YAML file of the form
//
//	rules:
//	  - pattern: " vs "
//	    replacement: " với "
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shorthand rules: %w", err)
	}
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse shorthand rules yaml: %w", err)
	}
	for i, r := range f.Rules {
		if r.Pattern == "" {
			return nil, fmt.Errorf("shorthand rule %d: empty pattern", i)
		}
	}
	return f.Rules, nil
}

// NewFromFile builds a Normalizer with the rules in path appended after the
// defaults. An empty path yields the defaults only.
func NewFromFile(path string) (*Normalizer, error) {
	if path == "" {
		return New(), nil
	}
	extra, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	return New(extra...), nil
}
