package signature

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// keyIDPrefix marks a trusted key reference given inline as a key id instead
// of a PEM file.
const keyIDPrefix = "keyid:"

// RuleConfig is the configuration form of a Rule.
type RuleConfig struct {
	Name     string   `yaml:"name"`
	Priority int      `yaml:"priority"`
	Context  string   `yaml:"context"`
	Action   string   `yaml:"action"`
	Key      string   `yaml:"key"`
	Trusted  []string `yaml:"trusted"`
}

// KeyLoader resolves key references found in configuration.
type KeyLoader interface {
	LoadPrivateKey(ref string) (*KeyPair, error)
	LoadPublicKey(ref string) (*KeyPair, error)
}

// FileKeyLoader reads PEM files. Public references of the form "keyid:<id>"
// are decoded directly.
type FileKeyLoader struct{}

func (FileKeyLoader) LoadPrivateKey(ref string) (*KeyPair, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("signature: read key %s: %w", ref, err)
	}
	return LoadKeyPairPEM(data)
}

func (FileKeyLoader) LoadPublicKey(ref string) (*KeyPair, error) {
	if id, ok := strings.CutPrefix(ref, keyIDPrefix); ok {
		return ParseKeyID(id)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("signature: read key %s: %w", ref, err)
	}
	// A private key file is accepted as well, only its public half is kept.
	if pair, err := LoadPublicKeyPEM(data); err == nil {
		return pair, nil
	}
	pair, err := LoadKeyPairPEM(data)
	if err != nil {
		return nil, err
	}
	return pair.PublicOnly(), nil
}

// BuildPolicy turns configuration entries into a Policy. A nil loader uses
// FileKeyLoader.
func BuildPolicy(log *zap.Logger, configs []RuleConfig, loader KeyLoader) (*Policy, error) {
	if loader == nil {
		loader = FileKeyLoader{}
	}
	rules := make([]Rule, 0, len(configs))
	for i, cfg := range configs {
		rule := Rule{
			Name:     cfg.Name,
			Priority: cfg.Priority,
			Context:  strings.TrimSpace(cfg.Context),
			Action:   Action(normalizeAction(cfg.Action)),
		}
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule-%d", i+1)
		}
		if rule.Context == "" {
			rule.Context = "*"
		}
		if cfg.Key != "" {
			key, err := loader.LoadPrivateKey(cfg.Key)
			if err != nil {
				return nil, fmt.Errorf("signature: rule %q: %w", rule.Name, err)
			}
			rule.Key = key
		}
		for _, ref := range cfg.Trusted {
			key, err := loader.LoadPublicKey(ref)
			if err != nil {
				return nil, fmt.Errorf("signature: rule %q: %w", rule.Name, err)
			}
			rule.Trusted = append(rule.Trusted, key)
		}
		rules = append(rules, rule)
	}
	return NewPolicy(log, rules...)
}

func normalizeAction(action string) string {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "sign":
		return string(ActionSign)
	case "verify":
		return string(ActionVerify)
	case "require":
		return string(ActionRequire)
	default:
		return action
	}
}
