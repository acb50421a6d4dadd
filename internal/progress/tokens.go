package progress

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed course_tokens.yaml
var defaultTokenRules []byte

// TokenRule rewrites a single slug token. Pattern is a regular expression
// matched against the lower-case token.
type TokenRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type tokenFile struct {
	Rules []TokenRule `yaml:"rules"`
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// TokenTable is an ordered list of token rules. The first matching rule wins.
type TokenTable struct {
	rules []compiledRule
}

// NewTokenTable compiles rules in the given order.
func NewTokenTable(rules []TokenRule) (*TokenTable, error) {
	table := &TokenTable{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("token rule %d (%q): %w", i, rule.Pattern, err)
		}
		table.rules = append(table.rules, compiledRule{re: re, replacement: rule.Replacement})
	}
	return table, nil
}

// ParseTokenTable decodes a YAML rule document.
func ParseTokenTable(raw []byte) (*TokenTable, error) {
	var file tokenFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode token rules: %w", err)
	}
	return NewTokenTable(file.Rules)
}

// LoadTokenTable reads rules from path, falling back to the bundled table when path is empty.
func LoadTokenTable(path string) (*TokenTable, error) {
	if path == "" {
		return DefaultTokenTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token rules %s: %w", path, err)
	}
	return ParseTokenTable(raw)
}

// DefaultTokenTable returns the bundled course vocabulary.
func DefaultTokenTable() *TokenTable {
	table, err := ParseTokenTable(defaultTokenRules)
	if err != nil {
		panic(fmt.Sprintf("bundled course tokens: %v", err))
	}
	return table
}

// Len reports the number of rules.
func (t *TokenTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Apply rewrites token with the first matching rule. Unknown tokens are returned unchanged.
func (t *TokenTable) Apply(token string) string {
	if t == nil {
		return token
	}
	for _, rule := range t.rules {
		if rule.re.MatchString(token) {
			return rule.re.ReplaceAllString(token, rule.replacement)
		}
	}
	return token
}
