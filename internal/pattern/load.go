package pattern

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Default returns the compiled built-in rule tables.
func Default() (*Ruleset, error) {
	rs, err := parse(defaultsTOML)
	if err != nil {
		return nil, fmt.Errorf("built-in pattern tables: %w", err)
	}
	return rs, nil
}

// Load reads a TOML pattern file and returns the compiled rule set.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}
	rs, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return rs, nil
}

func parse(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := toml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Merge layers override rules over a base set. Rules with the same name (or
// label, for token rules) replace the base rule in place; new rules are
// appended. A non-empty override placeholder wins. The result is recompiled
// so replacements pick up the effective placeholder.
func Merge(base, override *Ruleset) (*Ruleset, error) {
	merged := Ruleset{Placeholder: base.Placeholder}
	if override.Placeholder != "" {
		merged.Placeholder = override.Placeholder
	}

	merged.Keys = append(merged.Keys, base.Keys...)
	for _, k := range override.Keys {
		if i := indexOf(len(merged.Keys), func(j int) bool { return merged.Keys[j].Name == k.Name }); i >= 0 {
			merged.Keys[i] = k
		} else {
			merged.Keys = append(merged.Keys, k)
		}
	}

	merged.Values = append(merged.Values, base.Values...)
	for _, v := range override.Values {
		if i := indexOf(len(merged.Values), func(j int) bool { return merged.Values[j].Name == v.Name }); i >= 0 {
			merged.Values[i] = v
		} else {
			merged.Values = append(merged.Values, v)
		}
	}

	merged.Tokens = append(merged.Tokens, base.Tokens...)
	for _, t := range override.Tokens {
		if i := indexOf(len(merged.Tokens), func(j int) bool { return merged.Tokens[j].Label == t.Label }); i >= 0 {
			merged.Tokens[i] = t
		} else {
			merged.Tokens = append(merged.Tokens, t)
		}
	}

	if err := merged.Compile(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return -1
}
