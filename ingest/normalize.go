package ingest

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliases []byte

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
	Invalid []string          `yaml:"invalid"`
}

// Normalizer maps raw state spellings to canonical names and rejects values
// that are not states at all.
type Normalizer struct {
	aliases map[string]string
	invalid map[string]struct{}
}

// LoadNormalizer reads an alias table in the aliases.yaml format.
func LoadNormalizer(r io.Reader) (*Normalizer, error) {
	var f aliasFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}
	n := &Normalizer{
		aliases: make(map[string]string, len(f.Aliases)),
		invalid: make(map[string]struct{}, len(f.Invalid)),
	}
	for k, v := range f.Aliases {
		n.aliases[k] = v
	}
	for _, v := range f.Invalid {
		n.invalid[v] = struct{}{}
	}
	return n, nil
}

// DefaultNormalizer returns the built-in alias table.
func DefaultNormalizer() *Normalizer {
	n, err := LoadNormalizer(strings.NewReader(string(defaultAliases)))
	if err != nil {
		panic(fmt.Sprintf("ingest: embedded alias table: %v", err))
	}
	return n
}

// Normalize returns the canonical state name. ok is false for blank or
// invalid names.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	if _, bad := n.invalid[name]; bad {
		return "", false
	}
	if canonical, ok := n.aliases[name]; ok {
		return canonical, true
	}
	return name, true
}
