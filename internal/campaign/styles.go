package campaign

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStylesYAML []byte

// Style is the visual direction folded into every prompt of a campaign.
type Style struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"`
	Lighting  string `yaml:"lighting"`
	Palette   string `yaml:"palette"`
}

type styleFile struct {
	Styles []Style `yaml:"styles"`
}

// StyleCatalog resolves style ids.
type StyleCatalog struct {
	byID map[string]Style
}

// LoadStyleCatalog parses the built-in catalog and, when path is set, merges
// the file's entries over it.
func LoadStyleCatalog(path string) (*StyleCatalog, error) {
	cat, err := parseStyles(defaultStylesYAML)
	if err != nil {
		return nil, fmt.Errorf("parse built-in styles: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return cat, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style catalog: %w", err)
	}
	override, err := parseStyles(raw)
	if err != nil {
		return nil, fmt.Errorf("parse style catalog %s: %w", path, err)
	}
	for id, s := range override.byID {
		cat.byID[id] = s
	}
	return cat, nil
}

// DefaultStyleCatalog returns the built-in catalog.
func DefaultStyleCatalog() *StyleCatalog {
	cat, err := parseStyles(defaultStylesYAML)
	if err != nil {
		panic(err)
	}
	return cat
}

func parseStyles(raw []byte) (*StyleCatalog, error) {
	var f styleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	cat := &StyleCatalog{byID: make(map[string]Style, len(f.Styles))}
	for _, s := range f.Styles {
		id := normalizeStyleID(s.ID)
		if id == "" {
			return nil, fmt.Errorf("style %q has no id", s.Name)
		}
		s.ID = id
		cat.byID[id] = s
	}
	return cat, nil
}

// Lookup resolves id. Unknown ids become a free-text direction and an empty
// id yields ok=false.
func (c *StyleCatalog) Lookup(id string) (Style, bool) {
	key := normalizeStyleID(id)
	if key == "" {
		return Style{}, false
	}
	if c != nil {
		if s, ok := c.byID[key]; ok {
			return s, true
		}
	}
	return Style{ID: strings.TrimSpace(id), Direction: strings.TrimSpace(id)}, true
}

// Len reports the number of known styles.
func (c *StyleCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

func normalizeStyleID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
