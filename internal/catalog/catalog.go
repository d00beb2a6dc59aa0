// Package catalog describes which classes are introspected and how their
// parameter documentation is laid out in the generated source.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultCatalog []byte

// Catalog is the full description of one generated file.
type Catalog struct {
	// Package is the package clause of the generated file.
	Package string `yaml:"package" validate:"required,goident"`
	// Generator names the producing command in the "Code generated" header.
	Generator string `yaml:"generator" validate:"required"`
	// Prefix is the default parameter marker, e.g. ":param".
	Prefix  string   `yaml:"prefix"`
	Reports []Report `yaml:"reports" validate:"required,min=1,unique=Const,dive"`
}

// Report becomes one string constant holding a JSON object keyed by entry.
type Report struct {
	Const   string  `yaml:"const" validate:"required,goident"`
	Prefix  *string `yaml:"prefix"`
	Entries []Entry `yaml:"entries" validate:"required,min=1,dive"`
}

// Entry binds a report key to an introspection target.
type Entry struct {
	Key    string  `yaml:"key" validate:"required"`
	Target string  `yaml:"target" validate:"required"`
	Prefix *string `yaml:"prefix"`
	// Drop lists parameters removed after extraction.
	Drop []string `yaml:"drop" validate:"omitempty,dive,required"`
	// Aliases are extra keys that receive a copy of the same documentation.
	Aliases []string `yaml:"aliases" validate:"omitempty,unique,dive,required"`
}

// Keys returns the entry key followed by its aliases.
func (e Entry) Keys() []string {
	return append([]string{e.Key}, e.Aliases...)
}

// PrefixFor resolves the parameter marker of e: the entry's own, else the
// report's, else the catalog default.
func (c *Catalog) PrefixFor(r Report, e Entry) string {
	switch {
	case e.Prefix != nil:
		return *e.Prefix
	case r.Prefix != nil:
		return *r.Prefix
	default:
		return c.Prefix
	}
}

// Targets returns every distinct target in catalog order.
func (c *Catalog) Targets() []string {
	seen := map[string]bool{}
	var targets []string
	for _, r := range c.Reports {
		for _, e := range r.Entries {
			if seen[e.Target] {
				continue
			}
			seen[e.Target] = true
			targets = append(targets, e.Target)
		}
	}
	return targets
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
