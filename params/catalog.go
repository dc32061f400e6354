package params

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the location of the parameter table inside the embedded assets.
const CatalogFile = "assets/parameters.yaml"

// ErrCatalog is returned when the parameter table is malformed.
var ErrCatalog = errors.New("invalid parameter catalog")

// ContentReader defines the interface for reading content from the embedded file system.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Parameter holds the static properties of one synth parameter.
type Parameter struct {
	Index   int     `yaml:"index"`
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label"`
	Group   string  `yaml:"group"`
	Lower   float64 `yaml:"lower"`
	Upper   float64 `yaml:"upper"`
	Default float64 `yaml:"default"`
	Step    float64 `yaml:"step"` // 0 means continuous
}

// Discrete reports whether the parameter only takes whole steps.
func (p Parameter) Discrete() bool {
	return p.Step > 0
}

// Catalog is the ordered list of parameters, indexed by parameter index.
type Catalog struct {
	Parameters []Parameter `yaml:"parameters"`
}

// Len returns the number of parameters.
func (c *Catalog) Len() int {
	return len(c.Parameters)
}

// Get returns the parameter at index.
func (c *Catalog) Get(index int) (Parameter, bool) {
	if index < 0 || index >= len(c.Parameters) {
		return Parameter{}, false
	}
	return c.Parameters[index], true
}

// Groups returns group names in order of first appearance.
func (c *Catalog) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, p := range c.Parameters {
		if !seen[p.Group] {
			seen[p.Group] = true
			groups = append(groups, p.Group)
		}
	}
	return groups
}

// LoadCatalog reads and validates the parameter table.
func LoadCatalog(reader ContentReader) (*Catalog, error) {
	data, err := reader.ReadFile(CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CatalogFile, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML parameter table.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	if len(c.Parameters) == 0 {
		return nil, fmt.Errorf("%w: no parameters", ErrCatalog)
	}
	for i, p := range c.Parameters {
		if p.Index != i {
			return nil, fmt.Errorf("%w: %q has index %d at position %d", ErrCatalog, p.Name, p.Index, i)
		}
		if p.Lower > p.Upper {
			return nil, fmt.Errorf("%w: %q lower bound above upper bound", ErrCatalog, p.Name)
		}
		if p.Default < p.Lower || p.Default > p.Upper {
			return nil, fmt.Errorf("%w: %q default %v outside [%v, %v]", ErrCatalog, p.Name, p.Default, p.Lower, p.Upper)
		}
		if p.Step < 0 {
			return nil, fmt.Errorf("%w: %q negative step", ErrCatalog, p.Name)
		}
	}
	return &c, nil
}
