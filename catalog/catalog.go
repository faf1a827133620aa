// ABOUTME: Service catalog configuration for quote generation
// ABOUTME: Price list grouped by category plus the need-label to service mapping
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Service is an offerable line item.
type Service struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Category    string          `json:"category"`
}

// Catalog is static configuration handed to the quote generator and interpreter.
// Services keep their declaration order; the interpreter scans them in that order.
type Catalog struct {
	Currency        string
	Services        []Service
	NeedServices    map[string][]string
	DefaultServices []string
}

// Lookup finds a service by ID.
func (c *Catalog) Lookup(id string) (Service, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// ServicesForNeed returns the service IDs mapped from a need label.
func (c *Catalog) ServicesForNeed(need string) []string {
	return c.NeedServices[normalizeNeed(need)]
}

// Validate reports configuration mistakes a human would want to fix.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Services))
	for _, s := range c.Services {
		if s.ID == "" {
			return fmt.Errorf("service %q has no id", s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate service id: %s", s.ID)
		}
		seen[s.ID] = true
		if !s.BasePrice.IsPositive() {
			return fmt.Errorf("service %s: base price must be positive", s.ID)
		}
	}

	for need, ids := range c.NeedServices {
		for _, id := range ids {
			if !seen[id] {
				return fmt.Errorf("need %q references unknown service %s", need, id)
			}
		}
	}

	for _, id := range c.DefaultServices {
		if !seen[id] {
			return fmt.Errorf("default service %s is not in the catalog", id)
		}
	}

	return nil
}

func normalizeNeed(need string) string {
	return strings.ToLower(strings.TrimSpace(need))
}

// price decodes a YAML scalar straight into a decimal, so 0.10 stays exactly 0.10.
type price decimal.Decimal

func (p *price) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: base_price must be a number", node.Line)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid base_price %q: %w", node.Line, node.Value, err)
	}
	*p = price(d)
	return nil
}

type fileService struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	BasePrice   price  `yaml:"base_price"`
	Category    string `yaml:"category"`
}

type fileCatalog struct {
	Currency        string              `yaml:"currency"`
	Services        []fileService       `yaml:"services"`
	Needs           map[string][]string `yaml:"needs"`
	DefaultServices []string            `yaml:"default_services"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		Currency:        fc.Currency,
		NeedServices:    make(map[string][]string, len(fc.Needs)),
		DefaultServices: fc.DefaultServices,
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}

	for _, s := range fc.Services {
		c.Services = append(c.Services, Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			BasePrice:   decimal.Decimal(s.BasePrice),
			Category:    s.Category,
		})
	}
	for need, ids := range fc.Needs {
		c.NeedServices[normalizeNeed(need)] = ids
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a YAML catalog from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}
