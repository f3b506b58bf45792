// Package catalog maps the customer-facing service labels from the order
// form to vendor service identifiers and unit costs. The mapping lives in
// a YAML file next to the binary so new services don't need a rebuild.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Entry is one service offered for automatic fulfillment.
type Entry struct {
	Label     string `yaml:"label"`
	ServiceID int    `yaml:"service_id"`
	UnitCost  int64  `yaml:"unit_cost"` // rupiah per 1000 units
}

type Catalog struct {
	entries map[string]Entry
}

type catalogFile struct {
	Services []Entry `yaml:"services"`
}

// Load reads the service catalog from a YAML file. Duplicate labels keep
// the first entry.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	c := &Catalog{entries: make(map[string]Entry, len(file.Services))}
	for _, entry := range file.Services {
		label := strings.TrimSpace(entry.Label)
		if label == "" || entry.ServiceID == 0 {
			log.Warn().
				Str("label", entry.Label).
				Int("service_id", entry.ServiceID).
				Msg("Skipping catalog entry with missing label or service id")
			continue
		}
		if _, exists := c.entries[label]; exists {
			log.Warn().Str("label", label).Msg("Duplicate catalog label, keeping first entry")
			continue
		}
		entry.Label = label
		c.entries[label] = entry
	}

	log.Info().Int("services", len(c.entries)).Str("file", path).Msg("Loaded service catalog")
	return c, nil
}

// Lookup resolves a service label to its vendor mapping. A miss means the
// order has no automatic fulfillment path and is handled manually.
func (c *Catalog) Lookup(label string) (Entry, bool) {
	entry, ok := c.entries[strings.TrimSpace(label)]
	return entry, ok
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// EstimateCost projects the vendor charge for a quantity, pro rata from
// the per-1000 unit cost.
func (e Entry) EstimateCost(quantity int64) int64 {
	return quantity * e.UnitCost / 1000
}
