package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"stayflow/models"
)

// UnitRegistry is the read-only set of configured rental units, loaded once
// at startup from the JSON file named by UNITS_FILE. The file maps unit id
// to {name, sources}.
type UnitRegistry struct {
	units map[string]models.Unit
}

// raw on-disk shape: {"unit_id": {"name": "...", "sources": ["...", ...]}}
type unitFileEntry struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

// LoadUnits reads and validates the unit registry file.
func LoadUnits(path string) (*UnitRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read units file %s: %w", path, err)
	}

	var raw map[string]unitFileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse units file %s: %w", path, err)
	}

	units := make(map[string]models.Unit, len(raw))
	for id, entry := range raw {
		if entry.Name == "" {
			return nil, fmt.Errorf("unit %q has no name", id)
		}
		units[id] = models.Unit{ID: id, Name: entry.Name, Sources: entry.Sources}
	}
	return &UnitRegistry{units: units}, nil
}

// NewUnitRegistry builds a registry from an in-memory unit list. Used by
// tests and tools that do not read the registry from disk.
func NewUnitRegistry(units []models.Unit) *UnitRegistry {
	m := make(map[string]models.Unit, len(units))
	for _, u := range units {
		m[u.ID] = u
	}
	return &UnitRegistry{units: m}
}

// Get looks up a unit by id.
func (r *UnitRegistry) Get(id string) (models.Unit, bool) {
	u, ok := r.units[id]
	return u, ok
}

// All returns every configured unit, sorted by id for stable listings.
func (r *UnitRegistry) All() []models.Unit {
	out := make([]models.Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
