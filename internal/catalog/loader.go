package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog seed file. An empty path returns the built-in
// default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	if err := validate(&cat); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &cat, nil
}

// validate checks the hierarchy for empty or duplicate codes.
func validate(cat *Catalog) error {
	if len(cat.Sectors) == 0 {
		return fmt.Errorf("no sectors defined")
	}

	seen := make(map[string]bool)
	for _, s := range cat.Sectors {
		if s.Code == "" {
			return fmt.Errorf("sector with empty code")
		}
		if seen[s.Code] {
			return fmt.Errorf("duplicate sector code: %s", s.Code)
		}
		seen[s.Code] = true

		subSeen := make(map[string]bool)
		for _, ss := range s.SubSectors {
			if ss.Code == "" {
				return fmt.Errorf("sector %s: sub-sector with empty code", s.Code)
			}
			if subSeen[ss.Code] {
				return fmt.Errorf("sector %s: duplicate sub-sector code: %s", s.Code, ss.Code)
			}
			subSeen[ss.Code] = true

			facSeen := make(map[string]bool)
			for _, f := range ss.Facilities {
				if f.Code == "" {
					return fmt.Errorf("sub-sector %s/%s: facility with empty code", s.Code, ss.Code)
				}
				if facSeen[f.Code] {
					return fmt.Errorf("sub-sector %s/%s: duplicate facility code: %s", s.Code, ss.Code, f.Code)
				}
				facSeen[f.Code] = true
			}
		}
	}
	return nil
}

// Default returns the built-in reference catalog used when no seed file
// is configured.
func Default() *Catalog {
	return &Catalog{
		Sectors: []Sector{
			{
				Code: "energy",
				Name: "Energy",
				SubSectors: []SubSector{
					{
						Code: "generation",
						Name: "Power Generation",
						Facilities: []Facility{
							{Code: "F1", Name: "Riverside Combined Cycle Plant", EquipmentClasses: []string{"pump", "turbine", "compressor", "heat-exchanger"}},
							{Code: "F2", Name: "Northfield Peaker Station", EquipmentClasses: []string{"turbine", "transformer"}},
						},
					},
					{
						Code: "transmission",
						Name: "Transmission & Distribution",
						Facilities: []Facility{
							{Code: "S1", Name: "Eastgate Substation", EquipmentClasses: []string{"transformer", "switchgear"}},
						},
					},
				},
			},
			{
				Code: "water",
				Name: "Water & Wastewater",
				SubSectors: []SubSector{
					{
						Code: "treatment",
						Name: "Treatment",
						Facilities: []Facility{
							{Code: "W1", Name: "Harborview Treatment Works", EquipmentClasses: []string{"pump", "blower", "valve"}},
						},
					},
				},
			},
			{
				Code: "manufacturing",
				Name: "Manufacturing",
				SubSectors: []SubSector{
					{
						Code: "chemicals",
						Name: "Chemical Processing",
						Facilities: []Facility{
							{Code: "C1", Name: "Delta Chemical Works", EquipmentClasses: []string{"compressor", "pump", "heat-exchanger", "valve"}},
						},
					},
				},
			},
		},
	}
}
