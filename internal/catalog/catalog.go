// Package catalog holds the sector / sub-sector / facility reference
// hierarchy that generation runs are scoped under. The catalog is
// browse-only: runs are validated structurally, not against it.
package catalog

// Catalog is the top-level reference hierarchy.
type Catalog struct {
	Sectors []Sector `yaml:"sectors"`
}

// Sector is a top-level industry sector.
type Sector struct {
	Code       string      `yaml:"code"`
	Name       string      `yaml:"name"`
	SubSectors []SubSector `yaml:"sub_sectors"`
}

// SubSector is a division within a sector.
type SubSector struct {
	Code       string     `yaml:"code"`
	Name       string     `yaml:"name"`
	Facilities []Facility `yaml:"facilities"`
}

// Facility is a physical site that equipment cards are generated for.
type Facility struct {
	Code             string   `yaml:"code"`
	Name             string   `yaml:"name"`
	EquipmentClasses []string `yaml:"equipment_classes"`
}

// FindSector returns the sector with the given code.
func (c *Catalog) FindSector(code string) (*Sector, bool) {
	for i := range c.Sectors {
		if c.Sectors[i].Code == code {
			return &c.Sectors[i], true
		}
	}
	return nil, false
}

// FindFacility resolves a sector/subSector/facility code triple.
func (c *Catalog) FindFacility(sector, subSector, facility string) (*Facility, bool) {
	s, ok := c.FindSector(sector)
	if !ok {
		return nil, false
	}
	for i := range s.SubSectors {
		if s.SubSectors[i].Code != subSector {
			continue
		}
		for j := range s.SubSectors[i].Facilities {
			if s.SubSectors[i].Facilities[j].Code == facility {
				return &s.SubSectors[i].Facilities[j], true
			}
		}
	}
	return nil, false
}

// TreeNode is one entry in the browsable directory tree.
type TreeNode struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"` // sector, sub_sector, facility
	Children []TreeNode `json:"children,omitempty"`
}

// Tree renders the catalog as a directory tree for the API and UI.
func (c *Catalog) Tree() []TreeNode {
	nodes := make([]TreeNode, 0, len(c.Sectors))
	for _, s := range c.Sectors {
		sn := TreeNode{Code: s.Code, Name: s.Name, Kind: "sector"}
		for _, ss := range s.SubSectors {
			ssn := TreeNode{Code: ss.Code, Name: ss.Name, Kind: "sub_sector"}
			for _, f := range ss.Facilities {
				ssn.Children = append(ssn.Children, TreeNode{Code: f.Code, Name: f.Name, Kind: "facility"})
			}
			sn.Children = append(sn.Children, ssn)
		}
		nodes = append(nodes, sn)
	}
	return nodes
}
