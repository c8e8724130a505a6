package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if len(cat.Sectors) == 0 {
		t.Fatal("default catalog has no sectors")
	}
	if _, ok := cat.FindSector("energy"); !ok {
		t.Error("default catalog missing energy sector")
	}
}

func TestLoad_FromFile(t *testing.T) {
	seed := `
sectors:
  - code: energy
    name: Energy
    sub_sectors:
      - code: generation
        name: Power Generation
        facilities:
          - code: F1
            name: Plant One
            equipment_classes: [pump, turbine]
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fac, ok := cat.FindFacility("energy", "generation", "F1")
	if !ok {
		t.Fatal("FindFacility() did not resolve energy/generation/F1")
	}
	if fac.Name != "Plant One" {
		t.Errorf("facility name = %q, want %q", fac.Name, "Plant One")
	}
	if len(fac.EquipmentClasses) != 2 {
		t.Errorf("equipment classes = %v, want 2 entries", fac.EquipmentClasses)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		wantSub string
	}{
		{
			name:    "no sectors",
			seed:    "sectors: []\n",
			wantSub: "no sectors",
		},
		{
			name: "duplicate sector code",
			seed: `
sectors:
  - code: energy
    name: Energy
  - code: energy
    name: Energy Again
`,
			wantSub: "duplicate sector",
		},
		{
			name: "empty facility code",
			seed: `
sectors:
  - code: energy
    name: Energy
    sub_sectors:
      - code: generation
        name: Generation
        facilities:
          - code: ""
            name: Nameless
`,
			wantSub: "facility with empty code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog.yaml")
			if err := os.WriteFile(path, []byte(tt.seed), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Load() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestCatalog_Tree(t *testing.T) {
	cat := Default()
	tree := cat.Tree()

	if len(tree) != len(cat.Sectors) {
		t.Fatalf("tree has %d root nodes, want %d", len(tree), len(cat.Sectors))
	}
	for _, n := range tree {
		if n.Kind != "sector" {
			t.Errorf("root node %s kind = %q, want sector", n.Code, n.Kind)
		}
		for _, ss := range n.Children {
			if ss.Kind != "sub_sector" {
				t.Errorf("node %s kind = %q, want sub_sector", ss.Code, ss.Kind)
			}
			for _, f := range ss.Children {
				if f.Kind != "facility" {
					t.Errorf("node %s kind = %q, want facility", f.Code, f.Kind)
				}
				if len(f.Children) != 0 {
					t.Errorf("facility %s has children", f.Code)
				}
			}
		}
	}
}

func TestCatalog_FindFacility_Misses(t *testing.T) {
	cat := Default()
	if _, ok := cat.FindFacility("nope", "generation", "F1"); ok {
		t.Error("FindFacility() resolved unknown sector")
	}
	if _, ok := cat.FindFacility("energy", "nope", "F1"); ok {
		t.Error("FindFacility() resolved unknown sub-sector")
	}
	if _, ok := cat.FindFacility("energy", "generation", "nope"); ok {
		t.Error("FindFacility() resolved unknown facility")
	}
}
