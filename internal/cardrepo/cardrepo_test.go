package cardrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cardforge/cardforge/internal/card"
)

func testCard(id string) *card.Card {
	return &card.Card{
		ID:             id,
		EquipmentClass: "pump",
		Model:          "HX-200",
		Manufacturer:   "Norddeutsche Pumpenwerke",
		SerialNumber:   "PUM-000001",
		Sector:         "energy",
		SubSector:      "generation",
		Facility:       "F1",
		Attributes:     map[string]string{"rated_power_kw": "75 kW"},
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
}

func TestFSRepository_PersistAndGet(t *testing.T) {
	repo, err := NewFSRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSRepository() error = %v", err)
	}
	ctx := context.Background()

	ref, err := repo.Persist(ctx, "energy", "generation", "F1", testCard("c1"))
	if err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	if ref != "energy/generation/F1/c1.yaml" {
		t.Errorf("Persist() ref = %q, want energy/generation/F1/c1.yaml", ref)
	}

	got, err := repo.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "c1" || got.Model != "HX-200" {
		t.Errorf("Get() = %+v, want persisted card", got)
	}
	if got.Attributes["rated_power_kw"] != "75 kW" {
		t.Errorf("attributes not round-tripped: %v", got.Attributes)
	}
}

func TestFSRepository_PersistRejectsBadComponents(t *testing.T) {
	repo, err := NewFSRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := repo.Persist(ctx, "..", "generation", "F1", testCard("c1")); err == nil {
		t.Error("Persist() with .. sector expected error")
	}
	if _, err := repo.Persist(ctx, "energy", "a/b", "F1", testCard("c1")); err == nil {
		t.Error("Persist() with slash in sub-sector expected error")
	}
	if _, err := repo.Persist(ctx, "energy", "generation", "F1", nil); err == nil {
		t.Error("Persist() with nil card expected error")
	}
}

func TestFSRepository_List(t *testing.T) {
	repo, err := NewFSRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, id := range []string{"c2", "c1", "c3"} {
		if _, err := repo.Persist(ctx, "energy", "generation", "F1", testCard(id)); err != nil {
			t.Fatalf("Persist(%s) error = %v", id, err)
		}
	}
	// A card in another facility must not show up.
	if _, err := repo.Persist(ctx, "water", "treatment", "W1", testCard("w1")); err != nil {
		t.Fatal(err)
	}

	cards, err := repo.List(ctx, "energy", "generation", "F1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("List() returned %d cards, want 3", len(cards))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if cards[i].ID != want {
			t.Errorf("cards[%d].ID = %q, want %q (sorted)", i, cards[i].ID, want)
		}
	}
}

func TestFSRepository_ListEmptyFacility(t *testing.T) {
	repo, err := NewFSRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cards, err := repo.List(context.Background(), "energy", "generation", "F9")
	if err != nil {
		t.Fatalf("List() on missing facility error = %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("List() = %d cards, want 0", len(cards))
	}
}

func TestFSRepository_Tree(t *testing.T) {
	root := t.TempDir()
	repo, err := NewFSRepository(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := repo.Persist(ctx, "energy", "generation", "F1", testCard("c1")); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Persist(ctx, "water", "treatment", "W1", testCard("w1")); err != nil {
		t.Fatal(err)
	}
	// Stray non-yaml file must be ignored.
	if err := os.WriteFile(filepath.Join(root, "energy", "generation", "F1", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := repo.Tree(ctx)
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("Tree() has %d sectors, want 2", len(tree))
	}
	if tree[0].Name != "energy" || tree[1].Name != "water" {
		t.Errorf("sectors = %s, %s; want energy, water", tree[0].Name, tree[1].Name)
	}

	fac := tree[0].Children[0].Children[0]
	if fac.Name != "F1" || fac.Kind != "facility" {
		t.Fatalf("facility node = %+v", fac)
	}
	if len(fac.Children) != 1 {
		t.Fatalf("facility has %d cards, want 1 (stray file ignored)", len(fac.Children))
	}
	if fac.Children[0].Ref != "energy/generation/F1/c1.yaml" {
		t.Errorf("card ref = %q", fac.Children[0].Ref)
	}
}
