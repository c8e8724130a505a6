// Package cardrepo stores accepted equipment cards in a hierarchical
// directory layout: <root>/<sector>/<subSector>/<facility>/<cardID>.yaml.
package cardrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardforge/cardforge/internal/card"
)

// Repository is the persistence contract for accepted cards.
type Repository interface {
	// Persist writes a card under sector/subSector/facility and returns
	// a stable reference to the stored record.
	Persist(ctx context.Context, sector, subSector, facility string, c *card.Card) (string, error)

	// Get loads a card by the reference returned from Persist.
	Get(ctx context.Context, ref string) (*card.Card, error)

	// List returns all cards stored under a facility.
	List(ctx context.Context, sector, subSector, facility string) ([]*card.Card, error)
}

// FSRepository implements Repository on the local filesystem.
type FSRepository struct {
	root string
}

// NewFSRepository creates a filesystem repository rooted at dir.
func NewFSRepository(dir string) (*FSRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("card repository root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create card repository root: %w", err)
	}
	return &FSRepository{root: dir}, nil
}

// Persist writes the card as YAML via a temp-file rename so readers
// never observe a partially written record.
func (r *FSRepository) Persist(ctx context.Context, sector, subSector, facility string, c *card.Card) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c == nil || c.ID == "" {
		return "", fmt.Errorf("card with id is required")
	}

	rel, err := relPath(sector, subSector, facility, c.ID)
	if err != nil {
		return "", err
	}

	abs := filepath.Join(r.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create facility directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal card: %w", err)
	}

	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write card temp file: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename card file: %w", err)
	}

	return filepath.ToSlash(rel), nil
}

// Get loads a card by reference.
func (r *FSRepository) Get(ctx context.Context, ref string) (*card.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, part := range strings.Split(filepath.ToSlash(ref), "/") {
		if err := checkComponent(part); err != nil {
			return nil, fmt.Errorf("invalid card reference %q: %w", ref, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(ref)))
	if err != nil {
		return nil, fmt.Errorf("read card %s: %w", ref, err)
	}

	var c card.Card
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal card %s: %w", ref, err)
	}
	return &c, nil
}

// List returns the cards under one facility, sorted by card ID.
func (r *FSRepository) List(ctx context.Context, sector, subSector, facility string) ([]*card.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, part := range []string{sector, subSector, facility} {
		if err := checkComponent(part); err != nil {
			return nil, err
		}
	}

	dir := filepath.Join(r.root, sector, subSector, facility)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read facility directory: %w", err)
	}

	var cards []*card.Card
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ref := filepath.ToSlash(filepath.Join(sector, subSector, facility, e.Name()))
		c, err := r.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}

	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

// relPath builds the repository-relative path for a card.
func relPath(sector, subSector, facility, cardID string) (string, error) {
	for _, part := range []string{sector, subSector, facility, cardID} {
		if err := checkComponent(part); err != nil {
			return "", err
		}
	}
	return filepath.Join(sector, subSector, facility, cardID+".yaml"), nil
}

// checkComponent rejects path components that would escape the root.
func checkComponent(part string) error {
	if strings.TrimSpace(part) == "" {
		return fmt.Errorf("empty path component")
	}
	if part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
		return fmt.Errorf("invalid path component %q", part)
	}
	return nil
}
