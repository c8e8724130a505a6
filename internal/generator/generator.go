// Package generator synthesizes candidate equipment cards from built-in
// per-class specification templates.
package generator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge/internal/card"
)

// Synthesizer produces candidate equipment cards. It is safe for
// concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand

	serial int
}

// New creates a Synthesizer with a time-derived seed.
func New() *Synthesizer {
	return NewWithSeed(uint64(time.Now().UnixNano()))
}

// NewWithSeed creates a Synthesizer with a fixed seed, for reproducible
// output in tests.
func NewWithSeed(seed uint64) *Synthesizer {
	return &Synthesizer{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// Generate produces one candidate card for the given location and
// equipment class. The returned card is not yet validated or persisted.
func (s *Synthesizer) Generate(ctx context.Context, sector, subSector, facility, equipmentClass string) (*card.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	class := strings.ToLower(strings.TrimSpace(equipmentClass))
	if class == "" {
		return nil, fmt.Errorf("equipment class is required")
	}

	tmpl, ok := templates[class]
	if !ok {
		tmpl = genericTemplate(class)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.serial++
	maker := tmpl.Manufacturers[s.rng.IntN(len(tmpl.Manufacturers))]
	model := fmt.Sprintf("%s-%d%s",
		tmpl.ModelPrefixes[s.rng.IntN(len(tmpl.ModelPrefixes))],
		100+s.rng.IntN(900),
		string(rune('A'+s.rng.IntN(4))),
	)

	attrs := make(map[string]string, len(tmpl.Attributes))
	for _, a := range tmpl.Attributes {
		attrs[a.Name] = a.render(s.rng)
	}

	return &card.Card{
		ID:             uuid.New().String(),
		EquipmentClass: class,
		Model:          model,
		Manufacturer:   maker,
		SerialNumber:   fmt.Sprintf("%s-%06d", strings.ToUpper(class[:min(3, len(class))]), s.serial),
		Sector:         sector,
		SubSector:      subSector,
		Facility:       facility,
		Attributes:     attrs,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Classes returns the equipment classes with dedicated templates.
func Classes() []string {
	out := make([]string, 0, len(templates))
	for class := range templates {
		out = append(out, class)
	}
	return out
}
