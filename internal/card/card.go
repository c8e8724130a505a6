// Package card defines the equipment specification card model shared by
// the generator, the pipeline engine, and the card repository.
package card

import (
	"fmt"
	"strings"
	"time"
)

// Card is a structured equipment specification record.
type Card struct {
	// ID is a unique identifier for this card (typically UUID).
	ID string `yaml:"id" json:"id"`

	// EquipmentClass categorizes the equipment (e.g. "pump", "turbine").
	EquipmentClass string `yaml:"equipment_class" json:"equipment_class"`

	// Model is the equipment model designation.
	Model string `yaml:"model" json:"model"`

	// Manufacturer is the equipment maker.
	Manufacturer string `yaml:"manufacturer" json:"manufacturer"`

	// SerialNumber is the unit serial assigned at generation time.
	SerialNumber string `yaml:"serial_number" json:"serial_number"`

	// Sector, SubSector and Facility locate the card in the catalog hierarchy.
	Sector    string `yaml:"sector" json:"sector"`
	SubSector string `yaml:"sub_sector" json:"sub_sector"`
	Facility  string `yaml:"facility" json:"facility"`

	// Attributes holds the technical specification fields (rated power,
	// flow rate, pressure class, etc.), keyed by attribute name.
	Attributes map[string]string `yaml:"attributes" json:"attributes"`

	// CreatedAt is when the card was synthesized.
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// Validate performs the structural check applied to every generated card
// before it is persisted. A card failing validation is treated as a
// generation failure by the pipeline.
func (c *Card) Validate() error {
	if c == nil {
		return fmt.Errorf("card is nil")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("card id is required")
	}
	if strings.TrimSpace(c.EquipmentClass) == "" {
		return fmt.Errorf("card equipment_class is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("card model is required")
	}
	if strings.TrimSpace(c.Manufacturer) == "" {
		return fmt.Errorf("card manufacturer is required")
	}
	if strings.TrimSpace(c.Sector) == "" || strings.TrimSpace(c.SubSector) == "" || strings.TrimSpace(c.Facility) == "" {
		return fmt.Errorf("card location (sector, sub_sector, facility) is required")
	}
	if len(c.Attributes) == 0 {
		return fmt.Errorf("card has no specification attributes")
	}
	for k, v := range c.Attributes {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("card attribute with empty name")
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("card attribute %q has empty value", k)
		}
	}
	return nil
}

// Title returns a short human-readable label for listings.
func (c *Card) Title() string {
	return fmt.Sprintf("%s %s (%s)", c.Manufacturer, c.Model, c.EquipmentClass)
}
