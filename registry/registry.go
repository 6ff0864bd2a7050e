// Package registry loads the fleet description a verifier works from: which
// devices exist, their hardware identifiers, and the build secrets their
// firmware carries.
package registry

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/selune/beaconfw/protocol"
)

type Registry struct {
	ManufacturerID uint16   `yaml:"manufacturer_id"`
	Devices        []Device `yaml:"devices"`
}

type Device struct {
	Name       string `yaml:"name"`
	HardwareID string `yaml:"hardware_id"` // AA:BB:CC:DD:EE:FF
	ProductKey uint32 `yaml:"product_key"`
	BatchID    uint16 `yaml:"batch_id"`
}

func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, nil
}

// Validate checks registry correctness.
// It performs declarative validation only.
// It MUST NOT mutate the registry.
func Validate(reg *Registry) error {
	if reg.ManufacturerID == 0 {
		return fmt.Errorf("manufacturer_id is required")
	}

	seen := make(map[string]string)
	for _, d := range reg.Devices {
		if d.Name == "" {
			return fmt.Errorf("device with hardware_id %q has no name", d.HardwareID)
		}
		if _, err := ParseHardwareID(d.HardwareID); err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
		key := strings.ToUpper(d.HardwareID)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("devices %q and %q share hardware_id %s", prev, d.Name, d.HardwareID)
		}
		seen[key] = d.Name
	}
	return nil
}

// ParseHardwareID parses a colon-separated 6-byte identifier.
func ParseHardwareID(s string) ([6]byte, error) {
	var id [6]byte

	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return id, fmt.Errorf("hardware id %q: want 6 colon-separated bytes", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return id, fmt.Errorf("hardware id %q: byte %d: %v", s, i, err)
		}
		id[i] = byte(v)
	}
	return id, nil
}

// Seed derives the rolling-code seed this device's firmware would have
// derived at personalisation.
func (d *Device) Seed() (uint32, error) {
	id, err := ParseHardwareID(d.HardwareID)
	if err != nil {
		return 0, err
	}
	return protocol.DeriveSeed(id, d.ProductKey, d.BatchID), nil
}
