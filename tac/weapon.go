// tac/weapon.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tac

import (
	"encoding/json"
	"fmt"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"

	"github.com/iancoleman/orderedmap"
	"github.com/vmihailenco/msgpack/v5"
)

///////////////////////////////////////////////////////////////////////////
// Weapon categories

type WeaponCategory int

const (
	WeaponAAM WeaponCategory = iota // air-to-air missile
	WeaponAGM                       // air-to-ground missile
	WeaponASM                       // anti-ship missile
	WeaponSAM                       // surface-to-air missile
	WeaponTorpedo
)

func (c WeaponCategory) String() string {
	switch c {
	case WeaponAAM:
		return "AAM"
	case WeaponAGM:
		return "AGM"
	case WeaponASM:
		return "ASM"
	case WeaponSAM:
		return "SAM"
	case WeaponTorpedo:
		return "Torpedo"
	default:
		return fmt.Sprintf("WeaponCategory(%d)", int(c))
	}
}

func ParseWeaponCategory(s string) (WeaponCategory, error) {
	switch s {
	case "AAM":
		return WeaponAAM, nil
	case "AGM":
		return WeaponAGM, nil
	case "ASM":
		return WeaponASM, nil
	case "SAM":
		return WeaponSAM, nil
	case "Torpedo":
		return WeaponTorpedo, nil
	}
	return WeaponAAM, fmt.Errorf("%s: unknown weapon category", s)
}

func (c WeaponCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *WeaponCategory) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	cat, err := ParseWeaponCategory(s)
	if err == nil {
		*c = cat
	}
	return err
}

// Text marshaling so categories can key JSON maps (inventory counts).
func (c WeaponCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *WeaponCategory) UnmarshalText(b []byte) error {
	cat, err := ParseWeaponCategory(string(b))
	if err == nil {
		*c = cat
	}
	return err
}

///////////////////////////////////////////////////////////////////////////
// Weapon variants

// WeaponVariantSpec is the static description of a weapon type, loaded
// from the scenario's variant table.
type WeaponVariantSpec struct {
	Name                string         `json:"name"`
	Category            WeaponCategory `json:"category"`
	MaxSpeed            float32        `json:"maxSpeed"`            // kt
	MaxRange            float32        `json:"maxRange"`            // nm
	MaxAcceleration     float32        `json:"maxAcceleration"`     // kt/s, cruise phase
	BoosterAcceleration float32        `json:"boosterAcceleration"` // kt/s, boost phase
	BoosterFraction     float32        `json:"boosterFraction"`     // fraction of fuel time spent in boost
	TargetType          Domain         `json:"targetType"`
	Symbol              string         `json:"symbol"`
}

// FuelTime returns the seconds of mission time the motor burns for: 120%
// of the still-air time to fly the maximum range at maximum speed.
func (w *WeaponVariantSpec) FuelTime() float32 {
	return 1.2 * w.MaxRange / (w.MaxSpeed / 3600)
}

// BoosterTime returns the duration of the boost phase. The variant's
// booster fraction is clamped to [0.10, 0.20] of the fuel time.
func (w *WeaponVariantSpec) BoosterTime() float32 {
	return w.FuelTime() * math.Clamp(w.BoosterFraction, 0.10, 0.20)
}

// SelfDestructTime returns the elapsed time at which the weapon destroys
// itself regardless of guidance state.
func (w *WeaponVariantSpec) SelfDestructTime() float32 {
	return 2 * w.FuelTime()
}

// WeaponVariantDB holds the scenario's weapon variant table. Definition
// order is preserved: fire commands select the first variant in the
// firer's roster whose category matches, so order is semantic, not
// cosmetic.
type WeaponVariantDB struct {
	order    []string
	variants map[string]*WeaponVariantSpec
}

func NewWeaponVariantDB(specs []WeaponVariantSpec) *WeaponVariantDB {
	db := &WeaponVariantDB{variants: make(map[string]*WeaponVariantSpec)}
	for i := range specs {
		spec := specs[i]
		if _, ok := db.variants[spec.Name]; !ok {
			db.order = append(db.order, spec.Name)
		}
		db.variants[spec.Name] = &spec
	}
	return db
}

// ParseWeaponVariantTable decodes a JSON variant table keyed by variant
// name. Go maps don't preserve key order, so the table is first decoded
// through an ordered map and then each entry is re-decoded into its spec.
func ParseWeaponVariantTable(b []byte) (*WeaponVariantDB, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(b, om); err != nil {
		return nil, err
	}

	db := &WeaponVariantDB{variants: make(map[string]*WeaponVariantSpec)}
	for _, name := range om.Keys() {
		value, _ := om.Get(name)
		enc, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		spec := &WeaponVariantSpec{Name: name}
		if err := json.Unmarshal(enc, spec); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		spec.Name = name

		db.order = append(db.order, name)
		db.variants[name] = spec
	}
	return db, nil
}

// MarshalJSON writes the table back out keyed by name, in definition
// order.
func (db *WeaponVariantDB) MarshalJSON() ([]byte, error) {
	om := orderedmap.New()
	for _, name := range db.order {
		om.Set(name, db.variants[name])
	}
	return json.Marshal(om)
}

func (db *WeaponVariantDB) UnmarshalJSON(b []byte) error {
	parsed, err := ParseWeaponVariantTable(b)
	if err == nil {
		*db = *parsed
	}
	return err
}

// The msgpack codecs mirror the JSON ones: the table is encoded as an
// array of specs so that definition order survives the disk cache and
// state digests.
func (db *WeaponVariantDB) EncodeMsgpack(enc *msgpack.Encoder) error {
	specs := make([]WeaponVariantSpec, 0, len(db.order))
	for _, name := range db.order {
		specs = append(specs, *db.variants[name])
	}
	return enc.Encode(specs)
}

func (db *WeaponVariantDB) DecodeMsgpack(dec *msgpack.Decoder) error {
	var specs []WeaponVariantSpec
	if err := dec.Decode(&specs); err != nil {
		return err
	}
	*db = *NewWeaponVariantDB(specs)
	return nil
}

func (db *WeaponVariantDB) Get(name string) (*WeaponVariantSpec, bool) {
	spec, ok := db.variants[name]
	return spec, ok
}

// Names returns the variant names in definition order.
func (db *WeaponVariantDB) Names() []string {
	return db.order
}

// FirstMatching returns the first variant in the given roster whose
// category matches, or nil if the roster holds none.
func (db *WeaponVariantDB) FirstMatching(roster []string, cat WeaponCategory) *WeaponVariantSpec {
	for _, name := range roster {
		if spec, ok := db.variants[name]; ok && spec.Category == cat {
			return spec
		}
	}
	return nil
}

// DefaultWeaponVariants returns a small built-in variant table used when a
// scenario doesn't carry its own.
func DefaultWeaponVariants() *WeaponVariantDB {
	return NewWeaponVariantDB([]WeaponVariantSpec{
		{Name: "Peregrine", Category: WeaponAAM, MaxSpeed: 1500, MaxRange: 30,
			MaxAcceleration: 50, BoosterAcceleration: 250, BoosterFraction: 0.15,
			TargetType: DomainAir, Symbol: "aam"},
		{Name: "Cormorant", Category: WeaponASM, MaxSpeed: 600, MaxRange: 70,
			MaxAcceleration: 30, BoosterAcceleration: 120, BoosterFraction: 0.10,
			TargetType: DomainSurface, Symbol: "asm"},
		{Name: "Longbow", Category: WeaponSAM, MaxSpeed: 2200, MaxRange: 80,
			MaxAcceleration: 60, BoosterAcceleration: 300, BoosterFraction: 0.20,
			TargetType: DomainAir, Symbol: "sam"},
		{Name: "Lamprey", Category: WeaponTorpedo, MaxSpeed: 50, MaxRange: 20,
			MaxAcceleration: 2, BoosterAcceleration: 10, BoosterFraction: 0.10,
			TargetType: DomainSubSurface, Symbol: "torp"},
		{Name: "Kestrel", Category: WeaponAGM, MaxSpeed: 500, MaxRange: 15,
			MaxAcceleration: 25, BoosterAcceleration: 100, BoosterFraction: 0.12,
			TargetType: DomainSurface, Symbol: "agm"},
	})
}
