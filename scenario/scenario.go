// scenario/scenario.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package scenario implements the persisted exercise schema: loading a
// saved exercise into a simulation configuration and snapshotting a
// running simulation back out. All file I/O lives here, outside the
// kernel.
package scenario

import (
	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/sim"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// Scenario is the on-disk exercise description: the asset array, the
// weapon variant table (keyed by name, definition order preserved), the
// bullseye reference, map scale, and elapsed mission time.
type Scenario struct {
	Assets         []Asset              `json:"assets"`
	WeaponVariants *tac.WeaponVariantDB `json:"weaponVariants,omitempty"`

	Bullseye      math.Point2LL `json:"bullseye"`
	BullseyeLabel string        `json:"bullseyeLabel,omitempty"`
	MapScale      float32       `json:"mapScale,omitempty"`

	// MissionTime is the elapsed mission clock in seconds.
	MissionTime float64 `json:"missionTime"`

	RadarEnabled       bool    `json:"radarEnabled"`
	RadarDecayDuration float32 `json:"radarDecayDuration,omitempty"`
}

type Asset struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Domain      tac.Domain    `json:"domain"`
	Identity    tac.Identity  `json:"identity"`
	Position    math.Point2LL `json:"position"`
	Heading     float32       `json:"heading"`
	Speed       float32       `json:"speed"`
	Vertical    float32       `json:"vertical,omitempty"`
	TrackNumber int           `json:"trackNumber,omitempty"`
	Ownship     bool          `json:"ownship,omitempty"`

	TargetHeading  *float32       `json:"targetHeading,omitempty"`
	TargetSpeed    *float32       `json:"targetSpeed,omitempty"`
	TargetVertical *float32       `json:"targetVertical,omitempty"`
	Waypoints      []tac.Waypoint `json:"waypoints,omitempty"`

	Roster    []string                   `json:"roster,omitempty"`
	Inventory map[tac.WeaponCategory]int `json:"inventory,omitempty"`
}

// SimConfiguration converts the scenario into the kernel's setup struct.
func (sc *Scenario) SimConfiguration() sim.NewSimConfiguration {
	config := sim.NewSimConfiguration{
		WeaponVariants:     sc.WeaponVariants,
		Bullseye:           sc.Bullseye,
		BullseyeLabel:      sc.BullseyeLabel,
		MapScale:           sc.MapScale,
		RadarEnabled:       sc.RadarEnabled,
		RadarDecayDuration: sc.RadarDecayDuration,
		StartTicks:         int64(sc.MissionTime*sim.TickRate + 0.5),
	}
	for _, a := range sc.Assets {
		config.Assets = append(config.Assets, sim.AssetSpec{
			ID:             a.ID,
			Name:           a.Name,
			Domain:         a.Domain,
			Identity:       a.Identity,
			Position:       a.Position,
			Heading:        a.Heading,
			Speed:          a.Speed,
			Vertical:       a.Vertical,
			TrackNumber:    a.TrackNumber,
			Ownship:        a.Ownship,
			Roster:         a.Roster,
			Inventory:      a.Inventory,
			Waypoints:      a.Waypoints,
			TargetHeading:  a.TargetHeading,
			TargetSpeed:    a.TargetSpeed,
			TargetVertical: a.TargetVertical,
		})
	}
	return config
}

// FromSim snapshots a running simulation into the persisted schema.
// In-flight weapons and radar contacts are transient and are not saved;
// a restored exercise starts with a clean scope.
func FromSim(s *sim.Sim) *Scenario {
	update := s.GetStateUpdate()
	state := update.State

	sc := &Scenario{
		WeaponVariants:     state.WeaponVariants,
		Bullseye:           state.Bullseye,
		BullseyeLabel:      state.BullseyeLabel,
		MapScale:           state.MapScale,
		MissionTime:        float64(state.MissionTicks) / sim.TickRate,
		RadarEnabled:       state.Radar.Enabled,
		RadarDecayDuration: state.Radar.DecayDuration,
	}

	for _, a := range state.SortedAssets() {
		vertical, _ := a.Vertical()
		sc.Assets = append(sc.Assets, Asset{
			ID:             a.ID,
			Name:           a.Name,
			Domain:         a.Domain,
			Identity:       a.Identity,
			Position:       a.Position(),
			Heading:        a.Heading(),
			Speed:          a.Speed(),
			Vertical:       vertical,
			TrackNumber:    a.TrackNumber,
			Ownship:        a.Ownship,
			Roster:         a.Roster,
			Inventory:      a.Inventory,
			Waypoints:      a.Nav.Waypoints,
			TargetHeading:  a.Nav.Heading.Assigned,
			TargetSpeed:    a.Nav.Speed.Assigned,
			TargetVertical: a.Nav.Vertical.Assigned,
		})
	}
	return sc
}
