// sim/weapon.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

const (
	// WeaponGuidanceTurnRate is the turn rate applied in all powered and
	// coasting phases, deg/s.
	WeaponGuidanceTurnRate = 30

	// WeaponBleedOffDeceleration is the post-fuel deceleration, kt/s.
	WeaponBleedOffDeceleration = 50

	// WeaponImpactRange is the range to target below which the weapon
	// detonates, nm.
	WeaponImpactRange = 0.1

	// WeaponMinimumSpeed is the post-fuel speed below which the weapon
	// falls out of the sky, kt. It is also the bleed-off floor while a
	// target still resolves.
	WeaponMinimumSpeed = 10
)

type WeaponPhase int

const (
	PhaseBooster WeaponPhase = iota
	PhaseCruise
	PhaseBleedOff
	PhaseTerminated
)

func (p WeaponPhase) String() string {
	return []string{"Booster", "Cruise", "BleedOff", "Terminated"}[p]
}

type TerminationReason int

const (
	TerminationImpact TerminationReason = iota
	TerminationSelfDestruct
	TerminationEnergyLoss
)

func (r TerminationReason) String() string {
	return []string{"Impact", "SelfDestruct", "EnergyLoss"}[r]
}

// Weapon is an in-flight munition. It is created by a fire command and
// destroyed by the tick loop on any termination condition; phase
// transitions are monotonic and a terminated weapon is never mutated
// again.
type Weapon struct {
	ID      int
	Variant *tac.WeaponVariantSpec
	FirerID int

	// Exactly one of these is set: TargetID for a guided shot at an
	// asset, FixedHeading for an unguided bearing-only shot.
	TargetID     *int
	FixedHeading *float32

	Position math.Point2LL
	Heading  float32 // degrees, [0,360)
	Speed    float32 // kt

	Phase     WeaponPhase
	Reason    TerminationReason // valid once Phase == PhaseTerminated
	TickFired int64
}

// Elapsed returns the weapon's flight time in seconds of mission time.
func (w *Weapon) Elapsed(nowTick int64) float32 {
	return float32(nowTick-w.TickFired) / TickRate
}

func (w *Weapon) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", w.ID),
		slog.String("variant", w.Variant.Name),
		slog.Int("firer", w.FirerID),
		slog.String("phase", w.Phase.String()),
		slog.String("position", w.Position.DDString()),
		slog.Float64("heading", float64(w.Heading)),
		slog.Float64("speed", float64(w.Speed)))
}

// fireWeapon resolves a fire command against the firer's roster and
// inventory and returns the newly launched weapon. The first variant in
// the roster whose category matches is selected; only the Ownship's
// inventory is finite.
func (s *Sim) fireWeapon(firer *Asset, cat tac.WeaponCategory, targetID *int, fixedHeading *float32) (*Weapon, error) {
	variant := s.State.WeaponVariants.FirstMatching(firer.Roster, cat)
	if variant == nil {
		return nil, fmt.Errorf("%s: %w", cat, ErrNoMatchingVariant)
	}

	if firer.Ownship {
		if firer.Inventory[cat] <= 0 {
			return nil, fmt.Errorf("%s: %w", cat, ErrNoWeaponInventory)
		}
		firer.Inventory[cat]--
	}

	w := &Weapon{
		ID:        s.State.allocateID(),
		Variant:   variant,
		FirerID:   firer.ID,
		Position:  firer.Position(),
		Heading:   firer.Heading(),
		Speed:     firer.Speed(),
		Phase:     PhaseBooster,
		TickFired: s.State.MissionTicks,
	}

	switch {
	case targetID != nil:
		w.TargetID = targetID
		if target, ok := s.State.Assets[*targetID]; ok {
			w.Heading = math.Bearing2LL(w.Position, target.Position())
		}
	case fixedHeading != nil:
		hdg := math.NormalizeHeading(*fixedHeading)
		w.FixedHeading = &hdg
		w.Heading = hdg
	default:
		w.Heading = firer.Heading()
	}

	s.State.Weapons[w.ID] = w
	s.eventStream.Post(Event{
		Type:        WeaponFiredEvent,
		AssetID:     firer.ID,
		WeaponID:    w.ID,
		Location:    w.Position,
		WrittenText: fmt.Sprintf("%s fired %s", firer.Name, variant.Name),
	})
	s.lg.Info("weapon fired", slog.Any("weapon", w))

	return w, nil
}

// updateWeapon advances one weapon by dt seconds: propulsion by elapsed
// flight time, guidance toward the current target bearing, position
// advance, then the termination checks in priority order (impact, then
// self-destruct, then energy loss). Returns true once the weapon has
// terminated.
func (s *Sim) updateWeapon(w *Weapon, dt float32) bool {
	elapsed := w.Elapsed(s.State.MissionTicks)
	fuelTime := w.Variant.FuelTime()

	target, tracking := s.resolveTarget(w)

	switch {
	case elapsed < w.Variant.BoosterTime():
		w.Phase = PhaseBooster
		w.Speed = min(w.Speed+w.Variant.BoosterAcceleration*dt, w.Variant.MaxSpeed)
	case elapsed < fuelTime:
		w.Phase = PhaseCruise
		w.Speed = min(w.Speed+w.Variant.MaxAcceleration*dt, w.Variant.MaxSpeed)
	default:
		// Post-fuel the weapon bleeds speed. While the target still
		// resolves it holds WeaponMinimumSpeed and flies on until its
		// self-destruct time; energy loss claims only unguided and
		// target-lost shots.
		w.Phase = PhaseBleedOff
		floor := float32(0)
		if tracking {
			floor = WeaponMinimumSpeed
		}
		w.Speed = max(w.Speed-WeaponBleedOffDeceleration*dt, floor)
	}

	// Guidance: turn toward the target's current bearing. A target that
	// no longer resolves is target loss, not an error; the weapon holds
	// its last heading.
	if tracking {
		bearing := math.Bearing2LL(w.Position, target.Position())
		turn := math.HeadingSignedTurn(w.Heading, bearing)
		step := float32(WeaponGuidanceTurnRate) * dt
		if math.Abs(turn) <= step {
			w.Heading = bearing
		} else {
			w.Heading = math.NormalizeHeading(w.Heading + math.Sign(turn)*step)
		}
	}

	w.Position = math.Offset2LL(w.Position, w.Heading, w.Speed*dt/3600)

	switch {
	case tracking && math.NMDistance2LL(w.Position, target.Position()) < WeaponImpactRange:
		w.Phase, w.Reason = PhaseTerminated, TerminationImpact
	case elapsed >= w.Variant.SelfDestructTime():
		w.Phase, w.Reason = PhaseTerminated, TerminationSelfDestruct
	case elapsed >= fuelTime && w.Speed < WeaponMinimumSpeed:
		w.Phase, w.Reason = PhaseTerminated, TerminationEnergyLoss
	}

	return w.Phase == PhaseTerminated
}

// resolveTarget returns the asset a guided weapon is tracking, or nil if
// the weapon is unguided or its target has been deleted.
func (s *Sim) resolveTarget(w *Weapon) (*Asset, bool) {
	if w.TargetID == nil {
		return nil, false
	}
	target, ok := s.State.Assets[*w.TargetID]
	return target, ok
}
