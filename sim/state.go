// sim/state.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/nav"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
	"github.com/WarBuck-Dev/Project-Judy-sub002/util"

	"github.com/vmihailenco/msgpack/v5"
)

// State is the world the tick loop owns: every asset and in-flight
// weapon, the active radar contacts, and the mission clock. It holds no
// goroutines, file handles, or timers, so it can be deep-copied for
// snapshots and serialized whole for scenario save.
type State struct {
	Assets   map[int]*Asset
	Weapons  map[int]*Weapon
	Contacts []RadarContact

	WeaponVariants *tac.WeaponVariantDB

	// MissionTicks is the mission clock: whole ticks elapsed since
	// exercise start. Seconds are always derived from it, never tracked
	// separately, so pause and replay can't drift.
	MissionTicks int64
	SimRate      float32
	Paused       bool

	Radar RadarState

	Bullseye      math.Point2LL
	BullseyeLabel string
	MapScale      float32

	OwnshipID       int
	NextID          int
	NextTrackNumber int
}

func newState(config NewSimConfiguration) *State {
	decay := math.Clamp(config.RadarDecayDuration, MinRadarDecayDuration, MaxRadarDecayDuration)
	if config.RadarDecayDuration == 0 {
		decay = DefaultRadarDecayDuration
	}

	variants := config.WeaponVariants
	if variants == nil {
		variants = tac.DefaultWeaponVariants()
	}

	return &State{
		Assets:          make(map[int]*Asset),
		Weapons:         make(map[int]*Weapon),
		WeaponVariants:  variants,
		MissionTicks:    config.StartTicks,
		SimRate:         1,
		Radar:           RadarState{Enabled: config.RadarEnabled, DecayDuration: decay},
		Bullseye:        config.Bullseye,
		BullseyeLabel:   config.BullseyeLabel,
		MapScale:        config.MapScale,
		NextID:          1,
		NextTrackNumber: 1,
	}
}

func (ss *State) allocateID() int {
	id := ss.NextID
	ss.NextID++
	return id
}

func (ss *State) allocateTrackNumber() int {
	tn := ss.NextTrackNumber
	ss.NextTrackNumber++
	return tn
}

// MissionTime returns the mission clock in seconds.
func (ss *State) MissionTime() float32 {
	return float32(ss.MissionTicks) / TickRate
}

// Ownship returns the exercise's Ownship asset.
func (ss *State) Ownship() *Asset {
	return ss.Assets[ss.OwnshipID]
}

// SortedAssets returns the assets ordered by id; map iteration order is
// randomized, so every per-tick loop goes through this to keep runs
// reproducible.
func (ss *State) SortedAssets() []*Asset {
	return util.MapSlice(util.SortedMapKeys(ss.Assets),
		func(id int) *Asset { return ss.Assets[id] })
}

func (ss *State) SortedWeapons() []*Weapon {
	return util.MapSlice(util.SortedMapKeys(ss.Weapons),
		func(id int) *Weapon { return ss.Weapons[id] })
}

// Digest returns a hex digest over the serialized state, used to check
// that replaying a command sequence reproduces a run bit-for-bit. The
// int-keyed entity maps and the per-asset inventories are walked in
// sorted key order by hand; msgpack's SetSortMapKeys only covers
// string-keyed maps.
func (ss *State) Digest() (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	encode := func(vs ...any) error {
		for _, v := range vs {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := encode(ss.MissionTicks, ss.SimRate, ss.Paused, ss.Radar,
		ss.Bullseye, ss.BullseyeLabel, ss.MapScale, ss.OwnshipID, ss.NextID,
		ss.NextTrackNumber, ss.Contacts, ss.WeaponVariants); err != nil {
		return "", err
	}

	for _, a := range ss.SortedAssets() {
		if err := encode(a.ID, a.Name, a.Domain, a.Identity, a.TrackNumber,
			a.Ownship, a.Nav, a.Roster); err != nil {
			return "", err
		}
		for _, cat := range util.SortedMapKeys(a.Inventory) {
			if err := encode(cat, a.Inventory[cat]); err != nil {
				return "", err
			}
		}
	}
	for _, w := range ss.SortedWeapons() {
		if err := encode(w); err != nil {
			return "", err
		}
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func (ss *State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("mission_ticks", ss.MissionTicks),
		slog.Int("assets", len(ss.Assets)),
		slog.Int("weapons", len(ss.Weapons)),
		slog.Int("contacts", len(ss.Contacts)),
		slog.Bool("paused", ss.Paused))
}

///////////////////////////////////////////////////////////////////////////
// Asset create/update/delete

// createAsset validates an asset spec, clamps out-of-envelope values,
// and installs the asset in the store. Values outside the domain's
// physical envelope are clamped and reported, never rejected, so the
// exercise keeps moving.
func (s *Sim) createAsset(spec AssetSpec) (*Asset, error) {
	if spec.Ownship && s.State.OwnshipID != 0 {
		return nil, fmt.Errorf("%s: exercise already has an Ownship", spec.Name)
	}
	for _, a := range s.State.Assets {
		if a.Name == spec.Name {
			return nil, fmt.Errorf("%s: %w", spec.Name, ErrDuplicateAssetName)
		}
	}

	env := spec.Domain.Envelope()
	fs := nav.FlightState{
		Position: spec.Position,
		Heading:  math.NormalizeHeading(spec.Heading),
		Speed:    s.clampReport(spec.Name, "speed", spec.Speed, 0, env.MaxSpeed),
		Vertical: spec.Vertical,
	}
	if !env.HasVertical {
		fs.Vertical = 0
	}

	a := &Asset{
		ID:        spec.ID,
		Name:      spec.Name,
		Domain:    spec.Domain,
		Identity:  spec.Identity,
		Ownship:   spec.Ownship,
		Nav:       nav.Make(spec.Domain, fs),
		Roster:    spec.Roster,
		Inventory: util.DuplicateMap(spec.Inventory),
	}
	if a.ID == 0 {
		a.ID = s.State.allocateID()
	} else if a.ID >= s.State.NextID {
		s.State.NextID = a.ID + 1
	}

	a.TrackNumber = spec.TrackNumber
	if a.TrackNumber == 0 {
		a.TrackNumber = s.State.allocateTrackNumber()
	} else if a.TrackNumber >= s.State.NextTrackNumber {
		s.State.NextTrackNumber = a.TrackNumber + 1
	}

	if a.Ownship {
		if a.Inventory == nil {
			a.Inventory = make(map[tac.WeaponCategory]int)
		}
		s.State.OwnshipID = a.ID
	}

	// Restore any in-progress navigation; explicit targets win over the
	// bearing AddWaypoint assigns.
	for _, wp := range spec.Waypoints {
		a.Nav.AddWaypoint(wp)
	}
	if spec.TargetHeading != nil {
		a.Nav.AssignHeading(*spec.TargetHeading)
	}
	if spec.TargetSpeed != nil {
		a.Nav.AssignSpeed(s.clampReport(a.Name, "target speed",
			*spec.TargetSpeed, 0, env.MaxSpeed))
	}
	if spec.TargetVertical != nil && env.HasVertical {
		a.Nav.AssignVertical(*spec.TargetVertical)
	}

	s.State.Assets[a.ID] = a
	s.eventStream.Post(Event{Type: AssetCreatedEvent, AssetID: a.ID, Location: a.Position(),
		WrittenText: a.Name})
	s.lg.Info("created asset", slog.Any("asset", a))

	return a, nil
}

// updateAsset applies the set fields of an update to an existing asset.
func (s *Sim) updateAsset(id int, upd AssetUpdate) error {
	a, ok := s.State.Assets[id]
	if !ok {
		return fmt.Errorf("%d: %w", id, ErrUnknownEntity)
	}

	if upd.Domain != nil && *upd.Domain != a.Domain {
		if a.Ownship {
			return fmt.Errorf("%s: %w", a.Name, ErrOwnshipDomainChange)
		}
		a.Domain = *upd.Domain
		a.Nav.Envelope = a.Domain.Envelope()
		if !a.Nav.Envelope.HasVertical {
			a.Nav.FlightState.Vertical = 0
			a.Nav.Vertical = nav.NavVertical{}
		}
		a.Nav.FlightState.Speed = s.clampReport(a.Name, "speed",
			a.Nav.FlightState.Speed, 0, a.Nav.Envelope.MaxSpeed)
	}

	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Identity != nil {
		a.Identity = *upd.Identity
	}
	if upd.Heading != nil {
		a.Nav.FlightState.Heading = math.NormalizeHeading(*upd.Heading)
	}
	if upd.Speed != nil {
		a.Nav.FlightState.Speed = s.clampReport(a.Name, "speed",
			*upd.Speed, 0, a.Nav.Envelope.MaxSpeed)
	}
	if upd.Vertical != nil && a.Nav.Envelope.HasVertical {
		a.Nav.FlightState.Vertical = *upd.Vertical
	}

	if upd.TargetHeading != nil {
		a.Nav.AssignHeading(*upd.TargetHeading)
	}
	if upd.TargetSpeed != nil {
		a.Nav.AssignSpeed(s.clampReport(a.Name, "target speed",
			*upd.TargetSpeed, 0, a.Nav.Envelope.MaxSpeed))
	}
	if upd.TargetVertical != nil && a.Nav.Envelope.HasVertical {
		a.Nav.AssignVertical(*upd.TargetVertical)
	}

	return nil
}

// deleteAsset removes an asset. The Ownship is permanent; weapons
// tracking the deleted asset see target loss at their next update rather
// than an error.
func (s *Sim) deleteAsset(id int) error {
	a, ok := s.State.Assets[id]
	if !ok {
		return fmt.Errorf("%d: %w", id, ErrUnknownEntity)
	}
	if a.Ownship {
		return fmt.Errorf("%s: %w", a.Name, ErrOwnshipDelete)
	}

	delete(s.State.Assets, id)
	s.eventStream.Post(Event{Type: AssetDeletedEvent, AssetID: id, WrittenText: a.Name})
	s.lg.Info("deleted asset", slog.Any("asset", a))
	return nil
}

// clampReport clamps v to [lo, hi] and, if that changed it, posts a
// clamp report so the issuing collaborator can see what happened.
func (s *Sim) clampReport(name, what string, v, lo, hi float32) float32 {
	clamped := math.Clamp(v, lo, hi)
	if clamped != v {
		s.eventStream.Post(Event{
			Type:        ValueClampedEvent,
			WrittenText: fmt.Sprintf("%s: %s %g clamped to %g", name, what, v, clamped),
		})
		s.lg.Infof("%s: %s %g outside envelope, clamped to %g", name, what, v, clamped)
	}
	return clamped
}
