// sim/commands.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// External collaborators never touch kernel state directly: they enqueue
// commands, and the tick loop drains the queue atomically at the start
// of each tick. A command that fails (unknown id, no matching variant)
// is discarded with a log entry and a CommandRejected event; it never
// aborts the tick or the commands queued behind it.

type command interface {
	apply(s *Sim) error
}

// AssetSpec describes an asset to create. ID and TrackNumber of zero
// mean "allocate"; scenario files carry explicit values so that saved
// exercises restore with stable ids.
type AssetSpec struct {
	ID          int
	Name        string
	Domain      tac.Domain
	Identity    tac.Identity
	Position    math.Point2LL
	Heading     float32
	Speed       float32
	Vertical    float32
	TrackNumber int
	Ownship     bool
	Roster      []string
	Inventory   map[tac.WeaponCategory]int

	// Restored exercises carry in-progress navigation state.
	Waypoints      []tac.Waypoint
	TargetHeading  *float32
	TargetSpeed    *float32
	TargetVertical *float32
}

// AssetUpdate carries the optional fields of an update command; nil
// means "leave unchanged". Heading/Speed/Vertical set the state
// immediately; the Target variants assign convergence targets instead.
type AssetUpdate struct {
	Name     *string
	Identity *tac.Identity
	Domain   *tac.Domain

	Heading  *float32
	Speed    *float32
	Vertical *float32

	TargetHeading  *float32
	TargetSpeed    *float32
	TargetVertical *float32
}

type createAssetCommand struct {
	Spec AssetSpec
}

func (c createAssetCommand) apply(s *Sim) error {
	_, err := s.createAsset(c.Spec)
	return err
}

type updateAssetCommand struct {
	ID     int
	Update AssetUpdate
}

func (c updateAssetCommand) apply(s *Sim) error {
	return s.updateAsset(c.ID, c.Update)
}

type deleteAssetCommand struct {
	ID int
}

func (c deleteAssetCommand) apply(s *Sim) error {
	return s.deleteAsset(c.ID)
}

type fireCommand struct {
	FirerID      int
	Category     tac.WeaponCategory
	TargetID     *int
	FixedHeading *float32
}

func (c fireCommand) apply(s *Sim) error {
	firer, ok := s.State.Assets[c.FirerID]
	if !ok {
		return ErrUnknownEntity
	}
	_, err := s.fireWeapon(firer, c.Category, c.TargetID, c.FixedHeading)
	return err
}

type addWaypointCommand struct {
	ID       int
	Location math.Point2LL
}

func (c addWaypointCommand) apply(s *Sim) error {
	a, ok := s.State.Assets[c.ID]
	if !ok {
		return ErrUnknownEntity
	}
	a.Nav.AddWaypoint(tac.Waypoint{Location: c.Location})
	return nil
}

type removeWaypointCommand struct {
	ID    int
	Index int
}

func (c removeWaypointCommand) apply(s *Sim) error {
	a, ok := s.State.Assets[c.ID]
	if !ok {
		return ErrUnknownEntity
	}
	return a.Nav.RemoveWaypoint(c.Index)
}

type radarConfigCommand struct {
	Enabled       *bool
	DecayDuration *float32
}

func (c radarConfigCommand) apply(s *Sim) error {
	if c.Enabled != nil {
		s.State.Radar.Enabled = *c.Enabled
	}
	if c.DecayDuration != nil {
		s.State.Radar.DecayDuration = s.clampReport("radar", "decay duration",
			*c.DecayDuration, MinRadarDecayDuration, MaxRadarDecayDuration)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Enqueue API

func (s *Sim) enqueue(c command) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	s.commands = append(s.commands, c)
}

func (s *Sim) CreateAsset(spec AssetSpec) {
	s.enqueue(createAssetCommand{Spec: spec})
}

func (s *Sim) UpdateAsset(id int, upd AssetUpdate) {
	s.enqueue(updateAssetCommand{ID: id, Update: upd})
}

func (s *Sim) DeleteAsset(id int) {
	s.enqueue(deleteAssetCommand{ID: id})
}

// FireAtAsset fires the firer's first roster weapon of the given
// category, guided at the target asset.
func (s *Sim) FireAtAsset(firerID int, cat tac.WeaponCategory, targetID int) {
	s.enqueue(fireCommand{FirerID: firerID, Category: cat, TargetID: &targetID})
}

// FireAtHeading fires an unguided weapon on a fixed heading; it can only
// terminate by self-destruct or energy loss.
func (s *Sim) FireAtHeading(firerID int, cat tac.WeaponCategory, heading float32) {
	s.enqueue(fireCommand{FirerID: firerID, Category: cat, FixedHeading: &heading})
}

func (s *Sim) AddWaypoint(id int, loc math.Point2LL) {
	s.enqueue(addWaypointCommand{ID: id, Location: loc})
}

func (s *Sim) RemoveWaypoint(id int, index int) {
	s.enqueue(removeWaypointCommand{ID: id, Index: index})
}

func (s *Sim) SetRadarEnabled(enabled bool) {
	s.enqueue(radarConfigCommand{Enabled: &enabled})
}

func (s *Sim) SetRadarDecayDuration(seconds float32) {
	s.enqueue(radarConfigCommand{DecayDuration: &seconds})
}

// drainCommands applies all queued commands, in order, at the start of a
// tick. Failures are isolated per command.
func (s *Sim) drainCommands() {
	for _, c := range s.commands {
		if err := c.apply(s); err != nil {
			s.lg.Info("command rejected", slog.Any("error", err))
			s.eventStream.Post(Event{Type: CommandRejectedEvent, WrittenText: err.Error()})
		}
	}
	s.commands = s.commands[:0]
}
