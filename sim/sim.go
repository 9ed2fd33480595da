// sim/sim.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sim implements the deterministic simulation kernel: the entity
// store, the fixed-step tick loop, the external command queue, weapon
// ballistics, and radar contact generation. The kernel is single-writer:
// the tick loop owns all mutable state, collaborators enqueue commands
// and read post-tick snapshots, and the kernel itself performs no I/O.
package sim

import (
	"log/slog"
	"time"

	"github.com/WarBuck-Dev/Project-Judy-sub002/log"
	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
	"github.com/WarBuck-Dev/Project-Judy-sub002/util"

	"github.com/brunoga/deep"
)

const (
	// TickRate is the fixed simulation step rate, Hz. All mission-time
	// cadences are expressed in whole ticks so they stay exact.
	TickRate = 60

	TickDuration = time.Second / TickRate

	// dt is the per-tick integration step, s.
	dt = float32(1.0 / TickRate)
)

type Sim struct {
	State *State

	mu util.LoggingMutex
	lg *log.Logger

	eventStream *EventStream

	commands []command

	// Wall-clock bookkeeping for Update(); sub-tick remainders carry
	// over in updateTimeSlop so no simulated time is lost between calls.
	updateTimeSlop time.Duration
	lastUpdateTime time.Time
}

// NewSimConfiguration carries everything needed to set up an exercise.
// It is a plain struct so that scenario files, the runner's config, and
// tests can all build one.
type NewSimConfiguration struct {
	Assets         []AssetSpec
	WeaponVariants *tac.WeaponVariantDB

	Bullseye      math.Point2LL
	BullseyeLabel string
	MapScale      float32

	RadarEnabled       bool
	RadarDecayDuration float32 // s; 0 -> default

	// StartTicks restores the mission clock from a saved exercise.
	StartTicks int64
}

// NewSim builds a Sim from the configuration. Exactly one of the
// configured assets must be the Ownship.
func NewSim(config NewSimConfiguration, lg *log.Logger) (*Sim, error) {
	s := &Sim{
		State:          newState(config),
		lg:             lg,
		eventStream:    NewEventStream(lg),
		lastUpdateTime: time.Now(),
	}

	for _, spec := range config.Assets {
		if _, err := s.createAsset(spec); err != nil {
			return nil, err
		}
	}
	if s.State.OwnshipID == 0 {
		return nil, ErrNoOwnship
	}

	lg.Info("sim created", slog.Any("state", s.State))
	return s, nil
}

func (s *Sim) Destroy() {
	s.eventStream.Destroy()
}

// Subscribe registers an event stream subscription for termination
// events, clamp reports, and status messages.
func (s *Sim) Subscribe() *EventsSubscription {
	return s.eventStream.Subscribe()
}

func (s *Sim) PostEvent(e Event) {
	s.eventStream.Post(e)
}

func (s *Sim) LogValue() slog.Value {
	return slog.GroupValue(slog.Any("state", s.State),
		slog.Int("queued_commands", len(s.commands)))
}

///////////////////////////////////////////////////////////////////////////
// Time control

func (s *Sim) TogglePause() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.State.Paused = !s.State.Paused
	s.lastUpdateTime = time.Now() // ignore time passage...
	s.updateTimeSlop = 0
}

func (s *Sim) SetSimRate(rate float32) error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if rate < 0.25 || rate > 20 {
		return ErrInvalidSimRate
	}
	s.State.SimRate = rate
	s.lg.Infof("sim rate set to %f", rate)
	return nil
}

// FastForward runs the given number of ticks immediately, regardless of
// pause state; used to step a paused exercise frame by frame.
func (s *Sim) FastForward(ticks int) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	for range ticks {
		s.tick()
	}
	s.lastUpdateTime = time.Now()
	s.updateTimeSlop = 0
}

// MissionTime returns the mission clock in seconds; it advances only
// while ticks run.
func (s *Sim) MissionTime() float32 {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return s.State.MissionTime()
}

///////////////////////////////////////////////////////////////////////////
// Simulation

// Update advances the simulation to the present: wall-clock time since
// the last call is scaled by the sim rate and converted to whole ticks.
// It is the only entry point that consults the wall clock; everything
// below it works in ticks.
func (s *Sim) Update() {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	startUpdate := time.Now()
	defer func() {
		if d := time.Since(startUpdate); d > 100*time.Millisecond {
			s.lg.Warn("unexpectedly long Sim Update() call", slog.Duration("duration", d),
				slog.Any("sim", s))
		}
	}()

	if s.State.Paused {
		return
	}

	// Figure out how much time has passed since the last update:
	// wallclock time is scaled by the sim rate, then we add in any time
	// from the last update that wasn't accounted for.
	elapsed := time.Since(s.lastUpdateTime)
	elapsed = time.Duration(s.State.SimRate * float32(elapsed))
	s.step(elapsed)
	s.lastUpdateTime = time.Now()
}

// Step advances the simulation by the given elapsed duration of
// simulated time, independent of the wall clock; replay and tests drive
// the kernel through this.
func (s *Sim) Step(elapsed time.Duration) bool {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)
	return s.step(elapsed)
}

func (s *Sim) step(elapsed time.Duration) bool {
	elapsed += s.updateTimeSlop

	ns := int(elapsed / TickDuration)
	if ns > 10*TickRate {
		s.lg.Warn("unexpected hitch in update rate", slog.Duration("elapsed", elapsed),
			slog.Int("ticks", ns), slog.Duration("slop", s.updateTimeSlop))
	}
	for range ns {
		s.tick()
	}

	s.updateTimeSlop = elapsed - time.Duration(ns)*TickDuration

	return ns > 0
}

// tick runs one fixed step: advance the mission clock, drain the command
// queue atomically, then integrate kinematics and navigation, weapons,
// and radar, strictly in that order.
func (s *Sim) tick() {
	s.State.MissionTicks++

	s.drainCommands()

	for _, a := range s.State.SortedAssets() {
		if wp := a.Nav.Update(dt); wp != nil {
			s.eventStream.Post(Event{Type: WaypointReachedEvent, AssetID: a.ID,
				Location: wp.Location})
			s.lg.Debug("waypoint reached", slog.Any("asset", a))
		}
	}

	for _, w := range s.State.SortedWeapons() {
		if s.updateWeapon(w, dt) {
			s.eventStream.Post(Event{
				Type:        WeaponTerminatedEvent,
				WeaponID:    w.ID,
				AssetID:     w.FirerID,
				Reason:      w.Reason,
				Location:    w.Position,
				WrittenText: w.Variant.Name,
			})
			s.lg.Info("weapon terminated", slog.Any("weapon", w))
			delete(s.State.Weapons, w.ID)
		}
	}

	s.updateRadar()
}

///////////////////////////////////////////////////////////////////////////
// Snapshots

// BullseyeReport is an asset's position expressed as bearing/range from
// the exercise bullseye.
type BullseyeReport struct {
	Bearing float32 // degrees
	Range   float32 // nm
}

// StateUpdate is the read-only post-tick snapshot handed to renderers
// and other collaborators. It shares no storage with the kernel, so
// readers never observe a partially-updated tick.
type StateUpdate struct {
	State           *State
	MissionTime     float32
	BullseyeReports map[int]BullseyeReport
}

// GetStateUpdate deep-copies the current state into a snapshot.
func (s *Sim) GetStateUpdate() StateUpdate {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	update := StateUpdate{
		State:           deep.MustCopy(s.State),
		MissionTime:     s.State.MissionTime(),
		BullseyeReports: make(map[int]BullseyeReport),
	}
	for id, a := range s.State.Assets {
		bearing, rng := math.BearingRange(s.State.Bullseye, a.Position())
		update.BullseyeReports[id] = BullseyeReport{Bearing: bearing, Range: rng}
	}
	return update
}
