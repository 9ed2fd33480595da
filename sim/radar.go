// sim/radar.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/util"
)

const (
	// RadarSweepInterval is the mission time between contact sweeps, in
	// seconds; one contact per asset is emitted each sweep.
	RadarSweepInterval = 10

	MinRadarDecayDuration     = 10 // s
	MaxRadarDecayDuration     = 60 // s
	DefaultRadarDecayDuration = 30 // s
)

type RadarState struct {
	Enabled bool
	// DecayDuration is how long a contact persists after its sweep, in
	// seconds of mission time.
	DecayDuration float32
}

// RadarContact is one sweep return: a position frozen at spawn time. It
// is created only by the tick loop and destroyed only by decay, never by
// external command.
type RadarContact struct {
	Position      math.Point2LL
	SpawnTick     int64
	DecayDuration float32 // s
}

// Age returns the contact's age in seconds of mission time. Mission time
// freezes while paused, so a contact's age does too.
func (c *RadarContact) Age(nowTick int64) float32 {
	return float32(nowTick-c.SpawnTick) / TickRate
}

// updateRadar ages out decayed contacts and, on sweep boundaries while
// the radar is enabled, spawns a contact for every asset. Disabling the
// radar stops new sweeps but already-spawned contacts still decay.
func (s *Sim) updateRadar() {
	now := s.State.MissionTicks

	s.State.Contacts = util.FilterSlice(s.State.Contacts,
		func(c RadarContact) bool { return c.Age(now) < c.DecayDuration })

	if !s.State.Radar.Enabled || now%(RadarSweepInterval*TickRate) != 0 {
		return
	}

	for _, a := range s.State.SortedAssets() {
		s.State.Contacts = append(s.State.Contacts, RadarContact{
			Position:      a.Position(),
			SpawnTick:     now,
			DecayDuration: s.State.Radar.DecayDuration,
		})
		s.eventStream.Post(Event{Type: RadarContactEvent, AssetID: a.ID, Location: a.Position()})
	}
	s.lg.Debug("radar sweep", slog.Int64("tick", now), slog.Int("contacts", len(s.State.Contacts)))
}
