// nav/nav.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package nav implements per-entity kinematics and waypoint navigation:
// fixed-rate convergence of heading, speed, and the vertical axis toward
// commanded targets, position advance along the current heading, and the
// waypoint queue state machine built on top of them.
package nav

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// State related to navigation. Pointers are used for optional values; nil
// -> unset/unspecified.
type Nav struct {
	FlightState FlightState
	Envelope    tac.Envelope

	Heading  NavHeading
	Speed    NavSpeed
	Vertical NavVertical

	Waypoints []tac.Waypoint
}

// FlightState is the physical state the integrator owns. Vertical is an
// altitude or a depth in feet, depending on the domain; it is unused for
// domains without a vertical axis.
type FlightState struct {
	Position math.Point2LL
	Heading  float32 // degrees, always in [0,360)
	Speed    float32 // kt
	Vertical float32 // ft
}

func (fs *FlightState) Summary() string {
	return fmt.Sprintf("heading %03d speed %.1f vertical %.0f at %s",
		int(fs.Heading), fs.Speed, fs.Vertical, fs.Position.DDString())
}

func (fs FlightState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("position", fs.Position.DDString()),
		slog.Float64("heading", float64(fs.Heading)),
		slog.Float64("speed", float64(fs.Speed)),
		slog.Float64("vertical", float64(fs.Vertical)))
}

type NavHeading struct {
	Assigned *float32
}

type NavSpeed struct {
	Assigned *float32
}

type NavVertical struct {
	Assigned *float32
}

func Make(domain tac.Domain, fs FlightState) Nav {
	fs.Heading = math.NormalizeHeading(fs.Heading)
	return Nav{
		FlightState: fs,
		Envelope:    domain.Envelope(),
	}
}

// EnRoute reports whether the waypoint queue is non-empty; an empty queue
// is the Idle state.
func (nav *Nav) EnRoute() bool {
	return len(nav.Waypoints) > 0
}

// AssignHeading sets the target heading; the integrator converges toward
// it over subsequent ticks and clears it on arrival.
func (nav *Nav) AssignHeading(hdg float32) {
	hdg = math.NormalizeHeading(hdg)
	nav.Heading.Assigned = &hdg
}

func (nav *Nav) AssignSpeed(kts float32) {
	nav.Speed.Assigned = &kts
}

func (nav *Nav) AssignVertical(ft float32) {
	nav.Vertical.Assigned = &ft
}

func (nav *Nav) clearTargets() {
	nav.Heading = NavHeading{}
	nav.Speed = NavSpeed{}
	nav.Vertical = NavVertical{}
}

// AddWaypoint appends to the waypoint queue. Adding to an empty queue
// immediately sets the target heading toward the new first waypoint.
func (nav *Nav) AddWaypoint(wp tac.Waypoint) {
	nav.Waypoints = append(nav.Waypoints, wp)
	if len(nav.Waypoints) == 1 {
		nav.AssignHeading(math.Bearing2LL(nav.FlightState.Position, wp.Location))
	}
}

// RemoveWaypoint removes the waypoint at the given index. Removing the
// active (first) waypoint triggers the same retarget-or-idle logic as
// arrival: retarget to the next waypoint or, if the queue is now empty,
// clear all pending targets.
func (nav *Nav) RemoveWaypoint(idx int) error {
	if idx < 0 || idx >= len(nav.Waypoints) {
		return ErrInvalidWaypointIndex
	}
	nav.Waypoints = slices.Delete(nav.Waypoints, idx, idx+1)

	if idx == 0 {
		if len(nav.Waypoints) > 0 {
			nav.AssignHeading(math.Bearing2LL(nav.FlightState.Position, nav.Waypoints[0].Location))
		} else {
			nav.clearTargets()
		}
	}
	return nil
}
