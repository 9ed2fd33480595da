// nav/update.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// WaypointArrivalDistance is the range at which the active waypoint is
// considered reached and popped from the queue.
const WaypointArrivalDistance = 0.5 // nm

// Update advances the entity by one tick of dt seconds: heading, speed,
// and vertical each converge toward their assigned targets at the
// domain's fixed rates, the position advances along the post-update
// heading, and then the waypoint queue is evaluated against the new
// position. Returns the waypoint passed this tick, if any.
//
// Determinism matters here: the same FlightState and dt sequence must
// reproduce bit-identical results, so all arithmetic goes through the
// same code path regardless of how close to converged a target is.
func (nav *Nav) Update(dt float32) *tac.Waypoint {
	nav.updateHeading(dt)
	nav.updateSpeed(dt)
	nav.updateVertical(dt)
	nav.updatePosition(dt)
	return nav.updateWaypoints()
}

// updateHeading turns toward the assigned heading in the shorter
// rotational direction. The target is snapped-to and cleared only on the
// tick where the remaining turn fits within the tick's rate budget --
// never early, so convergence time is exact.
func (nav *Nav) updateHeading(dt float32) {
	if nav.Heading.Assigned == nil {
		return
	}
	target := *nav.Heading.Assigned

	turn := math.HeadingSignedTurn(nav.FlightState.Heading, target)
	step := nav.Envelope.TurnRate * dt
	if math.Abs(turn) <= step {
		nav.FlightState.Heading = target
		nav.Heading = NavHeading{}
		return
	}
	nav.FlightState.Heading = math.NormalizeHeading(nav.FlightState.Heading + math.Sign(turn)*step)
}

func (nav *Nav) updateSpeed(dt float32) {
	if nav.Speed.Assigned == nil {
		return
	}
	target := math.Clamp(*nav.Speed.Assigned, 0, nav.Envelope.MaxSpeed)

	delta := target - nav.FlightState.Speed
	step := nav.Envelope.SpeedRate * dt
	if math.Abs(delta) <= step {
		nav.FlightState.Speed = target
		nav.Speed = NavSpeed{}
		return
	}
	nav.FlightState.Speed += math.Sign(delta) * step
}

func (nav *Nav) updateVertical(dt float32) {
	if nav.Vertical.Assigned == nil || !nav.Envelope.HasVertical {
		return
	}
	target := *nav.Vertical.Assigned

	delta := target - nav.FlightState.Vertical
	step := nav.Envelope.VerticalRate * dt
	if math.Abs(delta) <= step {
		nav.FlightState.Vertical = target
		nav.Vertical = NavVertical{}
		return
	}
	nav.FlightState.Vertical += math.Sign(delta) * step
}

// updatePosition advances along the current (post-update) heading at the
// current speed for dt seconds.
func (nav *Nav) updatePosition(dt float32) {
	dist := nav.FlightState.Speed * dt / 3600
	if dist == 0 {
		return
	}
	nav.FlightState.Position = math.Offset2LL(nav.FlightState.Position, nav.FlightState.Heading, dist)
}

// updateWaypoints re-evaluates the waypoint queue against the current
// position. The bearing to the active waypoint is recomputed every tick
// rather than cached so that heading tracks the entity's own progress.
func (nav *Nav) updateWaypoints() *tac.Waypoint {
	if len(nav.Waypoints) == 0 {
		return nil
	}

	wp := nav.Waypoints[0]
	bearing, dist := math.BearingRange(nav.FlightState.Position, wp.Location)
	if dist >= WaypointArrivalDistance {
		nav.AssignHeading(bearing)
		return nil
	}

	// Arrived: pop and either turn toward the next waypoint or, if the
	// queue is empty, go idle and drop any pending targets.
	nav.Waypoints = nav.Waypoints[1:]
	if len(nav.Waypoints) > 0 {
		nav.AssignHeading(math.Bearing2LL(nav.FlightState.Position, nav.Waypoints[0].Location))
	} else {
		nav.clearTargets()
	}
	return &wp
}
