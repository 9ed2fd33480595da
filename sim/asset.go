// sim/asset.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"log/slog"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/nav"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// Asset is a simulated platform under instructor control. Exactly one
// asset per exercise is the Ownship; it cannot be deleted and its domain
// is fixed for the life of the exercise.
type Asset struct {
	ID          int
	Name        string
	Domain      tac.Domain
	Identity    tac.Identity
	TrackNumber int
	Ownship     bool

	Nav nav.Nav

	// Roster is the ordered list of weapon variant names the asset can
	// fire; a fire command selects the first roster entry whose category
	// matches. Inventory counts are only enforced for the Ownship.
	Roster    []string
	Inventory map[tac.WeaponCategory]int
}

func (a *Asset) Position() math.Point2LL { return a.Nav.FlightState.Position }
func (a *Asset) Heading() float32        { return a.Nav.FlightState.Heading }
func (a *Asset) Speed() float32          { return a.Nav.FlightState.Speed }

// Vertical returns the altitude or depth in feet and whether the asset's
// domain has a vertical axis at all.
func (a *Asset) Vertical() (float32, bool) {
	return a.Nav.FlightState.Vertical, a.Nav.Envelope.HasVertical
}

func (a *Asset) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("id", a.ID),
		slog.String("name", a.Name),
		slog.String("domain", a.Domain.String()),
		slog.String("identity", a.Identity.String()),
		slog.Any("state", a.Nav.FlightState),
	}
	if a.Ownship {
		attrs = append(attrs, slog.Bool("ownship", true))
	}
	return slog.GroupValue(attrs...)
}
