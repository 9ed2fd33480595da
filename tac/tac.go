// tac/tac.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package tac defines the static tactical data model shared by the
// simulation kernel and its collaborators: operational domains and their
// physical envelopes, identity classifications, waypoints, and weapon
// variant specifications.
package tac

import (
	"encoding/json"
	"fmt"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
)

///////////////////////////////////////////////////////////////////////////
// Domain

// Domain is the operational category of an asset; it determines the
// asset's physical envelope and whether it carries an altitude or a depth.
type Domain int

const (
	DomainAir Domain = iota
	DomainSurface
	DomainSubSurface
)

func (d Domain) String() string {
	switch d {
	case DomainAir:
		return "Air"
	case DomainSurface:
		return "Surface"
	case DomainSubSurface:
		return "SubSurface"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

func ParseDomain(s string) (Domain, error) {
	switch s {
	case "Air":
		return DomainAir, nil
	case "Surface":
		return DomainSurface, nil
	case "SubSurface":
		return DomainSubSurface, nil
	}
	return DomainAir, fmt.Errorf("%s: unknown domain", s)
}

func (d Domain) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Domain) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	dom, err := ParseDomain(s)
	if err == nil {
		*d = dom
	}
	return err
}

// Envelope gives the physical limits and convergence rates for a domain.
// All rates are per second of mission time.
type Envelope struct {
	TurnRate     float32 // degrees/s
	SpeedRate    float32 // kt/s
	VerticalRate float32 // ft/s; zero if the domain has no vertical axis
	MaxSpeed     float32 // kt
	HasVertical  bool
	VerticalName string // "altitude" or "depth"
}

// Envelope returns the envelope for the domain. The match is exhaustive;
// a new domain without an envelope is a programming error.
func (d Domain) Envelope() Envelope {
	switch d {
	case DomainAir:
		return Envelope{TurnRate: 15, SpeedRate: 10, VerticalRate: 100, MaxSpeed: 999,
			HasVertical: true, VerticalName: "altitude"}
	case DomainSurface:
		return Envelope{TurnRate: 1, SpeedRate: 2, MaxSpeed: 30}
	case DomainSubSurface:
		return Envelope{TurnRate: 1, SpeedRate: 2, VerticalRate: 10, MaxSpeed: 30,
			HasVertical: true, VerticalName: "depth"}
	default:
		panic(fmt.Sprintf("unhandled domain %d", int(d)))
	}
}

///////////////////////////////////////////////////////////////////////////
// Identity

// Identity is the tactical classification assigned to an asset by the
// instructor; it has no effect on kinematics.
type Identity int

const (
	IdentityFriendly Identity = iota
	IdentityHostile
	IdentityNeutral
	IdentityUnknown
	IdentityUnknownUnevaluated
)

func (id Identity) String() string {
	switch id {
	case IdentityFriendly:
		return "Friendly"
	case IdentityHostile:
		return "Hostile"
	case IdentityNeutral:
		return "Neutral"
	case IdentityUnknown:
		return "Unknown"
	case IdentityUnknownUnevaluated:
		return "UnknownUnevaluated"
	default:
		return fmt.Sprintf("Identity(%d)", int(id))
	}
}

func ParseIdentity(s string) (Identity, error) {
	switch s {
	case "Friendly":
		return IdentityFriendly, nil
	case "Hostile":
		return IdentityHostile, nil
	case "Neutral":
		return IdentityNeutral, nil
	case "Unknown":
		return IdentityUnknown, nil
	case "UnknownUnevaluated":
		return IdentityUnknownUnevaluated, nil
	}
	return IdentityUnknown, fmt.Errorf("%s: unknown identity", s)
}

func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *Identity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ident, err := ParseIdentity(s)
	if err == nil {
		*id = ident
	}
	return err
}

///////////////////////////////////////////////////////////////////////////
// Waypoints

type Waypoint struct {
	Location math.Point2LL `json:"location"`
}

func (wp Waypoint) String() string {
	return wp.Location.DDString()
}
