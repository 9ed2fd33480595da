// scenario/generate.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scenario

import (
	"fmt"

	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/rand"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

// Generate synthesizes a training exercise: the Ownship on station at
// the bullseye with a standard loadout and nRaiders inbound hostile
// raiders spread around it. The same seed always produces the same
// exercise, raider for raider.
func Generate(seed int64, nRaiders int) *Scenario {
	r := rand.New()
	r.Seed(seed)

	bullseye := math.Point2LL{54, 26.0833}

	sc := &Scenario{
		WeaponVariants:     tac.DefaultWeaponVariants(),
		Bullseye:           bullseye,
		BullseyeLabel:      "ANCHOR",
		MapScale:           80,
		RadarEnabled:       true,
		RadarDecayDuration: 30,
	}

	sc.Assets = append(sc.Assets, Asset{
		Name:     "OWNSHIP",
		Domain:   tac.DomainAir,
		Identity: tac.IdentityFriendly,
		Position: bullseye,
		Heading:  float32(r.Intn(360)),
		Speed:    300,
		Vertical: 25000,
		Ownship:  true,
		Roster:   []string{"Peregrine", "Cormorant", "Kestrel"},
		Inventory: map[tac.WeaponCategory]int{
			tac.WeaponAAM: 6,
			tac.WeaponASM: 2,
			tac.WeaponAGM: 2,
		},
	})

	for i := range nRaiders {
		// Raiders spawn 60-120nm out on a random radial, pointed back
		// at the bullseye.
		radial := 360 * r.Float32()
		dist := 60 + 60*r.Float32()
		pos := math.Offset2LL(bullseye, radial, dist)
		inbound, _ := math.BearingRange(pos, bullseye)

		raider := Asset{
			Name:     fmt.Sprintf("RAIDER-%02d", i+1),
			Domain:   tac.DomainAir,
			Identity: tac.IdentityUnknownUnevaluated,
			Position: pos,
			Heading:  inbound,
			Speed:    350 + 50*r.Float32(),
			Vertical: float32(15000 + 1000*r.Intn(20)),
			Roster:   []string{"Peregrine"},
		}
		raider.Waypoints = append(raider.Waypoints, tac.Waypoint{Location: bullseye})
		sc.Assets = append(sc.Assets, raider)
	}

	return sc
}
