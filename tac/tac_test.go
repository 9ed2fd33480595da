// tac/tac_test.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tac

import (
	"encoding/json"
	"testing"
)

func TestDomainEnvelopes(t *testing.T) {
	tests := []struct {
		domain       Domain
		turnRate     float32
		speedRate    float32
		verticalRate float32
		maxSpeed     float32
		hasVertical  bool
	}{
		{DomainAir, 15, 10, 100, 999, true},
		{DomainSurface, 1, 2, 0, 30, false},
		{DomainSubSurface, 1, 2, 10, 30, true},
	}
	for _, test := range tests {
		env := test.domain.Envelope()
		if env.TurnRate != test.turnRate || env.SpeedRate != test.speedRate ||
			env.VerticalRate != test.verticalRate || env.MaxSpeed != test.maxSpeed ||
			env.HasVertical != test.hasVertical {
			t.Errorf("%s: envelope %+v", test.domain, env)
		}
	}
}

func TestDomainJSONRoundTrip(t *testing.T) {
	for _, d := range []Domain{DomainAir, DomainSurface, DomainSubSurface} {
		b, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("%s: marshal: %v", d, err)
		}
		var d2 Domain
		if err := json.Unmarshal(b, &d2); err != nil {
			t.Fatalf("%s: unmarshal: %v", d, err)
		}
		if d2 != d {
			t.Errorf("round trip %s -> %s", d, d2)
		}
	}

	var d Domain
	if err := json.Unmarshal([]byte(`"Orbit"`), &d); err == nil {
		t.Errorf("expected error for unknown domain")
	}
}

func TestIdentityJSONRoundTrip(t *testing.T) {
	identities := []Identity{IdentityFriendly, IdentityHostile, IdentityNeutral,
		IdentityUnknown, IdentityUnknownUnevaluated}
	for _, id := range identities {
		b, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("%s: marshal: %v", id, err)
		}
		var id2 Identity
		if err := json.Unmarshal(b, &id2); err != nil {
			t.Fatalf("%s: unmarshal: %v", id, err)
		}
		if id2 != id {
			t.Errorf("round trip %s -> %s", id, id2)
		}
	}
}
