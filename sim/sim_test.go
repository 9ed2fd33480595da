// sim/sim_test.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/WarBuck-Dev/Project-Judy-sub002/log"
	"github.com/WarBuck-Dev/Project-Judy-sub002/math"
	"github.com/WarBuck-Dev/Project-Judy-sub002/tac"
)

func ownshipSpec() AssetSpec {
	return AssetSpec{
		Name:     "OWNSHIP",
		Domain:   tac.DomainAir,
		Identity: tac.IdentityFriendly,
		Position: math.Point2LL{54, 26.0833},
		Heading:  0,
		Speed:    220,
		Vertical: 25000,
		Ownship:  true,
		Roster:   []string{"Peregrine", "Cormorant"},
		Inventory: map[tac.WeaponCategory]int{
			tac.WeaponAAM: 4,
			tac.WeaponASM: 2,
		},
	}
}

func newTestSim(t *testing.T, extra ...AssetSpec) *Sim {
	t.Helper()

	config := NewSimConfiguration{
		Assets:   append([]AssetSpec{ownshipSpec()}, extra...),
		Bullseye: math.Point2LL{54.5, 26.5},
	}
	s, err := NewSim(config, log.Discard())
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	t.Cleanup(s.Destroy)
	return s
}

func hostileAt(name string, p math.Point2LL) AssetSpec {
	return AssetSpec{
		Name:     name,
		Domain:   tac.DomainAir,
		Identity: tac.IdentityHostile,
		Position: p,
		Heading:  180,
		Speed:    350,
		Vertical: 20000,
	}
}

///////////////////////////////////////////////////////////////////////////
// Entity store

func TestCreateClampsToEnvelope(t *testing.T) {
	s := newTestSim(t)
	sub := s.Subscribe()

	s.CreateAsset(AssetSpec{Name: "FAST", Domain: tac.DomainSurface,
		Identity: tac.IdentityNeutral, Speed: 100})
	s.FastForward(1)

	var created *Asset
	for _, a := range s.State.Assets {
		if a.Name == "FAST" {
			created = a
		}
	}
	if created == nil {
		t.Fatalf("asset not created")
	}
	if created.Speed() != 30 {
		t.Errorf("speed %g, expected clamp to surface max 30", created.Speed())
	}

	clamped := false
	for _, e := range sub.Get() {
		clamped = clamped || e.Type == ValueClampedEvent
	}
	if !clamped {
		t.Errorf("no clamp report posted")
	}
}

func TestOwnshipImmutable(t *testing.T) {
	s := newTestSim(t)
	sub := s.Subscribe()
	ownship := s.State.Ownship()

	s.DeleteAsset(ownship.ID)
	surface := tac.DomainSurface
	s.UpdateAsset(ownship.ID, AssetUpdate{Domain: &surface})
	s.FastForward(1)

	if s.State.Ownship() == nil {
		t.Fatalf("Ownship was deleted")
	}
	if s.State.Ownship().Domain != tac.DomainAir {
		t.Errorf("Ownship domain changed to %s", s.State.Ownship().Domain)
	}

	rejected := 0
	for _, e := range sub.Get() {
		if e.Type == CommandRejectedEvent {
			rejected++
		}
	}
	if rejected != 2 {
		t.Errorf("%d rejections, expected 2", rejected)
	}
}

func TestUnknownEntityIsolated(t *testing.T) {
	// A command against a stale id is discarded; commands queued behind
	// it still apply.
	s := newTestSim(t)
	sub := s.Subscribe()

	hdg := float32(90)
	s.UpdateAsset(9999, AssetUpdate{TargetHeading: &hdg})
	s.UpdateAsset(s.State.OwnshipID, AssetUpdate{TargetHeading: &hdg})
	s.FastForward(1)

	if s.State.Ownship().Nav.Heading.Assigned == nil {
		t.Errorf("command behind a rejected one was not applied")
	}

	rejected := false
	for _, e := range sub.Get() {
		rejected = rejected || e.Type == CommandRejectedEvent
	}
	if !rejected {
		t.Errorf("no rejection reported for unknown id")
	}
}

func TestTrackNumbersNeverReused(t *testing.T) {
	s := newTestSim(t)

	s.CreateAsset(hostileAt("B1", math.Point2LL{54, 27}))
	s.FastForward(1)

	var b1 *Asset
	for _, a := range s.State.Assets {
		if a.Name == "B1" {
			b1 = a
		}
	}
	tn := b1.TrackNumber

	s.DeleteAsset(b1.ID)
	s.CreateAsset(hostileAt("B2", math.Point2LL{54, 27}))
	s.FastForward(1)

	for _, a := range s.State.Assets {
		if a.Name == "B2" && a.TrackNumber <= tn {
			t.Errorf("track number %d reused (previous %d)", a.TrackNumber, tn)
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Tick loop and time control

func TestEndToEndOwnshipTurn(t *testing.T) {
	s := newTestSim(t)
	start := s.State.Ownship().Position()

	hdg := float32(90)
	s.UpdateAsset(s.State.OwnshipID, AssetUpdate{TargetHeading: &hdg})
	s.Step(6 * time.Second)

	ownship := s.State.Ownship()
	if diff := math.HeadingDifference(ownship.Heading(), 90); diff > 0.25 {
		t.Errorf("heading %g after 6s, expected 90 +/- 0.25", ownship.Heading())
	}

	// 220 kt for 6s is 0.367nm of arc; the chord is shorter but the
	// asset must have moved east and north of where it started.
	moved := math.NMDistance2LL(start, ownship.Position())
	if moved < 0.2 || moved > 0.37 {
		t.Errorf("moved %g nm along the turn, expected within (0.2, 0.37)", moved)
	}
	if ownship.Position()[0] <= start[0] || ownship.Position()[1] <= start[1] {
		t.Errorf("turn arc did not advance northeast: %v -> %v", start, ownship.Position())
	}
}

func TestStepCarriesSlop(t *testing.T) {
	s := newTestSim(t)

	// 100ms is 6 ticks; the third of a tick left over must carry into
	// the next call rather than being dropped.
	for range 10 {
		s.Step(100 * time.Millisecond)
	}
	if s.State.MissionTicks != 60 {
		t.Errorf("%d ticks after 1s of stepping, expected 60", s.State.MissionTicks)
	}
}

func TestPauseFreezesMissionTime(t *testing.T) {
	s := newTestSim(t)
	s.FastForward(600)

	s.TogglePause()
	s.lastUpdateTime = time.Now().Add(-5 * time.Second)
	s.Update()

	if s.State.MissionTicks != 600 {
		t.Errorf("mission ticks advanced to %d while paused", s.State.MissionTicks)
	}

	// FastForward steps a paused exercise.
	s.FastForward(60)
	if s.State.MissionTicks != 660 {
		t.Errorf("FastForward while paused: %d ticks", s.State.MissionTicks)
	}
}

func TestSetSimRate(t *testing.T) {
	s := newTestSim(t)
	if err := s.SetSimRate(0); err != ErrInvalidSimRate {
		t.Errorf("expected ErrInvalidSimRate, got %v", err)
	}
	if err := s.SetSimRate(4); err != nil {
		t.Errorf("SetSimRate(4): %v", err)
	}
}

///////////////////////////////////////////////////////////////////////////
// Weapons

// fireOne fires the ownship's first AAM at the target and returns the
// launched weapon's id.
func fireOne(t *testing.T, s *Sim, targetID int) int {
	t.Helper()

	s.FireAtAsset(s.State.OwnshipID, tac.WeaponAAM, targetID)
	s.FastForward(1)

	if len(s.State.Weapons) != 1 {
		t.Fatalf("%d weapons in flight, expected 1", len(s.State.Weapons))
	}
	for id := range s.State.Weapons {
		return id
	}
	return 0
}

func terminationReason(t *testing.T, events []Event, wid int) TerminationReason {
	t.Helper()
	for _, e := range events {
		if e.Type == WeaponTerminatedEvent && e.WeaponID == wid {
			return e.Reason
		}
	}
	t.Fatalf("no termination event for weapon %d", wid)
	return 0
}

func TestWeaponImpact(t *testing.T) {
	s := newTestSim(t, hostileAt("BANDIT", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 5)))
	sub := s.Subscribe()

	var banditID int
	for _, a := range s.State.Assets {
		if a.Name == "BANDIT" {
			banditID = a.ID
		}
	}

	wid := fireOne(t, s, banditID)
	s.Step(60 * time.Second)

	if _, ok := s.State.Weapons[wid]; ok {
		t.Fatalf("weapon still in flight after 60s against a 5nm target")
	}
	if reason := terminationReason(t, sub.Get(), wid); reason != TerminationImpact {
		t.Errorf("reason %s, expected Impact", reason)
	}
}

func TestWeaponSelfDestructExact(t *testing.T) {
	// Target 300nm out: the weapon can never close within impact range,
	// so it must fly until exactly its self-destruct time.
	s := newTestSim(t, hostileAt("FAR", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 300)))
	sub := s.Subscribe()

	var farID int
	for _, a := range s.State.Assets {
		if a.Name == "FAR" {
			farID = a.ID
		}
	}

	wid := fireOne(t, s, farID)
	w := s.State.Weapons[wid]
	sdt := w.Variant.SelfDestructTime()
	fired := w.TickFired

	for range 12000 {
		s.FastForward(1)
		if _, ok := s.State.Weapons[wid]; ok {
			continue
		}

		elapsed := float32(s.State.MissionTicks-fired) / TickRate
		if elapsed < sdt {
			t.Fatalf("terminated at %g s, before self-destruct time %g s", elapsed, sdt)
		}
		if elapsed > sdt+2.0/TickRate {
			t.Fatalf("terminated at %g s, after self-destruct time %g s", elapsed, sdt)
		}
		if reason := terminationReason(t, sub.Get(), wid); reason != TerminationSelfDestruct {
			t.Errorf("reason %s, expected SelfDestruct", reason)
		}
		return
	}
	t.Fatalf("weapon never terminated")
}

func TestWeaponBleedOffFloorWhileTracking(t *testing.T) {
	// Post-fuel, a weapon that still tracks a target holds the minimum
	// speed instead of losing energy; only once the target is gone does
	// it bleed out.
	s := newTestSim(t, hostileAt("FAR", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 300)))
	sub := s.Subscribe()

	var farID int
	for _, a := range s.State.Assets {
		if a.Name == "FAR" {
			farID = a.ID
		}
	}

	wid := fireOne(t, s, farID)
	fuelTime := s.State.Weapons[wid].Variant.FuelTime()

	// Well past fuel exhaustion plus the full bleed, but still short of
	// self-destruct time.
	s.Step(time.Duration(float64(fuelTime)*float64(time.Second)) + 45*time.Second)

	w, ok := s.State.Weapons[wid]
	if !ok {
		t.Fatalf("tracking weapon lost energy post-fuel")
	}
	if w.Phase != PhaseBleedOff {
		t.Errorf("phase %s, expected BleedOff", w.Phase)
	}
	if w.Speed != WeaponMinimumSpeed {
		t.Errorf("speed %g, expected floor at %d", w.Speed, WeaponMinimumSpeed)
	}

	s.DeleteAsset(farID)
	s.Step(time.Second)

	if _, ok := s.State.Weapons[wid]; ok {
		t.Fatalf("weapon still in flight after target loss below minimum speed")
	}
	if reason := terminationReason(t, sub.Get(), wid); reason != TerminationEnergyLoss {
		t.Errorf("reason %s, expected EnergyLoss", reason)
	}
}

func TestWeaponEnergyLoss(t *testing.T) {
	// An unguided shot never satisfies the impact check; once the motor
	// burns out it bleeds speed at 50 kt/s and falls below 10 kt well
	// before self-destruct time.
	s := newTestSim(t)
	sub := s.Subscribe()

	s.FireAtHeading(s.State.OwnshipID, tac.WeaponAAM, 45)
	s.FastForward(1)

	var wid int
	for id := range s.State.Weapons {
		wid = id
	}
	w := s.State.Weapons[wid]
	fuelTime := w.Variant.FuelTime()

	// Still flying at fuel exhaustion...
	s.Step(time.Duration(float64(fuelTime) * float64(time.Second)))
	if _, ok := s.State.Weapons[wid]; !ok {
		t.Fatalf("weapon terminated before fuel exhaustion")
	}

	// ...but bleeding 1490 kt at 50 kt/s takes just under 30s more.
	s.Step(time.Minute)
	if _, ok := s.State.Weapons[wid]; ok {
		t.Fatalf("weapon still in flight a minute past fuel exhaustion")
	}
	if reason := terminationReason(t, sub.Get(), wid); reason != TerminationEnergyLoss {
		t.Errorf("reason %s, expected EnergyLoss", reason)
	}
}

func TestWeaponTargetLoss(t *testing.T) {
	// Deleting the target mid-flight is target loss, not a fault: the
	// weapon holds its last heading and flies on.
	s := newTestSim(t, hostileAt("GONER", math.Offset2LL(math.Point2LL{54, 26.0833}, 90, 25)))

	var targetID int
	for _, a := range s.State.Assets {
		if a.Name == "GONER" {
			targetID = a.ID
		}
	}

	wid := fireOne(t, s, targetID)
	s.Step(5 * time.Second)

	headingBefore := s.State.Weapons[wid].Heading
	s.DeleteAsset(targetID)
	s.Step(10 * time.Second)

	w, ok := s.State.Weapons[wid]
	if !ok {
		t.Fatalf("weapon terminated on target loss")
	}
	if w.Heading != headingBefore {
		t.Errorf("heading changed %g -> %g after target loss", headingBefore, w.Heading)
	}
}

func TestOwnshipInventoryDecrement(t *testing.T) {
	s := newTestSim(t, hostileAt("BANDIT", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 100)))
	sub := s.Subscribe()

	var banditID int
	for _, a := range s.State.Assets {
		if a.Name == "BANDIT" {
			banditID = a.ID
		}
	}

	// Ownship carries 2 ASMs; the third shot must be rejected.
	for range 3 {
		s.FireAtAsset(s.State.OwnshipID, tac.WeaponASM, banditID)
	}
	s.FastForward(1)

	if n := len(s.State.Weapons); n != 2 {
		t.Errorf("%d weapons in flight, expected 2", n)
	}
	if n := s.State.Ownship().Inventory[tac.WeaponASM]; n != 0 {
		t.Errorf("ASM inventory %d, expected 0", n)
	}

	rejected := false
	for _, e := range sub.Get() {
		rejected = rejected || e.Type == CommandRejectedEvent
	}
	if !rejected {
		t.Errorf("third shot was not rejected")
	}

	// Non-Ownship firers have unlimited stock and no roster here, so give
	// the bandit one and check no inventory is consumed.
	bandit := s.State.Assets[banditID]
	bandit.Roster = []string{"Peregrine"}
	for range 3 {
		s.FireAtAsset(banditID, tac.WeaponAAM, s.State.OwnshipID)
	}
	s.FastForward(1)
	if n := len(s.State.Weapons); n != 5 {
		t.Errorf("%d weapons in flight after bandit volley, expected 5", n)
	}
}

func TestFirstMatchingRosterVariant(t *testing.T) {
	s := newTestSim(t, hostileAt("BANDIT", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 100)))

	var banditID int
	for _, a := range s.State.Assets {
		if a.Name == "BANDIT" {
			banditID = a.ID
		}
	}

	s.FireAtAsset(s.State.OwnshipID, tac.WeaponAAM, banditID)
	s.FastForward(1)

	for _, w := range s.State.Weapons {
		if w.Variant.Name != "Peregrine" {
			t.Errorf("selected %s, expected first roster AAM Peregrine", w.Variant.Name)
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Radar contacts

func TestRadarContactCadence(t *testing.T) {
	s := newTestSim(t)
	s.SetRadarEnabled(true)

	s.FastForward(599)
	if n := len(s.State.Contacts); n != 0 {
		t.Errorf("%d contacts before the first sweep", n)
	}

	s.FastForward(1) // tick 600: 10s of mission time
	if n := len(s.State.Contacts); n != 1 {
		t.Errorf("%d contacts after the first sweep, expected 1", n)
	}

	s.FastForward(600)
	if n := len(s.State.Contacts); n != 2 {
		t.Errorf("%d contacts after two sweeps, expected 2", n)
	}
}

func TestRadarContactDecay(t *testing.T) {
	s := newTestSim(t)
	s.SetRadarEnabled(true)
	s.SetRadarDecayDuration(30)

	s.FastForward(600)
	if n := len(s.State.Contacts); n != 1 {
		t.Fatalf("%d contacts after first sweep", n)
	}
	spawn := s.State.Contacts[0].SpawnTick

	present := func() bool {
		for _, c := range s.State.Contacts {
			if c.SpawnTick == spawn {
				return true
			}
		}
		return false
	}

	// Present at spawn+29.9s, gone at spawn+30.1s.
	s.FastForward(int(29.9 * TickRate))
	if !present() {
		t.Errorf("contact decayed before 30s")
	}
	s.FastForward(int(0.2 * TickRate))
	if present() {
		t.Errorf("contact still present past 30s")
	}
}

func TestRadarDisableStopsSpawnsNotDecay(t *testing.T) {
	s := newTestSim(t)
	s.SetRadarEnabled(true)
	s.SetRadarDecayDuration(30)

	s.FastForward(600)
	if n := len(s.State.Contacts); n != 1 {
		t.Fatalf("%d contacts after first sweep", n)
	}

	s.SetRadarEnabled(false)
	s.FastForward(600)
	if n := len(s.State.Contacts); n != 1 {
		t.Errorf("%d contacts after disable, expected no new spawns", n)
	}

	s.FastForward(30 * TickRate)
	if n := len(s.State.Contacts); n != 0 {
		t.Errorf("%d contacts, expected decay to continue while disabled", n)
	}
}

func TestRadarPauseFreezesContactAge(t *testing.T) {
	s := newTestSim(t)
	s.SetRadarEnabled(true)

	s.FastForward(600)
	age := s.State.Contacts[0].Age(s.State.MissionTicks)

	s.TogglePause()
	s.lastUpdateTime = time.Now().Add(-time.Minute)
	s.Update()

	if a := s.State.Contacts[0].Age(s.State.MissionTicks); a != age {
		t.Errorf("contact age %g changed to %g while paused", age, a)
	}
}

func TestRadarDecayDurationClamped(t *testing.T) {
	s := newTestSim(t)
	sub := s.Subscribe()

	s.SetRadarDecayDuration(500)
	s.FastForward(1)

	if d := s.State.Radar.DecayDuration; d != MaxRadarDecayDuration {
		t.Errorf("decay duration %g, expected clamp to %d", d, MaxRadarDecayDuration)
	}
	clamped := false
	for _, e := range sub.Get() {
		clamped = clamped || e.Type == ValueClampedEvent
	}
	if !clamped {
		t.Errorf("no clamp report posted")
	}
}

///////////////////////////////////////////////////////////////////////////
// Determinism

func TestReplayDeterminism(t *testing.T) {
	run := func() string {
		s := newTestSim(t, hostileAt("BANDIT", math.Offset2LL(math.Point2LL{54, 26.0833}, 0, 40)))
		s.SetRadarEnabled(true)

		var banditID int
		for _, a := range s.State.Assets {
			if a.Name == "BANDIT" {
				banditID = a.ID
			}
		}

		hdg, spd := float32(45), float32(400)
		s.UpdateAsset(s.State.OwnshipID, AssetUpdate{TargetHeading: &hdg, TargetSpeed: &spd})
		s.AddWaypoint(banditID, math.Point2LL{54, 25})
		s.Step(10 * time.Second)

		s.FireAtAsset(s.State.OwnshipID, tac.WeaponAAM, banditID)
		s.Step(2 * time.Minute)

		digest, err := s.State.Digest()
		if err != nil {
			t.Fatalf("digest: %v", err)
		}
		return digest
	}

	first := run()
	for range 3 {
		if d := run(); d != first {
			t.Fatalf("replay produced a different digest: %s vs %s", d, first)
		}
	}
}

func TestDigestStable(t *testing.T) {
	// The digest walks the entity maps in sorted key order; with a few
	// dozen map entries, any dependence on Go's randomized map iteration
	// shows up immediately as an unstable digest.
	var extra []AssetSpec
	for i := range 12 {
		extra = append(extra, hostileAt(fmt.Sprintf("RAID%02d", i),
			math.Offset2LL(math.Point2LL{54, 26.0833}, float32(30*i), 40)))
	}
	s := newTestSim(t, extra...)
	s.SetRadarEnabled(true)

	// Fire until the Ownship's AAM inventory runs dry so the weapons map
	// is populated too.
	for _, a := range s.State.SortedAssets() {
		if !a.Ownship {
			s.FireAtAsset(s.State.OwnshipID, tac.WeaponAAM, a.ID)
		}
	}
	s.Step(30 * time.Second)

	first, err := s.State.Digest()
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	for range 20 {
		if d, _ := s.State.Digest(); d != first {
			t.Fatalf("digest unstable on identical state: %s vs %s", d, first)
		}
	}

	s.FastForward(1)
	if d, _ := s.State.Digest(); d == first {
		t.Errorf("digest unchanged after a tick")
	}
}

///////////////////////////////////////////////////////////////////////////
// Snapshots

func TestSnapshotIsolatedFromKernel(t *testing.T) {
	s := newTestSim(t)

	update := s.GetStateUpdate()
	before := update.State.Ownship().Position()

	s.Step(30 * time.Second)

	if update.State.Ownship().Position() != before {
		t.Errorf("snapshot mutated by subsequent ticks")
	}
	if update.State.MissionTicks == s.State.MissionTicks {
		t.Errorf("kernel mission clock did not advance")
	}
}

func TestSnapshotBullseyeReports(t *testing.T) {
	s := newTestSim(t)
	update := s.GetStateUpdate()

	report, ok := update.BullseyeReports[s.State.OwnshipID]
	if !ok {
		t.Fatalf("no bullseye report for Ownship")
	}

	bearing, rng := math.BearingRange(s.State.Bullseye, s.State.Ownship().Position())
	if report.Bearing != bearing || report.Range != rng {
		t.Errorf("report %+v, expected bearing %g range %g", report, bearing, rng)
	}
}
