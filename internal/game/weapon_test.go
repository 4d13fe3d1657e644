package game

import "testing"

func TestWeapon_CooldownGating(t *testing.T) {
	sink := &RecordingProjectiles{}
	w := NewWeapon(WeaponSpec{Name: "cannon", Damage: 12, Range: 4, Reload: 5, Projectile: "shell"})

	if !w.Ready() {
		t.Fatal("fresh weapon should be ready")
	}
	if !w.Fire(nil, nil, sink) {
		t.Fatal("first shot refused")
	}
	if w.Fire(nil, nil, sink) {
		t.Fatal("second shot fired during cooldown")
	}
	for i := 0; i < 4; i++ {
		w.Tick()
		if w.Ready() {
			t.Fatalf("ready after only %d of 5 ticks", i+1)
		}
	}
	w.Tick()
	if !w.Ready() {
		t.Fatal("not ready after full reload")
	}
	if !w.Fire(nil, nil, sink) {
		t.Fatal("shot refused after reload elapsed")
	}
	if len(sink.Requests) != 2 {
		t.Fatalf("projectile requests = %d, want 2", len(sink.Requests))
	}
	if sink.Requests[0].Spec.Projectile != "shell" {
		t.Fatalf("request carries spec %+v", sink.Requests[0].Spec)
	}
}

func TestWeapon_NilSink(t *testing.T) {
	w := NewWeapon(WeaponSpec{Name: "mg", Reload: 3, Range: 2})
	if !w.Fire(nil, nil, nil) {
		t.Fatal("fire with nil sink should still consume the shot")
	}
	if w.Ready() {
		t.Fatal("cooldown not started with nil sink")
	}
}

func TestWeapon_SlotsFireIndependently(t *testing.T) {
	// Scout carries two weapons with different reloads; both fire on the
	// first engaged tick, then recover on their own schedules.
	ts := NewTestSim(
		WithUnit(1, "scout", 5, 5),
		WithUnit(2, "rifle", 7, 5), // distance 2, inside both ranges
	)
	scout := ts.Unit("scout", 0)
	target := ts.Unit("rifle", 0)

	scout.Attack(target)
	ts.RunTicks(1)
	if got := len(ts.Projectiles.Requests); got != 2 {
		t.Fatalf("first engaged tick fired %d slots, want 2", got)
	}

	// mg reloads in 10 ticks, flare in 60: after 12 more ticks only the mg
	// has fired again.
	ts.RunTicks(12)
	var mg, flare int
	for _, req := range ts.Projectiles.Requests {
		switch req.Spec.Name {
		case "mg":
			mg++
		case "flare":
			flare++
		}
	}
	if mg < 2 {
		t.Fatalf("mg shots = %d, want at least 2", mg)
	}
	if flare != 1 {
		t.Fatalf("flare shots = %d, want exactly 1", flare)
	}
}
