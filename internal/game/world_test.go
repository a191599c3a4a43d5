package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"

	"flight-game/internal/engineconfig"
	"flight-game/internal/input"
	inputmocks "flight-game/internal/input/mocks"
	"flight-game/internal/physics"
	"flight-game/internal/render"
	"flight-game/internal/render/mocks"
	"flight-game/internal/spline"
)

const frameDelta = 20 * time.Millisecond

func newWorld(t testing.TB) *World {
	t.Helper()
	w, err := New(engineconfig.Default(), rand.New(rand.NewPCG(1, 2)), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func addMelon(t testing.TB, w *World, pos mgl64.Vec3) *Watermelon {
	t.Helper()
	b, err := physics.NewBody(w.cfg.Melon.Mass, w.cfg.Melon.Inertia)
	if err != nil {
		t.Fatal(err)
	}
	b.SetForce(physics.Gravity, mgl64.Vec3{0, -w.cfg.Physics.Gravity * w.cfg.Melon.Mass, 0})
	b.Place(pos, mgl64.Ident4())
	m := &Watermelon{Body: b, Width: w.cfg.Melon.Width}
	w.melons = append(w.melons, m)
	return m
}

// staticTarget returns a target that stays at center.
func staticTarget(t testing.TB, center mgl64.Vec3, radius float64) *Target {
	t.Helper()
	h, err := spline.NewHermite(spline.Knot{Point: center}, spline.Knot{Point: center})
	if err != nil {
		t.Fatal(err)
	}
	return NewTarget(radius, h)
}

// clearField moves every entity far enough away that nothing collides.
func clearField(t testing.TB, w *World) {
	t.Helper()
	w.cat = NewCat(mgl64.Vec3{0, 0, 400}, render.Gray)
	w.target = staticTarget(t, mgl64.Vec3{50, 0, 400}, 5)
	w.powerUp.Valid = false
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.Melon.Mass = 0
	_, err := New(cfg, rand.New(rand.NewPCG(1, 1)), nil)
	if !errors.Is(err, engineconfig.ErrInvalid) {
		t.Fatalf("New() err = %v, want ErrInvalid", err)
	}
}

func TestNew_DeepCopiesConfig(t *testing.T) {
	cfg := engineconfig.Default()
	w, err := New(cfg, rand.New(rand.NewPCG(1, 1)), nil)
	if err != nil {
		t.Fatal(err)
	}
	wantColor := w.cfg.Cat.Colors[0]
	cfg.Cat.Colors[0] = "#000000"
	cfg.Keys["thrust"] = "X"
	if w.cfg.Cat.Colors[0] != wantColor {
		t.Errorf("cat colors shared with caller")
	}
	if w.cfg.Keys["thrust"] == "X" {
		t.Errorf("key map shared with caller")
	}
}

func TestNew_StartsInFlight(t *testing.T) {
	w := newWorld(t)
	fc := w.cfg.Flight
	if alt := w.Plane().Altitude(); alt < fc.StartAltitudeMin || alt > fc.StartAltitudeMax {
		t.Errorf("altitude = %v, want in [%v, %v]", alt, fc.StartAltitudeMin, fc.StartAltitudeMax)
	}
	if w.Crashed() || w.Score() != 0 || len(w.Melons()) != 0 {
		t.Errorf("fresh world: crashed=%v score=%d melons=%d", w.Crashed(), w.Score(), len(w.Melons()))
	}
	if !w.PowerUp().Valid {
		t.Errorf("power-up should start valid")
	}
}

func TestNew_NilRandUsesConfigSeed(t *testing.T) {
	cfg := engineconfig.Default()
	cfg.Prefs.Seed = 42
	a, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Cat().Center != b.Cat().Center || a.PowerUp().Center != b.PowerUp().Center {
		t.Errorf("same seed spawned differently: cat %v vs %v", a.Cat().Center, b.Cat().Center)
	}
	a.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
}

func TestResolve_CatCollision(t *testing.T) {
	w := newWorld(t)
	far := staticTarget(t, mgl64.Vec3{500, 0, 500}, 5)

	m := addMelon(t, w, mgl64.Vec3{10, 2, 10})
	if got := Resolve(m, NewCat(mgl64.Vec3{10, 0, 10}, render.Gray), far, &w.cfg, 0); got != HitCat {
		t.Errorf("melon over cat: Resolve() = %v, want cat", got)
	}
	if got := Resolve(m, NewCat(mgl64.Vec3{1010, 0, 10}, render.Gray), far, &w.cfg, 0); got != Airborne {
		t.Errorf("cat 1000 away: Resolve() = %v, want airborne", got)
	}
}

func TestResolve_Order(t *testing.T) {
	w := newWorld(t)
	spot := mgl64.Vec3{0, 0.2, 0}
	m := addMelon(t, w, spot)

	tests := []struct {
		name  string
		setup func(c *Cat, tg *Target)
		now   time.Duration
		want  Outcome
	}{
		{"cat first", func(*Cat, *Target) {}, 0, HitCat},
		{"hit cat skipped", func(c *Cat, _ *Target) { c.Strike(0) }, 0, HitTarget},
		{"highlighted target skipped", func(c *Cat, tg *Target) {
			c.Strike(0)
			tg.MarkScored(0)
		}, 100 * time.Millisecond, HitGround},
		{"highlight expired", func(c *Cat, tg *Target) {
			c.Strike(0)
			tg.MarkScored(0)
		}, time.Second, HitTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCat(mgl64.Vec3{}, render.Gray)
			tg := staticTarget(t, mgl64.Vec3{}, 5)
			tt.setup(c, tg)
			if got := Resolve(m, c, tg, &w.cfg, tt.now); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHitsTarget(t *testing.T) {
	tg := staticTarget(t, mgl64.Vec3{0, 0, 0}, 5)
	tests := []struct {
		name string
		pos  mgl64.Vec3
		want bool
	}{
		{"above center", mgl64.Vec3{0, 1, 0}, true},
		{"inside tolerance", mgl64.Vec3{5.9, 1, 0}, true},
		{"outside tolerance", mgl64.Vec3{6.1, 1, 0}, false},
		{"too high", mgl64.Vec3{0, 2, 0}, false},
		{"planar only", mgl64.Vec3{3, -50, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := physics.NewBody(1, 1)
			b.Place(tt.pos, mgl64.Ident4())
			m := &Watermelon{Body: b, Width: 3}
			if got := m.HitsTarget(tg, 2, 1.2); got != tt.want {
				t.Errorf("HitsTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrame_TargetScoresOncePerHighlight(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.target = staticTarget(t, mgl64.Vec3{0, 0, 50}, 5)

	addMelon(t, w, mgl64.Vec3{0, 1, 50})
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if w.Score() != 7 {
		t.Fatalf("score after hit = %d, want 7", w.Score())
	}
	if !w.Target().Highlighted(frameDelta, w.cfg.Target.Highlight) {
		t.Errorf("target not highlighted after hit")
	}

	second := addMelon(t, w, mgl64.Vec3{0, 1, 50})
	w.Frame(Clock{Delta: frameDelta, Now: 2 * frameDelta}, nil)
	if w.Score() != 7 {
		t.Errorf("score during highlight = %d, want 7", w.Score())
	}
	if second.Collided {
		t.Errorf("melon above a highlighted target should keep falling")
	}
	if n := len(w.Melons()); n != 1 {
		t.Errorf("melons in play = %d, want 1 (first filtered out)", n)
	}
}

func TestFrame_CatHitRespawnsAfterDelay(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.cat = NewCat(mgl64.Vec3{0, 0, 50}, render.Gray)
	hitCat := w.cat

	addMelon(t, w, mgl64.Vec3{0, 1, 50})
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if w.Score() != w.cfg.Cat.Bonus {
		t.Fatalf("score = %d, want %d", w.Score(), w.cfg.Cat.Bonus)
	}
	if !hitCat.Hit {
		t.Fatal("cat not marked hit")
	}
	if w.Particles().Len() != 54 {
		t.Errorf("debris = %d, want 54", w.Particles().Len())
	}

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta + w.cfg.Cat.RespawnDelay/2}, nil)
	if w.Cat() != hitCat {
		t.Fatal("cat replaced before the respawn delay")
	}
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta + w.cfg.Cat.RespawnDelay}, nil)
	if w.Cat() == hitCat || w.Cat().Hit {
		t.Errorf("cat not replaced after the respawn delay")
	}
}

func TestFrame_RespawnsEntitiesBehindPlane(t *testing.T) {
	w := newWorld(t)
	p := w.Plane()
	heading := p.HorizontalHeading()
	behind := p.Position.Sub(heading.Mul(w.cfg.Spawn.RespawnBehind + 10))

	w.cat = NewCat(behind, render.Gray)
	w.target = staticTarget(t, mgl64.Vec3{behind.X(), 0, behind.Z()}, 4)
	w.powerUp = &PowerUp{Center: p.Position.Add(mgl64.Vec3{w.cfg.Spawn.RespawnFar + 1, 0, 0}), Radius: 3}
	oldCat, oldTarget, oldPowerUp := w.cat, w.target, w.powerUp

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)

	if w.Cat() == oldCat || w.Target() == oldTarget || w.PowerUp() == oldPowerUp {
		t.Fatalf("entities out of play were not replaced")
	}
	for name, c := range map[string]mgl64.Vec3{"cat": w.Cat().Center, "powerup": w.PowerUp().Center} {
		if d := c.Sub(p.Position).Dot(heading); d < w.cfg.Spawn.AheadMin-1 {
			t.Errorf("%s respawned %v ahead, want at least %v", name, d, w.cfg.Spawn.AheadMin)
		}
	}
	if !w.PowerUp().Valid {
		t.Errorf("respawned power-up is not valid")
	}
}

func TestFrame_PowerUpCollectedOnce(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.powerUp = &PowerUp{Center: w.Plane().Position, Radius: 3, Valid: true}

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	w.Frame(Clock{Delta: frameDelta, Now: 2 * frameDelta}, nil)
	if w.Score() != w.cfg.PowerUp.Bonus {
		t.Errorf("score = %d, want %d", w.Score(), w.cfg.PowerUp.Bonus)
	}
	if w.PowerUp().Valid {
		t.Errorf("power-up still valid after collection")
	}
}

func TestFrame_DropPayload(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.Plane().Velocity = mgl64.Vec3{3, -2, 8}

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, input.State{input.DropPayload: true})
	ms := w.Melons()
	if len(ms) != 1 {
		t.Fatalf("melons = %d, want 1", len(ms))
	}
	if ms[0].Position.Y() >= w.Plane().Position.Y() {
		t.Errorf("melon released above the plane")
	}

	w.animate = false
	w.Frame(Clock{Delta: frameDelta, Now: 2 * frameDelta}, input.State{input.DropPayload: true})
	if n := len(w.Melons()); n != 1 {
		t.Errorf("melons after drop while crashed = %d, want 1", n)
	}
}

func TestNewMelon_InheritsHorizontalVelocity(t *testing.T) {
	w := newWorld(t)
	p := w.Plane()
	p.Velocity = mgl64.Vec3{3, -2, 8}
	m, err := newMelon(w.cfg.Melon, w.cfg.Physics.Gravity, p)
	if err != nil {
		t.Fatal(err)
	}
	if m.Velocity != (mgl64.Vec3{3, 0, 8}) {
		t.Errorf("Velocity = %v, want (3,0,8)", m.Velocity)
	}
	want := p.Position.Add(mgl64.Vec3(w.cfg.Melon.DropOffset))
	if m.Position.Sub(want).Len() > 1e-9 {
		t.Errorf("Position = %v, want %v", m.Position, want)
	}
	if m.Orientation != p.Orientation {
		t.Errorf("melon orientation differs from plane")
	}
}

func TestFrame_PollsEachActionOnce(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	ctrl := gomock.NewController(t)
	src := inputmocks.NewMockSource(ctrl)
	for a := range input.NumActions {
		src.EXPECT().Pressed(a).Return(a == input.DropPayload).Times(2)
	}

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, src)
	w.Frame(Clock{Delta: frameDelta, Now: 2 * frameDelta}, src)
	if n := len(w.Melons()); n != 2 {
		t.Errorf("melons = %d, want one per reported press", n)
	}
}

func TestFrame_ChangeDifficultyCycles(t *testing.T) {
	w := newWorld(t)
	press := input.State{input.ChangeDifficulty: true}
	for i, want := range []int{1, 2, 3, 0, 1} {
		w.Frame(Clock{Delta: frameDelta, Now: time.Duration(i+1) * frameDelta}, press)
		if w.Mode() != want {
			t.Fatalf("press %d: mode = %d, want %d", i+1, w.Mode(), want)
		}
	}
	if got := w.HUD().Difficulty; got != "mode 1 / slow" {
		t.Errorf("Difficulty = %q, want %q", got, "mode 1 / slow")
	}
}

func TestFrame_ToggleVisibility(t *testing.T) {
	w := newWorld(t)
	before := w.HUD().Visible
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, input.State{input.ToggleVisibility: true})
	if w.HUD().Visible == before {
		t.Errorf("HUD visibility not toggled")
	}
}

func TestFrame_FastProfileAtThreshold(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.score = w.cfg.Flight.FastScoreThreshold
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if !strings.HasSuffix(w.HUD().Difficulty, "/ fast") {
		t.Errorf("Difficulty = %q, want fast profile", w.HUD().Difficulty)
	}
}

func TestFrame_HeldControlsReachPlane(t *testing.T) {
	w := newWorld(t)
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, input.State{input.Thrust: true, input.YawLeft: true})
	c := w.Plane().Controls
	if !c.Thrust || !c.YawLeft || c.Brake {
		t.Errorf("Controls = %+v", c)
	}
}

func TestFrame_CrashThenReset(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.score = 20
	w.Plane().Place(mgl64.Vec3{0, 0.1, 0}, mgl64.Ident4())

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if !w.Crashed() {
		t.Fatal("plane below minimum altitude did not crash")
	}
	if !w.HUD().Crashed {
		t.Errorf("HUD does not report the crash")
	}
	debris := w.Particles().Len()
	if debris == 0 {
		t.Fatal("no wreck debris")
	}
	crashed := w.Plane()

	for i := 1; i < w.cfg.Spawn.ResetFrames; i++ {
		w.Frame(Clock{Delta: frameDelta, Now: time.Duration(i+1) * frameDelta}, nil)
		if !w.Crashed() {
			t.Fatalf("reset after %d frames, want %d", i, w.cfg.Spawn.ResetFrames)
		}
	}
	if w.Particles().Len() > debris {
		t.Errorf("wreck burst fired more than once")
	}

	w.Frame(Clock{Delta: frameDelta, Now: time.Hour}, nil)
	if w.Crashed() {
		t.Fatal("session did not reset")
	}
	if w.Plane() == crashed || w.Score() != 0 || w.Particles().Len() != 0 {
		t.Errorf("after reset: new plane=%v score=%d debris=%d", w.Plane() != crashed, w.Score(), w.Particles().Len())
	}
}

func TestFrame_PlaneIntoCatCrashes(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	p := w.Plane()
	w.cat = NewCat(mgl64.Vec3{p.Position.X(), 0, p.Position.Z()}, render.Gray)
	p.Place(mgl64.Vec3{p.Position.X(), 3, p.Position.Z()}, mgl64.Ident4())

	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if !w.Crashed() {
		t.Errorf("plane inside the cat box did not crash")
	}
}

func TestPost_AppliedAtFrameBoundary(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)

	var g errgroup.Group
	for range 4 {
		g.Go(func() error {
			w.Post(func(w *World) { w.score += 10 })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if w.Score() != 0 {
		t.Fatalf("posted mutation applied before the frame: score %d", w.Score())
	}
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)
	if w.Score() != 40 {
		t.Errorf("score = %d, want 40", w.Score())
	}
	w.Frame(Clock{Delta: frameDelta, Now: 2 * frameDelta}, nil)
	if w.Score() != 40 {
		t.Errorf("queued mutations ran twice: score %d", w.Score())
	}
}

func TestShowHUD_PassesSnapshot(t *testing.T) {
	w := newWorld(t)
	w.score = 12
	w.mode = 2

	ctrl := gomock.NewController(t)
	sink := mocks.NewMockHUDSink(ctrl)
	var got render.HUD
	sink.EXPECT().Show(gomock.Any()).
		Do(func(h render.HUD) { got = h }).
		Times(1)

	w.ShowHUD(sink)

	if got != w.HUD() {
		t.Errorf("shown %+v, want %+v", got, w.HUD())
	}
	if got.Score != 12 || !strings.HasPrefix(got.Difficulty, "mode 2") {
		t.Errorf("score=%d difficulty=%q", got.Score, got.Difficulty)
	}
}

func TestRender_DrawsEachEntityOnce(t *testing.T) {
	w := newWorld(t)
	clearField(t, w)
	w.powerUp.Valid = true
	addMelon(t, w, mgl64.Vec3{0, 20, 0})
	w.Frame(Clock{Delta: frameDelta, Now: frameDelta}, nil)

	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	counts := map[render.Shape]int{}
	sink.EXPECT().Draw(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(s render.Shape, _ mgl64.Mat4, _ render.Material) { counts[s]++ }).
		AnyTimes()

	w.Render(sink)

	want := map[render.Shape]int{
		render.ShapeAirplane: 1,
		render.ShapeMelon:    1,
		render.ShapeCat:      1,
		render.ShapeTarget:   3,
		render.ShapePowerUp:  1,
		render.ShapeDebris:   0,
	}
	for shape, n := range want {
		if counts[shape] != n {
			t.Errorf("%s drawn %d times, want %d", shape, counts[shape], n)
		}
	}
}

func TestCat_Growth(t *testing.T) {
	cfg := engineconfig.Default().Cat
	c := NewCat(mgl64.Vec3{1, 5, 2}, render.Gray)
	if c.Center.Y() != 0 {
		t.Errorf("cat not on the ground: %v", c.Center)
	}
	if g := c.Growth(time.Second, cfg); g != 0 {
		t.Errorf("Growth before hit = %v", g)
	}
	c.Strike(time.Second)
	if g := c.Growth(time.Second+cfg.GrowthPeriod/2, cfg); math.Abs(g-0.5) > 1e-9 {
		t.Errorf("Growth half period = %v, want 0.5", g)
	}
	if g := c.Growth(time.Hour, cfg); g != cfg.MaxGrowth {
		t.Errorf("Growth = %v, want cap %v", g, cfg.MaxGrowth)
	}
}

func TestTarget_FollowsTrajectory(t *testing.T) {
	h, err := spline.NewHermite(
		spline.Knot{Point: mgl64.Vec3{0, 0, 0}},
		spline.Knot{Point: mgl64.Vec3{10, 0, 0}},
	)
	if err != nil {
		t.Fatal(err)
	}
	tg := NewTarget(4, h)
	start := 3 * time.Second
	tg.Update(start)
	if tg.Center.Len() > 1e-9 {
		t.Errorf("first update center = %v, want trajectory start", tg.Center)
	}
	half := 2 * math.Pi
	tg.Update(start + time.Duration(half*float64(time.Second)))
	if tg.Center.Sub(mgl64.Vec3{10, 0, 0}).Len() > 1e-6 {
		t.Errorf("half period center = %v, want trajectory end", tg.Center)
	}
}

func TestPowerUp_TryCollect(t *testing.T) {
	tests := []struct {
		name  string
		plane mgl64.Vec3
		valid bool
		want  bool
	}{
		{"touching", mgl64.Vec3{7.9, 0, 0}, true, true},
		{"just apart", mgl64.Vec3{8, 0, 0}, true, false},
		{"already taken", mgl64.Vec3{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PowerUp{Radius: 3, Valid: tt.valid}
			if got := p.TryCollect(tt.plane, 5); got != tt.want {
				t.Errorf("TryCollect() = %v, want %v", got, tt.want)
			}
			if tt.want && p.Valid {
				t.Errorf("power-up still valid")
			}
		})
	}
}

func TestTargetScore(t *testing.T) {
	if got := targetScore(12, 5); got != 7 {
		t.Errorf("targetScore(12, 5) = %d, want 7", got)
	}
	if got := targetScore(12, 30); got != 1 {
		t.Errorf("targetScore(12, 30) = %d, want 1", got)
	}
}

func TestSpawner_PlacesAheadInPlay(t *testing.T) {
	cfg := engineconfig.Default()
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		angle := rapid.Float64Range(0, 2*math.Pi).Draw(t, "angle")
		mode := rapid.IntRange(0, MaxMode).Draw(t, "mode")
		s := newSpawner(&cfg, rand.New(rand.NewPCG(seed, 1)))

		from := mgl64.Vec3{rapid.Float64Range(-1e4, 1e4).Draw(t, "x"), 35, rapid.Float64Range(-1e4, 1e4).Draw(t, "z")}
		heading := mgl64.Vec3{math.Sin(angle), 0, math.Cos(angle)}
		p := s.ahead(from, heading, mode)
		if p.Y() != 0 {
			t.Fatalf("spawn height = %v", p.Y())
		}
		d := p.Sub(from).Dot(heading)
		if d < cfg.Spawn.AheadMin-1e-6 || d > cfg.Spawn.AheadMax+1e-6 {
			t.Fatalf("spawned %v ahead, want in [%v, %v]", d, cfg.Spawn.AheadMin, cfg.Spawn.AheadMax)
		}
		if outOfPlay(p, from, heading, cfg.Spawn) {
			t.Fatalf("fresh spawn %v is already out of play", p)
		}
	})
}
