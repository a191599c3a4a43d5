// Package game owns one play session: the plane, dropped watermelons, the
// cat, the moving target and the power-up, plus the rules tying them
// together. Everything runs on the caller's frame goroutine except Post.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"

	"flight-game/internal/engineconfig"
	"flight-game/internal/flight"
	"flight-game/internal/input"
	"flight-game/internal/logger"
	"flight-game/internal/particles"
	"flight-game/internal/physics"
	"flight-game/internal/scenery"
)

// Clock is supplied by the caller once per frame. Now is time since the
// session started and drives every animation; the world never reads the
// system clock.
type Clock struct {
	Delta time.Duration
	Now   time.Duration
}

// World is the scene controller.
type World struct {
	cfg     engineconfig.Config
	log     *slog.Logger
	rng     *rand.Rand
	spawn   *spawner
	stepper *physics.Stepper

	particles *particles.System
	scenery   *scenery.Field

	plane   *flight.Plane
	melons  []*Watermelon
	cat     *Cat
	target  *Target
	powerUp *PowerUp

	score       int
	mode        int
	animate     bool
	crashFrames int
	hudVisible  bool
	now         time.Duration

	mu    sync.Mutex
	queue []func(*World)
}

// New validates a private deep copy of cfg and starts a session.
// A nil rng is replaced by one seeded from cfg.Prefs.Seed, or from
// the clock when that is zero. A nil log discards output.
func New(cfg engineconfig.Config, rng *rand.Rand, log *slog.Logger) (*World, error) {
	var own engineconfig.Config
	if err := copier.CopyWithOption(&own, &cfg, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy config: %w", err)
	}
	if err := own.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	if rng == nil {
		seed := own.Prefs.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	w := &World{
		cfg:        own,
		log:        log,
		rng:        rng,
		stepper:    physics.NewStepper(own.Physics.Step, own.Physics.MaxSteps),
		scenery:    scenery.New(own.Scenery),
		hudVisible: own.Prefs.HUDVisible,
	}
	w.spawn = newSpawner(&w.cfg, rng)
	w.particles = particles.New(own.Particles, rng)
	if err := w.Reset(); err != nil {
		return nil, err
	}
	return w, nil
}

// Reset starts the session over: a fresh plane at a random start altitude,
// new cat, target and power-up ahead of it, no melons, no debris, score 0.
// The difficulty mode is kept.
func (w *World) Reset() error {
	p, err := flight.New(w.cfg.Flight, w.cfg.Physics.Gravity)
	if err != nil {
		return err
	}
	alt := w.spawn.between(w.cfg.Flight.StartAltitudeMin, w.cfg.Flight.StartAltitudeMax)
	p.Place(mgl64.Vec3{0, alt, 0}, mgl64.Ident4())
	p.Velocity = mgl64.Vec3{0, 0, w.cfg.Flight.StartSpeed}

	w.plane = p
	w.melons = nil
	w.score = 0
	w.animate = true
	w.crashFrames = 0
	w.particles.Clear()
	w.stepper.Reset()

	heading := p.HorizontalHeading()
	w.cat = w.spawn.cat(p.Position, heading, w.mode)
	w.target = w.spawn.target(p.Position, heading, w.mode)
	w.powerUp = w.spawn.powerUp(p.Position, heading, w.mode)
	w.log.Info("session started", "altitude", alt, "mode", w.mode)
	return nil
}

// Post queues fn to run on the frame goroutine at the start of the next
// Frame. Safe for concurrent use.
func (w *World) Post(fn func(*World)) {
	w.mu.Lock()
	w.queue = append(w.queue, fn)
	w.mu.Unlock()
}

func (w *World) drain() {
	w.mu.Lock()
	q := w.queue
	w.queue = nil
	w.mu.Unlock()
	for _, fn := range q {
		fn(w)
	}
}

// Frame advances the session by one rendered frame.
func (w *World) Frame(clock Clock, in input.Source) {
	w.now = clock.Now
	w.drain()
	if in != nil {
		w.poll(in)
	}
	w.melons = slices.DeleteFunc(w.melons, func(m *Watermelon) bool { return m.Collided })

	alpha := 1.0
	if w.animate {
		steps, a := w.stepper.Advance(clock.Delta.Seconds())
		dt := w.cfg.Physics.Step
		if dt <= 0 {
			dt = clock.Delta.Seconds()
		}
		for range steps {
			w.plane.Step(dt, w.score)
			for _, m := range w.melons {
				m.Step(dt, nil)
			}
		}
		alpha = a
		w.resolve()
		w.updateEntities()
		w.respawn()
		w.checkPlaneDown()
	} else {
		w.crashFrames++
		if w.crashFrames >= w.cfg.Spawn.ResetFrames {
			if err := w.Reset(); err != nil {
				w.log.Error("reset failed", "err", err)
			}
		}
	}

	w.particles.Update(clock.Delta.Seconds())
	w.plane.BlendState(alpha)
	for _, m := range w.melons {
		m.BlendState(alpha)
	}
}

func (w *World) poll(in input.Source) {
	w.plane.Controls = flight.Controls{
		Thrust:       in.Pressed(input.Thrust),
		PitchForward: in.Pressed(input.PitchForward),
		PitchBack:    in.Pressed(input.PitchBack),
		RollLeft:     in.Pressed(input.RollLeft),
		RollRight:    in.Pressed(input.RollRight),
		YawLeft:      in.Pressed(input.YawLeft),
		YawRight:     in.Pressed(input.YawRight),
		Brake:        in.Pressed(input.Brake),
	}
	if in.Pressed(input.DropPayload) && w.animate {
		w.drop()
	}
	if in.Pressed(input.ChangeDifficulty) {
		w.mode = (w.mode + 1) % (MaxMode + 1)
		w.log.Info("difficulty changed", "mode", w.mode)
	}
	if in.Pressed(input.ToggleVisibility) {
		w.hudVisible = !w.hudVisible
	}
}

func (w *World) drop() {
	m, err := newMelon(w.cfg.Melon, w.cfg.Physics.Gravity, w.plane)
	if err != nil {
		w.log.Error("drop payload", "err", err)
		return
	}
	w.melons = append(w.melons, m)
	w.log.Debug("payload dropped", "position", m.Position)
}

func (w *World) resolve() {
	for _, m := range w.melons {
		if m.Collided {
			continue
		}
		outcome := Resolve(m, w.cat, w.target, &w.cfg, w.now)
		switch outcome {
		case Airborne:
			continue
		case HitCat:
			w.cat.Strike(w.now)
			w.score += w.cfg.Cat.Bonus
			w.particles.CatCollision(w.cat.Center, w.cat.Color)
		case HitTarget:
			w.target.MarkScored(w.now)
			w.score += targetScore(w.cfg.Target.ScoreBase, w.target.Radius)
			w.particles.WatermelonCollision(m.Position)
		case HitGround:
			w.particles.WatermelonCollision(m.Position)
		}
		m.Collided = true
		w.log.Info("payload landed", "outcome", outcome, "score", w.score)
	}
}

func (w *World) updateEntities() {
	w.target.Update(w.now)
	if w.powerUp.TryCollect(w.plane.Position, w.plane.Width) {
		w.score += w.cfg.PowerUp.Bonus
		w.log.Info("power-up collected", "score", w.score)
	}
}

func (w *World) respawn() {
	pos, heading := w.plane.Position, w.plane.HorizontalHeading()
	sp := w.cfg.Spawn
	if (w.cat.Hit && w.now-w.cat.HitAt >= w.cfg.Cat.RespawnDelay) || outOfPlay(w.cat.Center, pos, heading, sp) {
		w.cat = w.spawn.cat(pos, heading, w.mode)
		w.log.Debug("cat respawned", "center", w.cat.Center)
	}
	if outOfPlay(w.target.Center, pos, heading, sp) {
		w.target = w.spawn.target(pos, heading, w.mode)
		w.log.Debug("target respawned", "center", w.target.Center, "radius", w.target.Radius)
	}
	if outOfPlay(w.powerUp.Center, pos, heading, sp) {
		w.powerUp = w.spawn.powerUp(pos, heading, w.mode)
		w.log.Debug("power-up respawned", "center", w.powerUp.Center)
	}
}

func (w *World) checkPlaneDown() {
	low := w.plane.Altitude() < w.cfg.Flight.MinAltitude
	if !low && !planeHitsCat(w.plane, w.cat, catBox(w.cfg.Cat)) {
		return
	}
	w.animate = false
	w.crashFrames = 0
	w.particles.PlaneCollision(w.plane.Position)
	w.log.Info("plane down", "ground", low, "score", w.score, "position", w.plane.Position)
}

// Score is the current session score.
func (w *World) Score() int { return w.score }

// Mode is the difficulty mode, 0..MaxMode.
func (w *World) Mode() int { return w.mode }

// Crashed reports whether the plane is down and the session is waiting to reset.
func (w *World) Crashed() bool { return !w.animate }

// Plane returns the player's plane. It is replaced on every reset.
func (w *World) Plane() *flight.Plane { return w.plane }

// Melons returns the melons still in play.
func (w *World) Melons() []*Watermelon { return slices.Clone(w.melons) }

func (w *World) Cat() *Cat         { return w.cat }
func (w *World) Target() *Target   { return w.target }
func (w *World) PowerUp() *PowerUp { return w.powerUp }

// Particles exposes the debris system.
func (w *World) Particles() *particles.System { return w.particles }
