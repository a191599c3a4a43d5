// Package engineconfig holds the engine preferences and every gameplay
// tunable. Values live in a YAML file and a Config is passed explicitly to
// the packages that need it.
package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the config file path, relative to the process working directory.
const ConfigPath = "config/game.yaml"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("engineconfig: invalid value")

// Vec3 is a plain x, y, z triple as written in YAML.
type Vec3 [3]float64

// Prefs holds engine-only preferences (overlays, grid, window). Persisted across runs.
type Prefs struct {
	ShowFPS      bool `yaml:"show_fps"`
	ShowMemAlloc bool `yaml:"show_memalloc"`
	GridVisible  bool `yaml:"grid_visible"`
	Fullscreen   bool `yaml:"fullscreen"`
	HUDVisible   bool `yaml:"hud_visible"`
	WindowWidth  int  `yaml:"window_width"`
	WindowHeight int  `yaml:"window_height"`
	// Seed for gameplay randomness. 0 picks one from the wall clock at startup.
	Seed uint64 `yaml:"seed"`
}

// Physics controls the fixed-timestep loop.
type Physics struct {
	Step     float64 `yaml:"step"`      // seconds per step
	MaxSteps int     `yaml:"max_steps"` // per frame, 0 = unlimited
	Gravity  float64 `yaml:"gravity"`   // acceleration, multiplied by mass
}

// Profile is one difficulty tier of the plane's aerodynamics.
type Profile struct {
	Thrust float64 `yaml:"thrust"`
	Drag   float64 `yaml:"drag"`
	Lift   float64 `yaml:"lift"`
}

// Flight holds the plane's body and force generator constants.
type Flight struct {
	Mass    float64 `yaml:"mass"`
	Inertia float64 `yaml:"inertia"`
	Width   float64 `yaml:"width"`

	Slow Profile `yaml:"slow"`
	Fast Profile `yaml:"fast"`
	// Score at which Fast replaces Slow.
	FastScoreThreshold int `yaml:"fast_score_threshold"`

	BrakeDrag       float64 `yaml:"brake_drag"`
	VerticalDrag    float64 `yaml:"vertical_drag"`
	LiftPoint       Vec3    `yaml:"lift_point"`
	RollCorrection  float64 `yaml:"roll_correction"`
	PitchCorrection float64 `yaml:"pitch_correction"`
	AngularDrag     float64 `yaml:"angular_drag"`
	PitchStrength   float64 `yaml:"pitch_strength"`
	RollStrength    float64 `yaml:"roll_strength"`
	YawStrength     float64 `yaml:"yaw_strength"`

	StartAltitudeMin float64 `yaml:"start_altitude_min"`
	StartAltitudeMax float64 `yaml:"start_altitude_max"`
	StartSpeed       float64 `yaml:"start_speed"`
	MinAltitude      float64 `yaml:"min_altitude"`
}

// ProfileFor returns the profile in effect at the given score.
func (f Flight) ProfileFor(score int) Profile {
	if score >= f.FastScoreThreshold {
		return f.Fast
	}
	return f.Slow
}

// Melon holds the watermelon projectile constants.
type Melon struct {
	Mass         float64 `yaml:"mass"`
	Inertia      float64 `yaml:"inertia"`
	Width        float64 `yaml:"width"`
	GroundHeight float64 `yaml:"ground_height"`
	// Offset below the plane at release, in plane space.
	DropOffset Vec3 `yaml:"drop_offset"`
}

// Cat holds the hazard constants.
type Cat struct {
	BoxMin       Vec3          `yaml:"box_min"`
	BoxMax       Vec3          `yaml:"box_max"`
	GrowthPeriod time.Duration `yaml:"growth_period"`
	MaxGrowth    float64       `yaml:"max_growth"`
	Bonus        int           `yaml:"bonus"`
	RespawnDelay time.Duration `yaml:"respawn_delay"`
	Colors       []string      `yaml:"colors"`
}

// Target holds the moving objective constants.
type Target struct {
	Height    float64       `yaml:"height"`
	Tolerance float64       `yaml:"tolerance"`
	ScoreBase int           `yaml:"score_base"`
	RadiusMin float64       `yaml:"radius_min"`
	RadiusMax float64       `yaml:"radius_max"`
	Highlight time.Duration `yaml:"highlight"`
	Knots     int           `yaml:"knots"`
	// Half extent of the trajectory knots around the spawn point at mode 0.
	Spread float64 `yaml:"spread"`
}

// PowerUp holds the pickup constants.
type PowerUp struct {
	Radius float64 `yaml:"radius"`
	Bonus  int     `yaml:"bonus"`
	Height float64 `yaml:"height"`
}

// Spawn holds the respawn and reset policy.
type Spawn struct {
	RespawnBehind float64 `yaml:"respawn_behind"`
	RespawnFar    float64 `yaml:"respawn_far"`
	AheadMin      float64 `yaml:"ahead_min"`
	AheadMax      float64 `yaml:"ahead_max"`
	// Lateral spread at mode 0; each mode adds SpreadPerMode.
	Lateral       float64 `yaml:"lateral"`
	SpreadPerMode float64 `yaml:"spread_per_mode"`
	ResetFrames   int     `yaml:"reset_frames"`
}

// Particles holds the debris simulation constants.
type Particles struct {
	Step         float64 `yaml:"step"`
	MaxCatchUp   int     `yaml:"max_catch_up"`
	MaxAge       int     `yaml:"max_age"`
	MaxParticles int     `yaml:"max_particles"`
	PruneBatch   int     `yaml:"prune_batch"`
	Gravity      Vec3    `yaml:"gravity"`
	GroundKs     float64 `yaml:"ground_ks"`
	GroundKd     float64 `yaml:"ground_kd"`
	Jitter       float64 `yaml:"jitter"`
	Method       string  `yaml:"method"` // "symplectic" or "euler"
}

// Scenery holds the cloud field constants.
type Scenery struct {
	Seed      int64   `yaml:"seed"`
	CellSize  float64 `yaml:"cell_size"`
	Radius    float64 `yaml:"radius"`
	Density   float64 `yaml:"density"`
	MinHeight float64 `yaml:"min_height"`
	MaxHeight float64 `yaml:"max_height"`
}

// Config is the whole file.
type Config struct {
	Prefs     Prefs     `yaml:"prefs"`
	Physics   Physics   `yaml:"physics"`
	Flight    Flight    `yaml:"flight"`
	Melon     Melon     `yaml:"melon"`
	Cat       Cat       `yaml:"cat"`
	Target    Target    `yaml:"target"`
	PowerUp   PowerUp   `yaml:"powerup"`
	Spawn     Spawn     `yaml:"spawn"`
	Particles Particles `yaml:"particles"`
	Scenery   Scenery   `yaml:"scenery"`
	// Keys maps action names to raylib key names, e.g. thrust: "W".
	Keys map[string]string `yaml:"keys"`
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		Prefs: Prefs{
			GridVisible:  true,
			HUDVisible:   true,
			WindowWidth:  1280,
			WindowHeight: 720,
		},
		Physics: Physics{Step: 1.0 / 60, MaxSteps: 10, Gravity: 0.8},
		Flight: Flight{
			Mass:               100,
			Inertia:            50,
			Width:              5,
			Slow:               Profile{Thrust: 90, Drag: 4, Lift: 3},
			Fast:               Profile{Thrust: 120, Drag: 1.2, Lift: 1},
			FastScoreThreshold: 50,
			BrakeDrag:          1.5,
			VerticalDrag:       8,
			LiftPoint:          Vec3{0, 0, 0.0005},
			RollCorrection:     0.1,
			PitchCorrection:    0.5,
			AngularDrag:        15,
			PitchStrength:      1.6,
			RollStrength:       1.6,
			YawStrength:        1.2,
			StartAltitudeMin:   30,
			StartAltitudeMax:   40,
			StartSpeed:         5,
			MinAltitude:        0.5,
		},
		Melon: Melon{
			Mass:         50,
			Inertia:      50,
			Width:        3,
			GroundHeight: 0.5,
			DropOffset:   Vec3{0, -2, 0},
		},
		Cat: Cat{
			BoxMin:       Vec3{-4, 0, -4},
			BoxMax:       Vec3{4, 16, 4},
			GrowthPeriod: 150 * time.Millisecond,
			MaxGrowth:    3,
			Bonus:        10,
			RespawnDelay: 2 * time.Second,
			Colors:       []string{"#f2c14e", "#8d6a9f", "#e27d60", "#5d576b", "#f4f1bb"},
		},
		Target: Target{
			Height:    2,
			Tolerance: 1.2,
			ScoreBase: 12,
			RadiusMin: 3,
			RadiusMax: 8,
			Highlight: 500 * time.Millisecond,
			Knots:     4,
			Spread:    30,
		},
		PowerUp: PowerUp{Radius: 3, Bonus: 5, Height: 25},
		Spawn: Spawn{
			RespawnBehind: 100,
			RespawnFar:    600,
			AheadMin:      150,
			AheadMax:      300,
			Lateral:       40,
			SpreadPerMode: 30,
			ResetFrames:   120,
		},
		Particles: Particles{
			Step:         0.001,
			MaxCatchUp:   100,
			MaxAge:       250,
			MaxParticles: 150,
			PruneBatch:   50,
			Gravity:      Vec3{0, -9.8, 0},
			GroundKs:     5000,
			GroundKd:     1,
			Jitter:       0.2,
			Method:       "symplectic",
		},
		Scenery: Scenery{
			Seed:      7,
			CellSize:  60,
			Radius:    600,
			Density:   0.55,
			MinHeight: 45,
			MaxHeight: 80,
		},
		Keys: map[string]string{
			"thrust":            "W",
			"pitch_forward":     "UP",
			"pitch_back":        "DOWN",
			"roll_left":         "LEFT",
			"roll_right":        "RIGHT",
			"yaw_left":          "A",
			"yaw_right":         "D",
			"brake":             "S",
			"drop_payload":      "SPACE",
			"change_difficulty": "M",
			"toggle_visibility": "H",
		},
	}
}

// Load reads the config at path over the defaults. A missing file yields
// Default() and no error; a malformed or invalid file yields Default() and
// the error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the simulation cannot run with. Every problem is
// reported, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}
	positive("physics.step", c.Physics.Step)
	positive("flight.mass", c.Flight.Mass)
	positive("flight.inertia", c.Flight.Inertia)
	positive("flight.width", c.Flight.Width)
	positive("melon.mass", c.Melon.Mass)
	positive("melon.inertia", c.Melon.Inertia)
	positive("melon.width", c.Melon.Width)
	positive("cat.growth_period", float64(c.Cat.GrowthPeriod))
	positive("target.radius_min", c.Target.RadiusMin)
	positive("target.tolerance", c.Target.Tolerance)
	positive("powerup.radius", c.PowerUp.Radius)
	positive("particles.step", c.Particles.Step)
	positive("scenery.cell_size", c.Scenery.CellSize)

	if c.Target.RadiusMax < c.Target.RadiusMin {
		errs = append(errs, fmt.Errorf("%w: target.radius_max %v below radius_min %v", ErrInvalid, c.Target.RadiusMax, c.Target.RadiusMin))
	}
	if c.Target.Knots < 2 {
		errs = append(errs, fmt.Errorf("%w: target.knots must be at least 2, got %d", ErrInvalid, c.Target.Knots))
	}
	if c.Particles.MaxAge <= 0 || c.Particles.MaxParticles <= 0 {
		errs = append(errs, fmt.Errorf("%w: particles.max_age and max_particles must be positive", ErrInvalid))
	}
	if c.Flight.StartAltitudeMax < c.Flight.StartAltitudeMin {
		errs = append(errs, fmt.Errorf("%w: flight.start_altitude_max below start_altitude_min", ErrInvalid))
	}
	switch c.Particles.Method {
	case "", "symplectic", "euler":
	default:
		errs = append(errs, fmt.Errorf("%w: particles.method %q", ErrInvalid, c.Particles.Method))
	}
	return errors.Join(errs...)
}
