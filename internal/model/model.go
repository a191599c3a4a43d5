// Package model loads composite model definitions: each entity shape is a
// handful of unit primitives placed relative to the entity's origin.
package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"flight-game/internal/render"
)

// DefaultDir is where model files live, relative to the working directory.
const DefaultDir = "assets/models"

// ErrInvalid is wrapped by every model validation error.
var ErrInvalid = errors.New("model: invalid definition")

// Primitive meshes a part may use.
var primitives = map[render.Shape]bool{
	render.ShapeCube:     true,
	render.ShapeSphere:   true,
	render.ShapeCylinder: true,
	render.ShapeQuad:     true,
}

// Part is one primitive of a model.
type Part struct {
	Primitive render.Shape `yaml:"primitive"`
	Offset    [3]float64   `yaml:"offset,omitempty"`
	Scale     [3]float64   `yaml:"scale,omitempty"`
	// Rotate is Euler angles in degrees, applied X then Y then Z.
	Rotate [3]float64 `yaml:"rotate,omitempty"`
	// Color overrides the entity's material when set ("#rrggbb").
	Color string `yaml:"color,omitempty"`
}

// Model is the YAML document in assets/models/<shape>.yaml.
type Model struct {
	Shape render.Shape `yaml:"shape"`
	Parts []Part       `yaml:"parts"`
}

// Matrix is the part's placement in model space. Zero scale components
// count as 1.
func (p Part) Matrix() mgl64.Mat4 {
	s := p.Scale
	for i := range s {
		if s[i] == 0 {
			s[i] = 1
		}
	}
	r := mgl64.HomogRotate3DZ(mgl64.DegToRad(p.Rotate[2])).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(p.Rotate[1]))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(p.Rotate[0])))
	return mgl64.Translate3D(p.Offset[0], p.Offset[1], p.Offset[2]).
		Mul4(r).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// Material returns the part's material: its own color if set, else base.
func (p Part) Material(base render.Material) render.Material {
	if p.Color == "" {
		return base
	}
	if c, err := render.ParseHex(p.Color); err == nil {
		base.Color = c
	}
	return base
}

// Validate checks the model names a shape and only uses known primitives.
func (m Model) Validate() error {
	if m.Shape == "" {
		return fmt.Errorf("%w: missing shape", ErrInvalid)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("%w: %s has no parts", ErrInvalid, m.Shape)
	}
	for i, p := range m.Parts {
		if !primitives[p.Primitive] {
			return fmt.Errorf("%w: %s part %d uses unknown primitive %q", ErrInvalid, m.Shape, i, p.Primitive)
		}
		if p.Color != "" {
			if _, err := render.ParseHex(p.Color); err != nil {
				return fmt.Errorf("%w: %s part %d: %v", ErrInvalid, m.Shape, i, err)
			}
		}
	}
	return nil
}

// Parse decodes and validates one model document.
func Parse(data []byte) (Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("parse model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// LoadDir reads every *.yaml file in dir concurrently, one goroutine per
// file. The first failure cancels the rest and is returned. Two files
// defining the same shape is an error.
func LoadDir(ctx context.Context, dir string) (map[render.Shape]Model, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}

	var (
		mu     sync.Mutex
		models = make(map[render.Shape]Model)
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			m, err := Parse(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if _, dup := models[m.Shape]; dup {
				return fmt.Errorf("%s: %w: shape %s defined twice", path, ErrInvalid, m.Shape)
			}
			models[m.Shape] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}
