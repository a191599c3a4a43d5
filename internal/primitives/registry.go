// Package primitives draws render.Sink calls with raylib. Entity shapes are
// composite models of unit primitives; shapes without a loaded model fall
// back to a single primitive so the scene is visible before models arrive.
package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/model"
	"flight-game/internal/render"
)

// cached holds the mesh and material for one primitive. Created lazily on
// first draw so GPU resources are allocated after the window exists.
type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
	// offset recenters meshes that raylib does not generate around the origin.
	offset mgl64.Mat4
}

const (
	sphereRings    = 16
	sphereSlices   = 16
	cylinderSlices = 16
)

var meshes = map[render.Shape]func() rl.Mesh{
	render.ShapeCube:     func() rl.Mesh { return rl.GenMeshCube(1, 1, 1) },
	render.ShapeSphere:   func() rl.Mesh { return rl.GenMeshSphere(0.5, sphereRings, sphereSlices) },
	render.ShapeCylinder: func() rl.Mesh { return rl.GenMeshCylinder(0.5, 1, cylinderSlices) },
	render.ShapeQuad:     func() rl.Mesh { return rl.GenMeshPlane(1, 1, 1, 1) },
}

// fallback is drawn for an entity shape until its model is installed.
var fallback = map[render.Shape]model.Part{
	render.ShapeAirplane: {Primitive: render.ShapeCube, Scale: [3]float64{5, 1, 6}},
	render.ShapeMelon:    {Primitive: render.ShapeSphere, Scale: [3]float64{3, 2, 2}},
	render.ShapeCat:      {Primitive: render.ShapeCube, Offset: [3]float64{0, 8, 0}, Scale: [3]float64{8, 16, 8}},
	render.ShapeTarget:   {Primitive: render.ShapeCylinder, Scale: [3]float64{2, 0.05, 2}},
	render.ShapePowerUp:  {Primitive: render.ShapeSphere, Scale: [3]float64{2, 2, 2}},
	render.ShapeCloud:    {Primitive: render.ShapeSphere, Scale: [3]float64{10, 6, 8}},
	render.ShapeDebris:   {Primitive: render.ShapeCube},
}

// Registry implements render.Sink on top of raylib meshes.
type Registry struct {
	cache    map[render.Shape]cached
	models   map[render.Shape]model.Model
	viewPos  [3]float32
	lightDir [3]float32 // direction to the light, need not be normalized
}

// NewRegistry returns a registry with no meshes and no models.
func NewRegistry() *Registry {
	return &Registry{
		cache:    make(map[render.Shape]cached),
		models:   make(map[render.Shape]model.Model),
		lightDir: [3]float32{0.5, 1, 0.5},
	}
}

// Install replaces the model set. Call on the render goroutine.
func (r *Registry) Install(models map[render.Shape]model.Model) {
	r.models = models
}

// SetView sets the camera position and light direction for this frame.
func (r *Registry) SetView(viewPos, lightDir [3]float32) {
	r.viewPos = viewPos
	r.lightDir = lightDir
}

// Draw draws shape with transform. Must be called between BeginMode3D and
// EndMode3D. Unknown shapes are skipped.
func (r *Registry) Draw(shape render.Shape, transform mgl64.Mat4, mat render.Material) {
	if m, ok := r.models[shape]; ok {
		for _, p := range m.Parts {
			r.drawPrimitive(p.Primitive, transform.Mul4(p.Matrix()), p.Material(mat))
		}
		return
	}
	if _, ok := meshes[shape]; ok {
		r.drawPrimitive(shape, transform, mat)
		return
	}
	if p, ok := fallback[shape]; ok {
		r.drawPrimitive(p.Primitive, transform.Mul4(p.Matrix()), mat)
	}
}

func (r *Registry) ensure(prim render.Shape) (cached, bool) {
	if c, ok := r.cache[prim]; ok {
		return c, true
	}
	gen, ok := meshes[prim]
	if !ok {
		return cached{}, false
	}
	c := cached{mesh: gen(), mtl: rl.LoadMaterialDefault(), offset: mgl64.Ident4()}
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		c.mtl.Shader = shader
	}
	// raylib cylinders stand on y=0.
	if prim == render.ShapeCylinder {
		c.offset = mgl64.Translate3D(0, -0.5, 0)
	}
	r.cache[prim] = c
	return c, true
}

func (r *Registry) drawPrimitive(prim render.Shape, transform mgl64.Mat4, mat render.Material) {
	c, ok := r.ensure(prim)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = mat.Color
	}
	r.setUniforms(c.mtl.Shader, mat.Ambient)
	rl.DrawMesh(c.mesh, c.mtl, toMatrix(transform.Mul4(c.offset)))
}

// toMatrix converts a column-major mgl64 matrix to raylib's layout, which
// uses the same element order.
func toMatrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}

const (
	lightIntensity   = float32(0.75)
	specularPower    = float32(48)
	specularStrength = float32(0.25)
)

var lightColor = [3]float32{1.0, 0.98, 0.95}

// setUniforms uploads the per-frame light and the per-material ambient level.
func (r *Registry) setUniforms(shader rl.Shader, ambient float32) {
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := r.viewPos
	lightDir := r.lightDir
	amb := [4]float32{ambient, ambient, ambient * 1.1, 1}
	col := lightColor
	if loc := rl.GetShaderLocation(shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, lightDir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, col[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}

// Directional light plus ambient, Blinn-Phong highlight.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec3 n = normalize(fragNormal);
  vec3 l = normalize(lightDir);
  float lambert = max(dot(n, l), 0.0);
  vec3 h = normalize(l + normalize(viewPos - fragPosition));
  float spec = lambert > 0.0 ? pow(max(dot(n, h), 0.0), specularPower) * specularStrength : 0.0;
  vec3 rgb = colDiffuse.rgb * (ambient.rgb + lambert * lightColor * lightIntensity) + lightColor * spec;
  finalColor = vec4(rgb, colDiffuse.a);
}
`
)
