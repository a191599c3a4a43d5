// Package scene owns the 3D pass: chase camera, skybox, ground and grid.
package scene

import (
	"math"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/camera"
)

const (
	gridExtent     = 200
	gridStep       = 10
	gridMajorEvery = 5
	gridAlpha      = 70
	gridMajorAlpha = 140
	groundSize     = 4000
	skyboxScale    = 1500
	farClip        = 2000
)

// skyboxPaths are tried in order so the skybox is found from the repo root or cmd/game.
var skyboxPaths = []string{
	"assets/skybox/skybox.png",
	"assets/skybox/skybox.jpg",
	"../../assets/skybox/skybox.png",
	"../../assets/skybox/skybox.jpg",
}

var (
	skyColor    = rl.NewColor(135, 190, 235, 255)
	groundColor = rl.NewColor(96, 150, 80, 255)
)

// Scene holds the raylib camera driven by a chase rig.
type Scene struct {
	Camera      rl.Camera3D
	Chase       *camera.Chase
	GridVisible bool

	focus mgl64.Vec3

	skyboxPath    string
	skyboxPending bool
	skyboxLoaded  bool
	skyboxTex     rl.Texture2D
	skyboxMesh    rl.Mesh
	skyboxMtl     rl.Material
	skyboxCamLoc  int32
}

// New returns a scene with a perspective camera. The skybox texture, when
// found, is loaded on the first Draw once the GL context exists.
func New() *Scene {
	s := &Scene{Chase: camera.NewChase(), GridVisible: true}
	s.Camera.Up = rl.NewVector3(0, 1, 0)
	s.Camera.Fovy = 60
	s.Camera.Projection = rl.CameraPerspective
	for _, p := range skyboxPaths {
		if _, err := os.Stat(filepath.Clean(p)); err == nil {
			s.skyboxPath = filepath.Clean(p)
			s.skyboxPending = true
			break
		}
	}
	return s
}

// Follow moves the camera after the body at transform.
func (s *Scene) Follow(transform mgl64.Mat4, dt float32) {
	s.Chase.Update(transform, dt)
	s.focus = mgl64.Vec3{transform[12], transform[13], transform[14]}
	s.Camera.Position = rl.NewVector3(s.Chase.Eye.X(), s.Chase.Eye.Y(), s.Chase.Eye.Z())
	s.Camera.Target = rl.NewVector3(s.Chase.Target.X(), s.Chase.Target.Y(), s.Chase.Target.Z())
}

// ViewPos is the camera position for lighting.
func (s *Scene) ViewPos() [3]float32 {
	p := s.Camera.Position
	return [3]float32{p.X, p.Y, p.Z}
}

// Draw clears to the sky color and renders the world inside one 3D pass.
func (s *Scene) Draw(world func()) {
	s.ensureSkybox()
	rl.ClearBackground(skyColor)
	rl.SetClipPlanes(0.1, farClip)
	rl.BeginMode3D(s.Camera)
	if s.skyboxLoaded {
		s.drawSkybox()
	}
	rl.DrawPlane(rl.NewVector3(float32(s.focus.X()), 0, float32(s.focus.Z())), rl.NewVector2(groundSize, groundSize), groundColor)
	if s.GridVisible {
		drawGrid(s.focus)
	}
	world()
	rl.EndMode3D()
}

// ensureSkybox loads an equirectangular panorama onto a cube.
func (s *Scene) ensureSkybox() {
	if !s.skyboxPending {
		return
	}
	s.skyboxPending = false
	tex := rl.LoadTexture(s.skyboxPath)
	if !rl.IsTextureValid(tex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(tex)
		return
	}
	s.skyboxTex = tex
	s.skyboxMesh = rl.GenMeshCube(1, 1, 1)
	s.skyboxMtl = rl.LoadMaterialDefault()
	s.skyboxMtl.Shader = shader
	rl.SetMaterialTexture(&s.skyboxMtl, rl.MapAlbedo, tex)
	s.skyboxCamLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.skyboxLoaded = true
}

const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  fragWorldPos = vec3(matModel * vec4(vertexPosition, 1.0));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D texture0;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  vec2 uv = vec2(atan(dir.z, dir.x) / 6.28318530718 + 0.5, 0.5 - asin(clamp(dir.y, -1.0, 1.0)) / 3.14159265359);
  finalColor = texture(texture0, uv);
}
`
)

func (s *Scene) drawSkybox() {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	pos := s.Camera.Position
	if s.skyboxCamLoc >= 0 {
		rl.SetShaderValueV(s.skyboxMtl.Shader, s.skyboxCamLoc, []float32{pos.X, pos.Y, pos.Z}, rl.ShaderUniformVec3, 1)
	}
	transform := rl.MatrixMultiply(rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale), rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
	rl.DrawMesh(s.skyboxMesh, s.skyboxMtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// drawGrid draws ground lines around focus, snapped to the grid so they do
// not slide with the plane.
func drawGrid(focus mgl64.Vec3) {
	minor := rl.NewColor(40, 70, 40, gridAlpha)
	major := rl.NewColor(30, 50, 30, gridMajorAlpha)
	cx := math.Round(focus.X()/gridStep) * gridStep
	cz := math.Round(focus.Z()/gridStep) * gridStep
	const y = 0.02

	for i := -gridExtent / gridStep; i <= gridExtent/gridStep; i++ {
		x := cx + float64(i*gridStep)
		z := cz + float64(i*gridStep)
		cX, cZ := minor, minor
		if int(math.Round(x/gridStep))%gridMajorEvery == 0 {
			cX = major
		}
		if int(math.Round(z/gridStep))%gridMajorEvery == 0 {
			cZ = major
		}
		rl.DrawLine3D(rl.NewVector3(float32(x), y, float32(cz-gridExtent)), rl.NewVector3(float32(x), y, float32(cz+gridExtent)), cX)
		rl.DrawLine3D(rl.NewVector3(float32(cx-gridExtent), y, float32(z)), rl.NewVector3(float32(cx+gridExtent), y, float32(z)), cZ)
	}
}
