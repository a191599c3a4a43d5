package physics

import "github.com/go-gl/mathgl/mgl64"

// Box is an axis-aligned box given by its min and max corners.
type Box struct {
	Min, Max mgl64.Vec3
}

// Corners returns the eight corners of the box.
func (b Box) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		c := b.Min
		if i&4 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&1 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = c
	}
	return out
}

// InUnitCube reports whether p lies inside [-1-margin, 1+margin] on every axis.
func InUnitCube(p mgl64.Vec3, margin float64) bool {
	for _, v := range p {
		if v < -1-margin || v > 1+margin {
			return false
		}
	}
	return true
}

// AnyCornerInCube maps the corners of box through m and reports whether any
// of them lands inside the margin-expanded unit cube.
func AnyCornerInCube(m mgl64.Mat4, box Box, margin float64) bool {
	for _, c := range box.Corners() {
		if InUnitCube(m.Mul4x1(c.Vec4(1)).Vec3(), margin) {
			return true
		}
	}
	return false
}
