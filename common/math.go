package common

import "github.com/go-gl/mathgl/mgl32"

// NormalMatrix derives the 3x3 normal matrix from a model transform: the
// transpose of the inverse of its upper-left 3x3. Non-uniform scale makes
// this differ from the plain rotation part, which is why the inverse is
// required.
//
// A singular transform cannot be inverted; the identity is returned along
// with false so the caller can decide how loudly to complain.
//
// Parameters:
//   - m: the 4x4 model transform
//
// Returns:
//   - mgl32.Mat3: the normal matrix, or identity if m is singular
//   - bool: false if m is singular
func NormalMatrix(m mgl32.Mat4) (mgl32.Mat3, bool) {
	inv := m.Inv()
	if inv == (mgl32.Mat4{}) {
		return mgl32.Ident3(), false
	}
	return inv.Transpose().Mat3(), true
}
