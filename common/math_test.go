package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalMatrixRotationIsRotation(t *testing.T) {
	rot := mgl32.HomogRotate3DY(0.7)

	normal, ok := NormalMatrix(rot)
	require.True(t, ok)

	// For a pure rotation the normal matrix equals the rotation itself.
	expected := rot.Mat3()
	for i := range expected {
		assert.InDelta(t, expected[i], normal[i], 1e-6)
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	normal, ok := NormalMatrix(mgl32.Scale3D(2, 4, 8))
	require.True(t, ok)

	assert.InDelta(t, 0.5, normal[0], 1e-6)
	assert.InDelta(t, 0.25, normal[4], 1e-6)
	assert.InDelta(t, 0.125, normal[8], 1e-6)
}

func TestNormalMatrixSingular(t *testing.T) {
	normal, ok := NormalMatrix(mgl32.Scale3D(0, 1, 1))
	assert.False(t, ok)
	assert.Equal(t, mgl32.Ident3(), normal)
}

func TestSliceToBytes(t *testing.T) {
	data := []float32{1, 2}
	b := SliceToBytes(data)
	require.Len(t, b, 8)

	assert.Nil(t, SliceToBytes([]float32(nil)))
}

func TestStructToBytesLength(t *testing.T) {
	v := struct {
		A [16]float32
		B [9]float32
	}{}
	assert.Len(t, StructToBytes(&v), 100)
}
