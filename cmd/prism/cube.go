package main

import (
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/model"
	"github.com/prism3d/prism/engine/renderer/device"
)

// cubeFace describes one face by its basis: the outward normal and the two
// in-plane axes used to place the corners and derive tangents.
type cubeFace struct {
	normal    [3]float32
	tangent   [3]float32
	bitangent [3]float32
}

var cubeFaces = []cubeFace{
	{normal: [3]float32{0, 0, 1}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 1, 0}},
	{normal: [3]float32{0, 0, -1}, tangent: [3]float32{-1, 0, 0}, bitangent: [3]float32{0, 1, 0}},
	{normal: [3]float32{1, 0, 0}, tangent: [3]float32{0, 0, -1}, bitangent: [3]float32{0, 1, 0}},
	{normal: [3]float32{-1, 0, 0}, tangent: [3]float32{0, 0, 1}, bitangent: [3]float32{0, 1, 0}},
	{normal: [3]float32{0, 1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, -1}},
	{normal: [3]float32{0, -1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, 1}},
}

// makeCubeModel builds a unit cube with per-face normals and uploads its
// vertex and index buffers.
func makeCubeModel(dev device.Device, queue device.Queue) model.Model {
	var vertices []model.GPUVertex
	var indices []uint32

	// Corners wind counter-clockwise when viewed from outside the face.
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, face := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range corners {
			u, w := c[0], c[1]

			var position [3]float32
			for i := range 3 {
				position[i] = face.normal[i] + u*face.tangent[i] + w*face.bitangent[i]
			}
			vertices = append(vertices, model.GPUVertex{
				Position:  position,
				TexCoord:  [2]float32{(u + 1) / 2, (w + 1) / 2},
				Normal:    face.normal,
				Tangent:   face.tangent,
				Bitangent: face.bitangent,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	vertexData := common.SliceToBytes(vertices)
	indexData := common.SliceToBytes(indices)

	vertexBuffer, err := dev.CreateBuffer("cube-vertices", uint64(len(vertexData)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		common.Logger().Error("failed to create vertex buffer", "error", err)
		os.Exit(1)
	}
	queue.WriteBuffer(vertexBuffer, 0, vertexData)

	indexBuffer, err := dev.CreateBuffer("cube-indices", uint64(len(indexData)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		common.Logger().Error("failed to create index buffer", "error", err)
		os.Exit(1)
	}
	queue.WriteBuffer(indexBuffer, 0, indexData)

	return model.New(
		model.WithName("cube"),
		model.WithMeshes(model.Mesh{
			Name:         "cube",
			VertexBuffer: vertexBuffer,
			IndexBuffer:  indexBuffer,
			IndexCount:   uint32(len(indices)),
		}),
	)
}
