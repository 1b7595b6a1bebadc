// Package bind_group_layout models the CPU-side view of a GPU bind group:
// which binding indices exist in a group, which shader stages may see them,
// and what category of resource each one is. It is pure data plus a
// compatibility predicate; no GPU objects are created here.
//
// Layouts appear in two roles. The shader compiler infers one layout list
// from a parsed WGSL module; the surrounding application supplies another
// list describing the bind groups it actually binds at draw time (the
// pipeline's contract). Check compares the two before a pipeline is
// (re)created.
package bind_group_layout

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// ResourceKind tags the category of resource an Entry binds.
type ResourceKind int

const (
	// KindUniformBuffer is a uniform buffer binding (scalar, vector, matrix,
	// array, or struct typed data).
	KindUniformBuffer ResourceKind = iota

	// KindTexture is a sampled texture binding.
	KindTexture

	// KindSampler is a sampler binding.
	KindSampler
)

// String returns the WGSL-flavored name of the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case KindUniformBuffer:
		return "uniform buffer"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// TextureLayout describes a texture binding's sampling characteristics.
type TextureLayout struct {
	// SampleType is the texel sample type (Float, UnfilterableFloat, Depth,
	// Sint, or Uint).
	SampleType wgpu.TextureSampleType
	// ViewDimension is the texture view dimensionality (1D, 2D, 3D, Cube, ...).
	ViewDimension wgpu.TextureViewDimension
	// Multisampled is true for multisampled textures.
	Multisampled bool
}

// SamplerLayout describes a sampler binding.
type SamplerLayout struct {
	// Type distinguishes filtering, non-filtering, and comparison samplers.
	Type wgpu.SamplerBindingType
}

// Entry describes one resource binding slot within a bind group. The
// binding index must be unique within its group.
type Entry struct {
	// Binding is the binding index within the group (@binding(N)).
	Binding uint32
	// Visibility is the set of shader stages that may access the resource.
	Visibility wgpu.ShaderStage
	// Kind selects which payload below is meaningful.
	Kind ResourceKind
	// Texture is the payload when Kind == KindTexture.
	Texture TextureLayout
	// Sampler is the payload when Kind == KindSampler.
	Sampler SamplerLayout
	// Count is the binding array element count; 0 means the binding is not
	// an array.
	Count uint32
}

// Group is one bind group's layout: a label and its entries in discovery
// order. Entry order is not significant for compatibility comparison.
type Group struct {
	// Label is an optional debug label.
	Label string
	// Entries holds the group's binding entries.
	Entries []Entry
}

// sortedEntries returns the group's entries ordered by binding index,
// leaving the receiver untouched.
func (g Group) sortedEntries() []Entry {
	entries := make([]Entry, len(g.Entries))
	copy(entries, g.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return entries
}

// Descriptor converts the group into a wgpu.BindGroupLayoutDescriptor
// suitable for creating the real GPU bind group layout.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the GPU-facing descriptor with entries
//     sorted by binding index
func (g Group) Descriptor() wgpu.BindGroupLayoutDescriptor {
	entries := g.sortedEntries()
	out := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
	for _, e := range entries {
		wgpuEntry := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: e.Visibility,
		}
		switch e.Kind {
		case KindUniformBuffer:
			wgpuEntry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case KindTexture:
			wgpuEntry.Texture.SampleType = e.Texture.SampleType
			wgpuEntry.Texture.ViewDimension = e.Texture.ViewDimension
			wgpuEntry.Texture.Multisampled = e.Texture.Multisampled
		case KindSampler:
			wgpuEntry.Sampler.Type = e.Sampler.Type
		}
		out = append(out, wgpuEntry)
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   g.Label,
		Entries: out,
	}
}
