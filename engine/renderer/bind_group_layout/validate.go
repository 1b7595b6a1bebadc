package bind_group_layout

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Mismatch describes one incompatibility found by Check. Binding is -1 for
// group-level problems (missing group, differing entry counts).
type Mismatch struct {
	// Group is the bind group index.
	Group int
	// Binding is the binding index, or -1 for group-level mismatches.
	Binding int
	// Reason is a human-readable description of the incompatibility.
	Reason string
}

// String formats the mismatch for display in a diagnostic overlay or log.
func (m Mismatch) String() string {
	if m.Binding < 0 {
		return fmt.Sprintf("group %d: %s", m.Group, m.Reason)
	}
	return fmt.Sprintf("group %d binding %d: %s", m.Group, m.Binding, m.Reason)
}

// LayoutMismatchError reports that a shader's inferred bind group layouts
// are incompatible with an expected contract. It carries every mismatch
// found so callers can display them all at once.
type LayoutMismatchError struct {
	// Shader is the rejected shader's name.
	Shader string
	// Mismatches lists the incompatibilities, one per binding or group.
	Mismatches []Mismatch
}

func (e *LayoutMismatchError) Error() string {
	reasons := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		reasons[i] = m.String()
	}
	return "shader " + e.Shader + " is incompatible with the expected layout: " + strings.Join(reasons, "; ")
}

// Compatible reports whether a shader's inferred bind group layouts can be
// accepted by the expected layouts the application binds at draw time.
//
// The predicate is deliberately asymmetric: it answers "can the expected
// contract satisfy what the shader requires", never the reverse. A shader
// may require less than the contract offers (fewer stages of visibility, an
// unfilterable texture where a filterable one is bound, a non-filtering
// sampler where a filtering one is bound, a shorter binding array) but
// never more.
//
// Parameters:
//   - inferred: the layouts inferred from the shader, indexed by group
//   - expected: the layouts the application guarantees to bind, indexed by group
//
// Returns:
//   - bool: true if every inferred group is compatible with its expected group
func Compatible(inferred, expected []Group) bool {
	return len(Check(inferred, expected)) == 0
}

// Check is the error-collecting variant of Compatible: it returns one
// Mismatch per incompatibility instead of a bare verdict, so a rejected
// shader candidate can be reported group-by-group and binding-by-binding.
//
// Parameters:
//   - inferred: the layouts inferred from the shader, indexed by group
//   - expected: the layouts the application guarantees to bind, indexed by group
//
// Returns:
//   - []Mismatch: all incompatibilities found; empty means compatible
func Check(inferred, expected []Group) []Mismatch {
	var mismatches []Mismatch

	if len(inferred) != len(expected) {
		mismatches = append(mismatches, Mismatch{
			Group:   -1,
			Binding: -1,
			Reason:  fmt.Sprintf("shader uses %d bind group(s), contract provides %d", len(inferred), len(expected)),
		})
		return mismatches
	}

	for g := range inferred {
		inf := inferred[g].sortedEntries()
		exp := expected[g].sortedEntries()

		if len(inf) != len(exp) {
			mismatches = append(mismatches, Mismatch{
				Group:   g,
				Binding: -1,
				Reason:  fmt.Sprintf("shader declares %d binding(s), contract provides %d", len(inf), len(exp)),
			})
			continue
		}

		for i := range inf {
			mismatches = append(mismatches, checkEntry(g, inf[i], exp[i])...)
		}
	}

	return mismatches
}

// checkEntry compares one inferred/expected entry pair at the same sorted
// position within a group.
func checkEntry(group int, inf, exp Entry) []Mismatch {
	var mismatches []Mismatch

	if inf.Binding != exp.Binding {
		mismatches = append(mismatches, Mismatch{
			Group:   group,
			Binding: int(inf.Binding),
			Reason:  fmt.Sprintf("shader binds index %d, contract provides index %d", inf.Binding, exp.Binding),
		})
		return mismatches
	}

	// The shader may require visibility in fewer stages than the contract
	// offers, never more.
	if inf.Visibility&^exp.Visibility != 0 {
		mismatches = append(mismatches, Mismatch{
			Group:   group,
			Binding: int(inf.Binding),
			Reason:  fmt.Sprintf("shader requires visibility %v, contract offers %v", inf.Visibility, exp.Visibility),
		})
	}

	if inf.Kind != exp.Kind {
		mismatches = append(mismatches, Mismatch{
			Group:   group,
			Binding: int(inf.Binding),
			Reason:  fmt.Sprintf("shader declares a %v, contract provides a %v", inf.Kind, exp.Kind),
		})
		return mismatches
	}

	switch inf.Kind {
	case KindTexture:
		if !sampleTypeCompatible(inf.Texture.SampleType, exp.Texture.SampleType) {
			mismatches = append(mismatches, Mismatch{
				Group:   group,
				Binding: int(inf.Binding),
				Reason:  fmt.Sprintf("texture sample type %v is not satisfied by contract sample type %v", inf.Texture.SampleType, exp.Texture.SampleType),
			})
		}
		if inf.Texture.ViewDimension != exp.Texture.ViewDimension {
			mismatches = append(mismatches, Mismatch{
				Group:   group,
				Binding: int(inf.Binding),
				Reason:  fmt.Sprintf("texture dimension %v does not match contract dimension %v", inf.Texture.ViewDimension, exp.Texture.ViewDimension),
			})
		}
		if inf.Texture.Multisampled != exp.Texture.Multisampled {
			mismatches = append(mismatches, Mismatch{
				Group:   group,
				Binding: int(inf.Binding),
				Reason:  fmt.Sprintf("texture multisampled=%v does not match contract multisampled=%v", inf.Texture.Multisampled, exp.Texture.Multisampled),
			})
		}
	case KindSampler:
		if !samplerTypeCompatible(inf.Sampler.Type, exp.Sampler.Type) {
			mismatches = append(mismatches, Mismatch{
				Group:   group,
				Binding: int(inf.Binding),
				Reason:  fmt.Sprintf("sampler type %v is not satisfied by contract sampler type %v", inf.Sampler.Type, exp.Sampler.Type),
			})
		}
	}

	if exp.Count != 0 {
		infCount := inf.Count
		if infCount == 0 {
			infCount = 1
		}
		if infCount > exp.Count {
			mismatches = append(mismatches, Mismatch{
				Group:   group,
				Binding: int(inf.Binding),
				Reason:  fmt.Sprintf("binding array length %d exceeds contract length %d", infCount, exp.Count),
			})
		}
	}

	return mismatches
}

// sampleTypeCompatible reports whether an inferred texture sample type is
// satisfied by the expected one. A filterable-float contract accepts an
// unfilterable-float shader requirement; no other cross-kind pair matches.
func sampleTypeCompatible(inferred, expected wgpu.TextureSampleType) bool {
	if inferred == expected {
		return true
	}
	return expected == wgpu.TextureSampleTypeFloat && inferred == wgpu.TextureSampleTypeUnfilterableFloat
}

// samplerTypeCompatible reports whether an inferred sampler type is
// satisfied by the expected one. A filtering-sampler contract accepts a
// non-filtering shader requirement; no other cross-kind pair matches.
func samplerTypeCompatible(inferred, expected wgpu.SamplerBindingType) bool {
	if inferred == expected {
		return true
	}
	return expected == wgpu.SamplerBindingTypeFiltering && inferred == wgpu.SamplerBindingTypeNonFiltering
}
