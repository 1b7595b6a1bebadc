package model

// BuilderOption is a functional option used to configure a Model during construction.
type BuilderOption func(*model)

// WithName sets the model's debug name.
//
// Parameters:
//   - name: the debug name
//
// Returns:
//   - BuilderOption: a function that sets the name for this model
func WithName(name string) BuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes sets the model's meshes.
//
// Parameters:
//   - meshes: the drawable meshes
//
// Returns:
//   - BuilderOption: a function that sets the meshes for this model
func WithMeshes(meshes ...Mesh) BuilderOption {
	return func(m *model) {
		m.meshes = meshes
	}
}

// New creates a Model with no instances.
//
// Parameters:
//   - opts: builder options
//
// Returns:
//   - Model: the created model
func New(opts ...BuilderOption) Model {
	m := &model{name: "model"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
