// Package scene is an arena-backed transform hierarchy. Nodes are addressed
// by stable handles, carry a local transform, and cache their global
// transform. Edits mark nodes dirty; UpdateTransforms propagates parent
// transforms through every dirty subtree and pushes the results into the
// renderable instances attached along the way.
package scene

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/model"
)

// NodeHandle identifies a node within a Tree. Handles are dense indices
// handed out in creation order and stay valid for the tree's lifetime.
type NodeHandle int

// node is one arena slot.
type node struct {
	localTransform  mgl32.Mat4
	cachedTransform mgl32.Mat4
	// transformChanged marks the cached transform stale until the next
	// UpdateTransforms pass.
	transformChanged bool

	// parent is -1 for root nodes.
	parent   NodeHandle
	children []NodeHandle

	renderable model.Model
	instanceID model.InstanceID
}

// tree is the implementation of the Tree interface.
type tree struct {
	mu    sync.Mutex
	nodes []*node
}

// Tree is a scene transform hierarchy.
type Tree interface {
	// NewNode creates a root node with identity transforms.
	//
	// Returns:
	//   - NodeHandle: the new node's handle
	NewNode() NodeHandle

	// NewChildNode creates a node parented to an existing one. The child
	// starts with an identity local transform and a stale global transform.
	//
	// Parameters:
	//   - parent: the parent node's handle
	//
	// Returns:
	//   - NodeHandle: the new node's handle
	//   - error: if the parent handle is invalid
	NewChildNode(parent NodeHandle) (NodeHandle, error)

	// LocalTransform returns a node's local transform.
	//
	// Parameters:
	//   - h: the node's handle
	//
	// Returns:
	//   - mgl32.Mat4: the local transform
	//   - bool: false if the handle is invalid
	LocalTransform(h NodeHandle) (mgl32.Mat4, bool)

	// UpdateLocalTransform replaces a node's local transform and marks its
	// subtree for recomputation. Root nodes resolve their own global
	// transform immediately since it has no parent dependency.
	//
	// Parameters:
	//   - h: the node's handle
	//   - transform: the new local transform
	//
	// Returns:
	//   - error: if the handle is invalid
	UpdateLocalTransform(h NodeHandle, transform mgl32.Mat4) error

	// GlobalTransform returns a node's cached global transform. The value
	// is only available when the node is clean; a node edited since the
	// last UpdateTransforms pass reports false.
	//
	// Parameters:
	//   - h: the node's handle
	//
	// Returns:
	//   - mgl32.Mat4: the cached global transform
	//   - bool: false if the handle is invalid or the cache is stale
	GlobalTransform(h NodeHandle) (mgl32.Mat4, bool)

	// SetRenderable attaches a model to a node, allocating an instance slot
	// seeded with the node's current global transform. A node's renderable
	// can be set once; reassignment is an error.
	//
	// Parameters:
	//   - h: the node's handle
	//   - m: the model to attach
	//
	// Returns:
	//   - error: if the handle is invalid or the node already has a renderable
	SetRenderable(h NodeHandle, m model.Model) error

	// UpdateTransforms recomputes global transforms for every dirty node
	// and its descendants, refreshing attached model instances along the
	// way. Nodes that are their own parent or reference an out-of-range
	// parent are skipped with a warning.
	UpdateTransforms()
}

var _ Tree = &tree{}

// New creates an empty scene tree.
//
// Returns:
//   - Tree: the created tree
func New() Tree {
	return &tree{}
}

func (t *tree) NewNode() NodeHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.newNode(-1)
}

func (t *tree) NewChildNode(parent NodeHandle) (NodeHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(parent) {
		return 0, fmt.Errorf("scene has no node %d", parent)
	}
	h := t.newNode(parent)
	t.nodes[parent].children = append(t.nodes[parent].children, h)
	return h, nil
}

// newNode appends an arena slot. Caller holds the lock.
func (t *tree) newNode(parent NodeHandle) NodeHandle {
	h := NodeHandle(len(t.nodes))
	t.nodes = append(t.nodes, &node{
		localTransform:  mgl32.Ident4(),
		cachedTransform: mgl32.Ident4(),
		// Children start stale so the next pass resolves them against the
		// parent's cached transform.
		transformChanged: parent >= 0,
		parent:           parent,
	})
	return h
}

func (t *tree) LocalTransform(h NodeHandle) (mgl32.Mat4, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(h) {
		return mgl32.Mat4{}, false
	}
	return t.nodes[h].localTransform, true
}

func (t *tree) UpdateLocalTransform(h NodeHandle, transform mgl32.Mat4) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(h) {
		return fmt.Errorf("scene has no node %d", h)
	}

	n := t.nodes[h]
	n.localTransform = transform
	n.transformChanged = true
	if n.parent < 0 {
		// A root's global transform is its local transform; resolve it now
		// so a renderable attached before the next pass sees it.
		n.cachedTransform = transform
	}
	return nil
}

func (t *tree) GlobalTransform(h NodeHandle) (mgl32.Mat4, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(h) {
		return mgl32.Mat4{}, false
	}
	n := t.nodes[h]
	if n.transformChanged && n.parent >= 0 {
		return mgl32.Mat4{}, false
	}
	return n.cachedTransform, true
}

func (t *tree) SetRenderable(h NodeHandle, m model.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(h) {
		return fmt.Errorf("scene has no node %d", h)
	}
	n := t.nodes[h]
	if n.renderable != nil {
		return fmt.Errorf("node %d already has a renderable", h)
	}

	id := m.NewInstance()
	if err := m.UpdateInstance(id, n.cachedTransform); err != nil {
		return err
	}
	n.renderable = m
	n.instanceID = id
	return nil
}

func (t *tree) UpdateTransforms() {
	t.mu.Lock()
	defer t.mu.Unlock()

	var worklist []NodeHandle
	for h := range t.nodes {
		if t.nodes[h].transformChanged {
			worklist = append(worklist, NodeHandle(h))
		}
	}

	for len(worklist) > 0 {
		h := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		n := t.nodes[h]
		switch {
		case n.parent < 0:
			n.cachedTransform = n.localTransform
		case n.parent == h:
			common.Logger().Warn("node is its own parent, skipping", "node", int(h))
			continue
		case !t.valid(n.parent):
			common.Logger().Warn("node has an out-of-range parent, skipping",
				"node", int(h), "parent", int(n.parent))
			continue
		default:
			n.cachedTransform = t.nodes[n.parent].cachedTransform.Mul4(n.localTransform)
		}
		n.transformChanged = false

		if n.renderable != nil {
			if err := n.renderable.UpdateInstance(n.instanceID, n.cachedTransform); err != nil {
				common.Logger().Warn("failed to refresh instance transform",
					"node", int(h), "error", err)
			}
		}

		// Descendants inherit the new transform even if their own local
		// transforms are unchanged.
		worklist = append(worklist, n.children...)
	}
}

func (t *tree) valid(h NodeHandle) bool {
	return h >= 0 && int(h) < len(t.nodes)
}
