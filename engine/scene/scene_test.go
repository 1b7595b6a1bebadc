package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/model"
)

func assertMat4InDelta(t *testing.T, expected, actual mgl32.Mat4) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-5, "element %d", i)
	}
}

func TestNewNodeStartsAtIdentity(t *testing.T) {
	tr := New()
	h := tr.NewNode()

	local, ok := tr.LocalTransform(h)
	require.True(t, ok)
	assert.Equal(t, mgl32.Ident4(), local)

	global, ok := tr.GlobalTransform(h)
	require.True(t, ok)
	assert.Equal(t, mgl32.Ident4(), global)
}

func TestRootResolvesEagerly(t *testing.T) {
	tr := New()
	h := tr.NewNode()

	transform := mgl32.Translate3D(1, 2, 3)
	require.NoError(t, tr.UpdateLocalTransform(h, transform))

	// No UpdateTransforms pass needed for a root.
	global, ok := tr.GlobalTransform(h)
	require.True(t, ok)
	assert.Equal(t, transform, global)
}

func TestChildStaleUntilUpdate(t *testing.T) {
	tr := New()
	root := tr.NewNode()
	child, err := tr.NewChildNode(root)
	require.NoError(t, err)

	_, ok := tr.GlobalTransform(child)
	assert.False(t, ok)

	tr.UpdateTransforms()

	global, ok := tr.GlobalTransform(child)
	require.True(t, ok)
	assert.Equal(t, mgl32.Ident4(), global)
}

func TestTransformChainPropagates(t *testing.T) {
	tr := New()
	root := tr.NewNode()
	child, err := tr.NewChildNode(root)
	require.NoError(t, err)
	grandchild, err := tr.NewChildNode(child)
	require.NoError(t, err)

	t1 := mgl32.Translate3D(1, 0, 0)
	t2 := mgl32.HomogRotate3DY(0.5)
	t3 := mgl32.Scale3D(2, 2, 2)
	require.NoError(t, tr.UpdateLocalTransform(root, t1))
	require.NoError(t, tr.UpdateLocalTransform(child, t2))
	require.NoError(t, tr.UpdateLocalTransform(grandchild, t3))

	tr.UpdateTransforms()

	global, ok := tr.GlobalTransform(grandchild)
	require.True(t, ok)
	assertMat4InDelta(t, t1.Mul4(t2).Mul4(t3), global)
}

func TestParentEditDirtiesCleanChildren(t *testing.T) {
	tr := New()
	root := tr.NewNode()
	child, err := tr.NewChildNode(root)
	require.NoError(t, err)

	offset := mgl32.Translate3D(0, 5, 0)
	require.NoError(t, tr.UpdateLocalTransform(child, offset))
	tr.UpdateTransforms()

	// Moving only the root must still reposition the clean child.
	move := mgl32.Translate3D(10, 0, 0)
	require.NoError(t, tr.UpdateLocalTransform(root, move))
	tr.UpdateTransforms()

	global, ok := tr.GlobalTransform(child)
	require.True(t, ok)
	assertMat4InDelta(t, move.Mul4(offset), global)
}

func TestNewChildNodeInvalidParent(t *testing.T) {
	tr := New()
	_, err := tr.NewChildNode(NodeHandle(7))
	assert.Error(t, err)
}

func TestUpdateLocalTransformInvalidHandle(t *testing.T) {
	tr := New()
	assert.Error(t, tr.UpdateLocalTransform(NodeHandle(0), mgl32.Ident4()))
}

func TestSetRenderableSeedsInstance(t *testing.T) {
	tr := New()
	root := tr.NewNode()
	transform := mgl32.Translate3D(3, 0, 0)
	require.NoError(t, tr.UpdateLocalTransform(root, transform))

	m := model.New(model.WithName("cube"))
	require.NoError(t, tr.SetRenderable(root, m))
	require.Equal(t, 1, m.InstanceCount())

	record, ok := m.Instance(model.InstanceID(0))
	require.True(t, ok)
	assert.Equal(t, [16]float32(transform), record.Model)
}

func TestSetRenderableRejectsReassignment(t *testing.T) {
	tr := New()
	root := tr.NewNode()

	require.NoError(t, tr.SetRenderable(root, model.New()))
	assert.Error(t, tr.SetRenderable(root, model.New()))
}

func TestUpdateTransformsRefreshesInstances(t *testing.T) {
	tr := New()
	root := tr.NewNode()
	child, err := tr.NewChildNode(root)
	require.NoError(t, err)
	tr.UpdateTransforms()

	m := model.New()
	require.NoError(t, tr.SetRenderable(child, m))

	move := mgl32.Translate3D(0, 0, 4)
	require.NoError(t, tr.UpdateLocalTransform(root, move))
	tr.UpdateTransforms()

	record, ok := m.Instance(model.InstanceID(0))
	require.True(t, ok)
	assert.Equal(t, [16]float32(move), record.Model)
}

func TestUpdateTransformsSkipsSelfParent(t *testing.T) {
	tr := New().(*tree)
	h := tr.NewNode()
	require.NoError(t, tr.UpdateLocalTransform(h, mgl32.Translate3D(1, 0, 0)))

	// Corrupt the node to reference itself; the pass must not loop or panic.
	tr.nodes[h].parent = h
	tr.UpdateTransforms()

	assert.True(t, tr.nodes[h].transformChanged)
}

func TestUpdateTransformsSkipsOutOfRangeParent(t *testing.T) {
	tr := New().(*tree)
	h := tr.NewNode()
	require.NoError(t, tr.UpdateLocalTransform(h, mgl32.Translate3D(1, 0, 0)))

	tr.nodes[h].parent = NodeHandle(99)
	tr.UpdateTransforms()

	assert.True(t, tr.nodes[h].transformChanged)
}
