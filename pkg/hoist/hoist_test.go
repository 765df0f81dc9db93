package hoist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/npmtree/pkg/npmtree"
)

func node(name, version string, peers map[string]string) *npmtree.DependencyNode {
	var p *npmtree.StringMap
	if peers != nil {
		p = npmtree.NewOrderedMap[string]()
		for k, v := range peers {
			p.Set(k, v)
		}
	}
	return npmtree.NewDependencyNode(name, version, p)
}

func addChild(parent, child *npmtree.DependencyNode) {
	parent.Dependencies.Set(child.Name, child)
}

func TestHoistSimpleTreeAllAtRoot(t *testing.T) {
	root := node("app", "1.0.0", nil)
	a := node("a", "1.0.0", nil)
	addChild(root, a)

	tree := New().Hoist(root)

	assert.True(t, tree.Root.Has("app"))
	assert.True(t, tree.Root.Has("a"))
	assert.Equal(t, 0, tree.Nested.Len())
}

func TestHoistConflictingConcreteVersionsNest(t *testing.T) {
	root := node("app", "1.0.0", nil)
	a := node("a", "1.0.0", nil)
	addChild(a, node("dep", "1.0.0", nil))
	b := node("b", "1.0.0", nil)
	addChild(b, node("dep", "2.0.0", nil))
	addChild(root, a)
	addChild(root, b)

	tree := New().Hoist(root)

	dep, ok := tree.Root.Get("dep")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", dep.Version, "first occurrence wins the root slot")

	nested, ok := tree.Nested.Get("b@1.0.0")
	require.True(t, ok)
	nestedDep, ok := nested.Get("dep")
	require.True(t, ok)
	assert.Equal(t, "2.0.0", nestedDep.Version)
}

func TestHoistPeerConflictScenario(t *testing.T) {
	// A@1 declares peer react@^18; B@1 depends on react@17.0.2 directly.
	root := node("virtual-root", "0.0.0", nil)
	a := node("a", "1.0.0", map[string]string{"react": "^18"})
	b := node("b", "1.0.0", nil)
	react17 := node("react", "17.0.2", nil)
	addChild(b, react17)
	addChild(root, a)
	addChild(root, b)

	tree := New().Hoist(root)

	// a's peer range ^18 is already at root when react@17.0.2 arrives, so
	// react@17.0.2 cannot take the root slot; it must be nested under b
	// rather than silently dropped.
	rootReact, reactAtRoot := tree.Root.Get("react")
	foundNested := false
	var nestedVersion string
	tree.Nested.Range(func(_ string, bucket *npmtree.OrderedMap[*npmtree.HoistedDependency]) bool {
		if d, ok := bucket.Get("react"); ok {
			foundNested = true
			nestedVersion = d.Version
		}
		return true
	})

	if reactAtRoot {
		assert.Equal(t, "17.0.2", rootReact.Version)
	}
	assert.True(t, foundNested, "the losing react placement must be nested, not dropped")
	assert.Equal(t, "17.0.2", nestedVersion)
}

func TestRootNamesAreUnique(t *testing.T) {
	root := node("app", "1.0.0", nil)
	addChild(root, node("a", "1.0.0", nil))
	addChild(root, node("b", "1.0.0", nil)) // distinct name, no conflict possible here

	tree := New().Hoist(root)

	seen := map[string]bool{}
	for _, name := range tree.Root.Keys() {
		assert.False(t, seen[name], "duplicate root name %s", name)
		seen[name] = true
	}
}

func TestVersionConflictConcreteVsRange(t *testing.T) {
	assert.False(t, versionConflict("1.2.3", "^1.0.0"))
	assert.True(t, versionConflict("2.0.0", "^1.0.0"))
}

func TestVersionConflictBothRangesConservative(t *testing.T) {
	// Equal ranges are string-equal, so no conflict; distinct ranges are
	// always conservatively treated as a conflict.
	assert.False(t, versionConflict("^1.0.0", "^1.0.0"))
	assert.True(t, versionConflict("^1.0.0", "^2.0.0"))
}

func TestVirtualRootNeverAppearsAsNonRootPlacement(t *testing.T) {
	root := node(npmtree.VirtualRootName, npmtree.VirtualRootVersion, nil)
	addChild(root, node("a", "1.0.0", nil))

	tree := New().Hoist(root)

	assert.True(t, tree.Root.Has(npmtree.VirtualRootName))
	tree.Nested.Range(func(_ string, bucket *npmtree.OrderedMap[*npmtree.HoistedDependency]) bool {
		assert.False(t, bucket.Has(npmtree.VirtualRootName))
		return true
	})
}
