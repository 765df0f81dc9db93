package tree

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/npmtree/pkg/npmtree"
)

// fakeResolver resolves (name, descriptor) by looking descriptor up
// directly as a version key in a fixed per-package table, so tests can
// construct arbitrary (including cyclic) dependency graphs without a real
// registry.
type fakeResolver struct {
	packages map[string]*npmtree.PackageInfo
}

func (f *fakeResolver) Resolve(_ context.Context, name, descriptor string) (*npmtree.PackageInfo, error) {
	return f.packages[npmtree.Key(name, descriptor)], nil
}

func deps(pairs ...string) *npmtree.StringMap {
	m := npmtree.NewOrderedMap[string]()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func TestBuildLeafNode(t *testing.T) {
	r := &fakeResolver{packages: map[string]*npmtree.PackageInfo{
		"lodash@4.17.21": {Name: "lodash", Version: "4.17.21"},
	}}
	b := New(r, nil)
	flat := npmtree.NewFlatIndex()

	node, err := b.Build(context.Background(), "lodash", "4.17.21", flat, "")
	require.NoError(t, err)
	assert.Equal(t, "lodash", node.Name)
	assert.Equal(t, "4.17.21", node.Version)
	assert.Equal(t, 0, node.Dependencies.Len())

	entry := flat.Snapshot()["lodash@4.17.21"]
	require.NotNil(t, entry)
	assert.True(t, entry.RequiredBy["root"])
}

func TestBuildRecordsAllParentPaths(t *testing.T) {
	r := &fakeResolver{packages: map[string]*npmtree.PackageInfo{
		"app@1.0.0":    {Name: "app", Version: "1.0.0", Dependencies: deps("a", "1.0.0", "b", "1.0.0")},
		"a@1.0.0":      {Name: "a", Version: "1.0.0", Dependencies: deps("shared", "1.0.0")},
		"b@1.0.0":      {Name: "b", Version: "1.0.0", Dependencies: deps("shared", "1.0.0")},
		"shared@1.0.0": {Name: "shared", Version: "1.0.0"},
	}}
	b := New(r, nil)
	flat := npmtree.NewFlatIndex()

	_, err := b.Build(context.Background(), "app", "1.0.0", flat, "")
	require.NoError(t, err)

	entry := flat.Snapshot()["shared@1.0.0"]
	require.NotNil(t, entry)
	assert.True(t, entry.RequiredBy["app@1.0.0 > a@1.0.0"])
	assert.True(t, entry.RequiredBy["app@1.0.0 > b@1.0.0"])
	assert.Len(t, entry.RequiredBy, 2)
}

func TestBuildTerminatesOnCycle(t *testing.T) {
	r := &fakeResolver{packages: map[string]*npmtree.PackageInfo{
		"a@1.0.0": {Name: "a", Version: "1.0.0", Dependencies: deps("b", "1.0.0")},
		"b@1.0.0": {Name: "b", Version: "1.0.0", Dependencies: deps("a", "1.0.0")},
	}}
	b := New(r, nil)
	flat := npmtree.NewFlatIndex()

	done := make(chan struct{})
	var node *npmtree.DependencyNode
	var err error
	go func() {
		node, err = b.Build(context.Background(), "a", "1.0.0", flat, "")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Build did not terminate on cyclic metadata")
	}

	require.NoError(t, err)
	assert.Equal(t, "a", node.Name)
	bNode, ok := node.Dependencies.Get("b")
	require.True(t, ok)
	require.NotNil(t, bNode)
	aAgain, ok := bNode.Dependencies.Get("a")
	require.True(t, ok)
	require.NotNil(t, aAgain)
	assert.Equal(t, 0, aAgain.Dependencies.Len(), "cycle revisit should truncate with empty dependencies")
}
