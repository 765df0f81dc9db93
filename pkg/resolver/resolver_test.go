package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/npmtree/pkg/cache"
	"github.com/matzehuels/npmtree/pkg/errs"
	"github.com/matzehuels/npmtree/pkg/registry"
)

type fakeFetcher struct {
	docs  map[string]*registry.Packument
	calls int
}

func (f *fakeFetcher) FetchPackument(_ context.Context, name string) (*registry.Packument, error) {
	f.calls++
	doc, ok := f.docs[name]
	if !ok {
		return nil, errs.New(errs.CodePackageNotFound, "no such package %s", name)
	}
	return doc, nil
}

func lodashDoc() *registry.Packument {
	return &registry.Packument{
		Name:     "lodash",
		DistTags: map[string]string{"latest": "4.17.21"},
		Versions: map[string]registry.VersionInfo{
			"4.17.21": {Name: "lodash", Version: "4.17.21"},
			"4.17.20": {Name: "lodash", Version: "4.17.20"},
		},
	}
}

func TestResolveExactVersion(t *testing.T) {
	f := &fakeFetcher{docs: map[string]*registry.Packument{"lodash": lodashDoc()}}
	r := New(f)

	info, err := r.Resolve(context.Background(), "lodash", "4.17.20")
	require.NoError(t, err)
	assert.Equal(t, "4.17.20", info.Version)
}

func TestResolveDistTag(t *testing.T) {
	f := &fakeFetcher{docs: map[string]*registry.Packument{"lodash": lodashDoc()}}
	r := New(f)

	info, err := r.Resolve(context.Background(), "lodash", "latest")
	require.NoError(t, err)
	assert.Equal(t, "4.17.21", info.Version)
}

func TestResolveSemverRange(t *testing.T) {
	f := &fakeFetcher{docs: map[string]*registry.Packument{"lodash": lodashDoc()}}
	r := New(f)

	info, err := r.Resolve(context.Background(), "lodash", "^4.17.0")
	require.NoError(t, err)
	assert.Equal(t, "4.17.21", info.Version)
}

func TestResolveFailsWithNoMatch(t *testing.T) {
	f := &fakeFetcher{docs: map[string]*registry.Packument{"lodash": lodashDoc()}}
	r := New(f)

	_, err := r.Resolve(context.Background(), "lodash", "invalid-version")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodePackageNotFound))
}

func TestResolvePrefersDistTagOverRange(t *testing.T) {
	// "next" is a plain tag that is not a valid range. "*" is both a tag
	// here and a valid range that, as a range, would select 2.0.0; the tag
	// must win because resolution tries exact, then tag, then range.
	doc := &registry.Packument{
		Name:     "weird",
		DistTags: map[string]string{"next": "2.0.0", "*": "1.0.0"},
		Versions: map[string]registry.VersionInfo{
			"1.0.0": {Name: "weird", Version: "1.0.0"},
			"2.0.0": {Name: "weird", Version: "2.0.0"},
		},
	}
	f := &fakeFetcher{docs: map[string]*registry.Packument{"weird": doc}}
	r := New(f)

	info, err := r.Resolve(context.Background(), "weird", "next")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", info.Version)

	info, err = r.Resolve(context.Background(), "weird", "*")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestCachedResolverSharesFetchesAcrossRepeatedDescriptor(t *testing.T) {
	f := &fakeFetcher{docs: map[string]*registry.Packument{"lodash": lodashDoc()}}
	cr := NewCachedResolver(f, cache.NewMetadataCache(cache.NewMemoryBackend(), 0))

	_, err := cr.Resolve(context.Background(), "lodash", "^4.17.0")
	require.NoError(t, err)
	_, err = cr.Resolve(context.Background(), "lodash", "^4.17.0")
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls)
}
