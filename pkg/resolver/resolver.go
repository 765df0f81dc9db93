// Package resolver reduces a version descriptor (an exact version, a
// dist-tag, or a semver range) to a concrete, published PackageInfo.
package resolver

import (
	"context"

	"github.com/matzehuels/npmtree/pkg/errs"
	"github.com/matzehuels/npmtree/pkg/npmtree"
	"github.com/matzehuels/npmtree/pkg/registry"
	"github.com/matzehuels/npmtree/pkg/semver"
)

// Fetcher retrieves a package's registry document, typically
// *registry.Client fronted by a metadata cache.
type Fetcher interface {
	FetchPackument(ctx context.Context, name string) (*registry.Packument, error)
}

// Resolver reduces (name, descriptor) pairs to concrete PackageInfo values.
type Resolver struct {
	fetcher Fetcher
}

// New builds a Resolver over fetcher.
func New(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve implements the five-step algorithm: exact version match, then
// dist-tag, then semver range satisfaction, failing with
// errs.CodePackageNotFound if none apply.
func (r *Resolver) Resolve(ctx context.Context, name, descriptor string) (*npmtree.PackageInfo, error) {
	doc, err := r.fetcher.FetchPackument(ctx, name)
	if err != nil {
		return nil, err
	}

	if v, ok := doc.Versions[descriptor]; ok {
		return toPackageInfo(name, descriptor, v), nil
	}

	if tagged, ok := doc.DistTags[descriptor]; ok {
		if v, ok := doc.Versions[tagged]; ok {
			return toPackageInfo(name, tagged, v), nil
		}
	}

	if semver.ValidRange(descriptor) {
		versions := make([]string, 0, len(doc.Versions))
		for v := range doc.Versions {
			versions = append(versions, v)
		}
		if winner, ok := semver.MaxSatisfying(versions, descriptor); ok {
			return toPackageInfo(name, winner, doc.Versions[winner]), nil
		}
	}

	return nil, errs.New(errs.CodePackageNotFound, "no matching version found for %s@%s", name, descriptor)
}

func toPackageInfo(name, version string, v registry.VersionInfo) *npmtree.PackageInfo {
	deps := v.Dependencies
	if deps == nil {
		deps = npmtree.NewOrderedMap[string]()
	}
	peers := v.PeerDependencies
	if peers == nil {
		peers = npmtree.NewOrderedMap[string]()
	}
	dev := v.DevDependencies
	if dev == nil {
		dev = npmtree.NewOrderedMap[string]()
	}
	return &npmtree.PackageInfo{
		Name:             name,
		Version:          version,
		Dependencies:     deps,
		PeerDependencies: peers,
		DevDependencies:  dev,
	}
}
