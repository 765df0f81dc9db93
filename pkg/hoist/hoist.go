// Package hoist converts a logical dependency tree into a hoisted
// installation plan: packages are placed at a shared root level when doing
// so doesn't conflict with an existing placement or violate a peer
// dependency, and nested under their parent otherwise.
package hoist

import (
	"github.com/matzehuels/npmtree/pkg/npmtree"
	"github.com/matzehuels/npmtree/pkg/semver"
)

// Planner walks a logical tree and produces a HoistedTree. It is pure and
// synchronous: no I/O, no concurrency.
type Planner struct{}

// New returns a Planner.
func New() *Planner {
	return &Planner{}
}

// Hoist places root (a real package node, or a synthetic virtual root) and
// every node reachable from it into a HoistedTree.
func (p *Planner) Hoist(root *npmtree.DependencyNode) *npmtree.HoistedTree {
	tree := npmtree.NewHoistedTree()
	if root == nil {
		return tree
	}

	tree.Root.Set(root.Name, &npmtree.HoistedDependency{
		Name:             root.Name,
		Version:          root.Version,
		Dependencies:     declaredVersions(root),
		PeerDependencies: root.PeerDependencies,
	})
	for _, childName := range root.Dependencies.Keys() {
		child, _ := root.Dependencies.Get(childName)
		p.place(tree, child, root.Key())
	}
	return tree
}

// place implements the depth-first placement walk for a non-root node d,
// whose logical parent's path is parentPath.
func (p *Planner) place(tree *npmtree.HoistedTree, d *npmtree.DependencyNode, parentPath string) {
	existing, hasRoot := tree.Root.Get(d.Name)

	switch {
	case !hasRoot && p.canHoist(tree, d):
		tree.Root.Set(d.Name, &npmtree.HoistedDependency{
			Name:             d.Name,
			Version:          d.Version,
			Dependencies:     declaredVersions(d),
			PeerDependencies: d.PeerDependencies,
		})
	case hasRoot && !versionConflict(existing.Version, d.Version) && !p.violatesCanHoist(tree, d):
		// Reuse the existing root placement; do not duplicate.
	default:
		bucket := tree.NestedBucket(parentPath)
		parent := parentPath
		bucket.Set(d.Name, &npmtree.HoistedDependency{
			Name:             d.Name,
			Version:          d.Version,
			Dependencies:     declaredVersions(d),
			PeerDependencies: d.PeerDependencies,
			Parent:           &parent,
		})
	}

	childParentPath := d.Key()
	for _, childName := range d.Dependencies.Keys() {
		child, _ := d.Dependencies.Get(childName)
		p.place(tree, child, childParentPath)
	}
}

// declaredVersions flattens d's Dependencies map of child nodes into a
// name->version mapping, matching HoistedDependency's non-recursive shape.
func declaredVersions(d *npmtree.DependencyNode) *npmtree.StringMap {
	versions := npmtree.NewOrderedMap[string]()
	for _, name := range d.Dependencies.Keys() {
		child, _ := d.Dependencies.Get(name)
		versions.Set(name, child.Version)
	}
	return versions
}

// versionConflict implements VersionConflict(existing, candidate).
func versionConflict(existing, candidate string) bool {
	if existing == candidate {
		return false
	}

	existingConcrete := semver.Valid(existing)
	candidateConcrete := semver.Valid(candidate)

	switch {
	case existingConcrete && candidateConcrete:
		// Both concrete and already known to differ (string inequality above).
		return true
	case existingConcrete && !candidateConcrete:
		return !semver.Satisfies(existing, candidate)
	case !existingConcrete && candidateConcrete:
		return !semver.Satisfies(candidate, existing)
	default:
		// Both ranges: conservative, always conflict.
		return true
	}
}

// canHoist implements CanHoist(candidate) for a candidate with no existing
// root entry.
func (p *Planner) canHoist(tree *npmtree.HoistedTree, candidate *npmtree.DependencyNode) bool {
	return !p.violatesCanHoist(tree, candidate)
}

// violatesCanHoist reports whether placing candidate at root would violate
// either direction of the peer-satisfaction check.
func (p *Planner) violatesCanHoist(tree *npmtree.HoistedTree, candidate *npmtree.DependencyNode) bool {
	violated := false
	tree.Root.Range(func(_ string, r *npmtree.HoistedDependency) bool {
		r.PeerDependencies.Range(func(peerName, peerRange string) bool {
			if peerName == candidate.Name && !semver.Satisfies(candidate.Version, peerRange) {
				violated = true
				return false
			}
			return true
		})
		return !violated
	})
	if violated {
		return true
	}

	candidate.PeerDependencies.Range(func(peerName, peerRange string) bool {
		if existing, ok := tree.Root.Get(peerName); ok {
			if !semver.Satisfies(existing.Version, peerRange) {
				violated = true
				return false
			}
		}
		return true
	})
	return violated
}
