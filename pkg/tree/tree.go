// Package tree builds the logical dependency tree: one DependencyNode per
// occurrence of a (name, version) pair, with sibling dependency edges
// resolved concurrently and a flat occurrence index populated as a side
// effect.
package tree

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/npmtree/pkg/npmtree"
)

// VersionResolver reduces a (name, descriptor) pair to a concrete
// PackageInfo. *resolver.CachedResolver satisfies this.
type VersionResolver interface {
	Resolve(ctx context.Context, name, descriptor string) (*npmtree.PackageInfo, error)
}

// Builder constructs logical dependency trees.
type Builder struct {
	resolver VersionResolver
	logger   *log.Logger
}

// New builds a Builder over resolver. A nil logger defaults to
// log.Default(), mirroring this codebase's other logger-accepting
// constructors.
func New(resolver VersionResolver, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{resolver: resolver, logger: logger}
}

// Build resolves (name, descriptor) and recursively builds its dependency
// subtree, registering every occurrence in flatDeps under its parent paths.
// parentPath is the path to this node's parent ("" for a root call, which
// is recorded as "root" in flatDeps).
func (b *Builder) Build(ctx context.Context, name, descriptor string, flatDeps *npmtree.FlatIndex, parentPath string) (*npmtree.DependencyNode, error) {
	return b.build(ctx, name, descriptor, flatDeps, parentPath, map[string]bool{})
}

// activePath tracks the "{name}@{version}" keys on the current recursion
// branch, copied (never shared) into each child call so that sibling
// branches cannot see one another's active path.
func (b *Builder) build(ctx context.Context, name, descriptor string, flatDeps *npmtree.FlatIndex, parentPath string, activePath map[string]bool) (*npmtree.DependencyNode, error) {
	info, err := b.resolver.Resolve(ctx, name, descriptor)
	if err != nil {
		return nil, err
	}

	node := npmtree.NewDependencyNode(info.Name, info.Version, info.PeerDependencies)
	key := node.Key()

	flatDeps.Record(info.Name, info.Version, parentPath)

	if activePath[key] {
		b.logger.Infof("cycle detected at %s, truncating subtree", key)
		return node, nil
	}

	currentPath := key
	if parentPath != "" {
		currentPath = parentPath + " > " + key
	}

	nextActive := make(map[string]bool, len(activePath)+1)
	for k := range activePath {
		nextActive[k] = true
	}
	nextActive[key] = true

	type childResult struct {
		name string
		node *npmtree.DependencyNode
	}

	childNames := info.Dependencies.Keys()
	g, gctx := errgroup.WithContext(ctx)
	results := make([]childResult, len(childNames))
	for idx, childName := range childNames {
		childDescriptor, _ := info.Dependencies.Get(childName)
		idx, childName, childDescriptor := idx, childName, childDescriptor
		results[idx].name = childName
		g.Go(func() error {
			b.logger.Debugf("resolving %s@%s (parent %s)", childName, childDescriptor, currentPath)
			child, err := b.build(gctx, childName, childDescriptor, flatDeps, currentPath, nextActive)
			if err != nil {
				return err
			}
			results[idx].node = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Insert in declaration order (not completion order) so downstream
	// consumers see the same deterministic order the registry declared.
	for _, r := range results {
		node.Dependencies.Set(r.name, r.node)
	}
	return node, nil
}
