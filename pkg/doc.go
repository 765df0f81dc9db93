// Package pkg provides the core libraries for npmtree, an npm dependency
// resolution and hoisting engine.
//
// # Overview
//
// npmtree reduces a package's declared dependencies into a concrete
// logical dependency tree, then plans a hoisted installation layout from
// it: the same placement problem npm itself solves when deciding which
// packages land at the top-level node_modules versus nested under a
// parent. The pkg directory is organized by pipeline stage:
//
//  1. [npmtree] - Shared data model (PackageInfo, DependencyNode,
//     FlatDependency, HoistedTree) and the insertion-ordered map type the
//     rest of the module relies on for deterministic placement.
//  2. [semver] - Version range parsing and satisfaction.
//  3. [registry] - HTTP client for registry packuments.
//  4. [cache] - Pluggable, single-flighted metadata memoization.
//  5. [resolver] - Descriptor -> concrete version resolution.
//  6. [tree] - Concurrent logical dependency tree construction.
//  7. [hoist] - Hoisted installation plan construction.
//  8. [analyzer] - Façade tying the above into AnalyzeOne/AnalyzeMany.
//
// # Architecture
//
// The typical data flow through npmtree:
//
//	name@descriptor
//	         ↓
//	  [resolver] package (exact/dist-tag/semver-range resolution, cached)
//	         ↓
//	  [tree] package (concurrent recursive build -> DependencyNode + flat index)
//	         ↓
//	  [hoist] package (depth-first placement -> HoistedTree)
//	         ↓
//	  AnalysisResult / MultiPackageAnalysisResult
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/npmtree/pkg/analyzer"
//	)
//
//	a := analyzer.New(analyzer.Options{})
//	result, err := a.AnalyzeOne(context.Background(), "express", "^4.18.0")
//
// # Main Packages
//
// [npmtree] defines the data model every other package operates on.
// Its dependency, peer-dependency and hoisted-tree maps (the hoisted
// tree's root and nested buckets) are [npmtree.OrderedMap] values, not
// plain Go maps; the flat index and the per-request Individual results
// are plain Go maps. The hoisting planner's placement tie-break is "first node that
// reaches a name wins," and that is only deterministic if the order a
// registry declared its dependencies in survives decoding and carries
// through to the result.
//
// [registry] fetches packuments over HTTP with percent-encoded scoped
// names, a bounded timeout, and retry-on-5xx/transport-failure only (a
// 404 is never retried). [cache] sits in front of it, memoizing resolved
// metadata by "name@descriptor" with at most one in-flight fetch per key
// even under concurrent callers.
//
// [resolver] implements the version resolution algorithm: an exact
// version match, then a dist-tag, then semver range satisfaction via
// [semver], failing with errs.CodePackageNotFound if none apply.
//
// [tree] builds one DependencyNode per occurrence of a (name, version)
// pair — the same package at two different versions in two different
// subtrees is two independent nodes — resolving sibling dependency edges
// concurrently via errgroup and recording every occurrence's parent
// chains in a shared flat index. A copied (never shared) active-path set
// detects and truncates cycles.
//
// [hoist] walks a built tree depth-first and places each node at a shared
// root level when that doesn't conflict with an existing placement or
// violate a peer dependency, nesting it under its parent otherwise.
//
// [analyzer] is the façade most callers use directly: AnalyzeOne for a
// single package, AnalyzeMany for several analyzed independently plus
// combined under a synthetic virtual root, as cmd/npmtree's "resolve"
// command does.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/hoist/...    # Specific package
//
// [npmtree]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/npmtree
// [semver]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/semver
// [registry]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/registry
// [cache]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/cache
// [resolver]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/resolver
// [tree]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/tree
// [hoist]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/hoist
// [analyzer]: https://pkg.go.dev/github.com/matzehuels/npmtree/pkg/analyzer
package pkg
