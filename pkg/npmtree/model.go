// Package npmtree defines the data model shared by every stage of dependency
// resolution and hoisting: the concrete package record fetched from a
// registry, the logical dependency tree built from it, the flat occurrence
// index recorded as a side effect of building that tree, and the hoisted
// tree produced by placing logical nodes into a shared installation root.
//
// Every dependency, peer-dependency and hoisted-tree map exposed by this
// package is an *OrderedMap, preserving the insertion order the registry's
// JSON response declared (or, for HoistedTree, the order the hoisting
// planner placed entries in). This matters: the hoisting planner's
// placement tie-break is "first node that reaches a name wins," which is
// only deterministic if iteration order is preserved end to end. The flat
// index (FlatDependencies, RequiredBy) and MultiPackageAnalysisResult's
// Individual are plain Go maps and do not preserve insertion order.
package npmtree

// StringMap is an insertion-ordered string-to-string map, the shape used
// for dependency and peer-dependency descriptor mappings.
type StringMap = OrderedMap[string]

// PackageInfo is the immutable record of a single published package version.
// DevDependencies is retained only so callers can inspect what a registry
// document declared; the resolution engine never follows it.
type PackageInfo struct {
	Name             string    `json:"name"`
	Version          string    `json:"version"`
	Dependencies     *StringMap `json:"dependencies"`
	PeerDependencies *StringMap `json:"peerDependencies"`
	DevDependencies  *StringMap `json:"devDependencies,omitempty"`
}

// DependencyNode is a node of the logical dependency tree. The same
// (name, version) pair may appear in many subtrees; each occurrence is an
// independent node, so the tree is a tree and never a DAG.
type DependencyNode struct {
	Name             string                      `json:"name"`
	Version          string                      `json:"version"`
	Dependencies     *OrderedMap[*DependencyNode] `json:"dependencies"`
	PeerDependencies *StringMap                   `json:"peerDependencies,omitempty"`
}

// NewDependencyNode creates a node with initialized child and peer maps.
func NewDependencyNode(name, version string, peers *StringMap) *DependencyNode {
	if peers == nil {
		peers = NewOrderedMap[string]()
	}
	return &DependencyNode{
		Name:             name,
		Version:          version,
		Dependencies:     NewOrderedMap[*DependencyNode](),
		PeerDependencies: peers,
	}
}

// Key returns the "name@version" identifier used throughout the flat index
// and the hoisted tree's parent-path bookkeeping.
func (n *DependencyNode) Key() string {
	return Key(n.Name, n.Version)
}

// Key formats a package occurrence as "name@version".
func Key(name, version string) string {
	return name + "@" + version
}

// FlatDependency records one unique (name, version) pair observed while
// building a logical tree, together with every distinct parent chain that
// demanded it. RequiredBy is a set, not an ordered sequence; member order
// carries no meaning.
type FlatDependency struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	RequiredBy map[string]bool `json:"requiredBy"`
}

// HoistedDependency is a package placed somewhere in a HoistedTree.
// Dependencies records only the resolved version for each declared
// dependency name; recursive structure is recovered by looking that
// version up elsewhere in the tree.
type HoistedDependency struct {
	Name             string     `json:"name"`
	Version          string     `json:"version"`
	Dependencies     *StringMap `json:"dependencies"`
	PeerDependencies *StringMap `json:"peerDependencies,omitempty"`
	Parent           *string    `json:"parent,omitempty"`
}

// HoistedTree is the flattened installation plan produced by the hoisting
// planner: a root level plus per-parent-path nested buckets.
type HoistedTree struct {
	Root   *OrderedMap[*HoistedDependency]            `json:"root"`
	Nested *OrderedMap[*OrderedMap[*HoistedDependency]] `json:"nested"`
}

// NewHoistedTree returns an empty, well-formed HoistedTree.
func NewHoistedTree() *HoistedTree {
	return &HoistedTree{
		Root:   NewOrderedMap[*HoistedDependency](),
		Nested: NewOrderedMap[*OrderedMap[*HoistedDependency]](),
	}
}

// NestedBucket returns the nested map for parentPath, creating it if absent.
func (t *HoistedTree) NestedBucket(parentPath string) *OrderedMap[*HoistedDependency] {
	if b, ok := t.Nested.Get(parentPath); ok {
		return b
	}
	b := NewOrderedMap[*HoistedDependency]()
	t.Nested.Set(parentPath, b)
	return b
}

// AnalysisResult is the outcome of a single-package analyze call.
type AnalysisResult struct {
	DependencyTree   *DependencyNode            `json:"dependencyTree"`
	HoistedTree      *HoistedTree               `json:"hoistedTree"`
	FlatDependencies map[string]*FlatDependency `json:"flatDependencies"`
}

// PackageRequest identifies one root package for a multi-package analyze call.
type PackageRequest struct {
	Name       string `json:"name"`
	Descriptor string `json:"version"`
}

// CombinedResult is the hoisted view of a multi-package analyze call, built
// from the synthetic virtual root.
type CombinedResult struct {
	HoistedTree      *HoistedTree               `json:"hoistedTree"`
	FlatDependencies map[string]*FlatDependency `json:"flatDependencies"`
}

// MultiPackageAnalysisResult is the outcome of a multi-package analyze call.
type MultiPackageAnalysisResult struct {
	Individual map[string]*AnalysisResult `json:"individual"`
	Combined   *CombinedResult            `json:"combined"`
}

// VirtualRootName and VirtualRootVersion identify the synthetic root
// synthesized for multi-package analysis. No real npm package can collide
// with them: npm registries do not publish anything named "virtual-root",
// and version 0.0.0 is never assigned to a real release.
const (
	VirtualRootName    = "virtual-root"
	VirtualRootVersion = "0.0.0"
)
