package npmtree

import "sync"

// FlatIndex is the concurrency-safe "{name}@{version}" occurrence map
// populated as a side effect of building a logical dependency tree. Every
// goroutine building a subtree shares one FlatIndex and registers its own
// node's occurrence through Record.
type FlatIndex struct {
	mu   sync.Mutex
	data map[string]*FlatDependency
}

// NewFlatIndex returns an empty FlatIndex.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{data: make(map[string]*FlatDependency)}
}

// Record registers one occurrence of (name, version) under parentPath
// ("root" for a top-level request), creating the FlatDependency entry on
// first sight and adding parentPath to its requiredBy set thereafter.
func (idx *FlatIndex) Record(name, version, parentPath string) {
	if parentPath == "" {
		parentPath = "root"
	}
	key := Key(name, version)
	idx.mu.Lock()
	defer idx.mu.Unlock()
	entry, ok := idx.data[key]
	if !ok {
		entry = &FlatDependency{Name: name, Version: version, RequiredBy: map[string]bool{}}
		idx.data[key] = entry
	}
	entry.RequiredBy[parentPath] = true
}

// Snapshot returns the underlying map. Safe to call once building has
// finished (no further concurrent Record calls in flight); the returned map
// is not copied, so callers must treat it as read-only if building might
// still be in progress.
func (idx *FlatIndex) Snapshot() map[string]*FlatDependency {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.data
}

// Merge unions the given flat-dependency maps into a new map, combining
// requiredBy sets for keys present in more than one; the inputs are not
// modified. Used to combine per-package flat indexes into the
// multi-package analyzer's combined view.
func Merge(indexes ...map[string]*FlatDependency) map[string]*FlatDependency {
	merged := make(map[string]*FlatDependency)
	for _, idx := range indexes {
		for key, entry := range idx {
			existing, ok := merged[key]
			if !ok {
				merged[key] = &FlatDependency{
					Name:       entry.Name,
					Version:    entry.Version,
					RequiredBy: copyRequiredBy(entry.RequiredBy),
				}
				continue
			}
			for path := range entry.RequiredBy {
				existing.RequiredBy[path] = true
			}
		}
	}
	return merged
}

func copyRequiredBy(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
