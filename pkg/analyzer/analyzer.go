// Package analyzer ties the registry client, version resolver, tree builder
// and hoisting planner together into the two operations a caller actually
// wants: analyze one package, or analyze several as one combined
// installation.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/npmtree/pkg/cache"
	"github.com/matzehuels/npmtree/pkg/errs"
	"github.com/matzehuels/npmtree/pkg/hoist"
	"github.com/matzehuels/npmtree/pkg/npmtree"
	"github.com/matzehuels/npmtree/pkg/registry"
	"github.com/matzehuels/npmtree/pkg/resolver"
	"github.com/matzehuels/npmtree/pkg/tree"
)

// Options configures an Analyzer. Zero-value Options is valid: it talks to
// the public npm registry with a 30s timeout and an unbounded in-process
// cache.
type Options struct {
	// RegistryURL is the registry root. Defaults to registry.DefaultBaseURL.
	RegistryURL string
	// Timeout bounds every registry request.
	Timeout time.Duration
	// Headers are merged into every registry request.
	Headers map[string]string
	// Cache backs version-resolution memoization. Defaults to a
	// cache.MemoryBackend wrapped with a 0 (no expiry) TTL.
	Cache cache.Backend
	// Logger receives resolution progress, cycle truncations and per-call
	// completion messages. Hoisting conflict/nesting decisions are not
	// logged. A nil Logger defaults to log.Default().
	Logger *log.Logger
}

// Analyzer resolves and hoists one or more npm packages.
type Analyzer struct {
	resolver *resolver.CachedResolver
	planner  *hoist.Planner
	logger   *log.Logger
}

// New builds an Analyzer from opts.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	client := registry.NewClient(registry.Options{
		BaseURL: opts.RegistryURL,
		Timeout: opts.Timeout,
		Headers: opts.Headers,
	})

	backend := opts.Cache
	if backend == nil {
		backend = cache.NewMemoryBackend()
	}
	metadataCache := cache.NewMetadataCache(backend, 0)

	return &Analyzer{
		resolver: resolver.NewCachedResolver(client, metadataCache),
		planner:  hoist.New(),
		logger:   logger,
	}
}

// AnalyzeOne resolves name@descriptor into its full dependency tree and
// hoisted installation plan.
func (a *Analyzer) AnalyzeOne(ctx context.Context, name, descriptor string) (*npmtree.AnalysisResult, error) {
	if err := errs.ValidateNpmPackageName(name); err != nil {
		return nil, err
	}
	if err := errs.ValidateDescriptor(descriptor); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := a.logger.With("request_id", requestID, "package", npmtree.Key(name, descriptor))
	logger.Debug("analyzing package")

	builder := tree.New(a.resolver, logger)
	flatDeps := npmtree.NewFlatIndex()

	root, err := builder.Build(ctx, name, descriptor, flatDeps, "")
	if err != nil {
		return nil, err
	}

	hoisted := a.planner.Hoist(root)
	logger.Info("analysis complete", "root_version", root.Version, "flat_count", len(flatDeps.Snapshot()))

	return &npmtree.AnalysisResult{
		DependencyTree:   root,
		HoistedTree:      hoisted,
		FlatDependencies: flatDeps.Snapshot(),
	}, nil
}

// AnalyzeMany resolves every request independently, then additionally
// hoists them together under a synthetic virtual root so the caller also
// sees what a single shared installation of all of them would look like.
// An empty requests slice is not an error: it yields a well-formed, empty
// result (empty Individual, a virtual root with no dependencies, a hoisted
// tree whose root holds only the virtual root and whose nested map is empty).
func (a *Analyzer) AnalyzeMany(ctx context.Context, requests []npmtree.PackageRequest) (*npmtree.MultiPackageAnalysisResult, error) {
	requestID := uuid.NewString()
	logger := a.logger.With("request_id", requestID, "package_count", len(requests))
	logger.Debug("analyzing package set")

	individual := make(map[string]*npmtree.AnalysisResult, len(requests))
	virtualRoot := npmtree.NewDependencyNode(npmtree.VirtualRootName, npmtree.VirtualRootVersion, nil)
	flatIndexes := make([]map[string]*npmtree.FlatDependency, 0, len(requests))

	for _, req := range requests {
		result, err := a.AnalyzeOne(ctx, req.Name, req.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("analyzing %s@%s: %w", req.Name, req.Descriptor, err)
		}
		key := npmtree.Key(req.Name, req.Descriptor)
		individual[key] = result
		virtualRoot.Dependencies.Set(key, result.DependencyTree)
		flatIndexes = append(flatIndexes, result.FlatDependencies)
	}

	combinedHoisted := a.planner.Hoist(virtualRoot)
	logger.Info("analysis complete")

	return &npmtree.MultiPackageAnalysisResult{
		Individual: individual,
		Combined: &npmtree.CombinedResult{
			HoistedTree:      combinedHoisted,
			FlatDependencies: npmtree.Merge(flatIndexes...),
		},
	}, nil
}

// Analyze is a convenience wrapper over AnalyzeOne/AnalyzeMany for callers
// that would rather not pick the call site by hand: pass a single
// npmtree.PackageRequest for one package, or []npmtree.PackageRequest for a
// set. Go has no overloading, so (name, descriptor string) itself can't be
// type-switched on here; call AnalyzeOne directly for that case.
func (a *Analyzer) Analyze(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case npmtree.PackageRequest:
		return a.AnalyzeOne(ctx, v.Name, v.Descriptor)
	case []npmtree.PackageRequest:
		return a.AnalyzeMany(ctx, v)
	default:
		return nil, errs.New(errs.CodeInvalidArguments, "unsupported Analyze input type %T; use npmtree.PackageRequest or []npmtree.PackageRequest", input)
	}
}
