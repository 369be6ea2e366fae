package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/styles"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/swiftparse"
)

// FileResult is one interface file's parse outcome.
type FileResult struct {
	Path       string
	FileID     source.FileID
	Signatures []sigmodel.OperationSignature
	Bag        *diag.Bag
	FromCache  bool
}

// listInterfaceFiles returns every *.swiftinterface under dir, sorted
// for deterministic ordering.
func listInterfaceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".swiftinterface") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ParseDir loads and parses every interface file in parallel. Files
// whose content hash is in the cache skip the parser. The style
// enumerator always rescans: discoveries are cheap and feed erasure,
// not parsing.
func ParseDir(ctx context.Context, opts Options) (*source.Set, []FileResult, *styles.Enumerator, error) {
	files, err := listInterfaceFiles(opts.InputDir)
	if err != nil {
		return nil, nil, nil, err
	}

	set := source.NewSet(opts.InputDir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, loadErr := set.Load(path)
		if loadErr != nil {
			loadErrors[path] = loadErr
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(files), 1)))

	emit(opts.Events, Event{Stage: StageParse, Total: len(files)})
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(opts.maxDiagnostics())
			if loadErr, hadError := loadErrors[path]; hadError {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFile,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				results[i] = FileResult{Path: path, Bag: bag}
				emit(opts.Events, Event{Stage: StageParse, Name: path, Err: loadErr})
				return nil
			}

			id := fileIDs[path]
			file := set.Get(id)

			if sigs, hit := cacheLookup(opts.Cache, file); hit {
				results[i] = FileResult{Path: path, FileID: id, Signatures: sigs, Bag: bag, FromCache: true}
				emit(opts.Events, Event{Stage: StageParse, Name: path, Cached: true})
				return nil
			}

			sigs := swiftparse.File(file, diag.BagReporter{Bag: bag})
			results[i] = FileResult{Path: path, FileID: id, Signatures: sigs, Bag: bag}
			// A file that parsed with errors must not poison the cache.
			if !bag.HasErrors() {
				if putErr := opts.Cache.Put(file.Hash, encodeSignatures(sigs)); putErr != nil {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevWarning,
						Code:     diag.IOCacheWrite,
						Message:  "failed to write parse cache: " + putErr.Error(),
					})
				}
			}
			emit(opts.Events, Event{Stage: StageParse, Name: path})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return set, results, nil, err
	}

	enum := styles.NewEnumerator()
	for _, path := range files {
		if id, loaded := fileIDs[path]; loaded {
			enum.ScanFile(set.Get(id))
		}
	}
	return set, results, enum, nil
}

func cacheLookup(cache *DiskCache, file *source.File) ([]sigmodel.OperationSignature, bool) {
	if cache == nil {
		return nil, false
	}
	var payload CachePayload
	hit, err := cache.Get(file.Hash, &payload)
	if err != nil || !hit {
		return nil, false
	}
	return decodeSignatures(&payload, file.ID)
}
