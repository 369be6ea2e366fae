// Package driver orchestrates a generation run: parallel interface
// parsing, overload grouping, per-group merge and emission, and output
// writing. Per-group failures are reported and never abort the run.
package driver

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/codegen"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/erasure"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/observ"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/swiftparse"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/transform"
)

const defaultMaxDiagnostics = 256

// Options configure one run.
type Options struct {
	InputDir       string
	OutputDir      string
	Jobs           int
	MaxDiagnostics int
	// Extra extends the builtin erasure table (modgen.toml [erasure]).
	Extra map[string]string
	// Exclude drops operations by name ([generate].exclude).
	Exclude []string
	// Platforms restricts build-conditioned signatures
	// ([generate].platforms); empty keeps everything.
	Platforms []string
	// Cache is the parse cache; nil disables caching.
	Cache *DiskCache
	// Events receives progress; nil disables reporting.
	Events chan<- Event
	// Timings accumulates per-stage wall time; nil disables measuring.
	Timings *observ.RunTimings
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// GroupResult is one overload group's outcome.
type GroupResult struct {
	Operation      string
	GeneratedName  string
	SignatureCount int
	OutPath        string
	Err            error
}

// RunResult aggregates a whole run.
type RunResult struct {
	Set       *source.Set
	Files     []FileResult
	Bag       *diag.Bag
	Groups    []GroupResult
	Summaries []codegen.Summary
	Written   []string
}

type generated struct {
	result GroupResult
	text   string
}

// Run executes parse, merge, emission, and writing.
func Run(ctx context.Context, opts Options) (*RunResult, error) {
	stopParse := opts.Timings.Track(observ.StageParse)
	set, fileResults, enum, err := ParseDir(ctx, opts)
	stopParse(len(fileResults))
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.maxDiagnostics())
	for _, fr := range fileResults {
		if fr.Bag != nil {
			bag.Merge(fr.Bag)
		}
	}

	groups := collectGroups(fileResults, opts)

	table := erasure.NewTable(erasure.Options{Extra: opts.Extra, Instances: enum.Instances()})
	tr := transform.New(table)

	outs := make([]generated, len(groups))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(groups), 1)))

	stopGenerate := opts.Timings.Track(observ.StageGenerate)
	emit(opts.Events, Event{Stage: StageGenerate, Total: len(groups)})
	for i, group := range groups {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			merged, mergeErr := codegen.Merge(group, tr)
			if mergeErr != nil {
				outs[i] = generated{result: GroupResult{
					Operation:      group.Name,
					SignatureCount: len(group.Signatures),
					Err:            mergeErr,
				}}
				emit(opts.Events, Event{Stage: StageGenerate, Name: group.Name, Err: mergeErr})
				return nil
			}
			outs[i] = generated{
				result: GroupResult{
					Operation:      group.Name,
					GeneratedName:  merged.TypeName,
					SignatureCount: len(group.Signatures),
					OutPath:        filepath.Join(opts.OutputDir, merged.TypeName+".swift"),
				},
				text: codegen.EmitGroup(merged),
			}
			emit(opts.Events, Event{Stage: StageGenerate, Name: group.Name})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stopGenerate(0)
		return nil, err
	}
	stopGenerate(len(groups))

	for i := range outs {
		reportGroupError(bag, groups[i], outs[i].result.Err)
	}

	stopWrite := opts.Timings.Track(observ.StageWrite)
	written := writeOutputs(opts, bag, outs)
	stopWrite(len(written))

	res := &RunResult{Set: set, Files: fileResults, Bag: bag, Written: written}
	for _, out := range outs {
		res.Groups = append(res.Groups, out.result)
		if out.result.Err == nil {
			res.Summaries = append(res.Summaries, codegen.Summary{
				Operation:      out.result.Operation,
				GeneratedName:  out.result.GeneratedName,
				SignatureCount: out.result.SignatureCount,
			})
		}
	}
	return res, nil
}

// ListGroups runs the parse half only: groups as the generate stage
// would see them.
func ListGroups(ctx context.Context, opts Options) (*source.Set, []sigmodel.OverloadGroup, *diag.Bag, error) {
	set, fileResults, _, err := ParseDir(ctx, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	bag := diag.NewBag(opts.maxDiagnostics())
	for _, fr := range fileResults {
		if fr.Bag != nil {
			bag.Merge(fr.Bag)
		}
	}
	return set, collectGroups(fileResults, opts), bag, nil
}

// collectGroups merges per-file signatures, applies the exclude and
// platform restrictions, and buckets by operation name.
func collectGroups(fileResults []FileResult, opts Options) []sigmodel.OverloadGroup {
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	var sigs []sigmodel.OperationSignature
	for _, fr := range fileResults {
		for _, sig := range fr.Signatures {
			if excluded[sig.Name] {
				continue
			}
			if !platformReachable(sig, opts.Platforms) {
				continue
			}
			sigs = append(sigs, sig)
		}
	}
	return swiftparse.Groups(sigs)
}

// platformReachable drops signatures whose build condition names only
// platforms outside the restriction set.
func platformReachable(sig sigmodel.OperationSignature, platforms []string) bool {
	if len(platforms) == 0 || sig.BuildCondition == nil {
		return true
	}
	atoms := sigmodel.PlatformAtoms(sig.BuildCondition)
	if len(atoms) == 0 {
		return true
	}
	allowed := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		allowed[p] = true
	}
	for _, atom := range atoms {
		if allowed[atom.Platform] {
			return true
		}
	}
	return false
}

func reportGroupError(bag *diag.Bag, group sigmodel.OverloadGroup, err error) {
	if err == nil {
		return
	}
	span := source.Span{}
	if len(group.Signatures) > 0 {
		span = group.Signatures[0].Span
	}

	var unsupported *transform.UnsupportedTypeError
	var empty *codegen.EmptyGroupError
	code := diag.GenUnsupportedType
	switch {
	case errors.As(err, &empty):
		code = diag.GenEmptyGroup
	case errors.As(err, &unsupported):
		if unsupported.EmptyUnion {
			code = diag.GenEmptyStyleUnion
		}
		if len(group.Signatures) > 0 {
			for _, sig := range group.Signatures {
				if sig.Name == unsupported.Operation {
					span = sig.Span
					break
				}
			}
		}
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Message:  err.Error(),
		Primary:  span,
	})
}
