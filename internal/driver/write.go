package driver

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/codegen"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
)

// sharedFileName holds the declarations every generated modifier file
// refers to.
const sharedFileName = "ModifierResolutionError.swift"

// writeOutputs persists one Swift file per successful group plus the
// shared declarations, in name order. Failures become IOWriteOutput
// diagnostics; the run keeps going.
func writeOutputs(opts Options, bag *diag.Bag, outs []generated) []string {
	type pending struct {
		name string
		text string
	}
	var files []pending
	for _, out := range outs {
		if out.result.Err != nil {
			continue
		}
		files = append(files, pending{name: out.result.GeneratedName + ".swift", text: out.text})
	}
	if len(files) == 0 {
		return nil
	}
	files = append(files, pending{name: sharedFileName, text: codegen.SharedDeclarations()})
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOWriteOutput,
			Message:  "failed to create output directory: " + err.Error(),
		})
		return nil
	}

	emit(opts.Events, Event{Stage: StageWrite, Total: len(files)})
	var written []string
	for _, f := range files {
		path := filepath.Join(opts.OutputDir, f.name)
		if err := os.WriteFile(path, []byte(f.text), 0o644); err != nil {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOWriteOutput,
				Message:  "failed to write " + f.name + ": " + err.Error(),
			})
			emit(opts.Events, Event{Stage: StageWrite, Name: path, Err: err})
			continue
		}
		written = append(written, path)
		emit(opts.Events, Event{Stage: StageWrite, Name: path})
	}
	return written
}
