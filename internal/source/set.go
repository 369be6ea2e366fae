package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// Digest is the content hash of one interface file. The parse cache keys
// on it, so it must stay stable across runs.
type Digest [32]byte

// File captures the content and line index of a loaded interface file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    Digest
	Virtual bool
}

// Set owns every interface file of a run and resolves spans to positions.
type Set struct {
	files   []File
	index   map[string]FileID
	baseDir string
}

func NewSet(baseDir string) *Set {
	return &Set{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

func (set *Set) BaseDir() string {
	return set.baseDir
}

// Add stores normalized content under path and returns a fresh FileID.
func (set *Set) Add(path string, content []byte, virtual bool) FileID {
	n, err := safecast.Conv[uint32](len(set.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(n)
	normalized := filepath.ToSlash(filepath.Clean(path))
	set.files = append(set.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Virtual: virtual,
	})
	set.index[normalized] = id
	return id
}

// Load reads an interface file from disk, strips a UTF-8 BOM and CRLF
// line endings, and registers it.
func (set *Set) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from the directory walk
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content = removeBOM(content)
	content = normalizeCRLF(content)
	return set.Add(path, content, false), nil
}

// AddVirtual registers in-memory content (tests, stdin).
func (set *Set) AddVirtual(name string, content []byte) FileID {
	return set.Add(name, content, true)
}

func (set *Set) Get(id FileID) *File {
	return &set.files[id]
}

func (set *Set) ByPath(path string) (*File, bool) {
	id, ok := set.index[filepath.ToSlash(filepath.Clean(path))]
	if !ok {
		return nil, false
	}
	return &set.files[id], true
}

func (set *Set) Len() int {
	return len(set.files)
}

// Resolve converts a span into start and end line/column positions.
func (set *Set) Resolve(span Span) (start, end LineCol) {
	f := set.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

func normalizeCRLF(content []byte) []byte {
	if !slices.Contains(content, '\r') {
		return content
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return out
}

func removeBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- file sizes fit uint32
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Count newlines strictly before off; that is the 0-based line number.
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var start uint32
	if lo > 0 {
		start = lineIdx[lo-1] + 1
	}
	return LineCol{Line: uint32(lo) + 1, Col: off - start + 1} // #nosec G115
}
