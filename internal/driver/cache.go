package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// cacheSchemaVersion invalidates old payloads when the cached signature
// shape changes.
const cacheSchemaVersion uint16 = 1

// DiskCache stores parsed signature lists keyed by file content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes the cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt roots the cache at an explicit directory (tests).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key source.Digest) string {
	return filepath.Join(c.dir, "sigs", hex.EncodeToString(key[:])+".mp")
}

// CachePayload is the on-disk mirror of one file's parse result. Spans
// are not cached; restored signatures carry zero spans.
type CachePayload struct {
	Schema     uint16
	Signatures []cachedSignature
}

type cachedSignature struct {
	Name           string
	Doc            string
	Params         []cachedParameter
	Return         *cachedType
	Generics       []cachedGeneric
	Availability   *cachedPredicate
	BuildCondition *cachedPredicate
}

type cachedParameter struct {
	Label       string
	Name        string
	Type        cachedType
	HasDefault  bool
	DefaultText string
}

type cachedGeneric struct {
	Name       string
	Constraint string
}

const (
	typeNamed uint8 = iota
	typeOptional
	typeArray
	typeClosure
	typeExistential
	typeGenericRef
)

// cachedType flattens the TypeExpr sum. Optional/Array store the inner
// type in Args[0]; Existential stores the constraint there.
type cachedType struct {
	Kind        uint8
	Path        string
	Args        []cachedType
	Return      *cachedType
	Escaping    bool
	Existential uint8
}

const (
	predVersion uint8 = iota
	predPlatform
	predAll
	predAny
	predNot
)

type cachedPredicate struct {
	Kind     uint8
	Platform string
	Version  string
	Ops      []cachedPredicate
}

// Put serializes and writes a payload, atomically replacing any
// previous entry.
func (c *DiskCache) Put(key source.Digest, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. ok is false on a miss.
func (c *DiskCache) Get(key source.Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after schema changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func encodeSignatures(sigs []sigmodel.OperationSignature) *CachePayload {
	payload := &CachePayload{Schema: cacheSchemaVersion}
	payload.Signatures = make([]cachedSignature, len(sigs))
	for i, sig := range sigs {
		payload.Signatures[i] = encodeSignature(sig)
	}
	return payload
}

func decodeSignatures(payload *CachePayload, file source.FileID) ([]sigmodel.OperationSignature, bool) {
	if payload == nil || payload.Schema != cacheSchemaVersion {
		return nil, false
	}
	out := make([]sigmodel.OperationSignature, len(payload.Signatures))
	for i := range payload.Signatures {
		out[i] = decodeSignature(&payload.Signatures[i], file)
	}
	return out, true
}

func encodeSignature(sig sigmodel.OperationSignature) cachedSignature {
	c := cachedSignature{Name: sig.Name, Doc: sig.Doc}
	c.Params = make([]cachedParameter, len(sig.Params))
	for i, p := range sig.Params {
		c.Params[i] = cachedParameter{
			Label:       p.Label,
			Name:        p.Name,
			Type:        encodeType(p.Type),
			HasDefault:  p.HasDefault,
			DefaultText: p.DefaultText,
		}
	}
	if sig.Return != nil {
		ret := encodeType(sig.Return)
		c.Return = &ret
	}
	c.Generics = make([]cachedGeneric, len(sig.Generics))
	for i, g := range sig.Generics {
		c.Generics[i] = cachedGeneric{Name: g.Name, Constraint: g.Constraint}
	}
	c.Availability = encodePredicate(sig.Availability)
	c.BuildCondition = encodePredicate(sig.BuildCondition)
	return c
}

func decodeSignature(c *cachedSignature, file source.FileID) sigmodel.OperationSignature {
	sig := sigmodel.OperationSignature{
		Name: c.Name,
		Doc:  c.Doc,
		// Spans are not cached; keep the file association only.
		Span: source.Span{File: file},
	}
	sig.Params = make([]sigmodel.Parameter, len(c.Params))
	for i, p := range c.Params {
		sig.Params[i] = sigmodel.Parameter{
			Label:       p.Label,
			Name:        p.Name,
			Type:        decodeType(p.Type),
			HasDefault:  p.HasDefault,
			DefaultText: p.DefaultText,
		}
	}
	if c.Return != nil {
		sig.Return = decodeType(*c.Return)
	}
	sig.Generics = make([]sigmodel.GenericParameter, len(c.Generics))
	for i, g := range c.Generics {
		sig.Generics[i] = sigmodel.GenericParameter{Name: g.Name, Constraint: g.Constraint}
	}
	sig.Availability = decodePredicate(c.Availability)
	sig.BuildCondition = decodePredicate(c.BuildCondition)
	return sig
}

func encodeType(t sigmodel.TypeExpr) cachedType {
	switch node := t.(type) {
	case sigmodel.Named:
		c := cachedType{Kind: typeNamed, Path: node.Path}
		for _, arg := range node.Args {
			c.Args = append(c.Args, encodeType(arg))
		}
		return c
	case sigmodel.Optional:
		return cachedType{Kind: typeOptional, Args: []cachedType{encodeType(node.Inner)}}
	case sigmodel.Array:
		return cachedType{Kind: typeArray, Args: []cachedType{encodeType(node.Inner)}}
	case sigmodel.Closure:
		c := cachedType{Kind: typeClosure, Escaping: node.Escaping}
		for _, p := range node.Params {
			c.Args = append(c.Args, encodeType(p))
		}
		if node.Returns != nil {
			ret := encodeType(node.Returns)
			c.Return = &ret
		}
		return c
	case sigmodel.Existential:
		return cachedType{
			Kind:        typeExistential,
			Existential: uint8(node.Kind),
			Args:        []cachedType{encodeType(node.Constraint)},
		}
	case sigmodel.GenericRef:
		return cachedType{Kind: typeGenericRef, Path: node.Name}
	}
	panic(fmt.Sprintf("unreachable type shape %T", t))
}

func decodeType(c cachedType) sigmodel.TypeExpr {
	switch c.Kind {
	case typeNamed:
		named := sigmodel.Named{Path: c.Path}
		for _, arg := range c.Args {
			named.Args = append(named.Args, decodeType(arg))
		}
		return named
	case typeOptional:
		return sigmodel.Optional{Inner: decodeType(c.Args[0])}
	case typeArray:
		return sigmodel.Array{Inner: decodeType(c.Args[0])}
	case typeClosure:
		closure := sigmodel.Closure{Escaping: c.Escaping}
		for _, p := range c.Args {
			closure.Params = append(closure.Params, decodeType(p))
		}
		if c.Return != nil {
			closure.Returns = decodeType(*c.Return)
		}
		return closure
	case typeExistential:
		return sigmodel.Existential{
			Kind:       sigmodel.ExistentialKind(c.Existential),
			Constraint: decodeType(c.Args[0]),
		}
	case typeGenericRef:
		return sigmodel.GenericRef{Name: c.Path}
	}
	return sigmodel.Named{Path: c.Path}
}

func encodePredicate(p sigmodel.Predicate) *cachedPredicate {
	switch node := p.(type) {
	case nil:
		return nil
	case sigmodel.VersionAtom:
		return &cachedPredicate{Kind: predVersion, Platform: node.Platform, Version: node.Version}
	case sigmodel.PlatformAtom:
		return &cachedPredicate{Kind: predPlatform, Platform: node.Platform}
	case sigmodel.All:
		return encodePredicateOps(predAll, node.Ops)
	case sigmodel.AnyOf:
		return encodePredicateOps(predAny, node.Ops)
	case sigmodel.Not:
		inner := encodePredicate(node.Op)
		c := &cachedPredicate{Kind: predNot}
		if inner != nil {
			c.Ops = []cachedPredicate{*inner}
		}
		return c
	}
	panic(fmt.Sprintf("unreachable predicate shape %T", p))
}

func encodePredicateOps(kind uint8, ops []sigmodel.Predicate) *cachedPredicate {
	c := &cachedPredicate{Kind: kind}
	for _, op := range ops {
		if enc := encodePredicate(op); enc != nil {
			c.Ops = append(c.Ops, *enc)
		}
	}
	return c
}

func decodePredicate(c *cachedPredicate) sigmodel.Predicate {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case predVersion:
		return sigmodel.VersionAtom{Platform: c.Platform, Version: c.Version}
	case predPlatform:
		return sigmodel.PlatformAtom{Platform: c.Platform}
	case predAll:
		return sigmodel.All{Ops: decodePredicateOps(c.Ops)}
	case predAny:
		return sigmodel.AnyOf{Ops: decodePredicateOps(c.Ops)}
	case predNot:
		if len(c.Ops) == 0 {
			return nil
		}
		return sigmodel.Not{Op: decodePredicate(&c.Ops[0])}
	}
	return nil
}

func decodePredicateOps(ops []cachedPredicate) []sigmodel.Predicate {
	out := make([]sigmodel.Predicate, 0, len(ops))
	for i := range ops {
		if p := decodePredicate(&ops[i]); p != nil {
			out = append(out, p)
		}
	}
	return out
}
