package partlib

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/chazu/brickyard/pkg/geom"
)

// ErrUnknownPart is returned when a key does not resolve.
var ErrUnknownPart = errors.New("unknown part")

// maxDepth bounds recursion through references; library cycles are a data
// error and must not hang the editor.
const maxDepth = 16

// Catalog is an in-memory Library.
type Catalog struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	flex  map[string]FlexPart
	types map[string]ConnType
}

var _ Library = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		defs:  make(map[string]Definition),
		flex:  make(map[string]FlexPart),
		types: make(map[string]ConnType),
	}
}

// Define adds or replaces an entry.
func (c *Catalog) Define(def Definition) error {
	if def.Key == "" {
		return fmt.Errorf("partlib: define: empty key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs[def.Key] = def
	return nil
}

// RegisterGenerated adds an editor-generated entry. Generated entries may
// replace earlier generated ones but never a library part.
func (c *Catalog) RegisterGenerated(def Definition) error {
	if def.Key == "" {
		return fmt.Errorf("partlib: register: empty key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.defs[def.Key]; ok && old.Kind == KindPart {
		return fmt.Errorf("partlib: register %q: would shadow a library part", def.Key)
	}
	c.defs[def.Key] = def
	return nil
}

// DefineFlex adds or replaces a flexible part descriptor.
func (c *Catalog) DefineFlex(f FlexPart) error {
	if f.Key == "" {
		return fmt.Errorf("partlib: define flex: empty key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flex[f.Key] = f
	return nil
}

// DefineConnType adds or replaces a connection type.
func (c *Catalog) DefineConnType(t ConnType) error {
	if t.Name == "" {
		return fmt.Errorf("partlib: define connection type: empty name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Name] = t
	return nil
}

// Resolve returns the entry for key.
func (c *Catalog) Resolve(key string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.defs[key]
	return d, ok
}

// Exists reports whether key resolves.
func (c *Catalog) Exists(key string) bool {
	_, ok := c.Resolve(key)
	return ok
}

// Flex returns the flexible part descriptor for key.
func (c *Catalog) Flex(key string) (FlexPart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.flex[key]
	return f, ok
}

// ConnType returns the connection type called name.
func (c *Catalog) ConnType(name string) (ConnType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// Keys returns all entry keys in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.defs))
	for k := range c.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlexKeys returns all flexible part keys in sorted order.
func (c *Catalog) FlexKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.flex))
	for k := range c.flex {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Connectors returns every connector exposed by key placed at m, including
// those of referenced entries, in definition order.
func Connectors(lib Library, key string, m geom.Matrix) ([]Connector, error) {
	var out []Connector
	if err := collectConnectors(lib, key, m, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectConnectors(lib Library, key string, m geom.Matrix, depth int, out *[]Connector) error {
	if depth > maxDepth {
		return fmt.Errorf("partlib: %q: references nested deeper than %d", key, maxDepth)
	}
	def, ok := lib.Resolve(key)
	if !ok {
		return fmt.Errorf("partlib: %q: %w", key, ErrUnknownPart)
	}
	for _, c := range def.Connectors {
		*out = append(*out, c.Transformed(m))
	}
	for _, r := range def.Refs {
		if err := collectConnectors(lib, r.Key, m.Mul(r.Transform), depth+1, out); err != nil {
			return err
		}
	}
	return nil
}
