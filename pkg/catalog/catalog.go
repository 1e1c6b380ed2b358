// Package catalog tracks table schemas and their backing row stores: a
// table name maps to a Schema, and a Schema's StoreID maps to an
// append-only bag of encoded rows. There is no DROP, ALTER, index, view,
// trigger, or foreign key. The catalog exists purely to resolve names to
// schemas and schemas to storage.
package catalog

import (
	"fmt"
	"sync"

	"nanodb/pkg/types"
)

// Error reports a catalog-layer failure: creating a table whose name is
// already registered.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("catalog: %s", e.Reason) }

func errf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Attribute is a single named, typed column.
type Attribute struct {
	Name string
	Type types.ValueType
}

// Attributes is an ordered column list. Order is significant: it is the
// table's declared column order and the row's encoding order.
type Attributes []Attribute

// WithAlias returns a copy of Attributes with every name rewritten to
// "alias.name", matching the rule that aliasing qualifies every attribute
// of the aliased relation, including ones already qualified.
func (a Attributes) WithAlias(alias string) Attributes {
	out := make(Attributes, len(a))
	for i, attr := range a {
		out[i] = Attribute{Name: alias + "." + attr.Name, Type: attr.Type}
	}
	return out
}

// IndexOf returns the position of name within a, or -1 if absent.
func (a Attributes) IndexOf(name string) int {
	for i, attr := range a {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// Types returns the plain ValueType list, in column order, for use by the
// record codec.
func (a Attributes) Types() []types.ValueType {
	out := make([]types.ValueType, len(a))
	for i, attr := range a {
		out[i] = attr.Type
	}
	return out
}

// Schema describes one table: its storage handle, primary key attribute
// name, and column list.
type Schema struct {
	StoreID    int
	PrimaryKey string
	Attributes Attributes
}

// WithAlias returns a copy of the schema with the primary key and every
// attribute name rewritten under alias, sharing the same StoreID (aliasing
// renames columns for resolution purposes; it does not copy storage).
func (s Schema) WithAlias(alias string) Schema {
	return Schema{
		StoreID:    s.StoreID,
		PrimaryKey: alias + "." + s.PrimaryKey,
		Attributes: s.Attributes.WithAlias(alias),
	}
}

// Row is one stored tuple: its slot index within the store and its
// encoded bytes.
type Row struct {
	Slot int
	Data []byte
}

// Catalog owns every table's schema and row store for one engine
// instance. It is safe for concurrent use, though the engine itself is
// single-threaded per §5 of the design: the mutex guards against
// accidental concurrent embedding use, not against any internal race.
type Catalog struct {
	mu        sync.Mutex
	tables    map[string]Schema
	stores    map[int][]Row
	nextStore int
}

func New() *Catalog {
	return &Catalog{
		tables: make(map[string]Schema),
		stores: make(map[int][]Row),
	}
}

// CreateTable registers a new table with the given primary key and column
// list. It is an error to create a table name that already exists.
func (c *Catalog) CreateTable(name string, primaryKey string, attrs Attributes) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[name]; exists {
		return errf("table %q already exists", name)
	}

	storeID := c.nextStore
	c.nextStore++
	c.tables[name] = Schema{StoreID: storeID, PrimaryKey: primaryKey, Attributes: attrs}
	c.stores[storeID] = nil
	return nil
}

// GetSchema returns the schema registered for name, with ok=false if no
// such table exists.
func (c *Catalog) GetSchema(name string) (Schema, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.tables[name]
	return s, ok
}

// Insert appends an already-encoded row to the store identified by
// storeID, returning its assigned slot index.
func (c *Catalog) Insert(storeID int, data []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := len(c.stores[storeID])
	c.stores[storeID] = append(c.stores[storeID], Row{Slot: slot, Data: data})
	return slot
}

// Scan returns a snapshot copy of every row currently in storeID. The
// copy is taken under the lock so later inserts cannot be observed by a
// scan already in flight, matching the snapshot-at-scan concurrency
// model: once a scan begins, it sees exactly the rows present at that
// instant.
func (c *Catalog) Scan(storeID int) []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.stores[storeID]
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
