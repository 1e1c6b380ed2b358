// Package executor implements the volcano-style pull engine: the
// evaluator wires one operator per logical node, and the caller drives
// the whole tree by repeatedly calling Next on the root.
package executor

import (
	"fmt"

	"nanodb/pkg/catalog"
	"nanodb/pkg/record"
	"nanodb/pkg/sql/parser"
	"nanodb/pkg/sql/translator"
	"nanodb/pkg/types"
)

// Error reports an evaluation-time failure raised by the executor itself:
// an unsupported plan or node kind, a missing table or projected
// attribute, or a predicate that did not evaluate to a boolean. Codec and
// expression-evaluation errors are passed through as returned.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("executor: %s", e.Reason) }

func errf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// RowIterator is the pull interface every operator implements. Next
// advances the iterator and reports whether a row is available; ok=false
// with err=nil means End, ok=false with err!=nil means the statement
// failed mid-stream. Row returns the current row's encoded bytes and is
// only valid immediately after a Next call that returned ok=true.
type RowIterator interface {
	Next() (ok bool, err error)
	Row() []byte
	Close()
}

// colIndex maps attribute name -> position, built once per operator
// construction so predicate/projection evaluation does a map lookup
// instead of a linear scan per row.
func colIndex(attrs catalog.Attributes) map[string]int {
	m := make(map[string]int, len(attrs))
	for i, a := range attrs {
		m[a.Name] = i
	}
	return m
}

// ScanOperator snapshots a store's rows at construction and yields them
// one at a time in insertion order. Later inserts to the same store are
// invisible to an in-flight scan.
type ScanOperator struct {
	rows []catalog.Row
	idx  int
}

func NewScanOperator(cat *catalog.Catalog, storeID int) *ScanOperator {
	return &ScanOperator{rows: cat.Scan(storeID)}
}

func (s *ScanOperator) Next() (bool, error) {
	if s.idx >= len(s.rows) {
		return false, nil
	}
	s.idx++
	return true, nil
}

func (s *ScanOperator) Row() []byte { return s.rows[s.idx-1].Data }
func (s *ScanOperator) Close()      {}

// FilterOperator forwards child rows for which Predicate evaluates to
// true, decoding each child row against Schema to build the name->value
// lookup the predicate evaluator needs.
type FilterOperator struct {
	child     RowIterator
	predicate parser.Expression
	types     []types.ValueType
	index     map[string]int
	cur       []byte
}

func NewFilterOperator(child RowIterator, schema catalog.Attributes, predicate parser.Expression) *FilterOperator {
	return &FilterOperator{
		child:     child,
		predicate: predicate,
		types:     schema.Types(),
		index:     colIndex(schema),
	}
}

func (f *FilterOperator) Next() (bool, error) {
	for {
		ok, err := f.child.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		raw := f.child.Row()
		values, err := record.Decode(raw, f.types)
		if err != nil {
			return false, err
		}

		lookup := func(name string) (types.Value, bool) {
			i, ok := f.index[name]
			if !ok {
				return types.Value{}, false
			}
			return values[i], true
		}

		result, err := translator.EvalExpr(f.predicate, lookup)
		if err != nil {
			return false, err
		}
		if result.Type() != types.Boolean {
			return false, errf("filter predicate did not evaluate to a boolean")
		}
		if result.Bool() {
			f.cur = raw
			return true, nil
		}
	}
}

func (f *FilterOperator) Row() []byte { return f.cur }
func (f *FilterOperator) Close()      { f.child.Close() }

// ProjectOperator decodes each child row against RecordSchema, gathers
// the listed attribute names in order, and re-serializes them as the
// operator's own output row.
type ProjectOperator struct {
	child RowIterator
	types []types.ValueType
	index map[string]int
	names []string
	cur   []byte
}

func NewProjectOperator(child RowIterator, recordSchema catalog.Attributes, names []string) *ProjectOperator {
	return &ProjectOperator{
		child: child,
		types: recordSchema.Types(),
		index: colIndex(recordSchema),
		names: names,
	}
}

func (p *ProjectOperator) Next() (bool, error) {
	ok, err := p.child.Next()
	if err != nil || !ok {
		return false, err
	}

	values, err := record.Decode(p.child.Row(), p.types)
	if err != nil {
		return false, err
	}

	out := make([]types.Value, len(p.names))
	for i, name := range p.names {
		idx, ok := p.index[name]
		if !ok {
			return false, errf("projected attribute %q not found in child schema", name)
		}
		out[i] = values[idx]
	}

	p.cur = record.Encode(out)
	return true, nil
}

func (p *ProjectOperator) Row() []byte { return p.cur }
func (p *ProjectOperator) Close()      { p.child.Close() }

// leftEntry is one buffered build-side row: its raw encoded bytes plus
// its decoded values, kept together so the probe phase never re-decodes.
type leftEntry struct {
	raw    []byte
	values []types.Value
}

// InnerJoinOperator buffers the left (build) side fully on first Next,
// then streams the right (probe) side row by row, evaluating Condition
// against every buffered left row. All matches generated from a single
// right row are emitted before the right side advances again.
type InnerJoinOperator struct {
	left, right RowIterator
	condition   parser.Expression
	leftTypes   []types.ValueType
	leftIndex   map[string]int
	rightTypes  []types.ValueType
	rightIndex  map[string]int

	built   bool
	buffer  []leftEntry
	pending [][]byte
	pendIdx int
	cur     []byte
}

func NewInnerJoinOperator(left, right RowIterator, leftSchema, rightSchema catalog.Attributes, condition parser.Expression) *InnerJoinOperator {
	return &InnerJoinOperator{
		left:       left,
		right:      right,
		condition:  condition,
		leftTypes:  leftSchema.Types(),
		leftIndex:  colIndex(leftSchema),
		rightTypes: rightSchema.Types(),
		rightIndex: colIndex(rightSchema),
	}
}

func (j *InnerJoinOperator) buildLeft() error {
	for {
		ok, err := j.left.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		raw := j.left.Row()
		values, err := record.Decode(raw, j.leftTypes)
		if err != nil {
			return err
		}
		entryRaw := make([]byte, len(raw))
		copy(entryRaw, raw)
		j.buffer = append(j.buffer, leftEntry{raw: entryRaw, values: values})
	}
	j.left.Close()
	j.built = true
	return nil
}

func (j *InnerJoinOperator) Next() (bool, error) {
	if !j.built {
		if err := j.buildLeft(); err != nil {
			return false, err
		}
	}

	for {
		if j.pendIdx < len(j.pending) {
			j.cur = j.pending[j.pendIdx]
			j.pendIdx++
			return true, nil
		}

		if len(j.buffer) == 0 {
			return false, nil
		}

		ok, err := j.right.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}

		rightRaw := j.right.Row()
		rightValues, err := record.Decode(rightRaw, j.rightTypes)
		if err != nil {
			return false, err
		}

		j.pending = j.pending[:0]
		j.pendIdx = 0
		for _, entry := range j.buffer {
			lookup := func(name string) (types.Value, bool) {
				if i, ok := j.leftIndex[name]; ok {
					return entry.values[i], true
				}
				if i, ok := j.rightIndex[name]; ok {
					return rightValues[i], true
				}
				return types.Value{}, false
			}
			result, err := translator.EvalExpr(j.condition, lookup)
			if err != nil {
				return false, err
			}
			if result.Type() != types.Boolean {
				return false, errf("join condition did not evaluate to a boolean")
			}
			if result.Bool() {
				j.pending = append(j.pending, record.Concat(entry.raw, rightRaw))
			}
		}
	}
}

func (j *InnerJoinOperator) Row() []byte { return j.cur }

func (j *InnerJoinOperator) Close() {
	if !j.built {
		j.left.Close()
	}
	j.right.Close()
}
