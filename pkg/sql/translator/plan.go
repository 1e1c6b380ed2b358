// Package translator resolves parsed statements against the catalog:
// identifier and type resolution, alias propagation, and join-schema
// disjointness checks, emitting a logical plan for the optimizer to pass
// through unchanged.
package translator

import (
	"nanodb/pkg/catalog"
	"nanodb/pkg/sql/parser"
)

// Plan is any of the three top-level logical plan kinds.
type Plan interface{ planNode() }

// CreateTablePlan registers a new table. Side effects happen at
// evaluation, not here: translation only validates.
type CreateTablePlan struct {
	TableName  string
	PrimaryKey string
	Attributes catalog.Attributes
}

func (*CreateTablePlan) planNode() {}

// InsertTuplePlan appends one already-encoded row to an existing table.
type InsertTuplePlan struct {
	TableName string
	Tuple     []byte
}

func (*InsertTuplePlan) planNode() {}

// QueryPlan wraps the root of a resolved query tree.
type QueryPlan struct {
	Root QueryNode
}

func (*QueryPlan) planNode() {}

// QueryNode is one node of the resolved query tree. OutputSchema is the
// attribute list (names and types, in order) that describes the rows
// this node emits, used both to label the final result and, by any
// parent node, to decode and interpret this node's output.
type QueryNode interface {
	OutputSchema() catalog.Attributes
}

// ScanNode reads every row currently in a table's store.
type ScanNode struct {
	StoreID int
	Schema  catalog.Attributes
}

func (n *ScanNode) OutputSchema() catalog.Attributes { return n.Schema }

// AliasNode renames its child's attributes under an alias without
// altering the rows flowing through it.
type AliasNode struct {
	Input  QueryNode
	Schema catalog.Attributes
}

func (n *AliasNode) OutputSchema() catalog.Attributes { return n.Schema }

// FilterNode keeps only child rows for which Predicate evaluates true.
// It does not change the row's shape, so its output schema is its
// child's.
type FilterNode struct {
	Input     QueryNode
	Predicate parser.Expression
}

func (n *FilterNode) OutputSchema() catalog.Attributes { return n.Input.OutputSchema() }

// ProjectNode re-shapes each child row down to Names, in that order.
// Schema is this node's own output schema (the projected attributes),
// distinct from Input.OutputSchema() which is needed to decode the raw
// rows the child produces.
type ProjectNode struct {
	Input  QueryNode
	Names  []string
	Schema catalog.Attributes
}

func (n *ProjectNode) OutputSchema() catalog.Attributes { return n.Schema }

// JoinNode pairs every Left row with every matching Right row under
// Condition. Schema is the concatenation of both sides' schemas, already
// checked disjoint at translation time.
type JoinNode struct {
	Left, Right QueryNode
	Condition   parser.Expression
	Schema      catalog.Attributes
}

func (n *JoinNode) OutputSchema() catalog.Attributes { return n.Schema }
