// Package optimizer sits between the translator and the evaluator. In
// this core it performs no rewrites; it exists to keep a clean boundary
// between the logical plan the translator produces and the execution
// plan the evaluator consumes, so later rewrites (predicate pushdown,
// join reordering) have somewhere to attach without touching either
// neighbor.
package optimizer

import (
	"nanodb/pkg/catalog"
	"nanodb/pkg/sql/translator"
)

// ExecutionPlan is any of the three top-level execution plan kinds, the
// 1:1 execution-side counterpart of translator.Plan.
type ExecutionPlan interface{ executionPlanNode() }

// CreateTableExecutionPlan is the execution-side form of
// translator.CreateTablePlan.
type CreateTableExecutionPlan struct {
	TableName  string
	PrimaryKey string
	Attributes catalog.Attributes
}

func (*CreateTableExecutionPlan) executionPlanNode() {}

// InsertTupleExecutionPlan is the execution-side form of
// translator.InsertTuplePlan.
type InsertTupleExecutionPlan struct {
	TableName string
	Tuple     []byte
}

func (*InsertTupleExecutionPlan) executionPlanNode() {}

// QueryExecutionPlan wraps the same resolved query tree the translator
// built; there is no rewriting of the tree itself at this stage.
type QueryExecutionPlan struct {
	Root translator.QueryNode
}

func (*QueryExecutionPlan) executionPlanNode() {}
