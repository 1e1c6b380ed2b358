package executor

import (
	"nanodb/pkg/catalog"
	"nanodb/pkg/sql/optimizer"
	"nanodb/pkg/sql/translator"
)

// emptyIterator yields End immediately. CREATE TABLE and INSERT apply
// their side effect synchronously during Evaluate and hand back one of
// these so the caller can drive every statement kind through the same
// pull interface.
type emptyIterator struct{}

func (emptyIterator) Next() (bool, error) { return false, nil }
func (emptyIterator) Row() []byte         { return nil }
func (emptyIterator) Close()              {}

// Evaluator turns an execution plan into a pull handle against a live
// catalog. CREATE TABLE and INSERT plans mutate the catalog immediately;
// query plans are wired into an operator tree that performs no catalog
// mutation. Each scan copies its store's rows when the tree is built, and
// the operators then yield rows one Next call at a time.
type Evaluator struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Evaluator {
	return &Evaluator{cat: cat}
}

// Evaluate executes plan and returns a RowIterator together with the
// result schema describing the rows it yields (empty for CREATE TABLE
// and INSERT).
func (e *Evaluator) Evaluate(plan optimizer.ExecutionPlan) (RowIterator, catalog.Attributes, error) {
	switch p := plan.(type) {
	case *optimizer.CreateTableExecutionPlan:
		if err := e.cat.CreateTable(p.TableName, p.PrimaryKey, p.Attributes); err != nil {
			return nil, nil, err
		}
		return emptyIterator{}, nil, nil

	case *optimizer.InsertTupleExecutionPlan:
		schema, ok := e.cat.GetSchema(p.TableName)
		if !ok {
			return nil, nil, errf("no such table %q", p.TableName)
		}
		e.cat.Insert(schema.StoreID, p.Tuple)
		return emptyIterator{}, nil, nil

	case *optimizer.QueryExecutionPlan:
		it, err := e.build(p.Root)
		if err != nil {
			return nil, nil, err
		}
		return it, p.Root.OutputSchema(), nil

	default:
		return nil, nil, errf("unsupported execution plan type %T", plan)
	}
}

// build wires one RowIterator per logical query node, recursing
// top-down so that pulling from the root drives every leaf scan.
func (e *Evaluator) build(node translator.QueryNode) (RowIterator, error) {
	switch n := node.(type) {
	case *translator.ScanNode:
		return NewScanOperator(e.cat, n.StoreID), nil

	case *translator.AliasNode:
		// Aliasing only renames attributes on the result schema; the
		// rows flowing through are unchanged, so the child's iterator
		// is reused as-is.
		return e.build(n.Input)

	case *translator.FilterNode:
		child, err := e.build(n.Input)
		if err != nil {
			return nil, err
		}
		return NewFilterOperator(child, n.Input.OutputSchema(), n.Predicate), nil

	case *translator.ProjectNode:
		child, err := e.build(n.Input)
		if err != nil {
			return nil, err
		}
		return NewProjectOperator(child, n.Input.OutputSchema(), n.Names), nil

	case *translator.JoinNode:
		left, err := e.build(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.build(n.Right)
		if err != nil {
			return nil, err
		}
		return NewInnerJoinOperator(left, right, n.Left.OutputSchema(), n.Right.OutputSchema(), n.Condition), nil

	default:
		return nil, errf("unsupported query node type %T", node)
	}
}
