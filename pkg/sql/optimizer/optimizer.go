package optimizer

import (
	"fmt"

	"nanodb/pkg/sql/translator"
)

// Optimizer converts a logical plan into an execution plan. This core
// implements only a structural identity pass: every logical node maps
// 1:1 to its execution counterpart, with no cost-based rewrites, no
// predicate or projection pushdown, and no join reordering. The boundary
// is kept distinct from the translator so those rewrites have a home to
// land in later without reshaping the translator or the evaluator.
type Optimizer struct{}

func New() *Optimizer { return &Optimizer{} }

// Optimize maps a translator.Plan onto its ExecutionPlan counterpart.
func (o *Optimizer) Optimize(plan translator.Plan) (ExecutionPlan, error) {
	switch p := plan.(type) {
	case *translator.CreateTablePlan:
		return &CreateTableExecutionPlan{
			TableName:  p.TableName,
			PrimaryKey: p.PrimaryKey,
			Attributes: p.Attributes,
		}, nil
	case *translator.InsertTuplePlan:
		return &InsertTupleExecutionPlan{
			TableName: p.TableName,
			Tuple:     p.Tuple,
		}, nil
	case *translator.QueryPlan:
		return &QueryExecutionPlan{Root: p.Root}, nil
	default:
		return nil, fmt.Errorf("optimizer: unsupported plan type %T", plan)
	}
}
