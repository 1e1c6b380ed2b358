// Package nanodb is the embedding façade over the query pipeline: one
// catalog, one entry point. It loops a parsed-translated-optimized plan
// through the evaluator to exhaustion and hands back a materialized list
// of rows. There is no client/server surface, no persistence, and no
// concurrency beyond what the catalog already guards against accidental
// concurrent embedding use.
package nanodb

import (
	"nanodb/pkg/catalog"
	"nanodb/pkg/record"
	"nanodb/pkg/sql/executor"
	"nanodb/pkg/sql/optimizer"
	"nanodb/pkg/sql/parser"
	"nanodb/pkg/sql/translator"
	"nanodb/pkg/types"
)

// Column is one (attribute_name, value) pair of a result row.
type Column struct {
	Name  string
	Value types.Value
}

// Row is an ordered list of columns matching the statement's result
// schema order.
type Row []Column

// DB is one embedded engine instance. Its only state is the catalog;
// the pipeline stages are created per Execute call. The zero value is
// not usable; construct with New.
type DB struct {
	cat *catalog.Catalog
}

// New returns a fresh, empty engine instance.
func New() *DB {
	return &DB{cat: catalog.New()}
}

// Execute parses, translates, optimizes, and evaluates one SQL
// statement, returning its result rows. CREATE TABLE and INSERT return
// an empty row list on success. A query error may surface after some
// rows have already been appended to the returned slice; callers must
// treat any non-nil error as reason to discard whatever rows came back.
func (db *DB) Execute(text string) ([]Row, error) {
	p, err := parser.New(text)
	if err != nil {
		return nil, err
	}
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}

	plan, err := translator.Translate(db.cat, stmt)
	if err != nil {
		return nil, err
	}

	execPlan, err := optimizer.New().Optimize(plan)
	if err != nil {
		return nil, err
	}

	it, schema, err := executor.New(db.cat).Evaluate(execPlan)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	colTypes := schema.Types()
	var rows []Row
	for {
		ok, err := it.Next()
		if err != nil {
			return rows, err
		}
		if !ok {
			return rows, nil
		}

		values, err := record.Decode(it.Row(), colTypes)
		if err != nil {
			return rows, err
		}

		row := make(Row, len(schema))
		for i, attr := range schema {
			row[i] = Column{Name: attr.Name, Value: values[i]}
		}
		rows = append(rows, row)
	}
}
