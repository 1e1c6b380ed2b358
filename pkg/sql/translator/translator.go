package translator

import (
	"nanodb/pkg/catalog"
	"nanodb/pkg/record"
	"nanodb/pkg/sql/parser"
	"nanodb/pkg/types"
)

// Translate resolves one parsed statement against cat into a logical
// plan. It never mutates cat: CREATE TABLE and INSERT take effect only
// when their plan is later evaluated.
func Translate(cat *catalog.Catalog, stmt parser.Statement) (Plan, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return translateCreateTable(cat, s)
	case *parser.InsertStmt:
		return translateInsert(cat, s)
	case *parser.SelectStmt:
		root, err := translateSelect(cat, s)
		if err != nil {
			return nil, err
		}
		return &QueryPlan{Root: root}, nil
	default:
		return nil, errf("unsupported statement type %T", stmt)
	}
}

func translateCreateTable(cat *catalog.Catalog, stmt *parser.CreateTableStmt) (*CreateTablePlan, error) {
	if _, exists := cat.GetSchema(stmt.TableName); exists {
		return nil, errf("table %q already exists", stmt.TableName)
	}

	seen := make(map[string]bool, len(stmt.Columns))
	attrs := make(catalog.Attributes, 0, len(stmt.Columns))
	pkCount := 0
	var pk string
	for _, col := range stmt.Columns {
		if seen[col.Name] {
			return nil, errf("duplicate attribute name %q", col.Name)
		}
		seen[col.Name] = true
		if col.PrimaryKey {
			pkCount++
			pk = col.Name
		}
		attrs = append(attrs, catalog.Attribute{Name: col.Name, Type: col.Type})
	}

	if pkCount == 0 {
		return nil, errf("table %q requires a primary key", stmt.TableName)
	}
	if pkCount > 1 {
		return nil, errf("table %q declares multiple primary keys", stmt.TableName)
	}

	return &CreateTablePlan{TableName: stmt.TableName, PrimaryKey: pk, Attributes: attrs}, nil
}

func translateInsert(cat *catalog.Catalog, stmt *parser.InsertStmt) (*InsertTuplePlan, error) {
	schema, ok := cat.GetSchema(stmt.TableName)
	if !ok {
		return nil, errf("no such table %q", stmt.TableName)
	}
	if len(stmt.Columns) != len(stmt.Values) {
		return nil, errf("argument count mismatch: %d columns, %d values", len(stmt.Columns), len(stmt.Values))
	}
	if len(stmt.Columns) == 0 {
		return nil, errf("insert must name at least one column")
	}

	values := make([]types.Value, len(stmt.Columns))
	for i, colName := range stmt.Columns {
		v, err := FoldConstant(stmt.Values[i])
		if err != nil {
			return nil, err
		}

		idx := schema.Attributes.IndexOf(colName)
		if idx == -1 {
			return nil, errf("no such attribute %q in table %q", colName, stmt.TableName)
		}
		want := schema.Attributes[idx].Type
		if v.Type() != want {
			return nil, errf("type mismatch for attribute %q: expected %s, got %s", colName, want, v.Type())
		}
		values[i] = v
	}

	// Row bytes follow the order given in the INSERT column list, not
	// the table's declared column order.
	return &InsertTuplePlan{TableName: stmt.TableName, Tuple: record.Encode(values)}, nil
}

func translateSelect(cat *catalog.Catalog, stmt *parser.SelectStmt) (QueryNode, error) {
	node, err := translateSource(cat, stmt.From)
	if err != nil {
		return nil, err
	}

	switch {
	case stmt.Join != nil:
		right, err := translateSource(cat, stmt.Join.Right)
		if err != nil {
			return nil, err
		}
		leftSchema := node.OutputSchema()
		rightSchema := right.OutputSchema()
		for _, a := range leftSchema {
			if rightSchema.IndexOf(a.Name) != -1 {
				return nil, errf("duplicate attribute name %q across join sides", a.Name)
			}
		}
		joined := make(catalog.Attributes, 0, len(leftSchema)+len(rightSchema))
		joined = append(joined, leftSchema...)
		joined = append(joined, rightSchema...)

		condType, err := TypeOf(stmt.Join.Condition, schemaEnv(joined))
		if err != nil {
			return nil, err
		}
		if condType != types.Boolean {
			return nil, errf("join condition must be boolean, got %s", condType)
		}
		node = &JoinNode{Left: node, Right: right, Condition: stmt.Join.Condition, Schema: joined}

	case stmt.Where != nil:
		condType, err := TypeOf(stmt.Where, schemaEnv(node.OutputSchema()))
		if err != nil {
			return nil, err
		}
		if condType != types.Boolean {
			return nil, errf("WHERE predicate must be boolean, got %s", condType)
		}
		node = &FilterNode{Input: node, Predicate: stmt.Where}
	}

	if !stmt.Columns.Star {
		inputSchema := node.OutputSchema()
		projected := make(catalog.Attributes, 0, len(stmt.Columns.Names))
		for _, name := range stmt.Columns.Names {
			idx := inputSchema.IndexOf(name)
			if idx == -1 {
				return nil, errf("no such attribute %q", name)
			}
			projected = append(projected, inputSchema[idx])
		}
		node = &ProjectNode{Input: node, Names: stmt.Columns.Names, Schema: projected}
	}

	return node, nil
}

func translateSource(cat *catalog.Catalog, src parser.TableSource) (QueryNode, error) {
	var node QueryNode

	if src.Subquery != nil {
		inner, err := translateSelect(cat, src.Subquery)
		if err != nil {
			return nil, err
		}
		node = inner
	} else {
		schema, ok := cat.GetSchema(src.TableName)
		if !ok {
			return nil, errf("no such table %q", src.TableName)
		}
		node = &ScanNode{StoreID: schema.StoreID, Schema: schema.Attributes}
	}

	if src.Alias != "" {
		node = &AliasNode{Input: node, Schema: node.OutputSchema().WithAlias(src.Alias)}
	}

	return node, nil
}
