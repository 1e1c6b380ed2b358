// Package parser turns a token stream into an abstract syntax tree via a
// recursive-descent parser with a Pratt expression core.
package parser

import (
	"nanodb/pkg/sql/lexer"
	"nanodb/pkg/types"
)

// Statement is any top-level parsed statement.
type Statement interface{ statementNode() }

// Expression is any parsed value expression.
type Expression interface{ expressionNode() }

// ColumnDef is one column of a CREATE TABLE definition.
type ColumnDef struct {
	Name       string
	Type       types.ValueType
	PrimaryKey bool
}

// CreateTableStmt is `CREATE TABLE name (col type [PRIMARY KEY], ...);`.
type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

func (*CreateTableStmt) statementNode() {}

// InsertStmt is `INSERT INTO name (cols...) VALUES (exprs...);`.
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    []Expression
}

func (*InsertStmt) statementNode() {}

// SelectColumns is the projection clause of a SELECT: either `*` or an
// explicit, ordered identifier list.
type SelectColumns struct {
	Star  bool
	Names []string
}

// TableSource is a FROM clause source: either a bare table name or a
// parenthesized sub-select, either way with an optional alias.
type TableSource struct {
	TableName string      // set when Subquery == nil
	Subquery  *SelectStmt // set when this source is "(SELECT ...)"
	Alias     string      // "" when no AS alias was given
}

// JoinClause is the single optional `INNER JOIN source ON predicate`
// branch of a SELECT.
type JoinClause struct {
	Right     TableSource
	Condition Expression
}

// SelectStmt is `SELECT props FROM source [INNER JOIN source ON pred] [WHERE pred];`.
// Per the grammar, a join and a top-level WHERE are mutually exclusive.
type SelectStmt struct {
	Columns SelectColumns
	From    TableSource
	Join    *JoinClause
	Where   Expression
}

func (*SelectStmt) statementNode() {}
func (*SelectStmt) expressionNode() {}

// Literal is an integer, boolean, or string constant.
type Literal struct {
	Value types.Value
}

func (*Literal) expressionNode() {}

// Identifier is a column reference, possibly already alias-qualified
// ("alias.name") as produced by the lexer's qualified-identifier scan.
type Identifier struct {
	Name string
}

func (*Identifier) expressionNode() {}

// BinaryExpr is any of the arithmetic or comparison infix operators.
type BinaryExpr struct {
	Left  Expression
	Op    lexer.TokenType
	Right Expression
}

func (*BinaryExpr) expressionNode() {}
