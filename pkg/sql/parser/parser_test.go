package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanodb/pkg/sql/lexer"
	"nanodb/pkg/types"
)

func parseOne(t *testing.T, input string) Statement {
	t.Helper()
	p, err := New(input)
	require.NoError(t, err)
	stmt, err := p.ParseStatement()
	require.NoError(t, err)
	return stmt
}

func TestParseCreateTable(t *testing.T) {
	stmt := parseOne(t, "create table person (name varchar primary key, age integer);")
	ct, ok := stmt.(*CreateTableStmt)
	require.Truef(t, ok, "expected *CreateTableStmt, got %T", stmt)
	assert.Equal(t, "person", ct.TableName)
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, ColumnDef{Name: "name", Type: types.Text, PrimaryKey: true}, ct.Columns[0])
	assert.Equal(t, ColumnDef{Name: "age", Type: types.Integer, PrimaryKey: false}, ct.Columns[1])
}

func TestParseInsert(t *testing.T) {
	stmt := parseOne(t, "insert into person (name, age) values ('a', 1);")
	ins, ok := stmt.(*InsertStmt)
	require.Truef(t, ok, "expected *InsertStmt, got %T", stmt)
	assert.Equal(t, "person", ins.TableName)
	assert.Len(t, ins.Columns, 2)
	assert.Len(t, ins.Values, 2)
}

func TestParseInsertAllowsMismatchedCounts(t *testing.T) {
	// Column/value count mismatch is a translation-time error, not a
	// parse-time one: the parser accepts whatever counts are written.
	stmt := parseOne(t, "insert into t (a, b) values (1);")
	ins := stmt.(*InsertStmt)
	assert.Len(t, ins.Columns, 2)
	assert.Len(t, ins.Values, 1)
}

func TestParseSelectStar(t *testing.T) {
	stmt := parseOne(t, "select * from person where age <= 2;")
	sel, ok := stmt.(*SelectStmt)
	require.Truef(t, ok, "expected *SelectStmt, got %T", stmt)
	assert.True(t, sel.Columns.Star)
	assert.Equal(t, "person", sel.From.TableName)
	where, ok := sel.Where.(*BinaryExpr)
	require.Truef(t, ok, "expected *BinaryExpr where clause, got %T", sel.Where)
	assert.Equal(t, lexer.LTE, where.Op)
}

func TestParseSelectColumnList(t *testing.T) {
	stmt := parseOne(t, "select age, name from person;")
	sel := stmt.(*SelectStmt)
	assert.False(t, sel.Columns.Star)
	assert.Equal(t, []string{"age", "name"}, sel.Columns.Names)
}

func TestParseInnerJoin(t *testing.T) {
	stmt := parseOne(t, "select name, department from person inner join employee on name = id;")
	sel := stmt.(*SelectStmt)
	require.NotNil(t, sel.Join)
	assert.Equal(t, "employee", sel.Join.Right.TableName)
	assert.Nil(t, sel.Where, "join and top-level WHERE are mutually exclusive")
}

func TestParseSubselectWithAliasThenJoin(t *testing.T) {
	stmt := parseOne(t, "select al.name, department from (select * from person where age < 3) as al inner join employee on al.name = id;")
	sel := stmt.(*SelectStmt)
	require.NotNil(t, sel.From.Subquery)
	assert.Equal(t, "al", sel.From.Alias)
	assert.Equal(t, "al.name", sel.Columns.Names[0])
}

func TestParseExpressionPrecedenceQuirk(t *testing.T) {
	// a = b < c must parse as (a = b) < c, not a = (b < c).
	p, err := New("a = b < c")
	require.NoError(t, err)
	expr, err := p.parseExpression(0)
	require.NoError(t, err)
	top, ok := expr.(*BinaryExpr)
	require.Truef(t, ok, "expected *BinaryExpr, got %T", expr)
	assert.Equal(t, lexer.LT, top.Op, "top-level operator must be <")
	inner, ok := top.Left.(*BinaryExpr)
	require.Truef(t, ok, "expected left child a = b, got %T", top.Left)
	assert.Equal(t, lexer.EQ, inner.Op)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	p, err := New("1 + 2 * 3")
	require.NoError(t, err)
	expr, err := p.parseExpression(0)
	require.NoError(t, err)
	top, ok := expr.(*BinaryExpr)
	require.Truef(t, ok, "expected *BinaryExpr, got %T", expr)
	assert.Equal(t, lexer.PLUS, top.Op)
	assert.IsType(t, &BinaryExpr{}, top.Right, "2 * 3 must bind tighter")
}

func TestParseIntegerLiteralOverflowIsError(t *testing.T) {
	p, err := New("2147483648")
	require.NoError(t, err)
	_, err = p.parseExpression(0)
	require.Error(t, err, "expected error for literal beyond int32 range")

	p2, err := New("2147483647")
	require.NoError(t, err)
	expr, err := p2.parseExpression(0)
	require.NoError(t, err)
	lit := expr.(*Literal)
	assert.Equal(t, int32(2147483647), lit.Value.Int())
}

func TestParseStringLiteralIsNotAnExpressionAtom(t *testing.T) {
	// String literals are insert values, not expression atoms: they can
	// not appear inside a predicate.
	p, err := New("select * from t where name = 'a';")
	require.NoError(t, err)
	_, err = p.ParseStatement()
	require.Error(t, err, "a string literal must not parse as an expression atom")
}

func TestParseInsertStringValue(t *testing.T) {
	stmt := parseOne(t, "insert into person (name) values ('bob');")
	ins := stmt.(*InsertStmt)
	require.Len(t, ins.Values, 1)
	lit, ok := ins.Values[0].(*Literal)
	require.Truef(t, ok, "expected *Literal, got %T", ins.Values[0])
	assert.Equal(t, types.Text, lit.Value.Type())
	assert.Equal(t, "bob", lit.Value.Str())
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	p, err := New("select * from t")
	require.NoError(t, err)
	_, err = p.ParseStatement()
	require.Error(t, err, "expected error for missing trailing semicolon")
}
