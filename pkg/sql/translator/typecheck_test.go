package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanodb/pkg/sql/lexer"
	"nanodb/pkg/sql/parser"
	"nanodb/pkg/types"
)

func lit(v types.Value) parser.Expression { return &parser.Literal{Value: v} }
func ident(name string) parser.Expression { return &parser.Identifier{Name: name} }
func bin(l parser.Expression, op lexer.TokenType, r parser.Expression) parser.Expression {
	return &parser.BinaryExpr{Left: l, Op: op, Right: r}
}

func TestTypeOfMatrix(t *testing.T) {
	env := map[string]types.ValueType{"age": types.Integer, "name": types.Text, "ok": types.Boolean}

	tests := []struct {
		desc string
		expr parser.Expression
		want types.ValueType
	}{
		{"integer arithmetic", bin(ident("age"), lexer.PLUS, lit(types.NewInteger(1))), types.Integer},
		{"integer comparison", bin(ident("age"), lexer.LTE, lit(types.NewInteger(2))), types.Boolean},
		{"boolean equality", bin(ident("ok"), lexer.EQ, lit(types.NewBoolean(true))), types.Boolean},
		{"text equality", bin(ident("name"), lexer.NEQ, lit(types.NewText("a"))), types.Boolean},
	}
	for _, tt := range tests {
		got, err := TypeOf(tt.expr, env)
		require.NoError(t, err, tt.desc)
		assert.Equal(t, tt.want, got, tt.desc)
	}
}

func TestTypeOfRejectsIllegalCombinations(t *testing.T) {
	env := map[string]types.ValueType{"age": types.Integer, "name": types.Text, "ok": types.Boolean}

	tests := []struct {
		desc string
		expr parser.Expression
	}{
		{"mixed operand types", bin(ident("age"), lexer.EQ, ident("name"))},
		{"text ordering", bin(ident("name"), lexer.LT, lit(types.NewText("a")))},
		{"boolean arithmetic", bin(ident("ok"), lexer.PLUS, lit(types.NewBoolean(false)))},
		{"unknown attribute", ident("missing")},
	}
	for _, tt := range tests {
		_, err := TypeOf(tt.expr, env)
		require.Error(t, err, tt.desc)
	}
}

// The precedence quirk makes (a = b) < c reach the type checker as a
// Boolean < Integer comparison, which the matrix rejects.
func TestTypeOfEqualityThenOrderingFailsTypeCheck(t *testing.T) {
	env := map[string]types.ValueType{"a": types.Integer, "b": types.Integer, "c": types.Integer}
	expr := bin(bin(ident("a"), lexer.EQ, ident("b")), lexer.LT, ident("c"))
	_, err := TypeOf(expr, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := Eval(lexer.SLASH, types.NewInteger(1), types.NewInteger(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestEvalSharesTypeOfMatrix(t *testing.T) {
	v, err := Eval(lexer.STAR, types.NewInteger(6), types.NewInteger(7))
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Int())

	v, err = Eval(lexer.GTE, types.NewInteger(2), types.NewInteger(2))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	_, err = Eval(lexer.LT, types.NewText("a"), types.NewText("b"))
	require.Error(t, err, "text ordering is illegal at runtime too")
}

func TestFoldConstant(t *testing.T) {
	expr := bin(lit(types.NewInteger(1)), lexer.PLUS, bin(lit(types.NewInteger(2)), lexer.STAR, lit(types.NewInteger(3))))
	v, err := FoldConstant(expr)
	require.NoError(t, err)
	assert.Equal(t, int32(7), v.Int())
}

func TestFoldConstantRejectsIdentifiers(t *testing.T) {
	_, err := FoldConstant(bin(ident("age"), lexer.PLUS, lit(types.NewInteger(1))))
	require.Error(t, err)
}

func TestEvalExprResolvesIdentifiers(t *testing.T) {
	row := map[string]types.Value{"age": types.NewInteger(3)}
	lookup := func(name string) (types.Value, bool) {
		v, ok := row[name]
		return v, ok
	}

	v, err := EvalExpr(bin(ident("age"), lexer.LTE, lit(types.NewInteger(3))), lookup)
	require.NoError(t, err)
	assert.True(t, v.Bool())

	_, err = EvalExpr(ident("missing"), lookup)
	require.Error(t, err, "a lookup miss must surface as an error")
}
