package translator

import (
	"fmt"

	"nanodb/pkg/catalog"
	"nanodb/pkg/sql/lexer"
	"nanodb/pkg/sql/parser"
	"nanodb/pkg/types"
)

// Error reports a name- or type-resolution failure.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("translator: %s", e.Reason) }

func errf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

func schemaEnv(attrs catalog.Attributes) map[string]types.ValueType {
	env := make(map[string]types.ValueType, len(attrs))
	for _, a := range attrs {
		env[a.Name] = a.Type
	}
	return env
}

// TypeOf type-checks expr against env (attribute name -> type) and
// returns the type it evaluates to, following the exact matrix: Integer
// supports arithmetic (-> Integer) and comparison (-> Boolean); Text and
// Boolean support only equality/inequality (-> Boolean); operand types on
// either side of a binary operator must match exactly.
func TypeOf(expr parser.Expression, env map[string]types.ValueType) (types.ValueType, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value.Type(), nil
	case *parser.Identifier:
		t, ok := env[e.Name]
		if !ok {
			return 0, errf("no such attribute %q", e.Name)
		}
		return t, nil
	case *parser.BinaryExpr:
		lt, err := TypeOf(e.Left, env)
		if err != nil {
			return 0, err
		}
		rt, err := TypeOf(e.Right, env)
		if err != nil {
			return 0, err
		}
		if lt != rt {
			return 0, errf("type mismatch: %s vs %s", lt, rt)
		}
		return resultType(lt, e.Op)
	default:
		return 0, errf("unsupported expression type %T", expr)
	}
}

func resultType(operand types.ValueType, op lexer.TokenType) (types.ValueType, error) {
	switch operand {
	case types.Integer:
		switch op {
		case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH:
			return types.Integer, nil
		case lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
			return types.Boolean, nil
		}
	case types.Boolean, types.Text:
		switch op {
		case lexer.EQ, lexer.NEQ:
			return types.Boolean, nil
		}
	}
	return 0, errf("operator %s not supported for type %s", op, operand)
}

// Eval applies op to two already-typed values, sharing the exact same
// matrix as TypeOf so constant folding and runtime predicate evaluation
// can never disagree about what's legal.
func Eval(op lexer.TokenType, left, right types.Value) (types.Value, error) {
	if left.Type() != right.Type() {
		return types.Value{}, errf("type mismatch: %s vs %s", left.Type(), right.Type())
	}

	switch left.Type() {
	case types.Integer:
		a, b := left.Int(), right.Int()
		switch op {
		case lexer.PLUS:
			return types.NewInteger(a + b), nil
		case lexer.MINUS:
			return types.NewInteger(a - b), nil
		case lexer.STAR:
			return types.NewInteger(a * b), nil
		case lexer.SLASH:
			if b == 0 {
				return types.Value{}, errf("division by zero")
			}
			return types.NewInteger(a / b), nil
		case lexer.EQ:
			return types.NewBoolean(a == b), nil
		case lexer.NEQ:
			return types.NewBoolean(a != b), nil
		case lexer.LT:
			return types.NewBoolean(a < b), nil
		case lexer.GT:
			return types.NewBoolean(a > b), nil
		case lexer.LTE:
			return types.NewBoolean(a <= b), nil
		case lexer.GTE:
			return types.NewBoolean(a >= b), nil
		}
	case types.Boolean:
		a, b := left.Bool(), right.Bool()
		switch op {
		case lexer.EQ:
			return types.NewBoolean(a == b), nil
		case lexer.NEQ:
			return types.NewBoolean(a != b), nil
		}
	case types.Text:
		a, b := left.Str(), right.Str()
		switch op {
		case lexer.EQ:
			return types.NewBoolean(a == b), nil
		case lexer.NEQ:
			return types.NewBoolean(a != b), nil
		}
	}
	return types.Value{}, errf("operator %s not supported for type %s", op, left.Type())
}

// EvalExpr evaluates expr to a concrete value, resolving identifiers via
// lookup. Used by the executor's predicate evaluation: lookup reads from
// a decoded row.
func EvalExpr(expr parser.Expression, lookup func(name string) (types.Value, bool)) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.Identifier:
		v, ok := lookup(e.Name)
		if !ok {
			return types.Value{}, errf("no such attribute %q", e.Name)
		}
		return v, nil
	case *parser.BinaryExpr:
		l, err := EvalExpr(e.Left, lookup)
		if err != nil {
			return types.Value{}, err
		}
		r, err := EvalExpr(e.Right, lookup)
		if err != nil {
			return types.Value{}, err
		}
		return Eval(e.Op, l, r)
	default:
		return types.Value{}, errf("unsupported expression type %T", expr)
	}
}

// FoldConstant evaluates an INSERT value expression down to a literal.
// Identifiers are rejected outright since INSERT values may not reference
// columns; the rest shares Eval's arithmetic/comparison matrix.
func FoldConstant(expr parser.Expression) (types.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.Identifier:
		return types.Value{}, errf("identifiers cannot appear here")
	case *parser.BinaryExpr:
		l, err := FoldConstant(e.Left)
		if err != nil {
			return types.Value{}, err
		}
		r, err := FoldConstant(e.Right)
		if err != nil {
			return types.Value{}, err
		}
		return Eval(e.Op, l, r)
	default:
		return types.Value{}, errf("unsupported expression in insert value")
	}
}
