package parser

import (
	"fmt"

	"nanodb/pkg/sql/lexer"
	"nanodb/pkg/types"
)

// Error reports a parse failure: an unexpected token, or input that ran
// out before a required token.
type Error struct {
	Reason string
	Pos    int
}

func (e *Error) Error() string { return fmt.Sprintf("parser: %s (at byte %d)", e.Reason, e.Pos) }

// precedence gives each infix operator its binding strength. Addition and
// multiplication follow the usual arithmetic convention. The two
// comparison groups are deliberately NOT in the "natural" order: L0
// (equality) binds tighter than L1 (ordering), so that `a = b < c`
// parses as `(a = b) < c` rather than `a = (b < c)`.
var precedence = map[lexer.TokenType]int{
	lexer.LT:    1,
	lexer.GT:    1,
	lexer.LTE:   1,
	lexer.GTE:   1,
	lexer.EQ:    2,
	lexer.NEQ:   2,
	lexer.PLUS:  3,
	lexer.MINUS: 3,
	lexer.STAR:  4,
	lexer.SLASH: 4,
}

// Parser consumes a token stream with one token of lookahead.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
	err  error
}

func New(input string) (*Parser, error) {
	p := &Parser{l: lexer.New(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, &Error{
			Reason: fmt.Sprintf("expected %s, got %s", t, p.cur.Type),
			Pos:    p.cur.Pos,
		}
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// ParseStatement parses exactly one top-level statement, including its
// required trailing semicolon.
func (p *Parser) ParseStatement() (Statement, error) {
	var stmt Statement
	var err error

	switch p.cur.Type {
	case lexer.CREATE:
		stmt, err = p.parseCreateTable()
	case lexer.INSERT:
		stmt, err = p.parseInsert()
	case lexer.SELECT:
		stmt, err = p.parseSelect()
	default:
		return nil, &Error{Reason: fmt.Sprintf("expected CREATE, INSERT, or SELECT, got %s", p.cur.Type), Pos: p.cur.Pos}
	}
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseCreateTable() (*CreateTableStmt, error) {
	if _, err := p.expect(lexer.CREATE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for {
		colName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}

		var typ types.ValueType
		switch p.cur.Type {
		case lexer.INTEGERKW:
			typ = types.Integer
			if err := p.advance(); err != nil {
				return nil, err
			}
		case lexer.VARCHAR:
			typ = types.Text
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			return nil, &Error{Reason: fmt.Sprintf("expected INTEGER or VARCHAR, got %s", p.cur.Type), Pos: p.cur.Pos}
		}

		pk := false
		if p.cur.Type == lexer.PRIMARYKEY {
			pk = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}

		cols = append(cols, ColumnDef{Name: colName.Literal, Type: typ, PrimaryKey: pk})

		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &CreateTableStmt{TableName: name.Literal, Columns: cols}, nil
}

func (p *Parser) parseInsert() (*InsertStmt, error) {
	if _, err := p.expect(lexer.INSERT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var cols []string
	for {
		col, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col.Literal)
		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var values []Expression
	for {
		// A value is either a bare string literal or an expression;
		// string literals are not expression atoms, so they are consumed
		// here rather than inside the expression grammar.
		var expr Expression
		if p.cur.Type == lexer.STRING {
			expr = &Literal{Value: types.NewText(p.cur.Literal)}
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			var err error
			expr, err = p.parseExpression(0)
			if err != nil {
				return nil, err
			}
		}
		values = append(values, expr)
		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &InsertStmt{TableName: name.Literal, Columns: cols, Values: values}, nil
}

func (p *Parser) parseSelect() (*SelectStmt, error) {
	return p.parseSelectStmt()
}

// parseSelectStmt parses the SELECT grammar without consuming a trailing
// semicolon, so it can also be used for parenthesized sub-selects.
func (p *Parser) parseSelectStmt() (*SelectStmt, error) {
	if _, err := p.expect(lexer.SELECT); err != nil {
		return nil, err
	}

	cols, err := p.parseSelectColumns()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	from, err := p.parseTableSource()
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Columns: cols, From: from}

	if p.cur.Type == lexer.INNERJOIN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTableSource()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ON); err != nil {
			return nil, err
		}
		cond, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		stmt.Join = &JoinClause{Right: right, Condition: cond}
		return stmt, nil
	}

	if p.cur.Type == lexer.WHERE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		stmt.Where = cond
	}

	return stmt, nil
}

func (p *Parser) parseSelectColumns() (SelectColumns, error) {
	if p.cur.Type == lexer.STAR {
		if err := p.advance(); err != nil {
			return SelectColumns{}, err
		}
		return SelectColumns{Star: true}, nil
	}

	var names []string
	for {
		id, err := p.expect(lexer.IDENT)
		if err != nil {
			return SelectColumns{}, err
		}
		names = append(names, id.Literal)
		if p.cur.Type == lexer.COMMA {
			if err := p.advance(); err != nil {
				return SelectColumns{}, err
			}
			continue
		}
		break
	}
	return SelectColumns{Names: names}, nil
}

// parseTableSource parses "table_name" or "( SELECT ... )", followed by
// an optional "AS alias".
func (p *Parser) parseTableSource() (TableSource, error) {
	var source TableSource

	if p.cur.Type == lexer.LPAREN {
		if err := p.advance(); err != nil {
			return TableSource{}, err
		}
		sub, err := p.parseSelectStmt()
		if err != nil {
			return TableSource{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return TableSource{}, err
		}
		source.Subquery = sub
	} else {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return TableSource{}, err
		}
		source.TableName = name.Literal
	}

	if p.cur.Type == lexer.AS {
		if err := p.advance(); err != nil {
			return TableSource{}, err
		}
		alias, err := p.expect(lexer.IDENT)
		if err != nil {
			return TableSource{}, err
		}
		source.Alias = alias.Literal
	}

	return source, nil
}

// parseExpression implements precedence climbing: parse a prefix/atom,
// then keep absorbing infix operators whose precedence is high enough.
func (p *Parser) parseExpression(minPrec int) (Expression, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		prec, isOp := precedence[p.cur.Type]
		if !isOp || prec < minPrec {
			break
		}
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}

	return left, nil
}

func (p *Parser) parseAtom() (Expression, error) {
	switch p.cur.Type {
	case lexer.INT:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := parseInt32(tok.Literal)
		if err != nil {
			return nil, &Error{Reason: err.Error(), Pos: tok.Pos}
		}
		return &Literal{Value: types.NewInteger(n)}, nil
	case lexer.TRUEKW:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Value: types.NewBoolean(true)}, nil
	case lexer.FALSEKW:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Value: types.NewBoolean(false)}, nil
	case lexer.IDENT:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Identifier{Name: tok.Literal}, nil
	case lexer.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, &Error{Reason: fmt.Sprintf("expected an expression, got %s", p.cur.Type), Pos: p.cur.Pos}
	}
}

func parseInt32(s string) (int32, error) {
	var v int64
	for i := 0; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
		if v > (1<<31)-1 {
			return 0, fmt.Errorf("integer literal %q overflows 32 bits", s)
		}
	}
	return int32(v), nil
}
