package main

// Recursive-descent statement parser plus precedence climbing for
// expressions. The parser consumes the lexer's token stream (Init must have
// been called) and produces the Program tree the semantic passes walk.

func expect(tt TokenType) *CompileError {
	if CurrTokenType == ILLEGAL {
		return lexError("illegal token %q", CurrLiteral)
	}
	if CurrTokenType != tt {
		return syntaxError("expected %s, found %s %q", tt, CurrTokenType, CurrLiteral)
	}
	NextToken()
	return nil
}

// expectIdent consumes an IDENT and returns its name. Illegal tokens keep
// their lexical error code rather than degrading to a syntax error.
func expectIdent(what string) (string, error) {
	if CurrTokenType == ILLEGAL {
		return "", lexError("illegal token %q", CurrLiteral)
	}
	if CurrTokenType != IDENT {
		return "", syntaxError("expected %s, found %s %q", what, CurrTokenType, CurrLiteral)
	}
	name := CurrLiteral
	NextToken()
	return name, nil
}

// ParseProgram parses a whole source file: the fixed import line followed by
// class definitions.
func ParseProgram() (*Program, error) {
	NextToken()

	prog := &Program{}
	if err := expect(IMPORT); err != nil {
		return nil, err
	}
	if CurrTokenType != STRING || CurrLiteral != "std" {
		return nil, syntaxError(`import path must be "std"`)
	}
	prog.ImportPath = CurrLiteral
	NextToken()
	if err := expect(FOR); err != nil {
		return nil, err
	}
	if CurrTokenType != IDENT || CurrLiteral != "Std" {
		return nil, syntaxError(`import alias must be Std`)
	}
	prog.ImportAlias = CurrLiteral
	NextToken()

	for CurrTokenType != EOF {
		cls, err := parseClass()
		if err != nil {
			return nil, err
		}
		prog.Classes = append(prog.Classes, cls)
	}
	return prog, nil
}

func parseClass() (*Class, error) {
	if err := expect(CLASS); err != nil {
		return nil, err
	}
	name, err := expectIdent("class name")
	if err != nil {
		return nil, err
	}
	cls := &Class{Name: name}

	body, err := parseBlock()
	if err != nil {
		return nil, err
	}
	cls.Body = body
	return cls, nil
}

func parseBlock() (*ASTNode, error) {
	if err := expect(LBRACE); err != nil {
		return nil, err
	}
	block := &ASTNode{Kind: NodeBlock}
	for CurrTokenType != RBRACE {
		if CurrTokenType == EOF {
			return nil, syntaxError("unexpected end of file inside block")
		}
		stmt, err := ParseStatement()
		if err != nil {
			return nil, err
		}
		block.Children = append(block.Children, stmt)
	}
	NextToken() // closing brace
	return block, nil
}

// ParseStatement parses one statement or class member.
func ParseStatement() (*ASTNode, error) {
	switch CurrTokenType {
	case STATIC:
		return parseStaticMember()

	case VAR:
		NextToken()
		name, err := expectIdent("variable name after var")
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeVar, String: name}, nil

	case IDENT:
		name := CurrLiteral
		switch PeekToken() {
		case ASSIGN:
			NextToken() // name
			NextToken() // =
			value, err := ParseExpression()
			if err != nil {
				return nil, err
			}
			return &ASTNode{Kind: NodeAssign, String: name, Children: []*ASTNode{value}}, nil
		case LPAREN, DOT:
			return parseCall()
		default:
			return nil, syntaxError("expected = or ( after identifier %q", name)
		}

	case GLOBAL_IDENT:
		name := CurrLiteral
		NextToken()
		if err := expect(ASSIGN); err != nil {
			return nil, err
		}
		value, err := ParseExpression()
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeAssign, String: name, Children: []*ASTNode{value}}, nil

	case IF:
		NextToken()
		if err := expect(LPAREN); err != nil {
			return nil, err
		}
		cond, err := ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := expect(RPAREN); err != nil {
			return nil, err
		}
		thenBlock, err := parseBlock()
		if err != nil {
			return nil, err
		}
		node := &ASTNode{Kind: NodeIf, Children: []*ASTNode{cond, thenBlock}}
		if CurrTokenType == ELSE {
			NextToken()
			elseBlock, err := parseBlock()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, elseBlock)
		}
		return node, nil

	case WHILE:
		NextToken()
		if err := expect(LPAREN); err != nil {
			return nil, err
		}
		cond, err := ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := expect(RPAREN); err != nil {
			return nil, err
		}
		body, err := parseBlock()
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeWhile, Children: []*ASTNode{cond, body}}, nil

	case BREAK:
		NextToken()
		return &ASTNode{Kind: NodeBreak}, nil

	case CONTINUE:
		NextToken()
		return &ASTNode{Kind: NodeContinue}, nil

	case RETURN:
		NextToken()
		node := &ASTNode{Kind: NodeReturn}
		if startsExpression(CurrTokenType) {
			value, err := ParseExpression()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, value)
		}
		return node, nil

	case LBRACE:
		return parseBlock()

	case ILLEGAL:
		return nil, lexError("illegal token %q", CurrLiteral)

	default:
		return nil, syntaxError("unexpected %s %q at statement start", CurrTokenType, CurrLiteral)
	}
}

// parseStaticMember handles the three class-member forms behind `static`:
//
//	static name(p1, p2) { ... }   function
//	static name { ... }           getter
//	static name = p { ... }       setter
func parseStaticMember() (*ASTNode, error) {
	NextToken() // static
	name, err := expectIdent("member name after static")
	if err != nil {
		return nil, err
	}

	switch CurrTokenType {
	case LPAREN:
		NextToken()
		var params []string
		for CurrTokenType != RPAREN {
			param, err := expectIdent("parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if CurrTokenType == COMMA {
				NextToken()
			} else if CurrTokenType != RPAREN {
				return nil, syntaxError("expected , or ) in parameter list, found %s %q", CurrTokenType, CurrLiteral)
			}
		}
		NextToken() // )
		body, err := parseBlock()
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeFunction, String: name, ParamNames: params, Children: []*ASTNode{body}}, nil

	case LBRACE:
		body, err := parseBlock()
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeGetter, String: name, Children: []*ASTNode{body}}, nil

	case ASSIGN:
		NextToken()
		param, err := expectIdent("setter parameter name")
		if err != nil {
			return nil, err
		}
		body, err := parseBlock()
		if err != nil {
			return nil, err
		}
		return &ASTNode{Kind: NodeSetter, String: name, ParamNames: []string{param}, Children: []*ASTNode{body}}, nil

	default:
		return nil, syntaxError("expected (, { or = after static %s, found %s %q", name, CurrTokenType, CurrLiteral)
	}
}

// parseCall parses `name(args)` or `Alias.name(args)`; the current token is
// the first identifier.
func parseCall() (*ASTNode, error) {
	name := CurrLiteral
	NextToken()
	if CurrTokenType == DOT {
		NextToken()
		member, err := expectIdent("name after " + name + ".")
		if err != nil {
			return nil, err
		}
		name = name + "." + member
	}
	if err := expect(LPAREN); err != nil {
		return nil, err
	}
	call := &ASTNode{Kind: NodeCall, String: name}
	for CurrTokenType != RPAREN {
		arg, err := ParseExpression()
		if err != nil {
			return nil, err
		}
		call.Children = append(call.Children, arg)
		if CurrTokenType == COMMA {
			NextToken()
		} else if CurrTokenType != RPAREN {
			return nil, syntaxError("expected , or ) in argument list, found %s %q", CurrTokenType, CurrLiteral)
		}
	}
	NextToken() // )
	return call, nil
}

func startsExpression(tt TokenType) bool {
	switch tt {
	case IDENT, GLOBAL_IDENT, INT, FLOAT, STRING, TRUE, FALSE, NULL, LPAREN, BANG:
		return true
	}
	return false
}

// Binary operator precedence. Ternary sits at level 3 and is handled
// specially inside the climbing loop.
func precedence(tt TokenType) int {
	switch tt {
	case OR:
		return 1
	case AND:
		return 2
	case QUESTION:
		return 3
	case EQ, NOT_EQ, IS:
		return 4
	case LT, LE, GT, GE:
		return 5
	case PLUS, MINUS, CONCAT:
		return 6
	case ASTERISK, SLASH:
		return 7
	default:
		return 0
	}
}

func isOperator(tt TokenType) bool {
	return precedence(tt) > 0
}

// ParseExpression parses an expression and returns an AST node.
func ParseExpression() (*ASTNode, error) {
	return parseExpressionWithPrecedence(0)
}

func parseExpressionWithPrecedence(minPrec int) (*ASTNode, error) {
	var left *ASTNode

	if CurrTokenType == BANG {
		NextToken()
		operand, err := parseExpressionWithPrecedence(7)
		if err != nil {
			return nil, err
		}
		left = &ASTNode{Kind: NodeUnary, Op: "not", Children: []*ASTNode{operand}}
	} else {
		var err error
		left, err = parsePrimary()
		if err != nil {
			return nil, err
		}
	}

	// postfix not-null assertion: expr!
	// `!` binds postfix only when the next token cannot start an operand.
	for CurrTokenType == BANG && !startsExpression(PeekToken()) {
		NextToken()
		left = &ASTNode{Kind: NodeUnary, Op: "not-null", Children: []*ASTNode{left}}
	}

	for {
		if !isOperator(CurrTokenType) || precedence(CurrTokenType) < minPrec {
			break
		}

		if CurrTokenType == QUESTION {
			// c ? a : b, right-associative
			NextToken()
			thenExpr, err := parseExpressionWithPrecedence(3)
			if err != nil {
				return nil, err
			}
			if err := expect(COLON); err != nil {
				return nil, err
			}
			elseExpr, err := parseExpressionWithPrecedence(3)
			if err != nil {
				return nil, err
			}
			left = &ASTNode{Kind: NodeTernary, Children: []*ASTNode{left, thenExpr, elseExpr}}
			continue
		}

		if CurrTokenType == IS {
			NextToken()
			switch CurrTokenType {
			case TYPE_NUM, TYPE_STRING, TYPE_NULL:
				left = &ASTNode{Kind: NodeIs, String: CurrLiteral, Children: []*ASTNode{left}}
				NextToken()
			default:
				// Anything else on the right of `is` parses but is
				// rejected by the analyzer, not the parser.
				rhs, err := parseExpressionWithPrecedence(5)
				if err != nil {
					return nil, err
				}
				left = &ASTNode{Kind: NodeIs, Children: []*ASTNode{left, rhs}}
			}
			continue
		}

		op := CurrLiteral
		if CurrTokenType == AND {
			op = "and"
		} else if CurrTokenType == OR {
			op = "or"
		}
		prec := precedence(CurrTokenType)
		NextToken()
		right, err := parseExpressionWithPrecedence(prec + 1) // left-associative
		if err != nil {
			return nil, err
		}
		left = &ASTNode{Kind: NodeBinary, Op: op, Children: []*ASTNode{left, right}}
	}

	return left, nil
}

func parsePrimary() (*ASTNode, error) {
	switch CurrTokenType {
	case INT:
		node := &ASTNode{Kind: NodeIntLit, Integer: CurrIntValue}
		NextToken()
		return node, nil

	case FLOAT:
		node := &ASTNode{Kind: NodeFloatLit, Float: CurrFloatValue}
		NextToken()
		return node, nil

	case STRING:
		node := &ASTNode{Kind: NodeStringLit, String: CurrLiteral}
		NextToken()
		return node, nil

	case TRUE, FALSE:
		node := &ASTNode{Kind: NodeBoolLit, Bool: CurrTokenType == TRUE}
		NextToken()
		return node, nil

	case NULL:
		NextToken()
		return &ASTNode{Kind: NodeNullLit}, nil

	case IDENT:
		if next := PeekToken(); next == LPAREN || next == DOT {
			return parseCall()
		}
		node := &ASTNode{Kind: NodeIdent, String: CurrLiteral}
		NextToken()
		return node, nil

	case GLOBAL_IDENT:
		node := &ASTNode{Kind: NodeIdent, String: CurrLiteral}
		NextToken()
		return node, nil

	case LPAREN:
		NextToken()
		inner, err := ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := expect(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case ILLEGAL:
		return nil, lexError("illegal token %q", CurrLiteral)

	default:
		return nil, syntaxError("unexpected %s %q in expression", CurrTokenType, CurrLiteral)
	}
}
